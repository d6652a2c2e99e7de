//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"

	"github.com/itohio/gopulse/pkg/measure"
	"github.com/itohio/gopulse/pkg/record"
)

var (
	adc  machine.ADC
	uart = machine.UART0

	frames = make(chan []byte, QUEUE_CAPACITY)
)

func main() {
	PIN_STATUS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_ADC.Configure(machine.PinConfig{Mode: machine.PinInput})

	adc = machine.ADC{Pin: PIN_ADC}
	adc.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	params := measure.DefaultParams()
	params.SampleRate = SAMPLE_RATE
	params.WindowSize = WINDOW_SIZE
	state := measure.New(params, measure.WithClock(measure.WallClock()))

	go transmit()
	sample(state)
}

// sample is the acquisition task. It owns the measurement state.
func sample(state *measure.State) {
	status := false
	for {
		// Get returns a left-aligned 16-bit value regardless of resolution.
		state.ProcessSample(adc.Get() >> 4)

		if state.BufferFull() {
			frames <- record.Encode(nil, state.Metrics(), record.Compact) // blocks while the transmitter is behind
			state.Reset()

			status = !status
			PIN_STATUS.Set(status)
		}

		time.Sleep(SAMPLE_INTERVAL_US * time.Microsecond)
	}
}

// transmit is the transmission task. A failed write drops the frame.
func transmit() {
	for frame := range frames {
		n, err := uart.Write(frame)
		if err != nil || n != len(frame) {
			println("transmit failed:", n, "of", len(frame))
		}
	}
}
