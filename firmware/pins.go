//go:build tinygo

package main

import "machine"

const (
	PIN_ADC    = machine.A1
	PIN_STATUS = machine.LED

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // 3.3V reference
	ADC_RESOLUTION   = 12   // 12-bit resolution

	// Serial configuration
	// One 8 byte frame per 4.096 ms window is under 2 KB/s; the high rate keeps
	// a write short compared to a window.
	UART_BAUD_RATE = 2_000_000

	// Acquisition
	SAMPLE_RATE        = 500_000 // Samples per second
	WINDOW_SIZE        = 2048    // Samples per window
	SAMPLE_INTERVAL_US = 2       // Pacing between samples
	QUEUE_CAPACITY     = 4       // Frames waiting for the UART
)
