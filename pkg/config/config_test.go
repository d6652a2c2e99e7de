package config

import (
	"os"
	"testing"
	"time"

	"github.com/itohio/gopulse/pkg/measure"
	"github.com/itohio/gopulse/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "test_config_*.yaml")
	require.NoError(t, err)
	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	return tmpfile.Name()
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, 500_000, cfg.Sampling.Rate)
	assert.Equal(t, 2*time.Microsecond, cfg.Sampling.Pacing)
	assert.Equal(t, 2048, cfg.Window.Size)
	assert.False(t, cfg.Window.ClearOnReset)
	assert.Zero(t, cfg.Peak.MinSeparation)
	assert.Equal(t, 3.3, cfg.Amplitude.VRef)
	assert.Equal(t, uint16(4095), cfg.Amplitude.FullScale)
	assert.Equal(t, "peak", cfg.Amplitude.Mode)
	assert.Equal(t, 4, cfg.Queue.Capacity)
	assert.Equal(t, "compact", cfg.Link.Format)
	assert.Equal(t, 2_000_000, cfg.Serial.BaudRate)
	assert.Equal(t, "abort", cfg.Acquisition.OnError)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ValidYAML(t *testing.T) {
	name := writeTemp(t, `
sampling:
  rate: 250000
  pacing: 4us
  clock: wall

window:
  size: 1024
  clear_on_reset: true

peak:
  min_separation: 100us

amplitude:
  vref: 5.0
  full_scale: 1023
  mode: peak_to_peak

queue:
  capacity: 8

link:
  sink: mqtt
  format: extended

serial:
  port: "/dev/ttyUSB1"
  baud_rate: 921600

mqtt:
  broker: "tcp://broker:1883"
  topic: "lab/scope"
  qos: 1

acquisition:
  source: file
  file: capture.bin
  on_error: skip
`)

	cfg, err := Load(name)
	require.NoError(t, err)

	assert.Equal(t, 250000, cfg.Sampling.Rate)
	assert.Equal(t, 4*time.Microsecond, cfg.Sampling.Pacing)
	assert.Equal(t, "wall", cfg.Sampling.Clock)
	assert.Equal(t, 1024, cfg.Window.Size)
	assert.True(t, cfg.Window.ClearOnReset)
	assert.Equal(t, 100*time.Microsecond, cfg.Peak.MinSeparation)
	assert.Equal(t, 8, cfg.Queue.Capacity)
	assert.Equal(t, "mqtt", cfg.Link.Sink)
	assert.Equal(t, record.Extended, cfg.FrameFormat())
	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 921600, cfg.Serial.BaudRate)
	assert.Equal(t, "lab/scope", cfg.MQTT.Topic)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, "capture.bin", cfg.Acquisition.File)
	assert.Equal(t, "skip", cfg.Acquisition.OnError)

	p := cfg.MeasureParams()
	assert.Equal(t, measure.Params{
		SampleRate:        250000,
		WindowSize:        1024,
		VRef:              5.0,
		FullScale:         1023,
		AmplitudeMode:     measure.PeakToPeak,
		MinPeakSeparation: 100 * time.Microsecond,
		ClearOnReset:      true,
	}, p)
}

func TestLoad_InvalidYAML(t *testing.T) {
	name := writeTemp(t, "invalid: yaml: content: [")

	cfg, err := Load(name)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "negative rate", content: "sampling:\n  rate: -1\n"},
		{name: "unknown mode", content: "amplitude:\n  mode: rms\n"},
		{name: "unknown format", content: "link:\n  format: json\n"},
		{name: "unknown sink", content: "link:\n  sink: carrier-pigeon\n"},
		{name: "unknown source", content: "acquisition:\n  source: microphone\n"},
		{name: "unknown policy", content: "acquisition:\n  on_error: retry\n"},
		{name: "negative separation", content: "peak:\n  min_separation: -1ms\n"},
		{name: "shared serial port", content: "acquisition:\n  source: serial\n  port: /dev/ttyACM0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeTemp(t, tt.content))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_SeparateSerialPorts(t *testing.T) {
	cfg, err := Load(writeTemp(t, `
acquisition:
  source: serial
  port: /dev/ttyUSB0
serial:
  port: /dev/ttyACM0
`))
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Acquisition.Port)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
}

func TestLoad_PartialYAML(t *testing.T) {
	name := writeTemp(t, `
serial:
  port: "/dev/ttyACM1"
`)

	cfg, err := Load(name)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM1", cfg.Serial.Port)
	assert.Equal(t, 2_000_000, cfg.Serial.BaudRate) // default
	assert.Equal(t, 2048, cfg.Window.Size)          // default
	assert.Equal(t, 4, cfg.Queue.Capacity)          // default
}

func TestLoad_ExplicitZeroFallsBackToDefault(t *testing.T) {
	name := writeTemp(t, `
window:
  size: 0
queue:
  capacity: 0
`)

	cfg, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.Window.Size)
	assert.Equal(t, 4, cfg.Queue.Capacity)
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Window.Size = 4096
	cfg.Peak.MinSeparation = 50 * time.Microsecond

	name := writeTemp(t, "")
	require.NoError(t, cfg.Save(name))

	loaded, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMeasureParams_Defaults(t *testing.T) {
	assert.Equal(t, measure.DefaultParams(), Default().MeasureParams())
}
