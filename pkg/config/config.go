package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/gopulse/pkg/measure"
	"github.com/itohio/gopulse/pkg/record"
)

// Config represents the application configuration.
type Config struct {
	Sampling    SamplingConfig    `yaml:"sampling"`
	Window      WindowConfig      `yaml:"window"`
	Peak        PeakConfig        `yaml:"peak"`
	Amplitude   AmplitudeConfig   `yaml:"amplitude"`
	Queue       QueueConfig       `yaml:"queue"`
	Link        LinkConfig        `yaml:"link"`
	Serial      SerialConfig      `yaml:"serial"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Acquisition AcquisitionConfig `yaml:"acquisition"`
	Mock        MockConfig        `yaml:"mock"`
	Monitor     MonitorConfig     `yaml:"monitor"`
}

// SamplingConfig contains ADC timing parameters.
type SamplingConfig struct {
	Rate   int           `yaml:"rate"`   // Samples per second
	Pacing time.Duration `yaml:"pacing"` // Delay after each sample
	Clock  string        `yaml:"clock"`  // "sample" (derived from sample count) or "wall"
}

// WindowConfig contains acquisition window parameters.
type WindowConfig struct {
	Size         int  `yaml:"size"`           // Samples per window
	ClearOnReset bool `yaml:"clear_on_reset"` // Zero the buffer between windows
}

// PeakConfig contains peak detector parameters.
type PeakConfig struct {
	MinSeparation time.Duration `yaml:"min_separation"` // 0 disables the gate
}

// AmplitudeConfig contains voltage scaling parameters.
type AmplitudeConfig struct {
	VRef      float64 `yaml:"vref"`       // Reference voltage (V)
	FullScale uint16  `yaml:"full_scale"` // ADC code at VRef
	Mode      string  `yaml:"mode"`       // "peak" or "peak_to_peak"
}

// QueueConfig contains hand-off queue parameters.
type QueueConfig struct {
	Capacity int `yaml:"capacity"`
}

// LinkConfig selects where measurement frames go and how they are laid out.
type LinkConfig struct {
	Sink   string `yaml:"sink"`   // "serial", "mqtt" or "log"
	Format string `yaml:"format"` // "compact" or "extended"
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// MQTTConfig contains MQTT sink configuration.
type MQTTConfig struct {
	Broker   string        `yaml:"broker"`
	Topic    string        `yaml:"topic"`
	QoS      byte          `yaml:"qos"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// MetricsConfig contains Prometheus endpoint configuration.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // Empty disables the endpoint
}

// AcquisitionConfig contains the sample source configuration.
type AcquisitionConfig struct {
	Source  string `yaml:"source"`   // "mock", "serial" or "file"
	File    string `yaml:"file"`     // Capture file for the "file" source
	Port    string `yaml:"port"`     // Serial port for the "serial" source
	OnError string `yaml:"on_error"` // "abort" or "skip"
}

// MockConfig contains synthetic signal configuration.
type MockConfig struct {
	Frequency float64 `yaml:"frequency"` // Pulse repetition frequency (Hz)
	Width     float64 `yaml:"width"`     // Pulse width (s)
	Baseline  uint16  `yaml:"baseline"`  // Idle level (ADC code)
	Peak      uint16  `yaml:"peak"`      // Pulse top (ADC code)
	Noise     uint16  `yaml:"noise"`     // Peak-to-peak noise (ADC codes)
	Seed      uint64  `yaml:"seed"`      // Noise generator seed
}

// MonitorConfig contains receiver configuration.
type MonitorConfig struct {
	History  int           `yaml:"history"`  // Measurements kept for statistics
	Interval time.Duration `yaml:"interval"` // Summary log interval
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Sampling: SamplingConfig{
			Rate:   measure.DefaultSampleRate,
			Pacing: 2 * time.Microsecond,
			Clock:  "sample",
		},
		Window: WindowConfig{
			Size: measure.DefaultWindowSize,
		},
		Amplitude: AmplitudeConfig{
			VRef:      measure.DefaultVRef,
			FullScale: measure.DefaultFullScale,
			Mode:      "peak",
		},
		Queue: QueueConfig{
			Capacity: 4,
		},
		Link: LinkConfig{
			Sink:   "serial",
			Format: "compact",
		},
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: 2_000_000,
		},
		MQTT: MQTTConfig{
			Broker:  "tcp://localhost:1883",
			Topic:   "gopulse/measurements",
			QoS:     0,
			Timeout: 5 * time.Second,
		},
		Metrics: MetricsConfig{
			Listen: ":9100",
		},
		Acquisition: AcquisitionConfig{
			Source:  "mock",
			OnError: "abort",
		},
		Mock: MockConfig{
			Frequency: 250,
			Width:     200e-6,
			Baseline:  200,
			Peak:      3600,
			Noise:     40,
			Seed:      1,
		},
		Monitor: MonitorConfig{
			History:  256,
			Interval: 5 * time.Second,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Sampling.Rate <= 0 {
		return fmt.Errorf("sampling.rate must be positive, got %d", c.Sampling.Rate)
	}
	if c.Sampling.Pacing < 0 {
		return fmt.Errorf("sampling.pacing must not be negative, got %s", c.Sampling.Pacing)
	}
	switch c.Sampling.Clock {
	case "sample", "wall":
	default:
		return fmt.Errorf("unknown sampling.clock %q", c.Sampling.Clock)
	}
	if c.Window.Size <= 0 {
		return fmt.Errorf("window.size must be positive, got %d", c.Window.Size)
	}
	if c.Peak.MinSeparation < 0 {
		return fmt.Errorf("peak.min_separation must not be negative, got %s", c.Peak.MinSeparation)
	}
	if _, err := measure.ParseAmplitudeMode(c.Amplitude.Mode); err != nil {
		return fmt.Errorf("amplitude.mode: %w", err)
	}
	if c.Queue.Capacity <= 0 {
		return fmt.Errorf("queue.capacity must be positive, got %d", c.Queue.Capacity)
	}
	if _, err := record.ParseFormat(c.Link.Format); err != nil {
		return fmt.Errorf("link.format: %w", err)
	}
	switch c.Link.Sink {
	case "serial", "mqtt", "log":
	default:
		return fmt.Errorf("unknown link.sink %q", c.Link.Sink)
	}
	switch c.Acquisition.Source {
	case "mock", "serial", "file":
	default:
		return fmt.Errorf("unknown acquisition.source %q", c.Acquisition.Source)
	}
	if c.Acquisition.Source == "serial" && c.Link.Sink == "serial" && c.Acquisition.Port == c.Serial.Port {
		return fmt.Errorf("acquisition.port and serial.port are both %q; a serial port can only be opened once", c.Serial.Port)
	}
	switch c.Acquisition.OnError {
	case "abort", "skip":
	default:
		return fmt.Errorf("unknown acquisition.on_error %q", c.Acquisition.OnError)
	}
	return nil
}

// MeasureParams projects the configuration onto the processing core.
// Call after Validate; unparseable modes fall back to their defaults.
func (c *Config) MeasureParams() measure.Params {
	mode, _ := measure.ParseAmplitudeMode(c.Amplitude.Mode)
	return measure.Params{
		SampleRate:        c.Sampling.Rate,
		WindowSize:        c.Window.Size,
		VRef:              c.Amplitude.VRef,
		FullScale:         c.Amplitude.FullScale,
		AmplitudeMode:     mode,
		MinPeakSeparation: c.Peak.MinSeparation,
		ClearOnReset:      c.Window.ClearOnReset,
	}
}

// FrameFormat returns the configured wire format.
func (c *Config) FrameFormat() record.Format {
	f, _ := record.ParseFormat(c.Link.Format)
	return f
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Sampling.Rate == 0 {
		c.Sampling.Rate = def.Sampling.Rate
	}
	if c.Sampling.Clock == "" {
		c.Sampling.Clock = def.Sampling.Clock
	}

	if c.Window.Size == 0 {
		c.Window.Size = def.Window.Size
	}

	if c.Amplitude.VRef == 0 {
		c.Amplitude.VRef = def.Amplitude.VRef
	}
	if c.Amplitude.FullScale == 0 {
		c.Amplitude.FullScale = def.Amplitude.FullScale
	}
	if c.Amplitude.Mode == "" {
		c.Amplitude.Mode = def.Amplitude.Mode
	}

	if c.Queue.Capacity == 0 {
		c.Queue.Capacity = def.Queue.Capacity
	}

	if c.Link.Sink == "" {
		c.Link.Sink = def.Link.Sink
	}
	if c.Link.Format == "" {
		c.Link.Format = def.Link.Format
	}

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.MQTT.Broker == "" {
		c.MQTT.Broker = def.MQTT.Broker
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = def.MQTT.Topic
	}
	if c.MQTT.Timeout == 0 {
		c.MQTT.Timeout = def.MQTT.Timeout
	}

	if c.Acquisition.Source == "" {
		c.Acquisition.Source = def.Acquisition.Source
	}
	if c.Acquisition.OnError == "" {
		c.Acquisition.OnError = def.Acquisition.OnError
	}

	if c.Mock.Frequency == 0 {
		c.Mock.Frequency = def.Mock.Frequency
	}
	if c.Mock.Width == 0 {
		c.Mock.Width = def.Mock.Width
	}
	if c.Mock.Peak == 0 {
		c.Mock.Peak = def.Mock.Peak
	}

	if c.Monitor.History == 0 {
		c.Monitor.History = def.Monitor.History
	}
	if c.Monitor.Interval == 0 {
		c.Monitor.Interval = def.Monitor.Interval
	}
}
