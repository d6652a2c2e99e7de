// Package metrics exposes pipeline counters and the latest measurement as
// Prometheus collectors. All methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itohio/gopulse/pkg/record"
)

const namespace = "gopulse"

// Metrics holds all collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	fwhm      prometheus.Gauge // Last window FWHM (µs)
	amplitude prometheus.Gauge // Last window amplitude (V)
	frequency prometheus.Gauge // Last window frequency (Hz)

	samples           prometheus.Counter
	peaks             prometheus.Counter
	windows           prometheus.Counter
	acquisitionErrors prometheus.Counter
	framesSent        prometheus.Counter
	transmitErrors    prometheus.Counter
	framesReceived    prometheus.Counter
	framesDropped     prometheus.Counter
	queueDepth        prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		fwhm: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fwhm_microseconds",
			Help:      "Full width at half maximum of the last completed window",
		}),
		amplitude: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "amplitude_volts",
			Help:      "Amplitude of the last completed window",
		}),
		frequency: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frequency_hertz",
			Help:      "Peak repetition frequency at the last completed window",
		}),
		samples: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Samples processed",
		}),
		peaks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "peaks_total",
			Help:      "Samples classified as peaks",
		}),
		windows: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "windows_total",
			Help:      "Completed acquisition windows",
		}),
		acquisitionErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acquisition_errors_total",
			Help:      "Failed sample reads",
		}),
		framesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Measurement frames written to the link",
		}),
		transmitErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transmit_errors_total",
			Help:      "Measurement frames dropped because the write failed",
		}),
		framesReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Measurement frames decoded by the receiver",
		}),
		framesDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Received frames rejected as invalid",
		}),
		queueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Frames waiting in the hand-off queue",
		}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveWindow records a completed window.
func (m *Metrics) ObserveWindow(rec record.Measurement) {
	if m == nil {
		return
	}
	m.fwhm.Set(float64(rec.FWHM))
	m.amplitude.Set(float64(rec.Amplitude))
	m.frequency.Set(float64(rec.Frequency))
	m.windows.Inc()
}

// ObserveSamples adds processed samples and detected peaks.
func (m *Metrics) ObserveSamples(samples, peaks uint64) {
	if m == nil {
		return
	}
	m.samples.Add(float64(samples))
	m.peaks.Add(float64(peaks))
}

// AcquisitionFailed counts a failed sample read.
func (m *Metrics) AcquisitionFailed() {
	if m == nil {
		return
	}
	m.acquisitionErrors.Inc()
}

// FrameSent counts a successful link write.
func (m *Metrics) FrameSent() {
	if m == nil {
		return
	}
	m.framesSent.Inc()
}

// TransmitFailed counts a failed link write.
func (m *Metrics) TransmitFailed() {
	if m == nil {
		return
	}
	m.transmitErrors.Inc()
}

// FrameReceived records a decoded measurement on the receiving side.
func (m *Metrics) FrameReceived(rec record.Measurement) {
	if m == nil {
		return
	}
	m.framesReceived.Inc()
	m.fwhm.Set(float64(rec.FWHM))
	m.amplitude.Set(float64(rec.Amplitude))
	m.frequency.Set(float64(rec.Frequency))
}

// FrameDropped counts a received frame that failed validation.
func (m *Metrics) FrameDropped() {
	if m == nil {
		return
	}
	m.framesDropped.Inc()
}

// SetQueueDepth updates the hand-off queue depth.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
