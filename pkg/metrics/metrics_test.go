package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/gopulse/pkg/record"
)

func TestObserveWindow(t *testing.T) {
	m := New()

	m.ObserveWindow(record.Measurement{FWHM: 100, Amplitude: 3.3, Frequency: 250})
	m.ObserveSamples(2048, 7)
	m.ObserveWindow(record.Measurement{FWHM: 120, Amplitude: 1.5, Frequency: 500})
	m.ObserveSamples(2048, 3)

	assert.InDelta(t, 120.0, testutil.ToFloat64(m.fwhm), 1e-6)
	assert.InDelta(t, 1.5, testutil.ToFloat64(m.amplitude), 1e-6)
	assert.InDelta(t, 500.0, testutil.ToFloat64(m.frequency), 1e-6)
	assert.Equal(t, 4096.0, testutil.ToFloat64(m.samples))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.peaks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.windows))
}

func TestCounters(t *testing.T) {
	m := New()

	m.AcquisitionFailed()
	m.FrameSent()
	m.FrameSent()
	m.TransmitFailed()
	m.FrameReceived(record.Measurement{Frequency: 10})
	m.FrameDropped()
	m.SetQueueDepth(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.acquisitionErrors))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.framesSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transmitErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.framesReceived))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.framesDropped))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.queueDepth))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.frequency))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveWindow(record.Measurement{})
		m.ObserveSamples(1, 1)
		m.AcquisitionFailed()
		m.FrameSent()
		m.TransmitFailed()
		m.FrameReceived(record.Measurement{})
		m.FrameDropped()
		m.SetQueueDepth(1)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveWindow(record.Measurement{Frequency: 250})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "gopulse_frequency_hertz 250")
	assert.Contains(t, rec.Body.String(), "gopulse_windows_total 1")
}
