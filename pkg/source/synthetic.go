package source

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/itohio/gopulse/pkg/config"
)

// Synthetic generates a periodic train of raised-cosine pulses with uniform
// noise. The output depends only on the configuration and the sample index,
// so two generators with the same settings produce the same stream.
type Synthetic struct {
	cfg        config.MockConfig
	sampleRate float64
	fullScale  uint16
	rng        *rand.Rand
	n          uint64
}

// NewSynthetic creates a generator sampled at sampleRate. A nil cfg uses the
// default mock configuration.
func NewSynthetic(cfg *config.MockConfig, sampleRate int, fullScale uint16) *Synthetic {
	if cfg == nil {
		def := config.Default().Mock
		cfg = &def
	}
	if sampleRate <= 0 {
		sampleRate = config.Default().Sampling.Rate
	}
	if fullScale == 0 {
		fullScale = config.Default().Amplitude.FullScale
	}

	return &Synthetic{
		cfg:        *cfg,
		sampleRate: float64(sampleRate),
		fullScale:  fullScale,
		rng:        rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// Read returns the next generated sample.
func (s *Synthetic) Read(ctx context.Context) (uint16, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	v := s.sampleAt(s.n)
	s.n++
	return v, nil
}

// sampleAt computes the noiseless level at sample index n and adds noise.
func (s *Synthetic) sampleAt(n uint64) uint16 {
	level := float64(s.cfg.Baseline)

	if s.cfg.Frequency > 0 && s.cfg.Width > 0 {
		t := float64(n) / s.sampleRate
		period := 1 / s.cfg.Frequency
		phase := math.Mod(t, period)
		if phase < s.cfg.Width {
			// Hann-shaped pulse, half maximum width is Width/2
			shape := 0.5 * (1 - math.Cos(2*math.Pi*phase/s.cfg.Width))
			level += (float64(s.cfg.Peak) - float64(s.cfg.Baseline)) * shape
		}
	}

	if s.cfg.Noise > 0 {
		level += (s.rng.Float64() - 0.5) * float64(s.cfg.Noise)
	}

	if level < 0 {
		return 0
	}
	if level > float64(s.fullScale) {
		return s.fullScale
	}
	return uint16(level + 0.5)
}
