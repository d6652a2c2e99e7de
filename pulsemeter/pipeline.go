package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/itohio/gopulse/pkg/config"
	"github.com/itohio/gopulse/pkg/link"
	"github.com/itohio/gopulse/pkg/measure"
	"github.com/itohio/gopulse/pkg/metrics"
	"github.com/itohio/gopulse/pkg/pipeline"
	"github.com/itohio/gopulse/pkg/source"
)

func runPipeline(ctx context.Context, cfg *config.Config, m *metrics.Metrics) error {
	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	sink, err := openSink(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	policy, err := pipeline.ParseErrorPolicy(cfg.Acquisition.OnError)
	if err != nil {
		return err
	}

	var opts []measure.Option
	if cfg.Sampling.Clock == "wall" {
		opts = append(opts, measure.WithClock(measure.WallClock()))
	}
	state := measure.New(cfg.MeasureParams(), opts...)

	queue := pipeline.NewQueue(cfg.Queue.Capacity)
	sampler := pipeline.NewSampler(src, state, pipeline.NewEmitter(queue, cfg.FrameFormat()),
		pipeline.WithPacing(cfg.Sampling.Pacing),
		pipeline.WithErrorPolicy(policy),
		pipeline.WithMetrics(m),
	)
	transmitter := pipeline.NewTransmitter(queue, sink, pipeline.WithTransmitMetrics(m))

	slog.Info("pipeline started",
		slog.String("source", cfg.Acquisition.Source),
		slog.String("sink", cfg.Link.Sink),
		slog.String("format", cfg.FrameFormat().String()),
		slog.Int("rate", cfg.Sampling.Rate),
		slog.Int("window", cfg.Window.Size),
	)
	err = pipeline.Run(ctx, sampler, transmitter)
	slog.Info("pipeline stopped",
		slog.Uint64("samples", state.Samples()),
		slog.Uint64("peaks", state.Peaks()),
		slog.Duration("elapsed", state.Elapsed()),
	)
	return err
}

func openSource(cfg *config.Config) (source.Source, error) {
	switch cfg.Acquisition.Source {
	case "mock":
		return source.NewSynthetic(&cfg.Mock, cfg.Sampling.Rate, cfg.Amplitude.FullScale), nil
	case "file":
		return source.OpenFile(cfg.Acquisition.File)
	case "serial":
		return source.OpenSerial(cfg.Acquisition.Port, cfg.Serial.BaudRate)
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Acquisition.Source)
	}
}

func openSink(cfg *config.Config) (io.WriteCloser, error) {
	switch cfg.Link.Sink {
	case "serial":
		return link.OpenSerial(cfg.Serial.Port, cfg.Serial.BaudRate)
	case "mqtt":
		client, err := link.NewMQTTClient(cfg.MQTT)
		if err != nil {
			return nil, err
		}
		return link.NewMQTTWriter(client, cfg.MQTT.Topic, cfg.MQTT.QoS, cfg.MQTT.Timeout), nil
	case "log":
		return nopCloser{link.NewLogWriter(slog.Default())}, nil
	default:
		return nil, fmt.Errorf("unknown sink %q", cfg.Link.Sink)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
