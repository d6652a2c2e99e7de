package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/itohio/gopulse/pkg/config"
	"github.com/itohio/gopulse/pkg/link"
	"github.com/itohio/gopulse/pkg/metrics"
	"github.com/itohio/gopulse/pkg/stats"
)

func runMonitor(ctx context.Context, cfg *config.Config, input string, m *metrics.Metrics) error {
	var (
		r   io.ReadCloser
		err error
	)
	if input != "" {
		r, err = os.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open frame file: %w", err)
		}
	} else {
		r, err = link.OpenSerial(cfg.Serial.Port, cfg.Serial.BaudRate)
		if err != nil {
			return err
		}
	}
	defer r.Close()

	// Closing the reader unblocks a pending frame read on shutdown.
	go func() {
		<-ctx.Done()
		r.Close()
	}()

	receiver := link.NewReceiver(r, cfg.FrameFormat(), link.WithReceiverMetrics(m))
	monitor := stats.NewMonitor(cfg.Monitor.History, cfg.Monitor.Interval, stats.LogSummary(slog.Default()))

	slog.Info("monitor started", slog.String("format", cfg.FrameFormat().String()))
	return monitor.Run(ctx, receiver.Measurements(ctx))
}

func listPorts() error {
	ports, err := link.Ports()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		slog.Info("no serial ports found")
	}
	for _, p := range ports {
		fmt.Println(p.Name)
	}
	return nil
}
