package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"

	"github.com/itohio/gopulse/pkg/config"
	"github.com/itohio/gopulse/pkg/metrics"
)

func main() {
	var (
		portFlag    = flag.String("p", "", "Link serial port override (e.g., COM3 or /dev/ttyACM0)")
		srcPortFlag = flag.String("src-port", "", "Acquisition serial port override")
		configFlag  = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag    = flag.Bool("mock", false, "Use the synthetic signal instead of the configured source")
		monitorFlag = flag.Bool("monitor", false, "Receive and summarize measurement frames instead of producing them")
		inputFlag   = flag.String("in", "", "Read measurement frames from a file in monitor mode")
		sinkFlag    = flag.String("sink", "", "Sink override (serial, mqtt or log)")
		listFlag    = flag.Bool("list", false, "List serial ports and exit")
		saveFlag    = flag.Bool("save-config", false, "Write the effective configuration and exit")
		debugFlag   = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debugFlag {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level})))

	if *listFlag {
		if err := listPorts(); err != nil {
			fatal("failed to list ports", err)
		}
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal("failed to load configuration", err)
	}

	applyOverrides(cfg, overrides{
		port:    *portFlag,
		srcPort: *srcPortFlag,
		sink:    *sinkFlag,
		mock:    *mockFlag,
	})
	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	if *saveFlag {
		if err := cfg.Save(*configFlag); err != nil {
			fatal("failed to save configuration", err)
		}
		slog.Info("configuration saved", slog.String("path", *configFlag))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Listen != "" {
		go serveMetrics(ctx, cfg.Metrics.Listen, m)
	}

	if *monitorFlag {
		err = runMonitor(ctx, cfg, *inputFlag, m)
	} else {
		err = runPipeline(ctx, cfg, m)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal("stopped", err)
	}
	slog.Info("shutdown complete")
}

// overrides holds command-line values that take precedence over the file.
type overrides struct {
	port    string // link serial port
	srcPort string // acquisition serial port
	sink    string
	mock    bool
}

func applyOverrides(cfg *config.Config, o overrides) {
	if o.port != "" {
		cfg.Serial.Port = o.port
	}
	if o.srcPort != "" {
		cfg.Acquisition.Port = o.srcPort
	}
	if o.mock {
		cfg.Acquisition.Source = "mock"
	}
	if o.sink != "" {
		cfg.Link.Sink = o.sink
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.Any("err", err))
	os.Exit(1)
}
