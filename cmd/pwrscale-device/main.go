// Command pwrscale-device is a reference daemon for the pwrscale policy
// framework.
//
// It brings up the configured devices, each with a pwrscale policy slot
// and its property tree, and offers:
//   - YAML configuration with optional live reload
//   - Built-in "trace" and "stats" policies
//   - Synthetic busy/idle/sleep/wake load
//   - CBOR event tracing and a Prometheus metrics endpoint
//   - An interactive console for reading and writing properties
//
// Usage:
//
//	pwrscale-device [flags]
//
// Flags:
//
//	-config string          Configuration file path
//	-log-level string       Log level: debug, info, warn, error (default "info")
//	-trace-file string      Write CBOR trace events to this file
//	-metrics-listen string  Serve Prometheus metrics on this address
//	-interactive            Start the interactive console
//	-watch                  Reload the configuration file when it changes
//	-simulate               Generate synthetic lifecycle signals
//	-sim-interval duration  Interval between simulated signals (default 2s)
//
// Examples:
//
//	# One device, interactive
//	pwrscale-device -interactive
//
//	# Devices from a config file, traced, with live reload
//	pwrscale-device -config /etc/pwrscale.yaml -watch -trace-file /var/log/pwrscale/trace.plog
//
//	# Simulated load with metrics
//	pwrscale-device -simulate -metrics-listen :9105
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mash-protocol/pwrscale-go/cmd/pwrscale-device/interactive"
	"github.com/mash-protocol/pwrscale-go/pkg/config"
	"github.com/mash-protocol/pwrscale-go/pkg/log"
	"github.com/mash-protocol/pwrscale-go/pkg/metrics"
	"github.com/mash-protocol/pwrscale-go/pkg/pwrscale"
)

// Options holds the command-line flags.
type Options struct {
	ConfigFile    string
	LogLevel      string
	TraceFile     string
	MetricsListen string
	Interactive   bool
	Watch         bool
	Simulate      bool
	SimInterval   time.Duration
}

var opts Options

func init() {
	flag.StringVar(&opts.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&opts.TraceFile, "trace-file", "", "Write CBOR trace events to this file")
	flag.StringVar(&opts.MetricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address (e.g. :9105)")
	flag.BoolVar(&opts.Interactive, "interactive", false, "Start the interactive console")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload the configuration file when it changes")
	flag.BoolVar(&opts.Simulate, "simulate", false, "Generate synthetic lifecycle signals")
	flag.DurationVar(&opts.SimInterval, "sim-interval", 2*time.Second, "Interval between simulated signals")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(opts, setFlags())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The console must exist before the logger so logs go through readline.
	var console *interactive.Console
	var logOut io.Writer = os.Stderr
	if opts.Interactive {
		console, err = interactive.New()
		if err != nil {
			return err
		}
		logOut = console.Stdout()
	}

	logger, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return err
	}
	logger = logger.With("instance", uuid.NewString())
	logger.Info("pwrscale device starting", "devices", len(cfg.Devices))

	events, closeEvents, err := newEventLogger(cfg.Log, logger)
	if err != nil {
		return err
	}
	defer closeEvents()

	registry := prometheus.NewRegistry()
	m := metrics.New(&metrics.Config{Namespace: cfg.Metrics.Namespace}, registry)

	policies, err := builtinPolicies(logger)
	if err != nil {
		return err
	}

	d, err := newDaemon(cfg, policies, logger,
		pwrscale.WithLogger(logger),
		pwrscale.WithEventLogger(events),
		pwrscale.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	defer d.close()

	// A policy that fails to attach leaves its slot empty; keep running.
	_ = d.apply(cfg)

	if cfg.Metrics.Listen != "" {
		srv := startMetricsServer(cfg.Metrics.Listen, registry, logger)
		defer shutdownServer(srv, logger)
	}

	if opts.Watch {
		if opts.ConfigFile == "" {
			logger.Warn("-watch needs -config; not watching")
		} else {
			stop, err := watchConfig(ctx, opts.ConfigFile, d, logger)
			if err != nil {
				return err
			}
			defer stop()
		}
	}

	if opts.Simulate {
		go runSimulation(ctx, d.scales(), opts.SimInterval, logger)
	}

	if console != nil {
		console.SetTargets(d.targets)
		console.Run(ctx, cancel)
	} else {
		<-ctx.Done()
	}

	logger.Info("shutting down")
	return nil
}

// setFlags returns the names of the flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// loadConfig reads the configuration file, or the default configuration,
// and applies explicitly set flags on top.
func loadConfig(o Options, set map[string]bool) (*config.Config, error) {
	cfg := config.Default()
	if o.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(o.ConfigFile); err != nil {
			return nil, err
		}
	}

	if set["log-level"] {
		cfg.Log.Level = o.LogLevel
	}
	if set["trace-file"] {
		cfg.Log.TraceFile = o.TraceFile
	}
	if set["metrics-listen"] {
		cfg.Metrics.Listen = o.MetricsListen
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

// newEventLogger builds the trace event sink: debug logging of every
// event plus the trace file when one is configured.
func newEventLogger(cfg config.LogConfig, logger *slog.Logger) (log.Logger, func(), error) {
	adapter := log.NewSlogAdapter(logger)
	if cfg.TraceFile == "" {
		return adapter, func() {}, nil
	}

	file, err := log.NewFileLogger(cfg.TraceFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	logger.Info("tracing events", "file", cfg.TraceFile)

	closeFn := func() {
		if n := file.Dropped(); n > 0 {
			logger.Warn("trace events dropped", "count", n)
		}
		if err := file.Close(); err != nil {
			logger.Error("failed to close trace file", "error", err)
		}
	}
	return log.NewMultiLogger(adapter, file), closeFn, nil
}

func startMetricsServer(addr string, g prometheus.Gatherer, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}

func shutdownServer(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("metrics server shutdown failed", "error", err)
	}
}

// watchConfig re-applies device policies whenever the configuration file
// changes. The returned function stops the watcher.
func watchConfig(ctx context.Context, path string, d *daemon, logger *slog.Logger) (func(), error) {
	fw, err := config.NewFileWatcher(&config.FileWatcherConfig{Path: path}, logger)
	if err != nil {
		return nil, err
	}

	go func() {
		err := fw.Watch(ctx, func() error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			return d.apply(cfg)
		})
		if err != nil {
			logger.Error("config watcher exited", "error", err)
		}
	}()

	return func() {
		if err := fw.Stop(); err != nil {
			logger.Error("failed to stop config watcher", "error", err)
		}
	}, nil
}
