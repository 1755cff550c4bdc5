package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/adbpush/adapter"
	"github.com/pithecene-io/adbpush/adapter/redis"
	"github.com/pithecene-io/adbpush/adapter/webhook"
	"github.com/pithecene-io/adbpush/bridge"
	"github.com/pithecene-io/adbpush/cli/config"
	"github.com/pithecene-io/adbpush/device"
	"github.com/pithecene-io/adbpush/log"
	"github.com/pithecene-io/adbpush/metrics"
	"github.com/pithecene-io/adbpush/session"
	"github.com/pithecene-io/adbpush/transfer"
)

// newRunner creates the bridge runner. Tests replace it with a fake.
var newRunner = func(cfg bridge.Config) bridge.Runner {
	return bridge.NewExecRunner(cfg)
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, _, err := config.Discover(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("bridge") {
		cfg.Bridge.Path = c.String("bridge")
	}
	if c.IsSet("remote-root") {
		cfg.RemoteRoot = c.String("remote-root")
	}
	if c.IsSet("target") {
		cfg.Target = c.String("target")
	}
	if c.IsSet("theme") {
		cfg.Theme = c.String("theme")
	}
	if c.IsSet("log-file") {
		cfg.Log.File = c.String("log-file")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// components is everything one command invocation needs.
type components struct {
	config   *config.Config
	logger   *log.Logger
	metrics  *metrics.Collector
	registry *device.Registry
	session  *session.Session

	closers []func() error
}

// build wires the workflow from configuration. Logs go to logOut unless
// a log file is configured.
func build(c *cli.Context, logOut io.Writer) (*components, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("invalid configuration: %v", err), exitPrecondition)
	}

	comp := &components{config: cfg}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitPrecondition)
	}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("cannot open log file: %v", err), exitPrecondition)
		}
		comp.closers = append(comp.closers, f.Close)
		logOut = f
	}

	sessionID := uuid.NewString()
	comp.logger = log.NewLoggerWithWriter(log.Meta{SessionID: sessionID, Bridge: cfg.Bridge.Path}, logOut, level)
	comp.metrics = metrics.NewCollector(cfg.Bridge.Path, cfg.RemoteRoot, sessionID)

	comp.registry = device.NewRegistry(
		newRunner(bridge.Config{Path: cfg.Bridge.Path, Timeout: cfg.Bridge.DevicesTimeout.Duration}),
		comp.logger,
		comp.metrics,
	)
	orchestrator := transfer.New(transfer.Config{
		Runner:     newRunner(bridge.Config{Path: cfg.Bridge.Path, Timeout: cfg.Bridge.PushTimeout.Duration}),
		RemoteRoot: cfg.RemoteRoot,
		Logger:     comp.logger,
		Metrics:    comp.metrics,
	})

	notifier, err := newNotifier(cfg.Notify)
	if err != nil {
		comp.Close()
		return nil, cli.Exit(fmt.Sprintf("invalid notify config: %v", err), exitPrecondition)
	}
	comp.closers = append(comp.closers, notifier.Close)

	comp.session = session.New(session.Config{
		Registry:     comp.registry,
		Orchestrator: orchestrator,
		Notifier:     notifier,
		Logger:       comp.logger,
		Metrics:      comp.metrics,
		SessionID:    sessionID,
		Fragment:     cfg.Target,
	})
	return comp, nil
}

// Close logs the session summary and releases resources in reverse order.
func (comp *components) Close() {
	if comp.logger != nil {
		snap := comp.metrics.Snapshot()
		comp.logger.Info("session summary", map[string]any{
			"batches":         snap.BatchesCompleted,
			"push_sent":       snap.PushSent,
			"push_failed":     snap.PushFailed,
			"invalid_drops":   snap.InvalidDrops,
			"refreshes":       snap.DeviceRefreshes,
			"preconditions":   snap.PreconditionsByReason,
			"notify_failures": snap.NotifyFailure,
		})
		_ = comp.logger.Sync()
	}
	for i := len(comp.closers) - 1; i >= 0; i-- {
		_ = comp.closers[i]()
	}
}

// newNotifier builds the configured adapter. No type means adapter.Nop.
func newNotifier(cfg config.NotifyConfig) (adapter.Adapter, error) {
	switch cfg.Type {
	case "":
		return adapter.Nop{}, nil
	case "webhook":
		return webhook.New(webhook.Config{
			URL:     cfg.URL,
			Headers: cfg.Headers,
			Timeout: cfg.Timeout.Duration,
			Retries: cfg.Retries,
		})
	case "redis":
		return redis.New(redis.Config{
			URL:          cfg.URL,
			Channel:      cfg.Channel,
			HistoryKey:   cfg.HistoryKey,
			HistoryLimit: cfg.HistoryLimit,
			Timeout:      cfg.Timeout.Duration,
			Retries:      cfg.Retries,
		})
	default:
		return nil, fmt.Errorf("unknown notify type %q", cfg.Type)
	}
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
