package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/pintape"
	"github.com/aretw0/pintape/internal/config"
	"github.com/aretw0/pintape/pkg/domain"
	"github.com/aretw0/pintape/pkg/observability"
	"github.com/aretw0/pintape/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
)

// Options carries the command line settings shared by every command.
// Zero values mean "not given on the command line".
type Options struct {
	ConfigPath string
	Policy     string
	Interval   time.Duration
	Debug      bool
	LogJSON    string
	NoColor    bool
	Metrics    bool

	// Environ replaces the process environment when non-nil.
	Environ map[string]string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) stdin() io.Reader {
	if o.Stdin == nil {
		return os.Stdin
	}
	return o.Stdin
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}

// ResolveConfig merges the config file, the environment and the command line flags.
func ResolveConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.Environ)
	if err != nil {
		return cfg, err
	}
	if opts.Policy != "" {
		cfg.Policy = opts.Policy
	}
	if opts.Interval != 0 {
		cfg.Interval = opts.Interval
	}
	if opts.NoColor {
		cfg.Color = false
	}
	return cfg, cfg.Validate()
}

// Presentation selects how machine events are rendered on stdout.
type Presentation int

const (
	PresentNone Presentation = iota
	PresentText
	PresentJSON
)

// app bundles a configured machine with its logger and metrics.
type app struct {
	opts     Options
	cfg      config.Config
	logger   *slog.Logger
	machine  *pintape.Machine
	handler  runner.Handler
	registry *prometheus.Registry
	closers  []io.Closer
}

// newApp builds the machine the way every command needs it. The presentation handler
// runs after metrics and debug logging.
func newApp(opts Options, present Presentation) (*app, error) {
	cfg, err := ResolveConfig(opts)
	if err != nil {
		return nil, err
	}
	level, _ := cfg.Level()

	logger, closer, err := createLogger(level, opts.Debug, opts.LogJSON)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(registry)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	hooks := []domain.LifecycleHooks{metrics.Hooks()}
	if opts.Debug {
		hooks = append(hooks, createDebugHooks(logger))
	}

	var handler runner.Handler
	switch present {
	case PresentText:
		handler = runner.NewTextHandler(opts.stdout(), runner.WithColor(cfg.Color))
	case PresentJSON:
		handler = runner.NewJSONHandler(opts.stdout())
	}
	if handler != nil {
		hooks = append(hooks, runner.Hooks(handler, func(err error) {
			logger.Warn("failed to render event", "err", err)
		}))
	}

	machine, err := pintape.New(
		pintape.WithLogger(logger),
		pintape.WithPolicyName(cfg.Policy),
		pintape.WithMaxInputLength(cfg.MaxInputLength),
		pintape.WithInterval(cfg.Interval),
		pintape.WithLifecycleHooks(domain.MergeHooks(hooks...)),
	)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("error initializing pintape: %w", err)
	}

	return &app{
		opts:     opts,
		cfg:      cfg,
		logger:   logger,
		machine:  machine,
		handler:  handler,
		registry: registry,
		closers:  []io.Closer{closer},
	}, nil
}

func presentation(jsonMode bool) Presentation {
	if jsonMode {
		return PresentJSON
	}
	return PresentText
}

// Close dumps metrics when requested and releases log files.
func (a *app) Close() error {
	var errs []error
	if a.opts.Metrics {
		errs = append(errs, observability.WriteText(a.opts.stderr(), a.registry))
	}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
