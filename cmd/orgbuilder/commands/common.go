package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/orgbuilder/internal/config"
	ferrors "git.home.luguber.info/inful/orgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/orgbuilder/internal/logfields"
	"git.home.luguber.info/inful/orgbuilder/internal/metrics"
	"git.home.luguber.info/inful/orgbuilder/internal/notify"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"orgbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Generate the build description and run ninja against it"`
	Generate GenerateCmd `cmd:"" help:"Generate the build description without running ninja"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild whenever documents in the source tree change"`
	Edges    EdgesCmd    `cmd:"" help:"List the edges of an existing build description"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel honours -v first, then ORGBUILDER_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ORGBUILDER_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SourceFlags are the positional arguments shared by the graph commands.
type SourceFlags struct {
	Source string `arg:"" name:"source-dir" help:"Root of the org-mode document tree" type:"existingdir"`
	Output string `arg:"" name:"output-dir" help:"Destination root inside the site, e.g. hugo-site/content/posts" type:"path"`
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "load configuration").
			Fatal().
			UserAction().
			WithContext(ferrors.ContextPath, path).
			Build()
	}
	return cfg, nil
}

// runMetrics wires a Prometheus recorder when the configuration asks for a
// textfile; the returned flush writes it after the run.
func runMetrics(cfg *config.Config) (metrics.Recorder, func()) {
	if cfg.Metrics.Textfile == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	return recorder, func() {
		if err := metrics.WriteTextfile(reg, cfg.Metrics.Textfile); err != nil {
			slog.Warn("Could not write metrics textfile", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
}

// serverRegistry returns a registry with runtime collectors for long-running modes.
func serverRegistry() *prom.Registry {
	reg := prom.NewRegistry()
	reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return reg
}

// newPublisher connects the run-event publisher when notify.nats_url is set.
// An unreachable server is logged and notifications are disabled for the run.
func newPublisher(cfg *config.Config) notify.Publisher {
	if cfg.Notify.NATSURL == "" {
		return notify.NoopPublisher{}
	}
	pub, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject, cfg.Notify.RetryPolicy())
	if err != nil {
		slog.Warn("Run notifications disabled", logfields.Error(err))
		return notify.NoopPublisher{}
	}
	return pub
}
