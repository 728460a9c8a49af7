package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/orgbuilder/internal/build"
	"git.home.luguber.info/inful/orgbuilder/internal/metrics"
	"git.home.luguber.info/inful/orgbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	SourceFlags `embed:""`

	Obsidian    bool          `help:"Post-process every converted file with the Obsidian script"`
	Jobs        int           `short:"j" help:"Maximum concurrent conversions (default: ninja's own)"`
	Interval    time.Duration `help:"Also rebuild periodically (0 disables; overrides watch.interval)"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (overrides watch.metrics_addr)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	interval := cfg.Watch.Interval.Std()
	if w.Interval > 0 {
		interval = w.Interval
	}
	addr := cfg.Watch.MetricsAddr
	if w.MetricsAddr != "" {
		addr = w.MetricsAddr
	}

	reg := serverRegistry()
	pub := newPublisher(cfg)
	defer func() { _ = pub.Close() }()
	svc := build.NewService(cfg).WithRecorder(metrics.NewPrometheusRecorder(reg)).WithPublisher(pub)
	req := build.Request{
		SourceDir: w.Source,
		OutputDir: w.Output,
		Options:   build.Options{Obsidian: w.Obsidian, Parallelism: w.Jobs},
	}

	watcher, err := watch.New(watch.Options{
		SourceRoot: w.Source,
		Filter: watch.Filter{
			Extensions: []string{cfg.Scan.PrimaryExt, cfg.Scan.PassThroughExt},
			FoldCase:   cfg.Scan.FoldCase,
		},
		Debounce:    cfg.Watch.Debounce.Std(),
		Interval:    interval,
		MetricsAddr: addr,
		Registry:    reg,
		Rebuild: func(ctx context.Context, _ string) error {
			_, err := svc.Run(ctx, req)
			return err
		},
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return watcher.Run(ctx)
}
