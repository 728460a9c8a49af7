package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/orgbuilder/internal/logfields"
	"git.home.luguber.info/inful/orgbuilder/internal/scan"
)

// DefaultDebounce is the quiet period before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Options configure a Watcher.
type Options struct {
	SourceRoot string
	Filter     Filter
	Debounce   time.Duration
	// Interval enables periodic rebuilds when positive.
	Interval time.Duration
	// MetricsAddr enables the metrics endpoint when non-empty.
	MetricsAddr string
	Registry    *prom.Registry
	Rebuild     RebuildFunc
}

// Watcher rebuilds on source changes until its context is cancelled.
type Watcher struct {
	opts     Options
	debounce *Debouncer
	worker   *worker
	metrics  *metricsServer
}

// New validates opts and returns a Watcher.
func New(opts Options) (*Watcher, error) {
	if opts.Rebuild == nil {
		return nil, fmt.Errorf("watch: rebuild function required")
	}
	abs, err := scan.ResolveRoot(opts.SourceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve source root: %w", err)
	}
	if st, statErr := os.Stat(abs); statErr != nil || !st.IsDir() {
		return nil, fmt.Errorf("source root not found or not a directory: %s", abs)
	}
	opts.SourceRoot = abs
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{
		opts:     opts,
		debounce: NewDebouncer(opts.Debounce),
		worker:   newWorker(opts.Rebuild),
	}, nil
}

// MetricsAddr returns the metrics endpoint address once Run has started it.
func (w *Watcher) MetricsAddr() string {
	if w.metrics == nil {
		return ""
	}
	return w.metrics.Addr()
}

// Run performs an initial rebuild and then watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if w.opts.MetricsAddr != "" {
		ms, err := startMetricsServer(w.opts.MetricsAddr, w.opts.Registry)
		if err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		w.metrics = ms
		defer w.stopMetrics()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()
	addDirsRecursive(fsw, w.opts.SourceRoot)

	if w.opts.Interval > 0 {
		sched, err := newScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.schedulePeriodic(w.opts.Interval, func() { w.worker.request("periodic") }); err != nil {
			return err
		}
		sched.start()
		defer func() { _ = sched.stop() }()
	}

	ctx, cancel := context.WithCancel(ctx)
	w.worker.start(ctx)
	defer w.worker.wait()
	defer cancel()
	defer w.debounce.Stop()
	w.worker.request("initial")

	slog.Info("Watching for changes", logfields.SourceRoot(w.opts.SourceRoot),
		slog.Duration("debounce", w.opts.Debounce), slog.Duration("interval", w.opts.Interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case <-w.debounce.C():
			w.worker.request("change")
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op.Has(fsnotify.Create) && !shouldIgnore(ev.Name) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(fsw, ev.Name)
			// A moved-in directory may already hold documents.
			w.debounce.Trigger()
			return
		}
	}
	if !w.opts.Filter.Relevant(ev) {
		return
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.debounce.Trigger()
}

func (w *Watcher) stopMetrics() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.metrics.stop(ctx); err != nil {
		slog.Warn("Metrics server shutdown error", logfields.Error(err))
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}
