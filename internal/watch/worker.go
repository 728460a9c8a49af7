package watch

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/orgbuilder/internal/logfields"
)

// RebuildFunc performs one rebuild. A failed rebuild is logged and the
// watcher keeps going.
type RebuildFunc func(ctx context.Context, reason string) error

// worker runs at most one rebuild at a time. Requests arriving while a
// rebuild runs collapse into a single follow-up rebuild.
type worker struct {
	rebuild RebuildFunc
	reqs    chan string

	mu      sync.Mutex
	running bool
	pending string
	wg      sync.WaitGroup
}

func newWorker(rebuild RebuildFunc) *worker {
	return &worker{rebuild: rebuild, reqs: make(chan string, 1)}
}

// request asks for a rebuild without blocking.
func (w *worker) request(reason string) {
	w.mu.Lock()
	if w.running {
		w.pending = reason
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	select {
	case w.reqs <- reason:
	default:
	}
}

func (w *worker) start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case reason := <-w.reqs:
				w.run(ctx, reason)
			}
		}
	}()
}

func (w *worker) run(ctx context.Context, reason string) {
	for reason != "" {
		w.mu.Lock()
		w.running = true
		w.mu.Unlock()

		if err := w.rebuild(ctx, reason); err != nil {
			slog.Warn("Rebuild failed", slog.String("reason", reason), logfields.Error(err))
		}

		w.mu.Lock()
		w.running = false
		reason, w.pending = w.pending, ""
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
	}
}

// wait blocks until the worker goroutine has exited.
func (w *worker) wait() { w.wg.Wait() }
