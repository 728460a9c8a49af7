package watch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWorker_SingleFlightWithFollowUp(t *testing.T) {
	var (
		active, maxActive, calls atomic.Int32
		release                  = make(chan struct{})
		once                     sync.Once
	)
	w := newWorker(func(ctx context.Context, _ string) error {
		n := active.Add(1)
		defer active.Add(-1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		if calls.Add(1) == 1 {
			<-release
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	w.start(ctx)

	w.request("first")
	require.Eventually(t, func() bool { return active.Load() == 1 }, time.Second, time.Millisecond)

	// Requests during a running rebuild collapse into one follow-up.
	for range 5 {
		w.request("burst")
	}
	once.Do(func() { close(release) })

	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(2), calls.Load())
	require.Equal(t, int32(1), maxActive.Load())

	cancel()
	w.wait()
}

func TestWorker_ContinuesAfterFailure(t *testing.T) {
	var calls atomic.Int32
	w := newWorker(func(context.Context, string) error {
		calls.Add(1)
		return errors.New("boom")
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer func() { cancel(); w.wait() }()
	w.start(ctx)

	w.request("a")
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	w.request("b")
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)
}
