package coordination

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/koscakluka/ava-core/core/media"
)

func TestWatchdogReportsStalledPlaybackOnce(t *testing.T) {
	session := newFakeMedia()
	session.setState(media.StateConnected)
	session.position.Store(int64(1500 * time.Millisecond))

	var stalls atomic.Int32
	release := make(chan struct{})
	w := newWatchdog(session, func() bool { return true }, func(ctx context.Context) {
		stalls.Add(1)
		<-release
	})
	w.interval = 5 * time.Millisecond
	w.probe = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)
	defer w.stop()

	waitFor(t, "the stall to be reported", func() bool {
		return stalls.Load() == 1
	})

	// The first recovery is still in flight, no second one may start.
	time.Sleep(50 * time.Millisecond)
	if stalls.Load() != 1 {
		t.Fatalf("Expected a single in-flight recovery, got %d", stalls.Load())
	}
	close(release)
}

func TestWatchdogIgnoresAdvancingPlayback(t *testing.T) {
	session := newFakeMedia()
	session.setState(media.StateConnected)

	var stalls atomic.Int32
	w := newWatchdog(session, func() bool { return true }, func(ctx context.Context) {
		stalls.Add(1)
	})
	w.interval = 5 * time.Millisecond
	w.probe = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				session.position.Add(int64(time.Millisecond))
			}
		}
	}()
	go w.run(ctx)
	defer w.stop()

	time.Sleep(60 * time.Millisecond)
	if stalls.Load() != 0 {
		t.Fatalf("Expected no stalls while playback advances, got %d", stalls.Load())
	}
}

func TestWatchdogIgnoresSilenceBetweenTurns(t *testing.T) {
	session := newFakeMedia()
	session.setState(media.StateConnected)

	var stalls atomic.Int32
	w := newWatchdog(session, func() bool { return false }, func(ctx context.Context) {
		stalls.Add(1)
	})
	w.interval = 5 * time.Millisecond
	w.probe = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)
	defer w.stop()

	time.Sleep(60 * time.Millisecond)
	if stalls.Load() != 0 {
		t.Fatalf("Expected no stalls while idle, got %d", stalls.Load())
	}
}
