package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLogger) Infof(format string, args ...interface{})  { l.add(format, args) }
func (l *testLogger) Warnf(format string, args ...interface{})  { l.add(format, args) }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.add(format, args) }

func (l *testLogger) add(format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, format)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{}, 3)
	returned := make(chan struct{})

	go func() {
		defer close(returned)
		Run(ctx, 3, &testLogger{}, func(ctx context.Context, workerID int) error {
			started <- struct{}{}
			<-ctx.Done()
			return nil
		})
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("workers did not start in time")
		}
	}
	cancel()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestRunRestartsCrashedWorker(t *testing.T) {
	var calls int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		Run(ctx, 1, &testLogger{}, func(ctx context.Context, workerID int) error {
			n := atomic.AddInt32(&calls, 1)
			if n < 3 {
				return errors.New("boom")
			}
			close(done)
			<-ctx.Done()
			return nil
		})
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("worker was not restarted enough times")
	}
	if atomic.LoadInt32(&calls) < 3 {
		t.Errorf("calls = %d, want at least 3", calls)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	var calls int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		Run(ctx, 1, &testLogger{}, func(ctx context.Context, workerID int) error {
			n := atomic.AddInt32(&calls, 1)
			if n == 1 {
				panic("boom")
			}
			close(done)
			<-ctx.Done()
			return nil
		})
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("worker did not recover from panic and restart")
	}
}
