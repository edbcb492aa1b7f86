package syncqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apierrors "github.com/aminat2005/viva-sync/internal/errors"
)

type noopJob struct{}

func (noopJob) Run(ctx context.Context) error { return nil }

func TestExecutor_SubmitAndStop(t *testing.T) {
	t.Parallel()
	ex := NewExecutor(Config{})
	defer ex.Stop()

	if err := ex.Submit(context.Background(), "water:2026-08-31", noopJob{}); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestExecutor_FIFOOrderingPerKey(t *testing.T) {
	ex := NewExecutor(Config{Shards: 4, QueueSize: 10})
	defer ex.Stop()

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	wg.Add(5)
	for i := 0; i < 5; i++ {
		v := i
		if err := ex.Submit(context.Background(), "steps:2026-08-31", JobFunc(func(context.Context) error {
			mu.Lock()
			order = append(order, v)
			mu.Unlock()
			wg.Done()
			return nil
		})); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for jobs")
	}

	for i, v := range order {
		if i != v {
			t.Fatalf("expected FIFO order, got %v", order)
		}
	}
}

func TestExecutor_RetriesRetryableFailures(t *testing.T) {
	t.Parallel()
	ex := NewExecutor(Config{Shards: 1, QueueSize: 10, MaxAttempts: 3, BaseBackoff: 5 * time.Millisecond})
	defer ex.Stop()

	var attempts int32
	_ = ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return apierrors.Classify(503, nil, nil)
		}
		return nil
	}))

	if err := ex.Barrier(context.Background(), "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
}

func TestExecutor_IrrecoverableFailuresGoToHandler(t *testing.T) {
	t.Parallel()
	var handled int32
	ex := NewExecutor(Config{
		Shards:      1,
		QueueSize:   10,
		MaxAttempts: 5,
		BaseBackoff: time.Millisecond,
		ErrorHandler: func(err error) {
			if apierrors.KindOf(err) == apierrors.KindValidation {
				atomic.AddInt32(&handled, 1)
			}
		},
	})
	defer ex.Stop()

	var attempts int32
	_ = ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return apierrors.Classify(400, nil, nil)
	}))

	if err := ex.Barrier(context.Background(), "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if atomic.LoadInt32(&attempts) != 1 {
		t.Fatalf("attempts = %d, want 1 (irrecoverable, no retry)", attempts)
	}
	if atomic.LoadInt32(&handled) != 1 {
		t.Fatal("error handler not invoked")
	}
}

func TestExecutor_SubmitAfterStop(t *testing.T) {
	t.Parallel()
	ex := NewExecutor(Config{Shards: 2, QueueSize: 2})
	ex.Stop()

	if err := ex.Submit(context.Background(), "k", noopJob{}); !errors.Is(err, ErrExecutorClosed) {
		t.Fatalf("err = %v, want ErrExecutorClosed", err)
	}
}

func TestExecutor_QueueFull(t *testing.T) {
	t.Parallel()
	ex := NewExecutor(Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond})
	defer ex.Stop()

	blockCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var started int32
	_ = ex.Submit(context.Background(), "same", JobFunc(func(context.Context) error {
		atomic.StoreInt32(&started, 1)
		<-blockCtx.Done()
		return nil
	}))
	for atomic.LoadInt32(&started) == 0 {
		time.Sleep(time.Millisecond)
	}

	_ = ex.Submit(context.Background(), "same", noopJob{}) // fills the buffer
	err := ex.Submit(context.Background(), "same", noopJob{})
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("err = %v, want queue-full", err)
	}
	var qf *QueueFullError
	if !errors.As(err, &qf) || qf.Capacity != 1 {
		t.Fatalf("unexpected queue-full detail: %+v", qf)
	}
}

func TestExecutor_StopDrainsPendingJobs(t *testing.T) {
	t.Parallel()
	ex := NewExecutor(Config{Shards: 1, QueueSize: 16})

	var ran int32
	for i := 0; i < 8; i++ {
		_ = ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		}))
	}
	ex.Stop()

	if got := atomic.LoadInt32(&ran); got != 8 {
		t.Fatalf("ran = %d, want all 8 drained before Stop returned", got)
	}
}
