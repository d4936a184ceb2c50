package sampledist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hyp3rd/sampledist/internal/sentinel"
)

func TestEventLoop_RunsJobsInOrder(t *testing.T) {
	loop := NewEventLoop(4)
	defer loop.Stop()

	var (
		mu      sync.Mutex
		results []int
		wg      sync.WaitGroup
	)

	for i := range 5 {
		// submit sequentially so the order is defined
		err := loop.Do(context.Background(), func() error {
			mu.Lock()
			defer mu.Unlock()

			results = append(results, i)

			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// concurrent submitters never overlap
	running := 0

	for range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = loop.Do(context.Background(), func() error {
				running++
				if running != 1 {
					t.Errorf("expected one running job, got %d", running)
				}

				time.Sleep(time.Millisecond)

				running--

				return nil
			})
		}()
	}

	wg.Wait()

	if len(results) != 5 || results[0] != 0 || results[4] != 4 {
		t.Errorf("unexpected results: %v", results)
	}
}

func TestEventLoop_JobErrorAndPanic(t *testing.T) {
	loop := NewEventLoop(1)
	defer loop.Stop()

	expectedErr := errors.New("job error")

	err := loop.Do(context.Background(), func() error { return expectedErr })
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected job error, got %v", err)
	}

	err = loop.Do(context.Background(), func() error { panic("boom") })
	if !errors.Is(err, sentinel.ErrJobPanicked) {
		t.Errorf("expected ErrJobPanicked, got %v", err)
	}

	// the worker survives a panicking job
	err = loop.Do(context.Background(), func() error { return nil })
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEventLoop_ContextAndStop(t *testing.T) {
	loop := NewEventLoop(1)

	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = loop.Do(context.Background(), func() error {
			close(started)
			<-release

			return nil
		})
	}()

	<-started

	// fills the only queue slot
	queued := make(chan error, 1)
	ran := false

	go func() {
		queued <- loop.Do(context.Background(), func() error {
			ran = true

			return nil
		})
	}()

	for len(loop.jobs) == 0 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := loop.Do(ctx, func() error { return nil })
	if !errors.Is(err, sentinel.ErrTimeoutOrCanceled) {
		t.Errorf("expected ErrTimeoutOrCanceled, got %v", err)
	}

	close(release)

	if err := <-queued; err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if !ran {
		t.Error("expected the queued job to run")
	}

	loop.Stop()
	loop.Stop()

	err = loop.Do(context.Background(), func() error { return nil })
	if !errors.Is(err, sentinel.ErrLoopStopped) {
		t.Errorf("expected ErrLoopStopped, got %v", err)
	}
}

func TestEventLoop_AcceptedJobOutlivesContext(t *testing.T) {
	loop := NewEventLoop(1)
	defer loop.Stop()

	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = loop.Do(context.Background(), func() error {
			close(started)
			<-release

			return nil
		})
	}()

	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	time.AfterFunc(50*time.Millisecond, func() { close(release) })

	value := 0

	err := loop.Do(ctx, func() error {
		value = 42

		return nil
	})
	if err != nil {
		t.Fatalf("expected the accepted job result, got %v", err)
	}

	if value != 42 {
		t.Errorf("expected the job to have run, got %d", value)
	}
}
