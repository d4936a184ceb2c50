package sampledist

import (
	"context"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sampledist/internal/sentinel"
)

// JobFunc is a function that can be executed by the event loop.
type JobFunc func() error

type request struct {
	job    JobFunc
	result chan error
}

// EventLoop runs jobs one at a time, in submission order, on a single worker goroutine.
// Every mutation of a Session goes through it, so each job observes a complete state.
type EventLoop struct {
	jobs chan request
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

// NewEventLoop creates an event loop with room for queue pending jobs and starts its worker.
func NewEventLoop(queue int) *EventLoop {
	if queue < 1 {
		queue = 1
	}

	loop := &EventLoop{
		jobs: make(chan request, queue),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}

	go loop.worker()

	return loop
}

// Do submits job and waits for its result. ctx bounds only the wait for a queue slot: once the
// worker has accepted the job, Do returns the job's own result so its effects are never lost.
func (loop *EventLoop) Do(ctx context.Context, job JobFunc) error {
	req := request{job: job, result: make(chan error, 1)}

	select {
	case <-loop.quit:
		return sentinel.ErrLoopStopped
	default:
	}

	if err := ctx.Err(); err != nil {
		return ewrap.Wrap(sentinel.ErrTimeoutOrCanceled, err.Error())
	}

	select {
	case <-loop.quit:
		return sentinel.ErrLoopStopped
	case <-ctx.Done():
		return ewrap.Wrap(sentinel.ErrTimeoutOrCanceled, ctx.Err().Error())
	case loop.jobs <- req:
	}

	select {
	case err := <-req.result:
		return err
	case <-loop.done:
		select {
		case err := <-req.result:
			return err
		default:
			return sentinel.ErrLoopStopped
		}
	}
}

// Stop stops the worker once the running job returns. Pending jobs are rejected. It is safe to
// call Stop more than once.
func (loop *EventLoop) Stop() {
	loop.once.Do(func() {
		close(loop.quit)
	})

	<-loop.done
}

// worker is the main loop executed by the worker goroutine.
func (loop *EventLoop) worker() {
	defer close(loop.done)

	for {
		select {
		case req := <-loop.jobs:
			req.result <- run(req.job)
		case <-loop.quit:
			for {
				select {
				case req := <-loop.jobs:
					req.result <- sentinel.ErrLoopStopped
				default:
					return
				}
			}
		}
	}
}

func run(job JobFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ewrap.Wrapf(sentinel.ErrJobPanicked, "%v", r)
		}
	}()

	return job()
}
