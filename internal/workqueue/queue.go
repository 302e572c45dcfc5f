// Package workqueue runs fire-and-forget background tasks.
//
// Tasks are never cancelled and never retried here: each runs once on its own
// goroutine with a context detached from whoever submitted it. Panics are
// recovered and logged so one failing task cannot take the process down.
// Wait exists for tests and for process shutdown; request paths must not use
// it to block on background work.
package workqueue

import (
	"context"
	"sync"
	"time"

	"github.com/atomist-global-seeds/blockstack-browser/internal/logging"
	"go.uber.org/atomic"
)

type Queue struct {
	wg        sync.WaitGroup
	pending   atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64
	logger    logging.Logger
}

func New(logger logging.Logger) *Queue {
	return &Queue{logger: logger}
}

// Go schedules fn. Tasks may schedule further tasks; Wait covers them too
// because the child is registered before its parent finishes.
func (q *Queue) Go(name string, fn func(ctx context.Context)) {
	q.wg.Add(1)
	q.pending.Inc()

	go func() {
		ctx := context.Background()
		defer func() {
			if p := recover(); p != nil {
				q.panicked.Inc()
				q.logger.Error(ctx, "background task panicked", "task", name, "panic", p)
			}
			q.pending.Dec()
			q.completed.Inc()
			q.wg.Done()
		}()

		q.logger.Debug(ctx, "background task started", "task", name)
		fn(ctx)
	}()
}

// Wait blocks until every scheduled task, including tasks scheduled by other
// tasks, has returned.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// WaitTimeout is Wait bounded by d. It reports whether the queue drained.
func (q *Queue) WaitTimeout(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// Pending is the number of tasks scheduled but not yet finished.
func (q *Queue) Pending() int64 { return q.pending.Load() }

// Completed is the number of tasks that have returned or panicked.
func (q *Queue) Completed() int64 { return q.completed.Load() }

// Panicked is the number of tasks that ended in a recovered panic.
func (q *Queue) Panicked() int64 { return q.panicked.Load() }
