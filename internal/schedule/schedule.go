// Package schedule runs fixed-interval background tasks that can be stopped.
package schedule

import (
	"context"
	"time"
)

// Task is one run of a scheduled job.
type Task func(ctx context.Context)

// Option configures Every.
type Option func(*options)

type options struct {
	immediate bool
}

// Immediately runs the task once before the first interval elapses.
func Immediately() Option {
	return func(o *options) { o.immediate = true }
}

// Handle controls a running scheduled task.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Every runs task every interval on its own goroutine until ctx is cancelled
// or Stop is called. Runs never overlap; a slow run delays the next tick.
func Every(ctx context.Context, interval time.Duration, task Task, opts ...Option) *Handle {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)

		if o.immediate {
			task(ctx)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				task(ctx)
			}
		}
	}()

	return h
}

// Stop cancels the task and waits for an in-progress run to return.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once the task goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
