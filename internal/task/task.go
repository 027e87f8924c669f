// Package task implements the Task Coordinator (K): a cancellable
// background task with a single-producer/single-consumer result
// mailbox, generalizing
// original_source/launcher/src/app/background_task.rs's tokio::select!
// race to Go's context/channel idioms.
package task

import "context"

// Outcome is the terminal state of a BackgroundTask: either it finished
// with a result, or it was cancelled before finishing.
type Outcome[T any] struct {
	Finished  *T
	Cancelled bool
}

// BackgroundTask runs fn in its own goroutine, delivering its result (or
// a cancellation) exactly once. Dropping the handle without consuming
// the result still lets fn run to completion and release ctx's
// resources; call Cancel explicitly to abort early.
type BackgroundTask[T any] struct {
	cancel   context.CancelFunc
	resultCh chan Outcome[T]
	done     chan struct{}
}

// Run starts fn(ctx) in a new goroutine. onComplete, if non-nil, is
// invoked exactly once when the task terminates (used by a GUI driver to
// request a repaint).
func Run[T any](parent context.Context, fn func(ctx context.Context) (T, error), onComplete func()) *BackgroundTask[T] {
	ctx, cancel := context.WithCancel(parent)
	t := &BackgroundTask[T]{
		cancel:   cancel,
		resultCh: make(chan Outcome[T], 1),
		done:     make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		defer func() {
			if onComplete != nil {
				onComplete()
			}
		}()

		type resultPair struct {
			val T
			err error
		}
		inner := make(chan resultPair, 1)
		go func() {
			v, err := fn(ctx)
			inner <- resultPair{val: v, err: err}
		}()

		select {
		case <-ctx.Done():
			t.resultCh <- Outcome[T]{Cancelled: true}
		case r := <-inner:
			if ctx.Err() != nil {
				t.resultCh <- Outcome[T]{Cancelled: true}
				return
			}
			v := r.val
			t.resultCh <- Outcome[T]{Finished: &v}
		}
	}()

	return t
}

// HasResult reports whether a result is ready to be taken, without
// consuming it.
func (t *BackgroundTask[T]) HasResult() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// TakeResult blocks until the task terminates and returns its outcome.
// It is safe to call only once per task (single-consumer mailbox).
func (t *BackgroundTask[T]) TakeResult() Outcome[T] {
	return <-t.resultCh
}

// Cancel requests early termination. The task's goroutine observes this
// on its next suspension point.
func (t *BackgroundTask[T]) Cancel() {
	t.cancel()
}

// Close cancels the task, matching the original's Drop-cancels-on-scope-
// exit behavior.
func (t *BackgroundTask[T]) Close() {
	t.cancel()
}
