package arena

import (
	"context"
	"errors"
	"time"
)

var ErrLoopStopped = errors.New("arena loop stopped")

// Loop is the single reactor goroutine. Every engine call and every timer
// callback runs inside Run, so room state needs no locking.
type Loop struct {
	inbox chan func()
	done  chan struct{}
}

func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	return &Loop{
		inbox: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run processes posted work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.inbox:
			fn()
		}
	}
}

// Post queues fn. It reports false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.inbox <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}
}

// AfterFunc satisfies Scheduler by re-posting the timer callback onto the loop.
func (l *Loop) AfterFunc(d time.Duration, fn func()) func() bool {
	timer := time.AfterFunc(d, func() {
		l.Post(fn)
	})
	return timer.Stop
}
