// Package loop provides the single-threaded scheduler the desktop page runs
// on. Every task runs to completion before the next one starts; timers and
// animation frames are delivered back onto the same queue.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// FrameInterval is the delay used to emulate an animation frame
const FrameInterval = 16 * time.Millisecond

// ErrStopped is returned by Do when the loop is no longer running
var ErrStopped = errors.New("loop stopped")

// Timer is a pending AfterFunc callback
type Timer interface {
	// Stop prevents the callback from running. It reports whether the
	// callback was still pending.
	Stop() bool
}

// Scheduler is the capability page components use to defer work
type Scheduler interface {
	Post(fn func())
	AfterFunc(d time.Duration, fn func()) Timer
	RequestFrame(fn func())
	Now() time.Time
}

// Loop is a Scheduler backed by a single goroutine (see Serve)
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	running atomic.Bool
}

// New creates a loop. Tasks queue up until Serve is called.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post enqueues fn. Safe to call from any goroutine, including loop tasks.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do runs fn on the loop and waits for it to finish
func (l *Loop) Do(ctx context.Context, fn func()) error {
	if !l.running.Load() {
		return ErrStopped
	}
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc schedules fn on the loop after d
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	rt := &realTimer{}
	rt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if rt.fired.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return rt
}

// RequestFrame runs fn on the loop after one frame interval
func (l *Loop) RequestFrame(fn func()) {
	l.AfterFunc(FrameInterval, fn)
}

// Now returns the wall clock
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Serve processes tasks until ctx is cancelled. It satisfies suture.Service.
func (l *Loop) Serve(ctx context.Context) error {
	l.running.Store(true)
	defer l.running.Store(false)

	for {
		for {
			fn := l.next()
			if fn == nil {
				break
			}
			fn()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Running reports whether Serve is active
func (l *Loop) Running() bool {
	return l.running.Load()
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

type realTimer struct {
	t     *time.Timer
	fired atomic.Bool
}

func (rt *realTimer) Stop() bool {
	rt.t.Stop()
	return rt.fired.CompareAndSwap(false, true)
}
