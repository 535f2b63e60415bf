package loop

import (
	"context"
	"sort"
	"time"
)

// Virtual is a Scheduler driven by a manual clock. Nothing runs until
// Settle or Advance is called, which makes timer choreography testable.
type Virtual struct {
	now    time.Time
	seq    int
	queue  []func()
	frames []func()
	timers []*virtualTimer
}

type virtualTimer struct {
	due     time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (vt *virtualTimer) Stop() bool {
	if vt.stopped || vt.fired {
		return false
	}
	vt.stopped = true
	return true
}

// NewVirtual creates a virtual scheduler whose clock starts at start
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Post enqueues fn for the next Settle
func (v *Virtual) Post(fn func()) {
	v.queue = append(v.queue, fn)
}

// AfterFunc schedules fn at Now()+d
func (v *Virtual) AfterFunc(d time.Duration, fn func()) Timer {
	v.seq++
	vt := &virtualTimer{due: v.now.Add(d), seq: v.seq, fn: fn}
	v.timers = append(v.timers, vt)
	return vt
}

// RequestFrame queues fn for the next Settle
func (v *Virtual) RequestFrame(fn func()) {
	v.frames = append(v.frames, fn)
}

// Now returns the virtual clock
func (v *Virtual) Now() time.Time {
	return v.now
}

// Do runs fn immediately and settles the queue
func (v *Virtual) Do(_ context.Context, fn func()) error {
	fn()
	v.Settle()
	return nil
}

// Settle runs posted tasks and frames without moving the clock
func (v *Virtual) Settle() {
	for len(v.queue) > 0 || len(v.frames) > 0 {
		if len(v.queue) > 0 {
			fn := v.queue[0]
			v.queue = v.queue[1:]
			fn()
			continue
		}
		fn := v.frames[0]
		v.frames = v.frames[1:]
		fn()
	}
}

// Advance moves the clock forward by d, firing due timers in order
func (v *Virtual) Advance(d time.Duration) {
	target := v.now.Add(d)
	v.Settle()

	for {
		vt := v.nextDue(target)
		if vt == nil {
			break
		}
		v.now = vt.due
		vt.fired = true
		vt.fn()
		v.Settle()
	}

	v.now = target
}

// Pending returns the number of live timers
func (v *Virtual) Pending() int {
	n := 0
	for _, vt := range v.timers {
		if !vt.stopped && !vt.fired {
			n++
		}
	}
	return n
}

func (v *Virtual) nextDue(target time.Time) *virtualTimer {
	live := v.timers[:0]
	for _, vt := range v.timers {
		if !vt.stopped && !vt.fired {
			live = append(live, vt)
		}
	}
	v.timers = live

	sort.SliceStable(v.timers, func(i, j int) bool {
		if !v.timers[i].due.Equal(v.timers[j].due) {
			return v.timers[i].due.Before(v.timers[j].due)
		}
		return v.timers[i].seq < v.timers[j].seq
	})

	if len(v.timers) == 0 || v.timers[0].due.After(target) {
		return nil
	}
	return v.timers[0]
}
