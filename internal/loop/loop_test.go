package loop

import (
	"context"
	"testing"
	"time"
)

func TestVirtualAdvanceOrdersTimers(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	var got []string

	v.AfterFunc(50*time.Millisecond, func() { got = append(got, "b") })
	v.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	v.AfterFunc(50*time.Millisecond, func() { got = append(got, "c") })

	v.Advance(40 * time.Millisecond)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("after 40ms got %v, want [a]", got)
	}

	v.Advance(10 * time.Millisecond)
	if len(got) != 3 || got[1] != "b" || got[2] != "c" {
		t.Errorf("after 50ms got %v, want [a b c]", got)
	}
}

func TestVirtualStop(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	ran := false

	timer := v.AfterFunc(10*time.Millisecond, func() { ran = true })
	if !timer.Stop() {
		t.Error("Stop on pending timer should return true")
	}
	if timer.Stop() {
		t.Error("second Stop should return false")
	}

	v.Advance(time.Second)
	if ran {
		t.Error("stopped timer fired")
	}
	if v.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", v.Pending())
	}
}

func TestVirtualTimerScheduledFromTimer(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	count := 0

	var tick func()
	tick = func() {
		count++
		v.AfterFunc(10*time.Millisecond, tick)
	}
	v.AfterFunc(10*time.Millisecond, tick)

	v.Advance(35 * time.Millisecond)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestVirtualSettleRunsPostsAndFrames(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	var got []string

	v.RequestFrame(func() { got = append(got, "frame") })
	v.Post(func() {
		got = append(got, "post")
		v.Post(func() { got = append(got, "nested") })
	})

	v.Settle()
	want := []string{"post", "nested", "frame"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoopDo(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- l.Serve(ctx) }()

	for !l.Running() {
		time.Sleep(time.Millisecond)
	}

	value := 0
	if err := l.Do(ctx, func() { value = 42 }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if value != 42 {
		t.Errorf("value = %d, want 42", value)
	}

	fired := make(chan struct{})
	l.AfterFunc(5*time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("AfterFunc did not fire")
	}

	cancel()
	<-errc
	if err := l.Do(context.Background(), func() {}); err != ErrStopped {
		t.Errorf("Do after stop = %v, want ErrStopped", err)
	}
}

func TestLoopTimerStop(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Serve(ctx)

	fired := make(chan struct{}, 1)
	timer := l.AfterFunc(20*time.Millisecond, func() { fired <- struct{}{} })
	if !timer.Stop() {
		t.Error("Stop on pending timer should return true")
	}

	select {
	case <-fired:
		t.Error("stopped timer fired")
	case <-time.After(60 * time.Millisecond):
	}
}
