package events

import (
	"context"
	"testing"
	"time"
)

func TestEmitPreservesOrder(t *testing.T) {
	q := NewQueue(4)
	ctx := context.Background()

	go func() {
		for i := 0; i < 100; i++ {
			q.Emit(ctx, i)
		}
	}()

	for want := 0; want < 100; want++ {
		select {
		case got := <-q.C():
			if got.(int) != want {
				t.Fatalf("got %v, want %d", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", want)
		}
	}
}

func TestEmitUnblocksOnCancel(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	if !q.Emit(ctx, "fill") {
		t.Fatal("first emit should fit in the buffer")
	}

	result := make(chan bool)
	go func() { result <- q.Emit(ctx, "blocked") }()
	cancel()

	select {
	case ok := <-result:
		if ok {
			t.Fatal("cancelled emit must report failure")
		}
	case <-time.After(time.Second):
		t.Fatal("emit did not return after cancel")
	}
}

func TestPostNeverBlocks(t *testing.T) {
	q := NewQueue(1)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			q.Post(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("post blocked on a full queue")
	}

	seen := 0
	timeout := time.After(time.Second)
	for seen < 10 {
		select {
		case <-q.C():
			seen++
		case <-timeout:
			t.Fatalf("received %d of 10 posted events", seen)
		}
	}
}

func TestClosedQueueRejectsEmit(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	q.Close()
	if q.Emit(context.Background(), "late") {
		t.Fatal("emit after close should fail")
	}
}
