package engine

import (
	"context"
	"testing"
	"time"
)

func TestWorkerPool_DeliversEachResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := newWorkerPool(ctx, 3, 10, func(_ context.Context, n int) int { return n * n })
	defer p.Drain()

	outs := make([]<-chan int, 5)
	for i := range outs {
		out, ok := p.Submit(i)
		if !ok {
			t.Fatalf("Submit(%d) rejected", i)
		}
		outs[i] = out
	}
	for i, out := range outs {
		select {
		case got := <-out:
			if got != i*i {
				t.Errorf("result %d = %d, want %d", i, got, i*i)
			}
		case <-time.After(time.Second):
			t.Fatalf("result %d never arrived", i)
		}
	}
}

func TestWorkerPool_SubmitRejectsWhenFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := newWorkerPool(ctx, 0, 1, func(_ context.Context, n int) int { return n })

	if _, ok := p.Submit(1); !ok {
		t.Fatal("first submit should fit the queue")
	}
	if out, ok := p.Submit(2); ok || out != nil {
		t.Errorf("second submit accepted on a full queue")
	}
	if p.QueueLen() != 1 || p.QueueCap() != 1 {
		t.Errorf("queue len/cap = %d/%d, want 1/1", p.QueueLen(), p.QueueCap())
	}

	p.Drain()
	p.Drain()
}
