package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/expense-system/internal/core/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ExpenseEvent
	block  chan struct{}
}

func (p *recordingPublisher) Publish(ctx context.Context, e domain.ExpenseEvent) error {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) snapshot() []domain.ExpenseEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ExpenseEvent(nil), p.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcher_PreservesPerExpenseOrder(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(3, pub, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	order := []domain.EventType{domain.EventExpenseSubmitted, domain.EventExpenseUpdated, domain.EventExpenseApproved}
	for _, typ := range order {
		d.Enqueue(domain.ExpenseEvent{Type: typ, ExpenseID: "exp-1"})
		d.Enqueue(domain.ExpenseEvent{Type: typ, ExpenseID: "exp-2"})
	}

	waitFor(t, func() bool { return len(pub.snapshot()) == 6 })

	for _, id := range []string{"exp-1", "exp-2"} {
		var got []domain.EventType
		for _, e := range pub.snapshot() {
			if e.ExpenseID == id {
				got = append(got, e.Type)
			}
		}
		for i := range order {
			if got[i] != order[i] {
				t.Fatalf("%s: expected order %v, got %v", id, order, got)
			}
		}
	}
}

func TestDispatcher_EnqueueDropsWhenFull(t *testing.T) {
	pub := &recordingPublisher{block: make(chan struct{})}
	d := NewDispatcher(1, pub, zerolog.Nop())

	// no workers running: the single channel fills up and the rest is dropped
	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue(domain.ExpenseEvent{ExpenseID: "exp-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full channel")
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Errorf("expected %d buffered events, got %d", channelBuffer, got)
	}
}

func TestDispatcher_WaitReturnsAfterCancel(t *testing.T) {
	d := NewDispatcher(2, &recordingPublisher{}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after cancel")
	}
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingPublisher{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Errorf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
