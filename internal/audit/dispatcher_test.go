package audit

import (
	"context"
	"sync"
	"testing"
	"time"
)

type countingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *countingSink) Emit(_ context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestDispatcherDisabledReturnsNil(t *testing.T) {
	if d := NewDispatcher(Config{Enabled: false}, &countingSink{}); d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}

	// Nil receivers are valid no-ops.
	var d *Dispatcher
	d.Emit(context.Background(), Event{EventType: EventLoginSuccess})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("expected zero drops on nil dispatcher")
	}
}

func TestDispatcherDeliversAndDrains(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 64}, sink)

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{
			Timestamp: time.Now().UTC(),
			EventType: EventLoginFailure,
		})
	}
	d.Close()

	if got := sink.count(); got != 10 {
		t.Fatalf("expected 10 delivered events after close, got %d", got)
	}
	if d.Dropped() != 0 {
		t.Fatalf("expected no drops, got %d", d.Dropped())
	}
}

func TestDispatcherEmitAfterClose(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	d.Close()

	d.Emit(context.Background(), Event{EventType: EventLoginSuccess})
	if got := sink.count(); got != 0 {
		t.Fatalf("expected no delivery after close, got %d", got)
	}
}

func TestChannelSinkBuffers(t *testing.T) {
	sink := NewChannelSink(2)
	sink.Emit(context.Background(), Event{EventType: EventRegisterSuccess})

	select {
	case event := <-sink.Events():
		if event.EventType != EventRegisterSuccess {
			t.Fatalf("unexpected event %+v", event)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}
