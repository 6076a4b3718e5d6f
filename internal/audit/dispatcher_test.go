package audit

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
)

// blockingSink parks the delivery worker until released, so tests can
// saturate the dispatcher queue deterministically.
type blockingSink struct {
	started chan struct{}
	release chan struct{}

	mu     sync.Mutex
	events []Event
}

func newBlockingSink() *blockingSink {
	return &blockingSink{
		started: make(chan struct{}, 64),
		release: make(chan struct{}),
	}
}

func (s *blockingSink) Emit(_ context.Context, event Event) {
	s.started <- struct{}{}
	<-s.release

	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
}

func (s *blockingSink) delivered() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func waitStarted(t *testing.T, s *blockingSink) {
	t.Helper()

	select {
	case <-s.started:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the worker to reach the sink")
	}
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := NewChannelSink(8)
	d := NewDispatcher(sink, Options{Buffer: 8})
	defer d.Close()

	for _, et := range []string{"first", "second", "third"} {
		d.Emit(context.Background(), Event{EventType: et})
	}

	for _, want := range []string{"first", "second", "third"} {
		select {
		case got := <-sink.Events():
			if got.EventType != want {
				t.Fatalf("delivered %q, want %q", got.EventType, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestDispatcherDropsWhenSaturated(t *testing.T) {
	sink := newBlockingSink()
	d := NewDispatcher(sink, Options{Buffer: 1, DropWhenFull: true})

	// First event occupies the worker, second fills the buffer, third
	// has nowhere to go.
	d.Emit(context.Background(), Event{EventType: "held"})
	waitStarted(t, sink)
	d.Emit(context.Background(), Event{EventType: "queued"})
	d.Emit(context.Background(), Event{EventType: "overflow"})

	if got := d.Dropped(); got != 1 {
		t.Fatalf("dropped = %d, want 1", got)
	}

	close(sink.release)
	d.Close()

	if got := len(sink.delivered()); got != 2 {
		t.Fatalf("delivered %d events, want 2", got)
	}
}

func TestDispatcherBlockingEmitHonorsContext(t *testing.T) {
	sink := newBlockingSink()
	d := NewDispatcher(sink, Options{Buffer: 1})

	d.Emit(context.Background(), Event{EventType: "held"})
	waitStarted(t, sink)
	d.Emit(context.Background(), Event{EventType: "queued"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	finished := make(chan struct{})
	go func() {
		d.Emit(ctx, Event{EventType: "abandoned"})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit did not return after context cancellation")
	}

	close(sink.release)
	d.Close()

	for _, event := range sink.delivered() {
		if event.EventType == "abandoned" {
			t.Fatal("cancelled Emit must not deliver")
		}
	}
}

func TestDispatcherCloseDrainsBacklog(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher(NewJSONWriterSink(&buf), Options{Buffer: 16})

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Event{EventType: "security_event"})
	}
	d.Close()

	if lines := bytes.Count(buf.Bytes(), []byte("\n")); lines != 5 {
		t.Fatalf("drained %d events, want 5", lines)
	}
}

func TestDispatcherEmitAfterCloseIsIgnored(t *testing.T) {
	sink := NewChannelSink(1)
	d := NewDispatcher(sink, Options{Buffer: 1})
	d.Close()
	d.Close() // idempotent

	d.Emit(context.Background(), Event{EventType: "late"})

	select {
	case event := <-sink.Events():
		t.Fatalf("unexpected event after close: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDispatcherNilSinkAndNilReceiver(t *testing.T) {
	d := NewDispatcher(nil, Options{})
	d.Emit(context.Background(), Event{EventType: "swallowed"})
	d.Emit(nil, Event{EventType: "nil-context"}) //nolint:staticcheck
	d.Close()

	var missing *Dispatcher
	missing.Emit(context.Background(), Event{})
	missing.Close()
	if missing.Dropped() != 0 {
		t.Fatal("nil dispatcher dropped count should be 0")
	}
}

func TestMultiSinkFansOut(t *testing.T) {
	first := NewChannelSink(1)
	second := NewChannelSink(1)
	multi := MultiSink{first, nil, second}

	multi.Emit(context.Background(), Event{EventType: "fanned"})

	for _, sink := range []*ChannelSink{first, second} {
		select {
		case event := <-sink.Events():
			if event.EventType != "fanned" {
				t.Fatalf("unexpected event type %q", event.EventType)
			}
		default:
			t.Fatal("sink did not receive the event")
		}
	}
}

func TestChannelSinkCountsDrops(t *testing.T) {
	sink := NewChannelSink(1)

	sink.Emit(context.Background(), Event{EventType: "kept"})
	sink.Emit(context.Background(), Event{EventType: "lost"})

	if got := sink.Dropped(); got != 1 {
		t.Fatalf("dropped = %d, want 1", got)
	}
	if event := <-sink.Events(); event.EventType != "kept" {
		t.Fatalf("unexpected surviving event %q", event.EventType)
	}
}

func TestJSONWriterSinkNilWriter(t *testing.T) {
	sink := NewJSONWriterSink(nil)
	sink.Emit(context.Background(), Event{EventType: "nowhere"})

	var missing *JSONWriterSink
	missing.Emit(context.Background(), Event{})
}
