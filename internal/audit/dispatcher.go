package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// Options configures a [Dispatcher].
type Options struct {
	// Buffer is the event queue depth. Values below one are raised to one.
	Buffer int
	// DropWhenFull makes Emit discard events instead of blocking when the
	// queue is saturated. Dropped events are counted, never logged.
	DropWhenFull bool
}

// Dispatcher decouples event producers from sink latency: Emit enqueues,
// a single worker goroutine delivers in order. Shutdown is signalled by
// closing the queue itself, so the worker drains whatever is buffered
// before it exits and Close does not return until delivery finished.
type Dispatcher struct {
	sink         Sink
	dropWhenFull bool

	mu     sync.RWMutex
	closed bool

	queue   chan Event
	done    chan struct{}
	dropped atomic.Uint64
}

// NewDispatcher starts the delivery worker. A nil sink is replaced with
// [NoOpSink] so producers never have to care.
func NewDispatcher(sink Sink, opts Options) *Dispatcher {
	if sink == nil {
		sink = NoOpSink{}
	}
	if opts.Buffer < 1 {
		opts.Buffer = 1
	}

	d := &Dispatcher{
		sink:         sink,
		dropWhenFull: opts.DropWhenFull,
		queue:        make(chan Event, opts.Buffer),
		done:         make(chan struct{}),
	}

	go d.deliver()

	return d
}

func (d *Dispatcher) deliver() {
	defer close(d.done)

	// Ranging over the queue makes draining implicit: once Close closes
	// the channel, the loop finishes the backlog and falls through.
	for event := range d.queue {
		d.sink.Emit(context.Background(), event)
	}
}

// Emit enqueues one event. After Close it is a no-op. In blocking mode
// the context bounds how long a saturated queue may hold the caller.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// The read lock excludes Close, so the queue cannot be closed
	// between the check and the send.
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	if d.dropWhenFull {
		select {
		case d.queue <- event:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
	}
}

// Close stops intake, waits for the worker to drain the backlog, and
// returns. Safe to call more than once and on a nil receiver.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}

// Dropped reports how many events were discarded under backpressure.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
