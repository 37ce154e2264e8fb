package protocol

import (
	"log/slog"
	"sync"

	"github.com/wagiedev/graphql-ws-go/internal/errors"
	"github.com/wagiedev/graphql-ws-go/internal/metrics"
)

// DefaultBufferSize is the per-subscriber buffer capacity.
const DefaultBufferSize = 100

// Subscriber is the receiving end of one registered subscription.
//
// Events is never closed. Closed is closed once the subscriber has been
// removed from the table, either by Unregister or by CloseAll. Frames already
// buffered in Events remain readable after that.
type Subscriber struct {
	id     string
	events chan *Frame
	closed chan struct{}
	once   sync.Once
}

// ID returns the subscription id the subscriber was registered under.
func (s *Subscriber) ID() string { return s.id }

// Events returns the buffered channel of frames routed to this subscriber.
func (s *Subscriber) Events() <-chan *Frame { return s.events }

// Closed returns a channel that is closed when the subscriber is removed.
func (s *Subscriber) Closed() <-chan struct{} { return s.closed }

func (s *Subscriber) close() {
	s.once.Do(func() {
		close(s.closed)
	})
}

// Dispatcher owns the subscription id to subscriber table.
//
// The table is the only state shared between the inbound pump and callers.
// The lock is held only for map access, never across a channel operation.
type Dispatcher struct {
	log        *slog.Logger
	metrics    *metrics.Metrics
	bufferSize int

	mu     sync.Mutex
	subs   map[string]*Subscriber
	closed bool
}

// NewDispatcher creates an empty table. A non-positive bufferSize uses
// DefaultBufferSize.
func NewDispatcher(log *slog.Logger, m *metrics.Metrics, bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	return &Dispatcher{
		log:        log.With("component", "dispatcher"),
		metrics:    m,
		bufferSize: bufferSize,
		subs:       make(map[string]*Subscriber, 10),
	}
}

// Register inserts a new subscriber for id.
//
// Returns ErrDuplicateSubscription if id is present, or ErrConnectionClosed
// after CloseAll.
func (d *Dispatcher) Register(id string) (*Subscriber, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errors.ErrConnectionClosed
	}

	if _, exists := d.subs[id]; exists {
		return nil, errors.ErrDuplicateSubscription
	}

	sub := &Subscriber{
		id:     id,
		events: make(chan *Frame, d.bufferSize),
		closed: make(chan struct{}),
	}
	d.subs[id] = sub

	d.metrics.SubscriptionsActive.Inc()
	d.log.Debug("Registered subscriber", "subscription_id", id)

	return sub, nil
}

// Unregister removes id from the table. Unregistering an absent id is a no-op.
func (d *Dispatcher) Unregister(id string) {
	d.mu.Lock()

	sub, exists := d.subs[id]
	if exists {
		delete(d.subs, id)
	}

	d.mu.Unlock()

	if !exists {
		return
	}

	d.metrics.SubscriptionsActive.Dec()
	d.log.Debug("Unregistered subscriber", "subscription_id", id)

	sub.close()
}

// Route delivers f to the subscriber registered under f.ID.
//
// The send never blocks: if the subscriber's buffer is full the frame is
// dropped. Frames with an unknown or empty id are dropped silently.
// Returns true if the frame was buffered.
func (d *Dispatcher) Route(f *Frame) bool {
	d.mu.Lock()
	sub, exists := d.subs[f.ID]
	d.mu.Unlock()

	if !exists {
		d.metrics.Dropped(metrics.ReasonRoutingMiss)
		d.log.Debug("Dropping frame for unknown subscription", "subscription_id", f.ID, "type", f.Type)

		return false
	}

	select {
	case sub.events <- f:
		return true
	default:
		d.metrics.Dropped(metrics.ReasonBufferFull)
		d.log.Warn("Subscriber buffer full, dropping frame", "subscription_id", f.ID, "type", f.Type)

		return false
	}
}

// CloseAll removes every subscriber and rejects further registrations.
func (d *Dispatcher) CloseAll() {
	d.mu.Lock()

	subs := d.subs
	d.subs = make(map[string]*Subscriber)
	d.closed = true

	d.mu.Unlock()

	for _, sub := range subs {
		d.metrics.SubscriptionsActive.Dec()
		sub.close()
	}

	if len(subs) > 0 {
		d.log.Debug("Closed all subscribers", "count", len(subs))
	}
}

// Len returns the number of registered subscribers.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.subs)
}
