package protocol

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/graphql-ws-go/internal/errors"
	"github.com/wagiedev/graphql-ws-go/internal/metrics"
)

// Handler receives what the inbound pump reads.
//
// Both methods are called from the inbound pump goroutine. HandleClose is
// called exactly once, after the last HandleFrame, with the error that ended
// the connection or nil for a clean close.
type Handler interface {
	HandleFrame(f *Frame)
	HandleClose(err error)
}

// Outbound item states. An item is written only if the pump moves it from
// pending to sending before its caller gives up.
const (
	itemPending int32 = iota
	itemSending
	itemCancelled
)

// outboundItem is one queued frame and the channel its send result is
// reported on.
type outboundItem struct {
	frame  *Frame
	result chan error
	state  atomic.Int32
}

// Relay runs the two pumps between a Transport and the rest of the client.
//
// The outbound pump drains an unbounded FIFO queue into Transport.Send. The
// inbound pump loops on Transport.Receive and hands every frame to the
// Handler. Callers never touch the socket; Enqueue only queues work and waits
// for its result.
type Relay struct {
	log       *slog.Logger
	transport Transport
	handler   Handler
	metrics   *metrics.Metrics

	// Outbound queue
	queueMu sync.Mutex
	queue   []*outboundItem
	stopped bool
	wake    chan struct{}

	eg     *errgroup.Group
	cancel context.CancelFunc

	errMu sync.RWMutex
	err   error

	closing        atomic.Bool
	done           chan struct{}
	doneOnce       sync.Once
	transportOnce  sync.Once
	transportClose error
}

// NewRelay creates a relay. Call Start to run the pumps.
func NewRelay(log *slog.Logger, transport Transport, handler Handler, m *metrics.Metrics) *Relay {
	return &Relay{
		log:       log.With("component", "relay"),
		transport: transport,
		handler:   handler,
		metrics:   m,
		queue:     make([]*outboundItem, 0, 10),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Start launches the outbound and inbound pumps.
//
// The pumps run on a background context so that a caller's deadline for
// connecting does not end the connection. Close stops them.
func (r *Relay) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	var egCtx context.Context

	r.eg, egCtx = errgroup.WithContext(ctx)

	r.eg.Go(func() error {
		return r.outboundPump(egCtx)
	})

	r.eg.Go(func() error {
		return r.inboundPump(egCtx)
	})

	r.log.Debug("Relay pumps started")
}

// Done returns a channel that is closed when the inbound pump terminates.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

// Err returns the error that terminated the relay, if any.
func (r *Relay) Err() error {
	r.errMu.RLock()
	defer r.errMu.RUnlock()

	return r.err
}

func (r *Relay) setErr(err error) {
	if err == nil {
		return
	}

	r.errMu.Lock()
	defer r.errMu.Unlock()

	if r.err == nil {
		r.err = err
	}
}

// terminalErr is reported to enqueued work that can no longer be sent.
func (r *Relay) terminalErr() error {
	if err := r.Err(); err != nil {
		return err
	}

	return errors.ErrConnectionClosed
}

// Enqueue appends f to the outbound queue and waits until the outbound pump
// has written it.
//
// Frames are written in the order they were enqueued. Returns a
// TransportError if the write fails, or ErrConnectionClosed if the relay has
// stopped. If ctx ends first the frame stays queued and ctx.Err() is returned.
func (r *Relay) Enqueue(ctx context.Context, f *Frame) error {
	item := &outboundItem{frame: f, result: make(chan error, 1)}

	r.queueMu.Lock()

	if r.stopped {
		r.queueMu.Unlock()

		return r.terminalErr()
	}

	r.queue = append(r.queue, item)
	r.queueMu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}

	select {
	case err := <-item.result:
		return err
	case <-ctx.Done():
		item.state.CompareAndSwap(itemPending, itemCancelled)

		return ctx.Err()
	}
}

// pop removes the head of the outbound queue, or returns nil if it is empty.
func (r *Relay) pop() *outboundItem {
	r.queueMu.Lock()
	defer r.queueMu.Unlock()

	if len(r.queue) == 0 {
		return nil
	}

	item := r.queue[0]
	r.queue[0] = nil
	r.queue = r.queue[1:]

	return item
}

// failPending stops the queue and fails everything still in it.
func (r *Relay) failPending() {
	r.queueMu.Lock()
	r.stopped = true
	pending := r.queue
	r.queue = nil
	r.queueMu.Unlock()

	err := r.terminalErr()
	for _, item := range pending {
		item.result <- err
	}
}

func (r *Relay) outboundPump(ctx context.Context) error {
	defer r.log.Debug("Outbound pump stopped")
	defer r.failPending()

	for {
		if ctx.Err() != nil {
			return nil
		}

		item := r.pop()
		if item == nil {
			select {
			case <-r.wake:
				continue
			case <-ctx.Done():
				return nil
			}
		}

		if !item.state.CompareAndSwap(itemPending, itemSending) {
			r.log.Debug("Skipping cancelled frame", "id", item.frame.ID, "type", item.frame.Type)

			continue
		}

		if err := r.transport.Send(ctx, item.frame); err != nil {
			tErr := asTransportError("send", err)

			r.log.Error("Failed to send frame", "type", item.frame.Type, "error", err)
			r.setErr(tErr)
			item.result <- tErr

			return tErr
		}

		r.metrics.FramesSent.Inc()
		r.log.Debug("Sent frame", "id", item.frame.ID, "type", item.frame.Type)

		item.result <- nil
	}
}

func (r *Relay) inboundPump(ctx context.Context) (err error) {
	defer func() {
		r.finish(err)
	}()

	for {
		f, recvErr := r.transport.Receive(ctx)
		if recvErr != nil {
			if fErr, ok := stderrors.AsType[*errors.FramingError](recvErr); ok {
				r.metrics.Dropped(metrics.ReasonFraming)
				r.log.Warn("Dropping malformed frame", "error", fErr.Err)

				continue
			}

			if stderrors.Is(recvErr, io.EOF) || r.closing.Load() || ctx.Err() != nil {
				r.log.Debug("Inbound stream ended", "error", recvErr)

				return nil
			}

			r.log.Error("Failed to receive frame", "error", recvErr)

			return asTransportError("receive", recvErr)
		}

		r.metrics.FramesReceived.Inc()
		r.handler.HandleFrame(f)
	}
}

// finish runs once when the inbound pump exits: it records the error, stops
// the outbound pump and notifies the handler.
func (r *Relay) finish(err error) {
	r.setErr(err)

	r.doneOnce.Do(func() {
		close(r.done)
	})

	if r.cancel != nil {
		r.cancel()
	}

	r.closeTransport()

	r.log.Debug("Inbound pump stopped", "error", r.Err())
	r.handler.HandleClose(r.Err())
}

func (r *Relay) closeTransport() {
	r.transportOnce.Do(func() {
		r.transportClose = r.transport.Close()
	})
}

// Close closes the transport and waits for both pumps to exit.
// It's safe to call Close multiple times.
func (r *Relay) Close() error {
	r.closing.Store(true)
	r.closeTransport()

	if r.cancel != nil {
		r.cancel()
	}

	if r.eg != nil {
		_ = r.eg.Wait()
	}

	return r.transportClose
}

// asTransportError wraps err in a TransportError unless it already is one.
func asTransportError(op string, err error) error {
	if _, ok := stderrors.AsType[*errors.TransportError](err); ok {
		return err
	}

	return &errors.TransportError{Op: op, Err: err}
}
