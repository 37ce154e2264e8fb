package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wagiedev/graphql-ws-go/internal/config"
	"github.com/wagiedev/graphql-ws-go/internal/errors"
	"github.com/wagiedev/graphql-ws-go/internal/message"
	"github.com/wagiedev/graphql-ws-go/internal/metrics"
	"github.com/wagiedev/graphql-ws-go/internal/protocol"
	"github.com/wagiedev/graphql-ws-go/internal/wsconn"
)

// state is the connection-level lifecycle state.
type state int

const (
	stateIdle state = iota
	stateHandshaking
	stateReady
	stateFailed
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateHandshaking:
		return "handshaking"
	case stateReady:
		return "ready"
	case stateFailed:
		return "failed"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Client multiplexes subscriptions over one connection.
type Client struct {
	log        *slog.Logger
	options    *config.Options
	transport  config.Transport
	relay      *protocol.Relay
	dispatcher *protocol.Dispatcher
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	connID     string

	// handshaking is true until the inbound pump has handed the first frame
	// to the handshake channel.
	handshaking atomic.Bool
	handshake   chan *protocol.Frame

	// Fatal error storage
	errMu    sync.RWMutex
	fatalErr error

	// Lifecycle management
	mu        sync.Mutex
	state     state
	ready     chan struct{} // closed when connection_ack is observed
	done      chan struct{} // closed on failure, connection loss or Close
	doneOnce  sync.Once
	closeOnce sync.Once
}

// New creates a new client.
//
// The client is not connected after creation. Call Connect() with options to connect.
func New() *Client {
	return &Client{
		handshake: make(chan *protocol.Frame, 1),
		ready:     make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// setFatalError stores the first fatal error encountered.
func (c *Client) setFatalError(err error) {
	if err == nil {
		return
	}

	c.errMu.Lock()
	defer c.errMu.Unlock()

	if c.fatalErr == nil {
		c.fatalErr = err
	}
}

// getFatalError returns the stored fatal error, if any.
func (c *Client) getFatalError() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()

	return c.fatalErr
}

func (c *Client) closeDone() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}

func (c *Client) getState() state {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// setState moves to s unless the client is already in a terminal state.
func (c *Client) setState(s state) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateFailed || c.state == stateClosed {
		return
	}

	c.state = s
}

// initializeCore builds the transport, dispatcher and relay.
// Caller must hold c.mu lock. Lock is held on return.
func (c *Client) initializeCore(ctx context.Context, options *config.Options) error {
	// Default to empty options if nil
	if options == nil {
		options = &config.Options{}
	}

	// Extract logger from options, defaulting to a no-op logger
	log := options.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	c.connID = ulid.Make().String()
	c.log = log.With("component", "client", "conn_id", c.connID)
	c.options = options
	c.tracer = newTracer(options.TracerProvider)

	if err := options.Validate(); err != nil {
		return err
	}

	// Create or use injected transport
	var transport config.Transport

	if options.Transport != nil {
		transport = options.Transport

		c.log.Debug("Using injected custom transport")
	} else {
		wsTransport, err := wsconn.Dial(ctx, c.log, options)
		if err != nil {
			return err
		}

		transport = wsTransport
	}

	c.transport = transport
	c.metrics = metrics.New(options.MetricsRegisterer)
	c.dispatcher = protocol.NewDispatcher(c.log, c.metrics, options.BufferSize)
	c.relay = protocol.NewRelay(c.log, transport, c, c.metrics)

	return nil
}

// Connect establishes the connection and performs the handshake.
//
// It sends connection_init with a fresh connection id and blocks until the
// server answers. Any frame other than connection_ack, a closed connection or
// an expired handshake timeout fails with a HandshakeError; the client is
// then unusable and must be replaced. Dial failures are TransportErrors.
func (c *Client) Connect(ctx context.Context, options *config.Options) (err error) {
	c.mu.Lock()

	if c.state == stateClosed {
		c.mu.Unlock()

		return errors.ErrClientClosed
	}

	if c.state != stateIdle {
		c.mu.Unlock()

		return errors.ErrClientAlreadyConnected
	}

	if err := c.initializeCore(ctx, options); err != nil {
		c.state = stateFailed
		c.mu.Unlock()

		c.setFatalError(err)
		c.closeDone()

		return err
	}

	c.state = stateHandshaking
	c.handshaking.Store(true)
	c.relay.Start()
	c.mu.Unlock()

	ctx, span := c.startSpan(ctx, "graphqlws.connect")
	defer func() {
		endSpan(span, err)
	}()

	c.log.Info("Starting handshake")

	if err := c.performHandshake(ctx); err != nil {
		c.metrics.HandshakeResult(false)
		c.fail(err)

		return err
	}

	c.metrics.HandshakeResult(true)
	c.setState(stateReady)
	close(c.ready)

	c.log.Info("Client connected")

	return nil
}

// performHandshake sends connection_init and waits for connection_ack.
func (c *Client) performHandshake(ctx context.Context) error {
	timeout := c.options.HandshakeTimeoutOrDefault()

	if err := c.relay.Enqueue(ctx, protocol.InitFrame(c.connID, c.options.InitPayload)); err != nil {
		return &errors.HandshakeError{Err: fmt.Errorf("send connection_init: %w", err)}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case f := <-c.handshake:
		return c.checkAck(f)

	case <-c.relay.Done():
		// The ack may have been handed over just before the connection ended.
		select {
		case f := <-c.handshake:
			return c.checkAck(f)
		default:
		}

		err := c.relay.Err()
		if err == nil {
			err = errors.ErrConnectionClosed
		}

		return &errors.HandshakeError{Err: err}

	case <-timer.C:
		c.log.Warn("Handshake timed out", "timeout", timeout)

		return &errors.HandshakeError{Err: fmt.Errorf("%w after %s", errors.ErrHandshakeTimeout, timeout)}

	case <-ctx.Done():
		return &errors.HandshakeError{Err: ctx.Err()}
	}
}

// checkAck accepts f as the handshake answer only if it is connection_ack.
func (c *Client) checkAck(f *protocol.Frame) error {
	if f.Type != protocol.KindAck {
		c.log.Warn("Unexpected frame during handshake", "type", f.Type)

		return &errors.HandshakeError{Got: string(f.Type)}
	}

	c.log.Debug("Received connection_ack")

	return nil
}

// fail records a connection-fatal error and tears the connection down.
func (c *Client) fail(err error) {
	c.setFatalError(err)
	c.setState(stateFailed)
	c.closeDone()

	if c.relay != nil {
		_ = c.relay.Close()
	}
}

// HandleFrame implements protocol.Handler.
//
// The first inbound frame belongs to the handshake; every later frame is
// routed by id.
func (c *Client) HandleFrame(f *protocol.Frame) {
	if c.handshaking.Load() {
		c.handshaking.Store(false)
		c.handshake <- f

		return
	}

	c.dispatcher.Route(f)
}

// HandleClose implements protocol.Handler.
//
// It ends every live subscription and marks the client unusable. A clean
// close leaves Err nil.
func (c *Client) HandleClose(err error) {
	if err != nil {
		c.log.Error("Connection lost", "error", err)
		c.setFatalError(err)
	} else {
		c.log.Info("Connection closed")
	}

	c.setState(stateFailed)
	c.dispatcher.CloseAll()
	c.closeDone()
}

// terminalErr returns the error reported to callers once the connection is gone.
func (c *Client) terminalErr() error {
	if c.getState() == stateClosed {
		return errors.ErrClientClosed
	}

	if err := c.getFatalError(); err != nil {
		return err
	}

	return errors.ErrConnectionClosed
}

// Start begins a new subscription.
//
// If the handshake is still in progress Start waits for it. A fresh 128-bit
// id is registered with the dispatcher before the subscribe frame is queued,
// and Start returns once the frame has been written to the connection. A
// write failure is returned as a TransportError and the subscription is
// removed.
func (c *Client) Start(ctx context.Context, req *message.Request) (_ *Subscription, err error) {
	if req == nil {
		return nil, errors.ErrNilRequest
	}

	switch c.getState() {
	case stateIdle:
		return nil, errors.ErrClientNotConnected
	case stateFailed, stateClosed:
		return nil, c.terminalErr()
	}

	select {
	case <-c.ready:
	case <-c.done:
		return nil, c.terminalErr()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case <-c.done:
		return nil, c.terminalErr()
	default:
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	id := uuid.NewString()

	ctx, span := c.startSpan(ctx, "graphqlws.subscribe",
		attribute.String("graphqlws.subscription_id", id),
		attribute.String("graphql.operation.name", req.OperationName),
	)
	defer func() {
		endSpan(span, err)
	}()

	sub, err := c.dispatcher.Register(id)
	if err != nil {
		if err == errors.ErrConnectionClosed {
			return nil, c.terminalErr()
		}

		return nil, fmt.Errorf("register subscription: %w", err)
	}

	c.log.Debug("Starting subscription", "subscription_id", id, "operation", req.OperationName)

	if err := c.relay.Enqueue(ctx, protocol.SubscribeFrame(id, body)); err != nil {
		c.dispatcher.Unregister(id)

		return nil, fmt.Errorf("start subscription: %w", err)
	}

	c.metrics.SubscriptionsTotal.Inc()

	return newSubscription(c.log, sub, c.dispatcher, c.metrics), nil
}

// Subscriptions returns the number of live subscriptions.
func (c *Client) Subscriptions() int {
	c.mu.Lock()
	dispatcher := c.dispatcher
	c.mu.Unlock()

	if dispatcher == nil {
		return 0
	}

	return dispatcher.Len()
}

// Done returns a channel that is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that ended the connection, if any.
func (c *Client) Err() error {
	return c.getFatalError()
}

// Close terminates the connection and ends every live subscription.
//
// After Close(), the client cannot be reused - create a new client with New().
// This method is safe to call multiple times.
func (c *Client) Close() error {
	var closeErr error

	c.closeOnce.Do(func() {
		c.mu.Lock()
		prev := c.state
		c.state = stateClosed
		relay := c.relay
		c.mu.Unlock()

		c.closeDone()

		if prev == stateIdle || relay == nil {
			return
		}

		c.log.Info("Closing client")

		closeErr = relay.Close()

		c.log.Info("Client closed")
	})

	return closeErr
}
