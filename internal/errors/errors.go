package errors

import (
	"errors"
	"fmt"
)

// GraphQLWSError is the base interface for all client errors.
type GraphQLWSError interface {
	error
	IsGraphQLWSError() bool
}

// Compile-time verification that all error types implement GraphQLWSError.
var (
	_ GraphQLWSError = (*TransportError)(nil)
	_ GraphQLWSError = (*HandshakeError)(nil)
	_ GraphQLWSError = (*FramingError)(nil)
	_ GraphQLWSError = (*DecodeError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrClientNotConnected indicates Connect has not been called.
	ErrClientNotConnected = errors.New("client not connected")

	// ErrClientAlreadyConnected indicates Connect was called twice.
	ErrClientAlreadyConnected = errors.New("client already connected")

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.New("client closed: clients are single-use, create a new one with NewClient()")

	// ErrConnectionClosed indicates the underlying connection has terminated.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrHandshakeTimeout indicates no connection_ack arrived in time.
	ErrHandshakeTimeout = errors.New("handshake timeout")

	// ErrNilRequest indicates Start was called without a request.
	ErrNilRequest = errors.New("nil subscription request")

	// ErrDuplicateSubscription indicates a subscription id is already registered.
	ErrDuplicateSubscription = errors.New("duplicate subscription id")

	// ErrMissingURL indicates no endpoint was configured and no transport was injected.
	ErrMissingURL = errors.New("missing endpoint URL")

	// ErrMissingToken indicates no bearer credential was configured.
	ErrMissingToken = errors.New("unauthorized: missing bearer token")
)

// TransportError indicates the socket failed while connecting, sending or receiving.
// It is fatal to the whole client.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("transport error: %v", e.Err)
	}

	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsGraphQLWSError implements GraphQLWSError.
func (e *TransportError) IsGraphQLWSError() bool { return true }

// HandshakeError indicates the server did not accept the connection.
//
// Got holds the frame type received instead of connection_ack, if any.
type HandshakeError struct {
	Got string
	Err error
}

func (e *HandshakeError) Error() string {
	if e.Got != "" {
		return fmt.Sprintf("handshake failed: expected connection_ack, got %q", e.Got)
	}

	return fmt.Sprintf("handshake failed: %v", e.Err)
}

func (e *HandshakeError) Unwrap() error {
	return e.Err
}

// IsGraphQLWSError implements GraphQLWSError.
func (e *HandshakeError) IsGraphQLWSError() bool { return true }

// FramingError indicates a wire message could not be parsed as a frame.
// The offending frame is dropped; the connection continues.
type FramingError struct {
	RawData string
	Err     error
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("malformed frame: %v", e.Err)
}

func (e *FramingError) Unwrap() error {
	return e.Err
}

// IsGraphQLWSError implements GraphQLWSError.
func (e *FramingError) IsGraphQLWSError() bool { return true }

// DecodeError indicates a frame payload did not match the expected response shape.
// The frame is omitted from the subscription; the subscription continues.
type DecodeError struct {
	SubscriptionID string
	Err            error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode payload for subscription %s: %v", e.SubscriptionID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsGraphQLWSError implements GraphQLWSError.
func (e *DecodeError) IsGraphQLWSError() bool { return true }
