package graphqlws

import "github.com/wagiedev/graphql-ws-go/internal/errors"

// Re-export error types from internal package

// GraphQLWSError is the base interface for all client errors.
type GraphQLWSError = errors.GraphQLWSError

// TransportError indicates the connection failed while dialing, sending or receiving.
type TransportError = errors.TransportError

// HandshakeError indicates the server did not acknowledge the connection.
type HandshakeError = errors.HandshakeError

// FramingError indicates an inbound message was not a valid frame.
type FramingError = errors.FramingError

// DecodeError indicates a frame payload could not be decoded as a response.
type DecodeError = errors.DecodeError

// Re-export sentinel errors from internal package.
var (
	// ErrClientNotConnected indicates Start was called before Connect.
	ErrClientNotConnected = errors.ErrClientNotConnected

	// ErrClientAlreadyConnected indicates Connect was called twice.
	ErrClientAlreadyConnected = errors.ErrClientAlreadyConnected

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.ErrClientClosed

	// ErrConnectionClosed indicates the connection ended.
	ErrConnectionClosed = errors.ErrConnectionClosed

	// ErrHandshakeTimeout indicates connection_ack did not arrive in time.
	ErrHandshakeTimeout = errors.ErrHandshakeTimeout

	// ErrNilRequest indicates Start was called without a request.
	ErrNilRequest = errors.ErrNilRequest

	// ErrMissingURL indicates no endpoint was configured.
	ErrMissingURL = errors.ErrMissingURL

	// ErrMissingToken indicates no bearer credential was configured.
	ErrMissingToken = errors.ErrMissingToken
)
