package config

import (
	"context"

	"github.com/wagiedev/graphql-ws-go/internal/protocol"
)

// Transport defines the interface for the duplex frame stream to the server.
// Implement this to provide custom transports for testing, mocking,
// or alternative connection methods.
//
// The default implementation is the WebSocket transport in internal/wsconn.
// Custom transports can be injected via Options.Transport and must already
// be connected and authenticated.
type Transport interface {
	// Send writes one frame. It is only ever called from a single goroutine.
	Send(ctx context.Context, f *protocol.Frame) error

	// Receive blocks until the next frame arrives.
	// It returns io.EOF when the peer closes the connection cleanly and an
	// errors.FramingError for a message that is not a valid frame.
	Receive(ctx context.Context) (*protocol.Frame, error)

	// Close terminates the connection and releases resources.
	// It's safe to call Close multiple times.
	Close() error
}
