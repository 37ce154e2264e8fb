package protocol

import (
	"context"
)

// Transport defines the minimal interface needed by the relay.
//
// This interface is satisfied by the WebSocket transport but allows for
// testing with mock transports. Receive returns io.EOF when the peer closes
// the connection cleanly and a FramingError for a message that is not a
// valid frame; any other error ends the connection.
type Transport interface {
	Send(ctx context.Context, f *Frame) error
	Receive(ctx context.Context) (*Frame, error)
	Close() error
}
