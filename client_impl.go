package graphqlws

import (
	"context"

	"github.com/wagiedev/graphql-ws-go/internal/client"
)

// clientWrapper wraps the internal client to adapt it to the public interface.
type clientWrapper struct {
	impl *client.Client
}

// Compile-time check that *clientWrapper implements the Client interface.
var _ Client = (*clientWrapper)(nil)

// newClientImpl creates the internal client implementation.
func newClientImpl() Client {
	return &clientWrapper{impl: client.New()}
}

// Connect dials the endpoint and performs the handshake.
func (c *clientWrapper) Connect(ctx context.Context, opts ...Option) error {
	return c.impl.Connect(ctx, applyOptions(opts))
}

// Start begins a subscription.
func (c *clientWrapper) Start(ctx context.Context, req *Request) (*Subscription, error) {
	return c.impl.Start(ctx, req)
}

// Subscriptions returns the number of live subscriptions.
func (c *clientWrapper) Subscriptions() int {
	return c.impl.Subscriptions()
}

// Done returns a channel that is closed when the connection ends.
func (c *clientWrapper) Done() <-chan struct{} {
	return c.impl.Done()
}

// Err returns the error that ended the connection, if any.
func (c *clientWrapper) Err() error {
	return c.impl.Err()
}

// Close terminates the connection and ends every live subscription.
func (c *clientWrapper) Close() error {
	return c.impl.Close()
}
