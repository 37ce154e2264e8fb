package graphqlws

import (
	"context"
)

// Client multiplexes GraphQL subscriptions over a single WebSocket connection.
//
// Lifecycle: Clients are single-use. After Close(), create a new client with NewClient().
//
// Example usage:
//
//	client := graphqlws.NewClient()
//	defer client.Close()
//
//	err := client.Connect(ctx,
//	    graphqlws.WithURL("wss://api.example.com/graphql"),
//	    graphqlws.WithToken(token),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sub, err := client.Start(ctx, &graphqlws.Request{Query: "subscription { ticks }"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for frame := range sub.Events(ctx) {
//	    // Process frame...
//	}
type Client interface {
	// Connect dials the endpoint and performs the connection_init /
	// connection_ack handshake. Must be called before Start.
	// Returns TransportError if dialing fails and HandshakeError if the server
	// does not acknowledge the connection.
	Connect(ctx context.Context, opts ...Option) error

	// Start begins a subscription and returns once its subscribe frame has
	// been written. Safe to call concurrently, including while Connect is
	// still waiting for the acknowledgment.
	Start(ctx context.Context, req *Request) (*Subscription, error)

	// Subscriptions returns the number of live subscriptions.
	Subscriptions() int

	// Done returns a channel that is closed when the connection ends.
	Done() <-chan struct{}

	// Err returns the error that ended the connection, or nil if it was
	// closed cleanly or is still open.
	Err() error

	// Close terminates the connection. Every live subscription observes
	// end-of-sequence. Safe to call multiple times.
	Close() error
}

// NewClient creates a new client.
//
// Call Connect() with options to open the connection:
//
//	client := graphqlws.NewClient()
//	err := client.Connect(ctx,
//	    graphqlws.WithLogger(slog.Default()),
//	    graphqlws.WithURL(url),
//	)
func NewClient() Client {
	return newClientImpl()
}
