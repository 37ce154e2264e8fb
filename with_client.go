package graphqlws

import (
	"context"
	"fmt"

	"github.com/wagiedev/graphql-ws-go/internal/client"
)

// WithClient connects a client, hands it to fn and closes it when fn returns.
//
// The options are resolved once, environment defaults included, and the same
// resolved set configures the connection and the close logging. fn only runs
// after connection_ack; a failed connect is returned wrapped and fn is never
// called. A Close failure is logged and does not replace fn's error.
//
//	err := graphqlws.WithClient(ctx, func(c graphqlws.Client) error {
//	    sub, err := c.Start(ctx, &graphqlws.Request{Query: query})
//	    if err != nil {
//	        return err
//	    }
//	    for frame := range sub.Events(ctx) {
//	        // handle frame
//	    }
//	    return nil
//	},
//	    graphqlws.WithURL(url),
//	    graphqlws.WithToken(token),
//	)
func WithClient(ctx context.Context, fn func(Client) error, opts ...Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	c := &clientWrapper{impl: client.New()}

	if err := c.impl.Connect(ctx, options); err != nil {
		_ = c.impl.Close()

		return fmt.Errorf("connect subscription client: %w", err)
	}

	defer func() {
		if err := c.impl.Close(); err != nil {
			log.Warn("Failed to close subscription client", "component", "with_client", "error", err)
		}
	}()

	return fn(c)
}
