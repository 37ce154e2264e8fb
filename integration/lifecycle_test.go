//go:build integration

package integration

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphqlws "github.com/wagiedev/graphql-ws-go"
)

// TestLifecycle_CloseMidStream verifies that closing the client while frames
// are flowing ends every subscription without hanging.
func TestLifecycle_CloseMidStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := connect(ctx, t)
	req := testQuery(t)

	subs := make([]*graphqlws.Subscription, 0, 3)

	for range 3 {
		sub, err := client.Start(ctx, req)
		require.NoError(t, err)

		subs = append(subs, sub)
	}

	_, err := subs[0].Next(ctx)
	require.NoError(t, err, "expected at least one frame before closing")

	closeDone := make(chan error, 1)

	go func() {
		closeDone <- client.Close()
	}()

	select {
	case err := <-closeDone:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Close did not return")
	}

	for _, sub := range subs {
		for {
			_, err := sub.Next(ctx)
			if err != nil {
				require.ErrorIs(t, err, io.EOF)

				break
			}
		}
	}

	assert.Equal(t, 0, client.Subscriptions())

	_, err = client.Start(ctx, req)
	require.ErrorIs(t, err, graphqlws.ErrClientClosed)
}

// TestLifecycle_BadToken verifies that a rejected credential surfaces as a
// transport or handshake failure rather than hanging.
func TestLifecycle_BadToken(t *testing.T) {
	skipIfNoEndpoint(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := graphqlws.NewClient()
	defer client.Close()

	err := client.Connect(ctx,
		graphqlws.WithToken("invalid-token"),
		graphqlws.WithHandshakeTimeout(10*time.Second),
	)
	require.Error(t, err)

	_, isTransport := errors.AsType[*graphqlws.TransportError](err)
	_, isHandshake := errors.AsType[*graphqlws.HandshakeError](err)
	assert.True(t, isTransport || isHandshake, "unexpected error type: %v", err)
}
