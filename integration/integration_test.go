//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	graphqlws "github.com/wagiedev/graphql-ws-go"
)

// Environment read by the integration tests on top of GRAPHQL_WS_URL and
// GRAPHQL_WS_TOKEN.
const (
	envQuery = "GRAPHQL_WS_TEST_QUERY"
)

// skipIfNoEndpoint skips the test unless a live endpoint is configured.
func skipIfNoEndpoint(t *testing.T) {
	t.Helper()

	if os.Getenv("GRAPHQL_WS_URL") == "" || os.Getenv("GRAPHQL_WS_TOKEN") == "" {
		t.Skip("GRAPHQL_WS_URL and GRAPHQL_WS_TOKEN not set")
	}
}

// testQuery returns the subscription document to run against the endpoint.
func testQuery(t *testing.T) *graphqlws.Request {
	t.Helper()

	query := os.Getenv(envQuery)
	if query == "" {
		t.Skip(envQuery + " not set")
	}

	return &graphqlws.Request{Query: query}
}

// connect returns a connected client that is closed when the test ends.
func connect(ctx context.Context, t *testing.T, opts ...graphqlws.Option) graphqlws.Client {
	t.Helper()

	skipIfNoEndpoint(t)

	client := graphqlws.NewClient()
	t.Cleanup(func() {
		_ = client.Close()
	})

	opts = append([]graphqlws.Option{graphqlws.WithPingInterval(10 * time.Second)}, opts...)

	require.NoError(t, client.Connect(ctx, opts...))

	return client
}
