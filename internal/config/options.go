// Package config provides configuration types for the GraphQL WebSocket client.
package config

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/wagiedev/graphql-ws-go/internal/errors"
)

const (
	// DefaultSubprotocol is the WebSocket sub-protocol of the framing dialect.
	DefaultSubprotocol = "graphql-transport-ws"

	// DefaultHandshakeTimeout bounds the wait for connection_ack.
	DefaultHandshakeTimeout = 10 * time.Second

	// EnvURL, EnvToken and EnvHandshakeTimeout are read by FromEnv and
	// HandshakeTimeoutOrDefault.
	EnvURL              = "GRAPHQL_WS_URL"
	EnvToken            = "GRAPHQL_WS_TOKEN"
	EnvHandshakeTimeout = "GRAPHQL_WS_HANDSHAKE_TIMEOUT"
)

// Options configures the behavior of the client.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// URL is the ws:// or wss:// endpoint. http(s) schemes are normalized.
	URL string

	// Token is the bearer credential sent in the Authorization header.
	Token string

	// Subprotocol is negotiated via Sec-WebSocket-Protocol.
	// If empty, DefaultSubprotocol is used.
	Subprotocol string

	// Header provides additional HTTP headers for the WebSocket upgrade request.
	Header http.Header

	// InitPayload is sent as the payload of connection_init.
	// If nil, an empty object is sent.
	InitPayload json.RawMessage

	// BufferSize is the per-subscription buffer capacity.
	// If zero, defaults to 100.
	BufferSize int

	// HandshakeTimeout bounds the wait for connection_ack.
	// If nil, defaults to 10 seconds. Can also be set via GRAPHQL_WS_HANDSHAKE_TIMEOUT.
	HandshakeTimeout *time.Duration

	// PingInterval enables WebSocket-level keepalive pings.
	// Zero disables pinging.
	PingInterval time.Duration

	// MetricsRegisterer receives the client's Prometheus collectors.
	// If nil, collectors are not registered.
	MetricsRegisterer prometheus.Registerer

	// TracerProvider creates the spans for the handshake and each subscribe.
	// If nil, the global OpenTelemetry provider is used.
	TracerProvider trace.TracerProvider `json:"-"`

	// Transport allows injecting an already-connected transport.
	// If nil, a WebSocket connection is dialed from URL and Token.
	// This field is not serialized to JSON.
	Transport Transport `json:"-"`
}

// FromEnv returns options seeded from GRAPHQL_WS_URL and GRAPHQL_WS_TOKEN.
func FromEnv() *Options {
	return &Options{
		URL:   os.Getenv(EnvURL),
		Token: os.Getenv(EnvToken),
	}
}

// SubprotocolOrDefault returns the configured sub-protocol or DefaultSubprotocol.
func (o *Options) SubprotocolOrDefault() string {
	if o.Subprotocol != "" {
		return o.Subprotocol
	}

	return DefaultSubprotocol
}

// HandshakeTimeoutOrDefault returns the handshake timeout from options, env var, or default.
func (o *Options) HandshakeTimeoutOrDefault() time.Duration {
	// Check options for explicit timeout
	if o.HandshakeTimeout != nil {
		return *o.HandshakeTimeout
	}

	// Fall back to env var
	if timeoutStr := os.Getenv(EnvHandshakeTimeout); timeoutStr != "" {
		if timeoutSec, err := strconv.Atoi(timeoutStr); err == nil && timeoutSec > 0 {
			return time.Duration(timeoutSec) * time.Second
		}
	}

	return DefaultHandshakeTimeout
}

// Validate checks that a connection can be established from these options.
// Endpoint and credential are only required when no transport is injected.
func (o *Options) Validate() error {
	if o.Transport != nil {
		return nil
	}

	if o.URL == "" {
		return errors.ErrMissingURL
	}

	if o.Token == "" {
		return errors.ErrMissingToken
	}

	return nil
}
