package graphqlws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/wagiedev/graphql-ws-go/internal/config"
)

// Options holds the client configuration.
type Options = config.Options

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options on top of the environment defaults
// read from GRAPHQL_WS_URL and GRAPHQL_WS_TOKEN.
func applyOptions(opts []Option) *Options {
	options := config.FromEnv()
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithURL sets the WebSocket endpoint. http:// and https:// are rewritten to
// ws:// and wss://.
func WithURL(url string) Option {
	return func(o *Options) {
		o.URL = url
	}
}

// WithToken sets the bearer credential sent on the upgrade request.
func WithToken(token string) Option {
	return func(o *Options) {
		o.Token = token
	}
}

// WithSubprotocol overrides the negotiated sub-protocol.
// Defaults to "graphql-transport-ws".
func WithSubprotocol(subprotocol string) Option {
	return func(o *Options) {
		o.Subprotocol = subprotocol
	}
}

// WithHeader adds a header to the upgrade request.
func WithHeader(key, value string) Option {
	return func(o *Options) {
		if o.Header == nil {
			o.Header = make(http.Header)
		}

		o.Header.Add(key, value)
	}
}

// WithTransport injects a custom transport implementation.
// The transport must already be connected; URL and token are then ignored.
func WithTransport(transport Transport) Option {
	return func(o *Options) {
		o.Transport = transport
	}
}

// ===== Connection Behavior =====

// WithInitPayload sets the payload of the connection_init frame.
// Defaults to an empty object.
func WithInitPayload(payload json.RawMessage) Option {
	return func(o *Options) {
		o.InitPayload = payload
	}
}

// WithBufferSize sets how many undelivered frames each subscription buffers
// before further frames for it are dropped. Defaults to 100.
func WithBufferSize(size int) Option {
	return func(o *Options) {
		o.BufferSize = size
	}
}

// WithHandshakeTimeout bounds the wait for connection_ack.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.HandshakeTimeout = &timeout
	}
}

// WithPingInterval enables WebSocket keepalive pings at the given interval.
func WithPingInterval(interval time.Duration) Option {
	return func(o *Options) {
		o.PingInterval = interval
	}
}

// WithMetricsRegisterer registers the client's Prometheus collectors with reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *Options) {
		o.MetricsRegisterer = reg
	}
}

// WithTracerProvider sets the OpenTelemetry provider for connection and
// subscription spans. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) {
		o.TracerProvider = tp
	}
}
