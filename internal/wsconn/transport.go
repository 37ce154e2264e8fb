package wsconn

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/wagiedev/graphql-ws-go/internal/config"
	"github.com/wagiedev/graphql-ws-go/internal/errors"
	"github.com/wagiedev/graphql-ws-go/internal/protocol"
)

const (
	// maxMessageSize is the maximum size of one inbound message.
	maxMessageSize = 1024 * 1024 // 1MB

	// pingTimeout bounds a single keepalive ping.
	pingTimeout = 10 * time.Second
)

var errBinaryMessage = stderrors.New("unexpected binary message")

// Transport implements config.Transport over a WebSocket connection.
type Transport struct {
	log  *slog.Logger
	conn *websocket.Conn

	cancelPing context.CancelFunc
	closeOnce  sync.Once
	closeErr   error
}

// Compile-time verification that Transport implements the Transport interface.
var _ config.Transport = (*Transport)(nil)

// Dial opens a WebSocket connection to options.URL.
//
// The upgrade request carries "Authorization: Bearer <token>", any extra
// headers from options.Header, and offers the configured sub-protocol.
// Returns a TransportError if the connection cannot be established.
func Dial(ctx context.Context, log *slog.Logger, options *config.Options) (*Transport, error) {
	log = log.With("component", "ws_transport")

	url := config.NormalizeEndpoint(options.URL)
	subprotocol := options.SubprotocolOrDefault()

	header := make(http.Header, len(options.Header)+1)
	for k, v := range options.Header {
		header[k] = append([]string(nil), v...)
	}

	if options.Token != "" {
		header.Set("Authorization", "Bearer "+options.Token)
	}

	log.Info("Dialing GraphQL endpoint", "url", url, "subprotocol", subprotocol)

	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader:   header,
		Subprotocols: []string{subprotocol},
	})
	if err != nil {
		log.Error("Failed to dial GraphQL endpoint", "url", url, "error", err)

		return nil, &errors.TransportError{Op: "dial", Err: err}
	}

	if got := conn.Subprotocol(); got != subprotocol {
		log.Warn("Server did not select the requested sub-protocol", "requested", subprotocol, "selected", got)
	}

	conn.SetReadLimit(maxMessageSize)

	t := &Transport{
		log:        log,
		conn:       conn,
		cancelPing: func() {},
	}

	if options.PingInterval > 0 {
		pingCtx, cancel := context.WithCancel(context.Background())
		t.cancelPing = cancel

		go t.pingLoop(pingCtx, options.PingInterval)
	}

	return t, nil
}

// Send writes f as one text message.
func (t *Transport) Send(ctx context.Context, f *protocol.Frame) error {
	data, err := f.Encode()
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	t.log.Debug("Writing frame", "type", f.Type, "data_len", len(data))

	if err := t.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return &errors.TransportError{Op: "send", Err: err}
	}

	return nil
}

// Receive reads the next message and decodes it as a frame.
//
// A normal or going-away close from the peer is reported as io.EOF. Binary
// messages and invalid JSON are reported as FramingError.
func (t *Transport) Receive(ctx context.Context) (*protocol.Frame, error) {
	typ, data, err := t.conn.Read(ctx)
	if err != nil {
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			t.log.Debug("Peer closed connection", "error", err)

			return nil, io.EOF
		}

		return nil, &errors.TransportError{Op: "receive", Err: err}
	}

	if typ != websocket.MessageText {
		return nil, &errors.FramingError{Err: errBinaryMessage}
	}

	return protocol.DecodeFrame(data)
}

// Close sends a normal closure and releases the connection.
// It's safe to call Close multiple times.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.cancelPing()

		t.log.Debug("Closing WebSocket connection")
		err := t.conn.Close(websocket.StatusNormalClosure, "closing")
		if err != nil && !stderrors.Is(err, net.ErrClosed) {
			t.closeErr = err
		}
	})

	return t.closeErr
}

// pingLoop sends keepalive pings until ctx ends.
func (t *Transport) pingLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := t.conn.Ping(pctx)

			cancel()

			if err != nil {
				t.log.Debug("Keepalive ping failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
