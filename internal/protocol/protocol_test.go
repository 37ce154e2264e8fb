package protocol

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/wagiedev/graphql-ws-go/internal/metrics"
)

// mockTransport implements Transport for testing.
type mockTransport struct {
	mu      sync.Mutex
	sent    []*Frame
	sendErr error

	inbound   chan *Frame
	recvErr   chan error
	closed    chan struct{}
	closeOnce sync.Once
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		sent:    make([]*Frame, 0, 10),
		inbound: make(chan *Frame, 100),
		recvErr: make(chan error, 1),
		closed:  make(chan struct{}),
	}
}

func (m *mockTransport) Send(_ context.Context, f *Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return m.sendErr
	}

	m.sent = append(m.sent, f)

	return nil
}

func (m *mockTransport) Receive(ctx context.Context) (*Frame, error) {
	select {
	case f := <-m.inbound:
		return f, nil
	case err := <-m.recvErr:
		return nil, err
	case <-m.closed:
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *mockTransport) Close() error {
	m.closeOnce.Do(func() {
		close(m.closed)
	})

	return nil
}

func (m *mockTransport) setSendErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sendErr = err
}

func (m *mockTransport) getSent() []*Frame {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*Frame, len(m.sent))
	copy(result, m.sent)

	return result
}

// recordingHandler implements Handler for testing.
type recordingHandler struct {
	frames chan *Frame
	closed chan error
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		frames: make(chan *Frame, 100),
		closed: make(chan error, 1),
	}
}

func (h *recordingHandler) HandleFrame(f *Frame) {
	h.frames <- f
}

func (h *recordingHandler) HandleClose(err error) {
	h.closed <- err
}

func newTestDispatcher(bufferSize int) (*Dispatcher, *metrics.Metrics) {
	m := metrics.New(nil)

	return NewDispatcher(slog.Default(), m, bufferSize), m
}
