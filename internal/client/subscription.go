package client

import (
	"context"
	stderrors "errors"
	"io"
	"iter"
	"log/slog"

	"github.com/wagiedev/graphql-ws-go/internal/errors"
	"github.com/wagiedev/graphql-ws-go/internal/message"
	"github.com/wagiedev/graphql-ws-go/internal/metrics"
	"github.com/wagiedev/graphql-ws-go/internal/protocol"
)

// Subscription is the consumer end of one started subscription.
//
// Frames are yielded in arrival order, whatever their kind. The sequence ends
// when the subscription is closed or the connection goes away; frames that
// were already buffered are still delivered first.
type Subscription struct {
	log        *slog.Logger
	sub        *protocol.Subscriber
	dispatcher *protocol.Dispatcher
	metrics    *metrics.Metrics
}

func newSubscription(
	log *slog.Logger,
	sub *protocol.Subscriber,
	dispatcher *protocol.Dispatcher,
	m *metrics.Metrics,
) *Subscription {
	return &Subscription{
		log:        log.With("subscription_id", sub.ID()),
		sub:        sub,
		dispatcher: dispatcher,
		metrics:    m,
	}
}

// ID returns the subscription id carried by every frame of this subscription.
func (s *Subscription) ID() string {
	return s.sub.ID()
}

// Next returns the next frame.
//
// Returns io.EOF once the subscription has ended and its buffer is drained,
// or ctx.Err() if ctx ends first.
func (s *Subscription) Next(ctx context.Context) (*protocol.Frame, error) {
	select {
	case f := <-s.sub.Events():
		return f, nil
	default:
	}

	select {
	case f := <-s.sub.Events():
		return f, nil
	case <-s.sub.Closed():
		select {
		case f := <-s.sub.Events():
			return f, nil
		default:
			return nil, io.EOF
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Events returns an iterator over the subscription's frames.
//
// Breaking out of the loop closes the subscription, as does ctx ending
// before the subscription does.
func (s *Subscription) Events(ctx context.Context) iter.Seq[*protocol.Frame] {
	return func(yield func(*protocol.Frame) bool) {
		for {
			f, err := s.Next(ctx)
			if err != nil {
				if !stderrors.Is(err, io.EOF) {
					s.Close()
				}

				return
			}

			if !yield(f) {
				s.Close()

				return
			}
		}
	}
}

// Done returns a channel that is closed when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.sub.Closed()
}

// Close removes the subscription from the client. Frames that arrive for it
// afterwards are dropped. Safe to call multiple times.
//
// No frame is sent to the server.
func (s *Subscription) Close() {
	s.dispatcher.Unregister(s.sub.ID())
}

// Responses iterates over sub, decoding each frame's payload as a GraphQL
// response with data of type T.
//
// Frames whose payload cannot be decoded are skipped and the sequence
// continues. Breaking out of the loop closes the subscription.
func Responses[T any](ctx context.Context, sub *Subscription) iter.Seq[*message.Response[T]] {
	return func(yield func(*message.Response[T]) bool) {
		for f := range sub.Events(ctx) {
			resp, err := message.Decode[T](sub.log, f)
			if err != nil {
				if _, ok := stderrors.AsType[*errors.DecodeError](err); ok {
					sub.metrics.Dropped(metrics.ReasonDecode)
					sub.log.Warn("Skipping undecodable payload", "type", f.Type, "error", err)

					continue
				}

				return
			}

			if !yield(resp) {
				return
			}
		}
	}
}
