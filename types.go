package graphqlws

import (
	"context"
	"iter"

	"github.com/wagiedev/graphql-ws-go/internal/client"
	"github.com/wagiedev/graphql-ws-go/internal/message"
)

// Request is the payload of a subscribe frame.
type Request = message.Request

// Response is a GraphQL response with data of type T.
type Response[T any] = message.Response[T]

// GraphQLError is one entry of a response's "errors" list.
type GraphQLError = message.GraphQLError

// Location is a position in the query document.
type Location = message.Location

// Subscription is the consumer end of one started subscription.
type Subscription = client.Subscription

// Responses iterates over sub, decoding each frame's payload as a Response
// with data of type T. Frames that do not decode are skipped.
//
//	for resp := range graphqlws.Responses[Ticks](ctx, sub) {
//	    fmt.Println(resp.Data.Ticks)
//	}
func Responses[T any](ctx context.Context, sub *Subscription) iter.Seq[*Response[T]] {
	return client.Responses[T](ctx, sub)
}

// Decode parses a frame payload as a Response with data of type T.
// Returns a DecodeError if the payload does not match.
func Decode[T any](f *Frame) (*Response[T], error) {
	return message.Decode[T](NopLogger(), f)
}
