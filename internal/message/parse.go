package message

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"

	"github.com/wagiedev/graphql-ws-go/internal/errors"
	"github.com/wagiedev/graphql-ws-go/internal/protocol"
)

var errEmptyPayload = stderrors.New("empty payload")

// Decode parses a frame payload into a Response with data of type T.
//
// Returns a DecodeError if the payload is missing, null, or does not match
// the response shape. Callers omit such frames and keep consuming.
func Decode[T any](log *slog.Logger, f *protocol.Frame) (*Response[T], error) {
	payload := bytes.TrimSpace(f.Payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		log.Debug("Frame has no payload", "subscription_id", f.ID, "type", f.Type)

		return nil, &errors.DecodeError{SubscriptionID: f.ID, Err: errEmptyPayload}
	}

	var resp Response[T]
	if err := json.Unmarshal(payload, &resp); err != nil {
		log.Debug("Failed to decode payload", "subscription_id", f.ID, "type", f.Type, "error", err)

		return nil, &errors.DecodeError{SubscriptionID: f.ID, Err: err}
	}

	return &resp, nil
}
