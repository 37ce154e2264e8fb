package protocol

import (
	"encoding/json"
	stderrors "errors"

	"github.com/wagiedev/graphql-ws-go/internal/errors"
)

// Kind is the value of a frame's "type" field.
type Kind string

// Frame kinds of the graphql-transport-ws dialect.
//
// Only KindAck is interpreted by the client, and only during the handshake.
// Every frame that arrives after the handshake is routed by id and delivered
// verbatim, whatever its kind.
const (
	KindInit      Kind = "connection_init"
	KindAck       Kind = "connection_ack"
	KindSubscribe Kind = "subscribe"
	KindNext      Kind = "next"
	KindError     Kind = "error"
	KindComplete  Kind = "complete"
)

// errMissingType is wrapped in a FramingError when a frame has no "type".
var errMissingType = stderrors.New(`missing "type" field`)

// Frame is one wire-level message.
//
// Wire format:
//
//	{
//	  "id": "5f1e...",
//	  "type": "subscribe",
//	  "payload": {...}
//	}
//
// ID is empty only for connection-level frames. Payload is opaque to the
// client and kept as raw JSON.
type Frame struct {
	ID      string          `json:"id,omitempty"`
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// InitFrame returns the connection_init frame that opens the handshake.
// A nil payload is sent as an empty object.
func InitFrame(connID string, payload json.RawMessage) *Frame {
	if payload == nil {
		payload = json.RawMessage(`{}`)
	}

	return &Frame{ID: connID, Type: KindInit, Payload: payload}
}

// SubscribeFrame returns the frame that starts subscription id.
func SubscribeFrame(id string, payload json.RawMessage) *Frame {
	return &Frame{ID: id, Type: KindSubscribe, Payload: payload}
}

// DecodeFrame parses one wire message.
//
// Returns a FramingError if data is not a JSON object or has no type.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &errors.FramingError{RawData: string(data), Err: err}
	}

	if f.Type == "" {
		return nil, &errors.FramingError{RawData: string(data), Err: errMissingType}
	}

	return &f, nil
}

// Encode serializes the frame for the wire.
func (f *Frame) Encode() ([]byte, error) {
	return json.Marshal(f)
}
