package graphqlws

import (
	"github.com/wagiedev/graphql-ws-go/internal/config"
	"github.com/wagiedev/graphql-ws-go/internal/protocol"
)

// Transport carries whole frames between the client and the server.
// Implement this to provide custom transports for testing, mocking,
// or alternative connections.
//
// The default implementation dials a WebSocket.
// Custom transports can be injected via WithTransport.
type Transport = config.Transport

// Frame is one wire-level message.
type Frame = protocol.Frame

// Kind is the value of a frame's "type" field.
type Kind = protocol.Kind

// Frame kinds of the graphql-transport-ws dialect.
const (
	KindInit      = protocol.KindInit
	KindAck       = protocol.KindAck
	KindSubscribe = protocol.KindSubscribe
	KindNext      = protocol.KindNext
	KindError     = protocol.KindError
	KindComplete  = protocol.KindComplete
)
