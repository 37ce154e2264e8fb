// Package protocol implements the multiplexing core of the GraphQL WebSocket client.
//
// The protocol package provides the wire Frame, a Relay that pumps frames
// between a Transport and the client, and a Dispatcher that routes inbound
// frames to per-subscription buffers by id.
//
// The Relay handles:
//   - An unbounded FIFO outbound queue drained by a single writer goroutine
//   - A reader goroutine that hands every inbound frame to a Handler
//   - Dropping malformed frames without ending the connection
//   - Reporting the terminal error once when the connection ends
//
// The Dispatcher handles:
//   - Registering and unregistering subscribers by id
//   - Non-blocking delivery with drop-on-full so one slow consumer never stalls the reader
//   - Tearing down every subscriber when the connection ends
//
// Example usage:
//
//	dispatcher := protocol.NewDispatcher(log, m, protocol.DefaultBufferSize)
//	relay := protocol.NewRelay(log, transport, handler, m)
//	relay.Start()
//
//	sub, err := dispatcher.Register(id)
//	err = relay.Enqueue(ctx, protocol.SubscribeFrame(id, body))
package protocol
