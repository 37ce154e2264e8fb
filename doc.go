// Package graphqlws provides a client for GraphQL subscriptions over the
// graphql-transport-ws WebSocket protocol.
//
// A single connection carries any number of concurrent subscriptions. The
// client performs the connection_init / connection_ack handshake, tags every
// subscription with a fresh id and routes each inbound frame to the
// subscription it belongs to. A slow consumer never delays the others: each
// subscription buffers a bounded number of frames and drops the overflow.
//
// # Basic Usage
//
//	client := graphqlws.NewClient()
//	defer client.Close()
//
//	err := client.Connect(ctx,
//	    graphqlws.WithURL("wss://api.example.com/graphql"),
//	    graphqlws.WithToken(token),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sub, err := client.Start(ctx, &graphqlws.Request{
//	    Query:     "subscription($room: ID!) { messageAdded(room: $room) { text } }",
//	    Variables: map[string]any{"room": "general"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for frame := range sub.Events(ctx) {
//	    fmt.Println(frame.Type, string(frame.Payload))
//	}
//
// Frames are delivered verbatim whatever their type, including "error" and
// "complete". The sequence ends when the subscription or the client is closed,
// or when the connection drops.
//
// # Typed Responses
//
// Responses decodes each payload into a GraphQL response and skips frames
// that do not decode:
//
//	type Message struct {
//	    MessageAdded struct{ Text string } `json:"messageAdded"`
//	}
//
//	for resp := range graphqlws.Responses[Message](ctx, sub) {
//	    fmt.Println(resp.Data.MessageAdded.Text)
//	}
//
// # Configuration
//
// GRAPHQL_WS_URL and GRAPHQL_WS_TOKEN seed the endpoint and credential;
// options passed to Connect take precedence.
//
// # Logging
//
// For detailed operation tracking, use WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	err := client.Connect(ctx, graphqlws.WithLogger(logger))
//
// # Error Handling
//
// The client provides typed errors for different failure scenarios:
//
//	if err := client.Connect(ctx); err != nil {
//	    if hsErr, ok := errors.AsType[*graphqlws.HandshakeError](err); ok {
//	        log.Fatalf("server answered %q instead of connection_ack", hsErr.Got)
//	    }
//	    if tErr, ok := errors.AsType[*graphqlws.TransportError](err); ok {
//	        log.Fatalf("connection failed during %s: %v", tErr.Op, tErr.Err)
//	    }
//	    log.Fatal(err)
//	}
//
// Connection-level failures are fatal: every live subscription ends and the
// client must be replaced with a new one.
package graphqlws
