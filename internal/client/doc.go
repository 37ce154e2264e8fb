// Package client implements the connection-level state machine.
//
// A Client owns one Transport and multiplexes any number of subscriptions over
// it. Connect performs the connection_init / connection_ack handshake; no
// subscribe frame is written before the ack has been observed. Start registers
// a fresh subscription id with the dispatcher and writes the subscribe frame.
// The relay's inbound pump routes every later frame to its subscription by id.
//
// When the connection ends, by Close or by the peer, every live Subscription
// observes end-of-sequence after draining what it had already buffered.
package client
