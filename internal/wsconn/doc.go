// Package wsconn provides the WebSocket transport for the GraphQL client.
//
// The transport dials the endpoint with a bearer credential and the
// graphql-transport-ws sub-protocol, then exchanges one JSON frame per text
// message. It is the default implementation of config.Transport.
package wsconn
