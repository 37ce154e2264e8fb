// Package errors defines error types for the GraphQL WebSocket client.
//
// This package provides structured error types for the failure classes of a
// multiplexed subscription connection: transport failures, handshake
// failures, malformed wire frames and payloads that do not match the
// expected response shape. All error types support error unwrapping and can
// be checked using errors.Is, errors.As, and errors.AsType.
package errors
