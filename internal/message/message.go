// Package message defines the GraphQL request and response shapes carried in
// frame payloads.
package message

import (
	"fmt"
	"strings"
)

// Request is the payload of a subscribe frame.
//
// Wire format:
//
//	{
//	  "query": "subscription BuildLogs($id: String!) { ... }",
//	  "variables": {"id": "..."},
//	  "operationName": "BuildLogs"
//	}
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
	Extensions    map[string]any `json:"extensions,omitempty"`
}

// Response is a decoded frame payload. T is the shape of the "data" field.
type Response[T any] struct {
	Data       *T             `json:"data,omitempty"`
	Errors     []GraphQLError `json:"errors,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// HasErrors reports whether the server returned any GraphQL errors.
func (r *Response[T]) HasErrors() bool {
	return len(r.Errors) > 0
}

// GraphQLError is one entry of a response's "errors" array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}

	parts := make([]string, 0, len(e.Path))
	for _, p := range e.Path {
		parts = append(parts, fmt.Sprint(p))
	}

	return fmt.Sprintf("%s (path: %s)", e.Message, strings.Join(parts, "."))
}

// Location is a position in the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}
