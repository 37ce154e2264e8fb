package config

import "testing"

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "https", in: "https://backboard.example.com/graphql/v2", want: "wss://backboard.example.com/graphql/v2"},
		{name: "http", in: "http://127.0.0.1:8080/graphql", want: "ws://127.0.0.1:8080/graphql"},
		{name: "wss unchanged", in: "wss://example.com/graphql", want: "wss://example.com/graphql"},
		{name: "empty unchanged", in: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizeEndpoint(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizeEndpoint(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
