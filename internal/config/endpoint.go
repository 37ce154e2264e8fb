package config

import "strings"

// NormalizeEndpoint maps HTTP endpoint schemes to their WebSocket equivalents.
//
// Mappings:
//   - "http://" -> "ws://"
//   - "https://" -> "wss://"
func NormalizeEndpoint(url string) string {
	switch {
	case strings.HasPrefix(url, "https://"):
		return "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		return "ws://" + strings.TrimPrefix(url, "http://")
	default:
		return url
	}
}
