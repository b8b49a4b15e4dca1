package clientip

import (
	"net"
	"net/http"
	"strings"
)

const unknown = "unknown"

// RealClientIP returns the host part of r.RemoteAddr for request logs.
// Proxy headers are not read here; chi's RealIP middleware rewrites RemoteAddr first.
func RealClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return unknown
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		// RealIP stores a bare address without a port
		return strings.Trim(addr, "[]")
	}
	return host
}
