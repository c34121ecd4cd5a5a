// Package clientip resolves the address used for rate limiting, IP blocks
// and contact form records.
package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RealClientIP returns the peer address of r. Proxy headers are ignored: the
// API is reached directly, so X-Forwarded-For would only let callers pick
// their own rate-limit bucket.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return Normalize(host)
}

// Normalize canonicalizes an IP string so one client maps to one key:
// IPv4-mapped IPv6 becomes IPv4 and zones are dropped. Unparseable input is
// returned trimmed.
func Normalize(ip string) string {
	ip = strings.Trim(strings.TrimSpace(ip), "[]")
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ip
	}
	return addr.Unmap().WithZone("").String()
}
