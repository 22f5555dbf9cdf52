package ipaddr

import (
	"net"
	"strings"
)

// Normalize canonicalizes a raw peer address into a plain IP string.
// It accepts comma-separated forwarded-for chains (first hop wins),
// host:port forms, bracketed IPv6 and IPv6-mapped IPv4 (::ffff:a.b.c.d).
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	if i := strings.IndexByte(raw, ','); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(raw)

	if host, _, err := net.SplitHostPort(raw); err == nil {
		raw = host
	}
	raw = strings.Trim(raw, "[]")
	raw = strings.TrimPrefix(raw, "::ffff:")
	return raw
}

// Mask hides the tail of an IP for display: the last IPv4 octet becomes
// "xxx", IPv6 keeps its first three hextets. Unrecognized input is
// returned unchanged.
func Mask(ip string) string {
	if ip == "" {
		return ""
	}
	if IsIPv4(ip) {
		i := strings.LastIndexByte(ip, '.')
		return ip[:i] + ".xxx"
	}
	parts := strings.Split(ip, ":")
	if len(parts) >= 4 {
		return strings.Join(parts[:3], ":") + ":xxxx"
	}
	return ip
}

// IsIPv4 reports whether s is a literal dotted-quad IPv4 address.
func IsIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil && strings.Count(s, ".") == 3
}
