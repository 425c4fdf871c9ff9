package http

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPConfig lists the reverse proxies whose forwarding headers are believed
type IPConfig struct {
	TrustedProxies []string // CIDR ranges; invalid entries are ignored

	prefixes []netip.Prefix
	parsed   bool
}

// NewIPConfig parses trusted proxy CIDRs once up front
func NewIPConfig(trustedProxies []string) *IPConfig {
	c := &IPConfig{TrustedProxies: trustedProxies}
	c.prefixes = parsePrefixes(trustedProxies)
	c.parsed = true
	return c
}

func parsePrefixes(cidrs []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, cidr := range cidrs {
		if prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr)); err == nil {
			prefixes = append(prefixes, prefix.Masked())
		}
	}
	return prefixes
}

func (c *IPConfig) trusts(addr netip.Addr) bool {
	if c == nil {
		return false
	}
	prefixes := c.prefixes
	if !c.parsed {
		prefixes = parsePrefixes(c.TrustedProxies)
	}
	addr = addr.Unmap()
	for _, prefix := range prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ExtractClientIP returns the address a request came from. Forwarding headers
// are read only when the direct peer is a trusted proxy, so clients cannot
// pick their own rate-limit key by sending X-Forwarded-For.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	remote := remoteAddr(r)

	peer, err := netip.ParseAddr(remote)
	if err != nil || !config.trusts(peer) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, hop := range strings.Split(xff, ",") {
			if addr, err := netip.ParseAddr(strings.TrimSpace(hop)); err == nil {
				return addr.String()
			}
		}
	}

	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}

	return remote
}

func remoteAddr(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
