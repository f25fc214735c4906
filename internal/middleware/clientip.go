package middleware

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// TrustedProxies lists the peer networks whose forwarding headers are believed.
// An empty list means the client is always the connecting peer.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies parses a comma-separated list of CIDRs or bare addresses.
func ParseTrustedProxies(list string) (TrustedProxies, error) {
	var proxies TrustedProxies

	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if !strings.Contains(entry, "/") {
			addr, err := netip.ParseAddr(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
			}

			proxies = append(proxies, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))

			continue
		}

		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}

		proxies = append(proxies, prefix.Masked())
	}

	return proxies, nil
}

func (p TrustedProxies) trusts(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	addr = addr.Unmap()

	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}

	return false
}

// clientIP resolves the client address. Forwarding headers are only read when
// the connecting peer is a trusted proxy; X-Forwarded-For is walked from the
// right, skipping trusted hops, so a client cannot choose its own identity.
func clientIP(ctx huma.Context, proxies TrustedProxies) string {
	peer := remoteIP(ctx)
	if !proxies.trusts(peer) {
		return peer
	}

	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")

		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}

			if i == 0 || !proxies.trusts(hop) {
				return hop
			}
		}
	}

	if xri := strings.TrimSpace(ctx.Header("X-Real-IP")); xri != "" {
		return xri
	}

	return peer
}

// remoteIP is the connecting peer's address without the port.
func remoteIP(ctx huma.Context) string {
	addr := ctx.RemoteAddr()

	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}
