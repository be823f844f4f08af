package netutil

import (
	"net/http"
	"net/netip"
	"strings"
	"unicode/utf8"
)

const MaxUserAgentLength = 512

// NormalizeIP accepts a bare IP or an ip:port pair (IPv6 may be bracketed)
// and returns the canonical address with any zone dropped. ok is false when
// nothing in raw parses as an IP.
func NormalizeIP(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return canonical(ap.Addr())
	}
	candidates := []string{raw}
	if strings.HasPrefix(raw, "[") {
		if end := strings.LastIndex(raw, "]"); end > 0 {
			candidates = append(candidates, raw[1:end])
		}
	}
	if idx := strings.LastIndex(raw, ":"); idx > 0 {
		candidates = append(candidates, raw[:idx])
	}
	for _, c := range candidates {
		if addr, err := netip.ParseAddr(c); err == nil {
			return canonical(addr)
		}
	}
	return raw, false
}

func canonical(addr netip.Addr) (string, bool) {
	addr = addr.WithZone("")
	if !addr.IsValid() {
		return "", false
	}
	return addr.Unmap().String(), true
}

// TruncateUserAgent cuts ua to at most MaxUserAgentLength runes.
func TruncateUserAgent(ua string) string {
	if ua == "" {
		return ""
	}
	if utf8.RuneCountInString(ua) <= MaxUserAgentLength {
		return ua
	}
	runes := 0
	for i := range ua {
		if runes == MaxUserAgentLength {
			return ua[:i]
		}
		runes++
	}
	return ua
}

// ClientIP returns the caller's address. Forwarding headers are consulted only
// when trustProxy is set.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ip := strings.TrimSpace(strings.Split(xff, ",")[0])
			if normalized, ok := NormalizeIP(ip); ok {
				return normalized
			}
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			if normalized, ok := NormalizeIP(xr); ok {
				return normalized
			}
		}
	}
	if normalized, ok := NormalizeIP(r.RemoteAddr); ok {
		return normalized
	}
	return r.RemoteAddr
}
