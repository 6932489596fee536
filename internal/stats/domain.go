package stats

import (
	"net"
	"net/url"
	"strings"
)

// NormalizeDomain reduces a URL or bare domain to its host.
// Values that do not parse as an absolute URL lose any http(s) scheme, path and port.
func NormalizeDomain(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Hostname() != "" {
		return u.Hostname()
	}
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	host, _, _ := strings.Cut(s, "/")
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// UniqueDomains normalizes domains, dropping empty and repeated entries while keeping order.
func UniqueDomains(domains ...string) []string {
	seen := make(map[string]bool, len(domains))
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = NormalizeDomain(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
