package util

import (
	"net/url"
	"strings"
)

func IsAbsHTTP(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// ResolveHTTP resolves href against base and returns it only when the result
// is an absolute http(s) URL; local paths and other schemes yield "".
func ResolveHTTP(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if !ref.IsAbs() {
		b, err := url.Parse(strings.TrimSpace(base))
		if err != nil || !IsAbsHTTP(b.String()) {
			return ""
		}
		ref = b.ResolveReference(ref)
	}
	if out := ref.String(); IsAbsHTTP(out) && ref.Host != "" {
		return out
	}
	return ""
}

// Hostname returns the lower-cased host of raw without port, or "".
func Hostname(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// OnDomain reports whether href points at domain or one of its subdomains.
func OnDomain(href, domain string) bool {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false
	}
	host := Hostname(href)
	if host == "" {
		return strings.Contains(strings.ToLower(href), domain)
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
