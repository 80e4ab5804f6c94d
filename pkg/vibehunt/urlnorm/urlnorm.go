// Package urlnorm cleans up user-entered resource URLs and derives fallback
// titles from them.
package urlnorm

import (
	"errors"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// PlaceholderTitle is used when a URL has no usable hostname.
const PlaceholderTitle = "New Resource"

var (
	ErrEmpty      = errors.New("url is required")
	ErrInvalidURL = errors.New("url is not valid")
)

// Normalize turns loosely typed input such as "example.com" into an absolute
// URL. It adds an https:// scheme when none is given and prefixes "www." when
// the host is a bare registrable domain (example.com, example.co.uk) but not
// a subdomain, an IP address or a single-label host.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmpty
	}

	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return "", ErrInvalidURL
	}

	host := u.Hostname()
	if needsWWW(host) {
		if port := u.Port(); port != "" {
			u.Host = net.JoinHostPort("www."+host, port)
		} else {
			u.Host = "www." + host
		}
	}

	return u.String(), nil
}

func needsWWW(host string) bool {
	host = strings.ToLower(host)
	if strings.HasPrefix(host, "www.") || net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return false
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}
	return registrable == host
}

// Hostname returns the URL's host without a leading "www.", or "" if the URL
// cannot be parsed or has no host.
func Hostname(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// FallbackTitle is the title used when enrichment is unavailable: the bare
// hostname, or PlaceholderTitle when there is none.
func FallbackTitle(raw string) string {
	if host := Hostname(raw); host != "" {
		return host
	}
	return PlaceholderTitle
}
