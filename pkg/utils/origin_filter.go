// Package utils holds small helpers shared by the server and the CLI.
package utils

import (
	"net"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// AnyOrigin is the pattern that allows every origin
const AnyOrigin = "*"

// OriginFilter decides which browser origins may call the API. Patterns are
// either exact origins ("https://hr.example.com") or globs
// ("https://*.example.com"); matching is case-insensitive.
type OriginFilter struct {
	any      bool
	exact    map[string]bool
	patterns []glob.Glob
	raw      []string
}

// NewOriginFilter compiles patterns. An empty list allows every origin.
func NewOriginFilter(patterns []string) (*OriginFilter, error) {
	f := &OriginFilter{exact: make(map[string]bool)}

	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if p == AnyOrigin {
			f.any = true
			continue
		}

		p = strings.TrimSuffix(p, "/")
		if !strings.ContainsAny(p, "*?[{") {
			f.exact[p] = true
			f.raw = append(f.raw, p)
			continue
		}

		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid origin pattern %q", p)
		}
		f.patterns = append(f.patterns, g)
		f.raw = append(f.raw, p)
	}

	if len(f.exact) == 0 && len(f.patterns) == 0 {
		f.any = true
	}
	return f, nil
}

// AllowsAny reports whether the filter accepts every origin, in which case
// the wildcard header can be sent.
func (f *OriginFilter) AllowsAny() bool {
	return f.any
}

// IsAllowed reports whether origin may call the API. Loopback origins are
// always allowed so a local frontend works against any configuration.
func (f *OriginFilter) IsAllowed(origin string) bool {
	origin = strings.ToLower(strings.TrimSuffix(origin, "/"))
	if origin == "" {
		return false
	}
	if f.any {
		return true
	}

	if parsed, err := url.Parse(origin); err == nil && isLoopbackHost(parsed.Hostname()) {
		return true
	}

	if f.exact[origin] {
		return true
	}
	for _, p := range f.patterns {
		if p.Match(origin) {
			return true
		}
	}
	return false
}

// Patterns returns the configured patterns, excluding the wildcard
func (f *OriginFilter) Patterns() []string {
	return append([]string(nil), f.raw...)
}

func isLoopbackHost(hostname string) bool {
	if hostname == "localhost" {
		return true
	}
	if ip := net.ParseIP(hostname); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
