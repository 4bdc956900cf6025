package jwtware

import (
	"strings"

	"github.com/goliatone/go-router"
)

// RoutePolicy is the static public/authenticated classification for routes.
// Built once at startup from configuration and immutable afterwards, so it
// is safe to consult from arbitrarily many concurrent requests.
type RoutePolicy struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewRoutePolicy compiles a list of route patterns. A pattern is either an
// exact path ("/auth/login") or a prefix pattern ending in "/*"
// ("/docs/*", which also matches "/docs"). Everything not matched is the
// authenticated class.
func NewRoutePolicy(patterns []string) *RoutePolicy {
	p := &RoutePolicy{
		exact: make(map[string]struct{}, len(patterns)),
	}

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "/*") {
			p.prefixes = append(p.prefixes, strings.TrimSuffix(pattern, "*"))
			continue
		}
		p.exact[pattern] = struct{}{}
	}

	return p
}

// IsPublic reports whether the path belongs to the public route class
func (p *RoutePolicy) IsPublic(path string) bool {
	if path == "" {
		path = "/"
	}

	if _, ok := p.exact[path]; ok {
		return true
	}

	for _, prefix := range p.prefixes {
		if strings.HasPrefix(path, prefix) || path == strings.TrimSuffix(prefix, "/") {
			return true
		}
	}

	return false
}

// Filter adapts the policy to the middleware's Filter hook
func (p *RoutePolicy) Filter(ctx router.Context) bool {
	return p.IsPublic(ctx.Path())
}
