package notify

import (
	"net/http"
	"strings"
)

// OriginPolicy is the allow-list of browser origins permitted to open a connection.
type OriginPolicy struct {
	allowAll bool
	allowed  map[string]struct{}
}

// NewOriginPolicy builds a policy from exact origins. The entry "*" allows any origin.
func NewOriginPolicy(origins []string) *OriginPolicy {
	p := &OriginPolicy{allowed: make(map[string]struct{}, len(origins))}

	for _, origin := range origins {
		origin = normalizeOrigin(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			p.allowAll = true
			continue
		}
		p.allowed[origin] = struct{}{}
	}

	return p
}

// Allowed reports whether origin may connect. Requests without an Origin header come
// from non-browser clients and are allowed.
func (p *OriginPolicy) Allowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" || p.allowAll {
		return true
	}

	_, ok := p.allowed[origin]
	return ok
}

// Check applies the policy to the Origin header of r.
func (p *OriginPolicy) Check(r *http.Request) bool {
	return p.Allowed(r.Header.Get("Origin"))
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}
