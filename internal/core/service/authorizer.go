package service

import (
	"path"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/pkg/metrics"
)

// Authorizer decides which destinations a session may enter and which menu
// it sees. It holds no state besides the route table and is safe for
// concurrent use.
type Authorizer struct {
	routes []domain.Route
	log    zerolog.Logger
}

func NewAuthorizer(log zerolog.Logger) *Authorizer {
	return &Authorizer{routes: routeTable, log: log}
}

// CanEnter reports whether an authenticated session holds one of the
// required roles. An empty role list admits any authenticated session.
func (a *Authorizer) CanEnter(s domain.Session, required []domain.Role) bool {
	if !s.Authenticated() {
		return false
	}
	if len(required) == 0 {
		return true
	}
	role := s.Role()
	return role.Known() && slices.Contains(required, role)
}

// Guard decides whether destination may be rendered for the session.
func (a *Authorizer) Guard(s domain.Session, destination string) domain.Decision {
	dest := normalizePath(destination)
	if target, ok := indexRedirects[dest]; ok {
		dest = target
	}

	d := a.decide(s, dest)
	metrics.NavigationDecisionsTotal.WithLabelValues(string(d.Outcome)).Inc()
	a.log.Debug().
		Str("destination", dest).
		Str("role", s.Role().String()).
		Str("outcome", string(d.Outcome)).
		Msg("navigation guarded")
	return d
}

func (a *Authorizer) decide(s domain.Session, dest string) domain.Decision {
	route, ok := a.match(dest)
	switch {
	case !ok:
		return domain.Decision{Outcome: domain.OutcomeNotFound, Destination: dest, Redirect: domain.PathNotFound}
	case route.Public:
		return domain.Decision{Outcome: domain.OutcomeAllow, Destination: dest}
	case s.Status == domain.StatusResuming || (s.Loading && !s.Authenticated()):
		return domain.Decision{Outcome: domain.OutcomePending, Destination: dest}
	case !s.Authenticated():
		return domain.Decision{Outcome: domain.OutcomeRedirectLogin, Destination: dest, Redirect: domain.PathLogin}
	case !a.CanEnter(s, route.Roles):
		return domain.Decision{Outcome: domain.OutcomeRedirectUnauthorized, Destination: dest, Redirect: domain.PathUnauthorized}
	default:
		return domain.Decision{Outcome: domain.OutcomeAllow, Destination: dest}
	}
}

func (a *Authorizer) match(dest string) (domain.Route, bool) {
	for _, r := range a.routes {
		if matchPattern(r.Pattern, dest) {
			return r, true
		}
	}
	return domain.Route{}, false
}

// RolesFor returns the roles required by the destination, or nil when it
// only needs authentication or does not exist.
func (a *Authorizer) RolesFor(destination string) []domain.Role {
	r, ok := a.match(normalizePath(destination))
	if !ok {
		return nil
	}
	return slices.Clone(r.Roles)
}

// BuildMenu returns the sidebar entries for role: the shared Dashboard entry
// followed by the role's own section. Unknown roles get the shared entry only.
func (a *Authorizer) BuildMenu(role domain.Role) []domain.NavigationItem {
	entries := append(slices.Clone(baseMenu), roleMenus[role]...)
	return a.items(entries)
}

func (a *Authorizer) items(entries []menuEntry) []domain.NavigationItem {
	out := make([]domain.NavigationItem, 0, len(entries))
	for _, e := range entries {
		item := domain.NavigationItem{
			Label:         e.label,
			Destination:   e.dest,
			RequiredRoles: a.RolesFor(e.dest),
		}
		if len(e.children) > 0 {
			item.Children = a.items(e.children)
		}
		out = append(out, item)
	}
	return out
}

// Routes returns a copy of the destination table.
func (a *Authorizer) Routes() []domain.Route {
	out := make([]domain.Route, len(a.routes))
	for i, r := range a.routes {
		r.Roles = slices.Clone(r.Roles)
		out[i] = r
	}
	return out
}

func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

// matchPattern matches a path against a pattern whose ":name" segments match
// any single non-empty segment.
func matchPattern(pattern, p string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(p, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i, seg := range ps {
		if strings.HasPrefix(seg, ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if seg != xs[i] {
			return false
		}
	}
	return true
}
