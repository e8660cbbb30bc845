package domain

// Well-known surfaces the guards redirect to.
const (
	PathLogin        = "/login"
	PathRegister     = "/register"
	PathDashboard    = "/dashboard"
	PathUnauthorized = "/unauthorized"
	PathNotFound     = "/404"
)

// NavigationItem is one entry of the sidebar menu.
type NavigationItem struct {
	Label         string           `json:"label"`
	Destination   string           `json:"destination"`
	RequiredRoles []Role           `json:"required_roles,omitempty"`
	Children      []NavigationItem `json:"children,omitempty"`
}

// Route is one guarded destination. A route with no roles only requires a
// signed-in user; a public route requires nothing.
type Route struct {
	Pattern string `json:"pattern"`
	Roles   []Role `json:"roles,omitempty"`
	Public  bool   `json:"public,omitempty"`
}

// Outcome classifies a route guard decision.
type Outcome string

const (
	OutcomeAllow                Outcome = "allow"
	OutcomePending              Outcome = "pending"
	OutcomeRedirectLogin        Outcome = "redirect_login"
	OutcomeRedirectUnauthorized Outcome = "redirect_unauthorized"
	OutcomeNotFound             Outcome = "not_found"
)

// Decision is the result of guarding a navigation request.
type Decision struct {
	Outcome     Outcome `json:"outcome"`
	Destination string  `json:"destination"`
	Redirect    string  `json:"redirect,omitempty"`
}

// Allowed reports whether the destination may be rendered.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}
