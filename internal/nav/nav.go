// Package nav holds the symbolic routes of the client and the role gate that
// decides what each route renders.
package nav

import (
	"strings"
	"sync"

	"github.com/jask/subsportal/internal/session"
)

// Route identifies a screen.
type Route string

const (
	RouteRoot      Route = "/"
	RouteLogin     Route = "/login"
	RouteSignup    Route = "/signup"
	RouteDashboard Route = "/dashboard"
)

// Navigator requests a transition to another screen.
type Navigator interface {
	Navigate(r Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }

// History is a Navigator that records every request. It is safe to call from
// command goroutines while the UI reads Current.
type History struct {
	mu     sync.Mutex
	routes []Route
}

// NewHistory starts a history at initial.
func NewHistory(initial Route) *History {
	return &History{routes: []Route{initial}}
}

func (h *History) Navigate(r Route) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, Clean(r))
}

// Current returns the most recent route.
func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) == 0 {
		return RouteRoot
	}
	return h.routes[len(h.routes)-1]
}

// Routes returns a copy of every recorded route, oldest first.
func (h *History) Routes() []Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Route, len(h.routes))
	copy(out, h.routes)
	return out
}

// Clean normalises user-entered paths: surrounding space and trailing slashes
// are dropped and a leading slash is ensured.
func Clean(r Route) Route {
	s := strings.TrimSpace(string(r))
	s = strings.TrimRight(s, "/")
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	return Route(s)
}

// View is what the layout renders for a route.
type View int

const (
	ViewNotFound View = iota
	ViewLogin
	ViewSignup
	ViewMainLayout
	ViewUnauthorized
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewSignup:
		return "signup"
	case ViewMainLayout:
		return "main"
	case ViewUnauthorized:
		return "unauthorized"
	default:
		return "not-found"
	}
}

// UnauthorizedMessage is shown when a signed-in user carries an unknown role.
const UnauthorizedMessage = "Unauthorized or unknown role"

// Decision is the outcome of gating a route. When Redirect is set the caller
// should navigate there instead of rendering View.
type Decision struct {
	View     View
	Redirect Route
}

// Gate resolves r for user. Protected routes need a signed-in user and render
// the main layout only for the subcontractor role.
func Gate(r Route, user *session.User) Decision {
	switch Clean(r) {
	case RouteRoot:
		return Decision{Redirect: RouteDashboard}
	case RouteLogin:
		return Decision{View: ViewLogin}
	case RouteSignup:
		return Decision{View: ViewSignup}
	case RouteDashboard:
		if user == nil {
			return Decision{Redirect: RouteLogin}
		}
		if user.Role == session.RoleSubcontractor {
			return Decision{View: ViewMainLayout}
		}
		return Decision{View: ViewUnauthorized}
	default:
		return Decision{View: ViewNotFound}
	}
}

// Resolve follows redirects from r until a renderable view is reached and
// returns the final route with its view.
func Resolve(r Route, user *session.User) (Route, View) {
	r = Clean(r)
	// the route table is acyclic; the bound only guards future edits
	for i := 0; i < 4; i++ {
		d := Gate(r, user)
		if d.Redirect == "" {
			return r, d.View
		}
		r = d.Redirect
	}
	return r, ViewNotFound
}
