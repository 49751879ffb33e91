// Package nav provides the route table and the navigation guard that gates
// every route change against the session state.
package nav

// Well-known route names the guard redirects to.
const (
	RouteHome    = "home"
	RouteLogin   = "login"
	RouteProfile = "profile"
)

// Route describes one navigable view and the access rules enforced before
// entering it. OwnerParam names the path parameter that must match the
// authenticated user's username; Logout marks the pseudo-route that performs
// a logout instead of rendering anything.
type Route struct {
	Name         string
	Path         string
	GuestOnly    bool
	AuthRequired bool
	OwnerParam   string
	Logout       bool
}

// Target is a concrete navigation destination: a route plus its resolved
// path parameters.
type Target struct {
	Route  *Route
	Params map[string]string
}

// Routes is the route registry, looked up by name.
type Routes struct {
	byName map[string]*Route
}

func NewRoutes(routes ...Route) *Routes {
	r := &Routes{byName: make(map[string]*Route, len(routes))}
	for i := range routes {
		r.byName[routes[i].Name] = &routes[i]
	}
	return r
}

// Lookup returns the route registered under name.
func (r *Routes) Lookup(name string) (*Route, bool) {
	rt, ok := r.byName[name]
	return rt, ok
}

// Target builds a Target for a registered route. Unknown names return a
// target for the home route so a guard redirect never dead-ends.
func (r *Routes) Target(name string, params map[string]string) Target {
	rt, ok := r.byName[name]
	if !ok {
		rt = r.byName[RouteHome]
	}
	return Target{Route: rt, Params: params}
}

// DefaultRoutes is the application's route table.
func DefaultRoutes() *Routes {
	return NewRoutes(
		Route{Name: RouteHome, Path: "/"},
		Route{Name: RouteLogin, Path: "/login", GuestOnly: true},
		Route{Name: "register", Path: "/register", GuestOnly: true},
		Route{Name: "posts", Path: "/posts"},
		Route{Name: "post", Path: "/posts/:slug"},
		Route{Name: "compose", Path: "/compose", AuthRequired: true},
		Route{Name: RouteProfile, Path: "/u/:username"},
		Route{Name: "settings", Path: "/u/:username/settings", AuthRequired: true, OwnerParam: "username"},
		Route{Name: "logout", Path: "/logout", Logout: true},
	)
}
