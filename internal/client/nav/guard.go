package nav

import (
	"context"

	"github.com/scribe-blog/scribe/internal/client/models"
	"github.com/scribe-blog/scribe/internal/logging"
)

// Session is the slice of the session store the guard depends on.
type Session interface {
	Hydrate(ctx context.Context) error
	IsAuth() bool
	User() *models.User
	Logout(ctx context.Context) error
}

// Decision is the guard's verdict on a navigation. A nil Redirect means the
// navigation proceeds to its original target.
type Decision struct {
	Redirect  *Target
	LoggedOut bool
}

func (d Decision) Allowed() bool { return d.Redirect == nil && !d.LoggedOut }

// Guard gates every route change. The checks run in a fixed order: hydrate
// the session, bounce authenticated users off guest-only routes, send
// anonymous users to login for protected routes, enforce ownership, and
// handle the logout pseudo-route.
type Guard struct {
	routes  *Routes
	session Session
	log     logging.Logger
}

func NewGuard(routes *Routes, session Session, log logging.Logger) *Guard {
	return &Guard{routes: routes, session: session, log: log}
}

// Resolve decides whether the navigation from `from` to `to` may proceed.
// `from` is the referrer and may be nil on a cold start.
func (g *Guard) Resolve(ctx context.Context, to Target, from *Target) (Decision, error) {
	// Storage trouble during hydration degrades to an anonymous session
	// rather than blocking navigation altogether.
	if err := g.session.Hydrate(ctx); err != nil {
		g.log.Warn(ctx, "session hydration failed, continuing anonymous", "error", err)
	}

	if to.Route.GuestOnly && g.session.IsAuth() {
		if from != nil {
			return Decision{Redirect: from}, nil
		}
		return g.redirect(RouteHome, nil), nil
	}

	if to.Route.AuthRequired && !g.session.IsAuth() {
		return g.redirect(RouteLogin, nil), nil
	}

	if p := to.Route.OwnerParam; p != "" {
		user := g.session.User()
		if user == nil || to.Params[p] != user.Username {
			if user == nil {
				return g.redirect(RouteLogin, nil), nil
			}
			return g.redirect(RouteProfile, map[string]string{"username": user.Username}), nil
		}
	}

	if to.Route.Logout {
		if err := g.session.Logout(ctx); err != nil {
			return Decision{}, err
		}
		d := g.redirect(RouteHome, nil)
		d.LoggedOut = true
		return d, nil
	}

	return Decision{}, nil
}

func (g *Guard) redirect(name string, params map[string]string) Decision {
	t := g.routes.Target(name, params)
	return Decision{Redirect: &t}
}
