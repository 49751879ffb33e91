package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	if u := a.session.User(); u != nil {
		return fmt.Sprintf("(%s)", u.Username)
	}
	return ""
}

// visit runs the navigation guard for a route change and reports whether it
// may proceed. Redirects update the current route and are announced, so the
// user sees why a command was diverted.
func (a *App) visit(ctx context.Context, name string, params map[string]string) bool {
	to := a.routes.Target(name, params)

	d, err := a.guard.Resolve(ctx, to, a.current)
	if err != nil {
		printlnFn("error:", err.Error())
		return false
	}

	if d.LoggedOut {
		a.current = d.Redirect
		printlnFn("Logged out")
		return false
	}
	if d.Redirect != nil {
		a.current = d.Redirect
		printlnFn("Redirected to", d.Redirect.Route.Path)
		return false
	}

	a.current = &to
	return true
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Scribe CLI (type 'help' for commands)")

	// Visiting home hydrates a remembered session before the first prompt.
	a.visit(ctx, "home", nil)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
