package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/scribe-blog/scribe/internal/client/api"
	"github.com/scribe-blog/scribe/internal/client/config"
	"github.com/scribe-blog/scribe/internal/client/nav"
	"github.com/scribe-blog/scribe/internal/client/session"
	"github.com/scribe-blog/scribe/internal/client/storage"
	"github.com/scribe-blog/scribe/internal/client/stores"
	"github.com/scribe-blog/scribe/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the Scribe CLI together: the two storage tiers, the HTTP client
// with its refresh interceptor, the session store, the resource stores and
// the navigation guard.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	session *session.Store
	posts   *stores.PostStore
	users   *stores.UserStore
	routes  *nav.Routes
	guard   *nav.Guard
	reader  *bufio.Reader

	// current is the route the user is "on"; the guard uses it as the
	// referrer when bouncing authenticated users off guest-only routes.
	current *nav.Target

	// cursor is the feed position List/More page through.
	cursor int
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewText(os.Stderr, slog.LevelWarn)

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	durable := storage.NewSQLiteTier(db)
	ephemeral := storage.NewMemoryTier()
	creds := session.NewCredentials(durable, ephemeral)

	client, err := api.New(cfg.ServerEndpointAddr, creds, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	client.SetTimeout(cfg.RequestTimeout)

	sess := session.New(creds, client, log)
	posts := stores.NewPostStore(client, log)
	users := stores.NewUserStore(client, log)
	routes := nav.DefaultRoutes()

	app := &App{
		config:  cfg,
		log:     log,
		db:      db,
		session: sess,
		posts:   posts,
		users:   users,
		routes:  routes,
		guard:   nav.NewGuard(routes, sess, log),
		reader:  bufio.NewReader(os.Stdin),
	}

	// A failed token refresh has already wiped both tiers; drop everything
	// that was derived from the dead session.
	client.OnAuthReset(func() {
		sess.Forget()
		app.dropCaches()
	})
	sess.OnReset(app.dropCaches)

	return app, nil
}

func (a *App) dropCaches() {
	a.posts.Invalidate()
	a.users.Invalidate()
	a.current = nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuth()
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
}
