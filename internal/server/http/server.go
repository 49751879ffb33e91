package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/scribe-blog/scribe/internal/logging"
)

// Server owns the echo instance and the route table.
type Server struct {
	echo *echo.Echo
	addr string
	log  logging.Logger
}

type Handlers struct {
	Auth  *AuthHandlers
	Users *UserHandlers
	Posts *PostHandlers
}

func NewServer(addr string, secretKey []byte, avatarDir string, h Handlers, log logging.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	authRequired := AuthRequired(secretKey)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	posts := api.Group("/posts")
	posts.GET("", h.Posts.List)
	posts.GET("/categories", h.Posts.Categories)
	posts.GET("/:slug", h.Posts.Get)
	posts.POST("", h.Posts.Create, authRequired)
	posts.PATCH("/:slug", h.Posts.Update, authRequired)
	posts.DELETE("/:slug", h.Posts.Delete, authRequired)

	users := api.Group("/users")
	users.GET("/:username", h.Users.Get)
	users.POST("/check-username", h.Users.CheckUsername)
	users.PATCH("/:username", h.Users.UpdateProfile, authRequired)

	e.Static("/avatars", avatarDir)

	return &Server{echo: e, addr: addr, log: log}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info(ctx, "starting http server", "addr", s.addr)
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, waiting at most ten seconds.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}
