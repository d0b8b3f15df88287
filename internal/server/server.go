package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/config"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/domain"
)

const sessionMaxAgeDays = 7

// AppService is the application layer surface the handlers call into.
type AppService interface {
	HandleCallback(ctx context.Context, code string) (*domain.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetRoast(ctx context.Context, roastID uuid.UUID) (*domain.Roast, error)
	GenerateRoast(ctx context.Context, userID uuid.UUID) (*domain.Roast, error)
}

// authURLBuilder builds the Spotify consent URL for a one-time state.
type authURLBuilder interface {
	AuthorizeURL(state string) string
}

// postgresHealthChecker is a minimal interface for PostgreSQL health checks.
type postgresHealthChecker interface {
	Ping(ctx context.Context) error
}

// redisHealthChecker is a minimal interface for Redis health checks.
type redisHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo         *echo.Echo
	config       *config.Config
	app          AppService
	spotifyAuth  authURLBuilder
	sessionStore *sessions.CookieStore
	postgres     postgresHealthChecker
	redis        redisHealthChecker
	startTime    time.Time
}

func NewServer(cfg *config.Config, app AppService, spotifyAuth authURLBuilder, postgres postgresHealthChecker, redis redisHealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * sessionMaxAgeDays,
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		spotifyAuth:  spotifyAuth,
		sessionStore: sessionStore,
		postgres:     postgres,
		redis:        redis,
		startTime:    time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
