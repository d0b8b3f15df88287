package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/app"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/config"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/crypto"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/database"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/logging"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/redis"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/roast"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/server"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/spotify"
	"github.com/kavya5cloud/RoastMyPlaylist/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config) *redis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupCrypto(cfg *config.Config) crypto.Service {
	if cfg.TokenEncryptionKey == "" {
		slog.Warn("TOKEN_ENCRYPTION_KEY not set, storing Spotify tokens unencrypted")
		return crypto.NoopService{}
	}

	svc, err := crypto.NewAesGcmService(cfg.TokenEncryptionKey)
	if err != nil {
		slog.Error("Failed to create crypto service", "error", err)
		os.Exit(1)
	}
	return svc
}

func setupGenerator(cfg *config.Config) roast.Generator {
	if cfg.OpenAIAPIKey == "" {
		slog.Warn("OPENAI_API_KEY not set, every roast will use the built-in templates")
		return roast.FallbackGenerator{}
	}
	return roast.NewModelGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().Version)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(cfg)
	defer func() { _ = redisClient.Close() }()

	cryptoSvc := setupCrypto(cfg)
	userRepo := database.NewUserRepo(pool, cryptoSvc)
	roastRepo := database.NewRoastRepo(pool)
	snapshotStore := redis.NewSnapshotStore(redisClient)

	spotifyClient := spotify.NewClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRedirectURI)
	tokenRefresher := spotify.NewTokenRefresher(userRepo, spotifyClient, clock)
	generator := setupGenerator(cfg)

	appSvc := app.NewService(userRepo, roastRepo, snapshotStore, spotifyClient, tokenRefresher, generator, clock)

	srv := server.NewServer(cfg, appSvc, spotifyClient, pool, redisClient)

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
