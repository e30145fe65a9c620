package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentexpress/internal/config"
	"rentexpress/internal/db"
	"rentexpress/internal/logger"
	"rentexpress/internal/middleware"
	"rentexpress/internal/router"
	"rentexpress/internal/services"

	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := logger.InitLogger("info", true)
		bootLog.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.LogPretty)
	log.Info().Stringer("config", cfg).Msg("RentExpress starting")

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid database driver")
	}

	database, err := db.InitDB(dialect, cfg.DBUrl, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if err := db.RunMigrations(database, dialect, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
	}

	var sessions services.SessionStore
	switch cfg.Session.Store {
	case "memory":
		sessions = services.NewMemorySessionStore()
	default:
		sessions = services.NewSQLSessionStore(database, dialect, log)
	}
	services.StartSessionSweeper(ctx, sessions, sweepInterval(cfg.Session.TTL), log)

	users := services.NewUserService(database, dialect, log)
	auth := services.NewAuthService(users, sessions, secret, cfg.Session.TTL, log)
	vehicles := services.NewVehicleService(database, dialect, imageResolver(ctx, cfg.Images, log), log)

	handler := router.SetupRouter(router.Dependencies{
		Auth:     auth,
		Vehicles: vehicles,
		Cookies:  middleware.NewSessionCookies(secret, cfg.Session.TTL, cfg.Session.CookieSecure),
	}, cfg, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval > 15*time.Minute {
		interval = 15 * time.Minute
	}
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

// imageResolver presigns vehicle images when a bucket is configured and
// otherwise serves the stored references as they are.
func imageResolver(ctx context.Context, cfg config.ImageConfig, log zerolog.Logger) services.ImageResolver {
	if cfg.Bucket == "" {
		return services.PassthroughImages{}
	}

	images, err := services.NewS3Images(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Image bucket unavailable, serving image references as stored")
		return services.PassthroughImages{}
	}
	log.Info().Str("bucket", cfg.Bucket).Msg("Presigning vehicle images")
	return images
}
