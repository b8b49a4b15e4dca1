package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/feedback-portal/internal/config"
	"github.com/AnshRaj112/feedback-portal/internal/database"
	"github.com/AnshRaj112/feedback-portal/internal/handlers"
	"github.com/AnshRaj112/feedback-portal/internal/logger"
	"github.com/AnshRaj112/feedback-portal/internal/routes"
	"github.com/AnshRaj112/feedback-portal/internal/services"
	"github.com/AnshRaj112/feedback-portal/internal/views"
)

const serviceName = "feedback-portal"

func main() {
	// Load env
	envErr := godotenv.Load()

	cfg := config.Load()
	logger.Init(serviceName, cfg.Environment)
	if envErr != nil {
		log.Debug().Msg("no .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	provider, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	if err := provider.InitTables(ctx); err != nil {
		return err
	}

	var cache *services.CacheService
	if cfg.CacheEnabled() {
		client, err := database.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, listing cache disabled")
		} else {
			defer client.Close()
			cache = services.NewCacheService(client, cfg.CacheTTL)
		}
	}

	renderer, err := views.New()
	if err != nil {
		return err
	}

	feedbackService := services.NewFeedbackService(provider, cache, cfg.DBQueryTimeout)
	h := handlers.New(feedbackService, renderer, provider)
	router := routes.NewRouter(h, routes.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("feedback portal listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
