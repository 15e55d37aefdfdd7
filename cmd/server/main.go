// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Jyotishka27/GODs/internal/api/bookings"
	"github.com/Jyotishka27/GODs/internal/api/schedule"
	"github.com/Jyotishka27/GODs/internal/api/venue"
	"github.com/Jyotishka27/GODs/internal/api/wishlist"
	bookingsvc "github.com/Jyotishka27/GODs/internal/bookings"
	"github.com/Jyotishka27/GODs/internal/config"
	"github.com/Jyotishka27/GODs/internal/courts"
	"github.com/Jyotishka27/GODs/internal/db"
	"github.com/Jyotishka27/GODs/internal/notify"
	"github.com/Jyotishka27/GODs/internal/ratelimit"
	"github.com/Jyotishka27/GODs/internal/scheduler"
	"github.com/Jyotishka27/GODs/internal/slots"
	wishlistsvc "github.com/Jyotishka27/GODs/internal/wishlist"
)

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	classifier := courts.NewClassifier(cfg.Venue.Courts)
	catalog := slots.Generate(cfg.Venue.OpenHour, cfg.Venue.CloseHour)
	whatsapp := notify.NewWhatsApp(cfg.Venue.Name, cfg.Venue.WhatsApp)

	limiter := ratelimit.New(&ratelimit.Config{
		SubmitCooldown:     time.Duration(cfg.RateLimit.SubmitCooldownSeconds) * time.Second,
		SubmitMaxPerHour:   cfg.RateLimit.SubmitMaxPerHour,
		SubmitMaxIPPerHour: cfg.RateLimit.SubmitMaxIPPerHour,
		TrustProxy:         cfg.RateLimit.TrustProxy,
	})
	defer limiter.Close()

	bookingService, err := bookingsvc.NewService(database, classifier, catalog, cfg.Venue.PhoneRegion)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build booking service")
	}
	wishlistService, err := wishlistsvc.NewService(database, classifier, catalog, cfg.Venue.PhoneRegion)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build wishlist service")
	}

	venue.InitHandlers(&cfg.Venue, classifier, catalog)
	schedule.InitHandlers(database, classifier, catalog)
	bookings.InitHandlers(bookingService, whatsapp, limiter)
	wishlist.InitHandlers(wishlistService, limiter)

	sched, err := scheduler.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	registerJobs(sched, database, classifier, whatsapp)
	sched.Start()

	server := newServer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("venue", cfg.Venue.Name).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownSeconds)*time.Second)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := sched.Stop(); err != nil {
			log.Error().Err(err).Msg("Scheduler shutdown error")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}

func registerJobs(sched *scheduler.Service, database *db.DB, classifier *courts.Classifier, whatsapp *notify.WhatsApp) {
	// Hourly housekeeping: retire stale entries first, then look for freed
	// slots among what remains.
	if _, err := sched.AddJob("wishlist-expire", "5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		scheduler.ExpirePastWishlists(ctx, database, time.Now())
	}); err != nil {
		log.Error().Err(err).Msg("Failed to register wishlist expiry job")
	}

	if _, err := sched.AddJob("wishlist-notify", "10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		scheduler.NotifyFreedSlots(ctx, database, classifier, whatsapp, time.Now())
	}); err != nil {
		log.Error().Err(err).Msg("Failed to register wishlist notify job")
	}
}
