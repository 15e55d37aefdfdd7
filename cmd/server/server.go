// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Jyotishka27/GODs/internal/api"
	"github.com/Jyotishka27/GODs/internal/api/bookings"
	"github.com/Jyotishka27/GODs/internal/api/schedule"
	"github.com/Jyotishka27/GODs/internal/api/venue"
	"github.com/Jyotishka27/GODs/internal/api/wishlist"
	"github.com/Jyotishka27/GODs/internal/config"
)

func newServer(cfg *config.Config) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Venue and schedule
	mux.HandleFunc("GET /api/v1/venue", venue.HandleVenueInfo)
	mux.HandleFunc("GET /api/v1/schedule", schedule.HandleScheduleView)

	// Bookings
	mux.HandleFunc("POST /api/v1/bookings", bookings.HandleBookingCreate)
	mux.HandleFunc("GET /api/v1/bookings", bookings.HandleBookingList)
	mux.HandleFunc("GET /api/v1/bookings/{id}", bookings.HandleBookingGet)
	mux.HandleFunc("PATCH /api/v1/bookings/{id}/cancel", bookings.HandleBookingCancel)

	// Wishlist
	mux.HandleFunc("POST /api/v1/wishlist", wishlist.HandleWishlistJoin)
	mux.HandleFunc("GET /api/v1/wishlist", wishlist.HandleWishlistList)
}
