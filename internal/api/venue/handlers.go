// internal/api/venue/handlers.go
package venue

import (
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Jyotishka27/GODs/internal/api/apiutil"
	"github.com/Jyotishka27/GODs/internal/config"
	"github.com/Jyotishka27/GODs/internal/courts"
	"github.com/Jyotishka27/GODs/internal/slots"
)

var (
	info     *infoResponse
	initOnce sync.Once
)

type infoResponse struct {
	Name          string         `json:"name"`
	Address       string         `json:"address"`
	Email         string         `json:"email"`
	WhatsApp      string         `json:"whatsapp"`
	OpenHour      int            `json:"open_hour"`
	CloseHour     int            `json:"close_hour"`
	BufferMinutes int            `json:"buffer_minutes"`
	Amenities     []string       `json:"amenities"`
	Rules         []string       `json:"rules"`
	Courts        []courts.Court `json:"courts"`
	Slots         []slots.Slot   `json:"slots"`
}

// InitHandlers snapshots the static venue payload; the content never changes
// for the process lifetime.
func InitHandlers(cfg *config.VenueConfig, classifier *courts.Classifier, catalog []slots.Slot) {
	if cfg == nil || classifier == nil {
		log.Warn().Msg("venue.InitHandlers called with nil dependencies")
		return
	}
	initOnce.Do(func() {
		info = &infoResponse{
			Name:          cfg.Name,
			Address:       cfg.Address,
			Email:         cfg.Email,
			WhatsApp:      cfg.WhatsApp,
			OpenHour:      cfg.OpenHour,
			CloseHour:     cfg.CloseHour,
			BufferMinutes: cfg.BufferMinutes,
			Amenities:     cfg.Amenities,
			Rules:         cfg.Rules,
			Courts:        classifier.Courts(),
			Slots:         catalog,
		}
	})
}

// GET /api/v1/venue
func HandleVenueInfo(w http.ResponseWriter, r *http.Request) {
	if info == nil {
		log.Ctx(r.Context()).Error().Msg("Venue handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, info); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write venue response")
	}
}
