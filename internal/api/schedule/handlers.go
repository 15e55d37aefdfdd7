// internal/api/schedule/handlers.go
package schedule

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Jyotishka27/GODs/internal/api/apiutil"
	"github.com/Jyotishka27/GODs/internal/availability"
	"github.com/Jyotishka27/GODs/internal/courts"
	appdb "github.com/Jyotishka27/GODs/internal/db"
	"github.com/Jyotishka27/GODs/internal/slots"
)

var (
	store      *appdb.DB
	classifier *courts.Classifier
	catalog    []slots.Slot
	initOnce   sync.Once
)

const scheduleQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, cl *courts.Classifier, slotCatalog []slots.Slot) {
	if database == nil || cl == nil {
		log.Warn().Msg("schedule.InitHandlers called with nil dependencies")
		return
	}
	initOnce.Do(func() {
		store = database
		classifier = cl
		catalog = slotCatalog
	})
}

type slotView struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	StartHour     int    `json:"start_hour"`
	Available     bool   `json:"available"`
	Reason        string `json:"reason,omitempty"`
	BookedBy      string `json:"booked_by,omitempty"`
	WishlistCount int64  `json:"wishlist_count"`
}

type scheduleView struct {
	Date  string     `json:"date"`
	Court string     `json:"court"`
	Slots []slotView `json:"slots"`
}

// GET /api/v1/schedule?date=YYYY-MM-DD&court=ID
//
// Returns, per slot, the Book / Booked+Wishlist decision payload for the
// selected date and court.
func HandleScheduleView(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if store == nil || classifier == nil {
		logger.Error().Msg("Schedule handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	date, err := apiutil.ParseDateParam(r.URL.Query().Get("date"), "date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	court, err := apiutil.RequiredQueryParam(r, "court")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scheduleQueryTimeout)
	defer cancel()

	bookings, err := store.Queries.ListBookingsByDate(ctx, date)
	if err != nil {
		logger.Error().Err(err).Str("date", date).Msg("Failed to load bookings")
		http.Error(w, "Failed to load slot schedule", http.StatusInternalServerError)
		return
	}

	wishlistCounts, err := store.Queries.CountOpenWishlistsByDateCourt(ctx, date, court)
	if err != nil {
		logger.Error().Err(err).Str("date", date).Msg("Failed to load wishlist counts")
		http.Error(w, "Failed to load slot schedule", http.StatusInternalServerError)
		return
	}

	occupancy := availability.Compute(classifier, bookings)

	view := scheduleView{
		Date:  date,
		Court: court,
		Slots: make([]slotView, 0, len(catalog)),
	}
	for _, slot := range catalog {
		decision := availability.Evaluate(classifier, occupancy, slot.ID, court)
		item := slotView{
			ID:            slot.ID,
			Label:         slot.Label,
			StartHour:     slot.StartHour,
			Available:     decision.Allowed,
			Reason:        decision.Reason,
			WishlistCount: wishlistCounts[slot.ID],
		}
		if state, ok := occupancy[slot.ID]; ok && !decision.Allowed {
			if holder, ok := state.ActiveHolder(); ok {
				item.BookedBy = holder.UserName
			}
		}
		view.Slots = append(view.Slots, item)
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, view); err != nil {
		logger.Error().Err(err).Str("date", date).Msg("Failed to write schedule response")
	}
}
