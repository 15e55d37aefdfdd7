// internal/scheduler/wishlist.go

package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Jyotishka27/GODs/internal/availability"
	"github.com/Jyotishka27/GODs/internal/courts"
	"github.com/Jyotishka27/GODs/internal/db"
	"github.com/Jyotishka27/GODs/internal/notify"
)

// ExpirePastWishlists marks open wishlist entries for past dates as expired.
func ExpirePastWishlists(ctx context.Context, database *db.DB, now time.Time) {
	today := now.UTC().Format("2006-01-02")
	expired, err := database.Queries.ExpirePastOpenWishlists(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire past wishlist entries")
		return
	}
	if expired > 0 {
		log.Info().
			Int64("expired", expired).
			Str("before_date", today).
			Msg("Expired past wishlist entries")
	}
}

// NotifyFreedSlots scans open wishlist entries for today and later and
// notifies the ones whose slot has become bookable again. Each notified
// entry is moved to the notified status so it is only contacted once.
func NotifyFreedSlots(ctx context.Context, database *db.DB, classifier *courts.Classifier, wa *notify.WhatsApp, now time.Time) {
	today := now.UTC().Format("2006-01-02")
	entries, err := database.Queries.ListOpenWishlistsFromDate(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list open wishlist entries")
		return
	}
	if len(entries) == 0 {
		return
	}

	// Group occupancy by date so each date's bookings are loaded once.
	occupancyByDate := make(map[string]map[string]*availability.OccupancyState)

	notified := 0
	for _, entry := range entries {
		occupancy, ok := occupancyByDate[entry.Date]
		if !ok {
			bookings, err := database.Queries.ListBookingsByDate(ctx, entry.Date)
			if err != nil {
				log.Error().Err(err).
					Str("date", entry.Date).
					Msg("Failed to load bookings for wishlist sweep")
				continue
			}
			occupancy = availability.Compute(classifier, bookings)
			occupancyByDate[entry.Date] = occupancy
		}

		decision := availability.Evaluate(classifier, occupancy, entry.SlotID, entry.Court)
		if !decision.Allowed {
			continue
		}

		message := wa.SlotFreedMessage(entry)
		log.Info().
			Str("wishlist_id", entry.ID).
			Str("date", entry.Date).
			Str("court", entry.Court).
			Str("slot_id", entry.SlotID).
			Str("whatsapp_link", wa.Link(message)).
			Msg("Wishlist slot freed, notification ready")

		if _, err := database.Queries.UpdateWishlistStatus(ctx, entry.ID, db.WishlistStatusNotified); err != nil {
			log.Error().Err(err).
				Str("wishlist_id", entry.ID).
				Msg("Failed to mark wishlist entry notified")
			continue
		}
		notified++
	}

	if notified > 0 {
		log.Info().Int("notified", notified).Msg("Wishlist freed-slot sweep complete")
	}
}
