// internal/wishlist/service.go

// Package wishlist records interest in occupied slots. An open entry is
// unique per (date, court, slot, phone); joining twice is a benign no-op,
// not an error.
package wishlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Jyotishka27/GODs/internal/bookings"
	"github.com/Jyotishka27/GODs/internal/courts"
	appdb "github.com/Jyotishka27/GODs/internal/db"
	"github.com/Jyotishka27/GODs/internal/slots"
)

const dateLayout = "2006-01-02"

type Service struct {
	store       *appdb.DB
	classifier  *courts.Classifier
	catalog     []slots.Slot
	phoneRegion string
}

func NewService(store *appdb.DB, classifier *courts.Classifier, catalog []slots.Slot, phoneRegion string) (*Service, error) {
	if store == nil {
		return nil, errors.New("wishlist service requires a database")
	}
	if classifier == nil {
		return nil, errors.New("wishlist service requires a court classifier")
	}
	if len(catalog) == 0 {
		return nil, errors.New("wishlist service requires a slot catalog")
	}
	return &Service{
		store:       store,
		classifier:  classifier,
		catalog:     catalog,
		phoneRegion: phoneRegion,
	}, nil
}

type JoinRequest struct {
	UserName           string
	Phone              string
	Notes              string
	Coupon             string
	Court              string
	SlotID             string
	Date               string
	PreferredBookingID string
}

// JoinResult reports either the freshly created entry or the existing one
// when the caller was already recorded for the slot.
type JoinResult struct {
	Entry           appdb.WishlistEntry
	AlreadyRecorded bool
}

// Record writes a new open wishlist entry unless one already exists for the
// (date, court, slot, phone) key. The duplicate check and the insert share a
// transaction; a unique index backs them up against concurrent joiners.
func (s *Service) Record(ctx context.Context, req JoinRequest) (JoinResult, error) {
	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		return JoinResult{}, bookings.ValidationError{Field: "user_name", Reason: "is required"}
	}

	phone, ok := bookings.NormalizePhone(req.Phone, s.phoneRegion)
	if !ok {
		return JoinResult{}, bookings.ValidationError{Field: "phone", Reason: "must be a valid phone number with country code"}
	}

	if !s.classifier.Known(req.Court) {
		return JoinResult{}, bookings.ValidationError{Field: "court", Reason: "is not a bookable court"}
	}

	slot, ok := slots.ByID(s.catalog, req.SlotID)
	if !ok {
		return JoinResult{}, bookings.ValidationError{Field: "slot_id", Reason: "is not a bookable slot"}
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return JoinResult{}, bookings.ValidationError{Field: "date", Reason: "must be a calendar date in YYYY-MM-DD form"}
	}

	entry := appdb.WishlistEntry{
		ID:                 uuid.NewString(),
		UserName:           userName,
		Phone:              phone,
		Notes:              toNullString(req.Notes),
		Coupon:             toNullString(req.Coupon),
		Court:              req.Court,
		SlotID:             slot.ID,
		SlotLabel:          slot.Label,
		Date:               date.Format(dateLayout),
		PreferredBookingID: toNullString(req.PreferredBookingID),
		Status:             appdb.WishlistStatusOpen,
		CreatedAt:          time.Now().UTC(),
	}

	var result JoinResult
	err = s.store.RunInTx(ctx, func(txdb *appdb.DB) error {
		existing, err := txdb.Queries.GetOpenWishlistEntry(ctx, entry.Date, entry.Court, entry.SlotID, entry.Phone)
		if err == nil {
			result = JoinResult{Entry: existing, AlreadyRecorded: true}
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check existing wishlist entry: %w", err)
		}

		if err := txdb.Queries.CreateWishlistEntry(ctx, entry); err != nil {
			return err
		}
		result = JoinResult{Entry: entry}
		return nil
	})
	if err != nil {
		// A concurrent joiner can land between the check and the insert; the
		// unique index turns that into a duplicate, which stays a no-op.
		if appdb.IsUniqueViolation(err) {
			existing, getErr := s.store.Queries.GetOpenWishlistEntry(ctx, entry.Date, entry.Court, entry.SlotID, entry.Phone)
			if getErr == nil {
				return JoinResult{Entry: existing, AlreadyRecorded: true}, nil
			}
		}
		return JoinResult{}, err
	}

	if !result.AlreadyRecorded {
		log.Ctx(ctx).Info().
			Str("wishlist_id", result.Entry.ID).
			Str("court", result.Entry.Court).
			Str("slot_id", result.Entry.SlotID).
			Str("date", result.Entry.Date).
			Msg("Wishlist entry recorded")
	}

	return result, nil
}

// CanonicalPhone resolves a raw phone to the E.164 form used for stored
// records and rate-limit buckets. Inputs that do not parse are returned
// unchanged so repeated bad submissions still share a bucket.
func (s *Service) CanonicalPhone(raw string) string {
	if phone, ok := bookings.NormalizePhone(raw, s.phoneRegion); ok {
		return phone
	}
	return raw
}

// ListForSlot returns the open entries for a slot in join order.
func (s *Service) ListForSlot(ctx context.Context, date, court, slotID string) ([]appdb.WishlistEntry, error) {
	entries, err := s.store.Queries.ListOpenWishlistsForSlot(ctx, date, court, slotID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist entries: %w", err)
	}
	return entries, nil
}

func toNullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
