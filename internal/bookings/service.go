// internal/bookings/service.go

// Package bookings creates and cancels bookings. Creation re-checks slot
// availability against freshly read rows inside the same transaction as the
// insert, so two writers racing for one slot cannot both commit.
package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Jyotishka27/GODs/internal/availability"
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
		return nil, errors.New("bookings service requires a database")
	}
	if classifier == nil {
		return nil, errors.New("bookings service requires a court classifier")
	}
	if len(catalog) == 0 {
		return nil, errors.New("bookings service requires a slot catalog")
	}
	return &Service{
		store:       store,
		classifier:  classifier,
		catalog:     catalog,
		phoneRegion: phoneRegion,
	}, nil
}

type CreateRequest struct {
	UserName string
	Phone    string
	Coupon   string
	Notes    string
	Court    string
	SlotID   string
	Date     string
}

// Confirmation is the payload handed back to the rendering surface after a
// successful booking.
type Confirmation struct {
	Booking    appdb.Booking
	CourtLabel string
	When       string
}

// Create validates the request, then re-reads the date's bookings, recomputes
// occupancy and re-evaluates the rule engine inside one transaction with the
// insert. A denied slot aborts with a ConflictError carrying the engine's
// reason.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Confirmation, error) {
	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		return Confirmation{}, ValidationError{Field: "user_name", Reason: "is required"}
	}

	phone, ok := NormalizePhone(req.Phone, s.phoneRegion)
	if !ok {
		return Confirmation{}, ValidationError{Field: "phone", Reason: "must be a valid phone number with country code"}
	}

	if !s.classifier.Known(req.Court) {
		return Confirmation{}, ValidationError{Field: "court", Reason: "is not a bookable court"}
	}
	court := s.classifier.Classify(req.Court)

	slot, ok := slots.ByID(s.catalog, req.SlotID)
	if !ok {
		return Confirmation{}, ValidationError{Field: "slot_id", Reason: "is not a bookable slot"}
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return Confirmation{}, ValidationError{Field: "date", Reason: "must be a calendar date in YYYY-MM-DD form"}
	}

	booking := appdb.Booking{
		ID:        uuid.NewString(),
		UserName:  userName,
		Phone:     phone,
		Coupon:    toNullString(req.Coupon),
		Notes:     toNullString(req.Notes),
		Court:     court.ID,
		SlotID:    slot.ID,
		SlotLabel: slot.Label,
		Date:      date.Format(dateLayout),
		Amount:    court.Price,
		Status:    appdb.BookingStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	err = s.store.RunInTx(ctx, func(txdb *appdb.DB) error {
		existing, err := txdb.Queries.ListBookingsByDate(ctx, booking.Date)
		if err != nil {
			return fmt.Errorf("load bookings for conflict check: %w", err)
		}

		occupancy := availability.Compute(s.classifier, existing)
		decision := availability.Evaluate(s.classifier, occupancy, booking.SlotID, booking.Court)
		if !decision.Allowed {
			return ConflictError{Reason: decision.Reason}
		}

		return txdb.Queries.CreateBooking(ctx, booking)
	})
	if err != nil {
		return Confirmation{}, err
	}

	log.Ctx(ctx).Info().
		Str("booking_id", booking.ID).
		Str("court", booking.Court).
		Str("slot_id", booking.SlotID).
		Str("date", booking.Date).
		Msg("Booking created")

	return Confirmation{
		Booking:    booking,
		CourtLabel: court.Label,
		When:       FormatWhen(booking.Date, booking.SlotLabel),
	}, nil
}

// Get loads a booking by id.
func (s *Service) Get(ctx context.Context, id string) (appdb.Booking, error) {
	booking, err := s.store.Queries.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appdb.Booking{}, ErrNotFound
		}
		return appdb.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

// CanonicalPhone resolves a raw phone to the E.164 form used for stored
// records and rate-limit buckets. Inputs that do not parse are returned
// unchanged so repeated bad submissions still share a bucket.
func (s *Service) CanonicalPhone(raw string) string {
	if phone, ok := NormalizePhone(raw, s.phoneRegion); ok {
		return phone
	}
	return raw
}

// ListByPhone returns a caller's bookings, newest first. The phone is
// normalized to its stored E.164 form before the lookup.
func (s *Service) ListByPhone(ctx context.Context, rawPhone string) ([]appdb.Booking, error) {
	phone, ok := NormalizePhone(rawPhone, s.phoneRegion)
	if !ok {
		return nil, ValidationError{Field: "phone", Reason: "must be a valid phone number with country code"}
	}
	bookings, err := s.store.Queries.ListBookingsByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("list bookings by phone: %w", err)
	}
	return bookings, nil
}

// Cancel marks a booking cancelled. Cancellation frees the slot; open
// wishlist entries for it are picked up by the scheduler sweep.
func (s *Service) Cancel(ctx context.Context, id string) (appdb.Booking, error) {
	var cancelled appdb.Booking
	err := s.store.RunInTx(ctx, func(txdb *appdb.DB) error {
		booking, err := txdb.Queries.GetBooking(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}
		if booking.Status == appdb.BookingStatusCancelled {
			return ErrAlreadyCancelled
		}

		if _, err := txdb.Queries.UpdateBookingStatus(ctx, id, appdb.BookingStatusCancelled); err != nil {
			return err
		}
		booking.Status = appdb.BookingStatusCancelled
		cancelled = booking
		return nil
	})
	if err != nil {
		return appdb.Booking{}, err
	}

	log.Ctx(ctx).Info().
		Str("booking_id", cancelled.ID).
		Str("slot_id", cancelled.SlotID).
		Str("date", cancelled.Date).
		Msg("Booking cancelled")

	return cancelled, nil
}

// FormatWhen renders a date and slot label as the human form shown in
// confirmations, e.g. "Sep 1, 2026 · 18:00-19:00".
func FormatWhen(date, slotLabel string) string {
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return date + " · " + slotLabel
	}
	return parsed.Format("Jan 2, 2006") + " · " + slotLabel
}

func toNullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
