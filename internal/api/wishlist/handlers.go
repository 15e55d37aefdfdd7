// internal/api/wishlist/handlers.go
package wishlist

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Jyotishka27/GODs/internal/api/apiutil"
	bookingsvc "github.com/Jyotishka27/GODs/internal/bookings"
	appdb "github.com/Jyotishka27/GODs/internal/db"
	"github.com/Jyotishka27/GODs/internal/ratelimit"
	wishlistsvc "github.com/Jyotishka27/GODs/internal/wishlist"
)

var (
	service  *wishlistsvc.Service
	limiter  *ratelimit.Limiter
	initOnce sync.Once
)

const wishlistQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *wishlistsvc.Service, rl *ratelimit.Limiter) {
	if svc == nil {
		log.Warn().Msg("wishlist.InitHandlers called with nil service")
		return
	}
	initOnce.Do(func() {
		service = svc
		limiter = rl
	})
}

type joinRequest struct {
	UserName           string `json:"user_name"`
	Phone              string `json:"phone"`
	Notes              string `json:"notes,omitempty"`
	Coupon             string `json:"coupon,omitempty"`
	Court              string `json:"court"`
	SlotID             string `json:"slot_id"`
	Date               string `json:"date"`
	PreferredBookingID string `json:"preferred_booking_id,omitempty"`
}

type joinResponse struct {
	ID              string `json:"id"`
	Court           string `json:"court"`
	SlotID          string `json:"slot_id"`
	SlotLabel       string `json:"slot_label"`
	Date            string `json:"date"`
	Status          string `json:"status"`
	AlreadyRecorded bool   `json:"already_recorded"`
}

// POST /api/v1/wishlist
func HandleWishlistJoin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Wishlist handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	req, err := decodeJoinRequest(r)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Check and record against the same canonical form, so local and
	// country-coded submissions of one number share a bucket.
	phone := service.CanonicalPhone(req.Phone)
	if !allowSubmission(w, r, phone) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), wishlistQueryTimeout)
	defer cancel()

	result, err := service.Record(ctx, wishlistsvc.JoinRequest{
		UserName:           req.UserName,
		Phone:              req.Phone,
		Notes:              req.Notes,
		Coupon:             req.Coupon,
		Court:              req.Court,
		SlotID:             req.SlotID,
		Date:               req.Date,
		PreferredBookingID: req.PreferredBookingID,
	})
	if err != nil {
		herr := serviceError(err, "Failed to join wishlist")
		if herr.Status == http.StatusInternalServerError {
			logger.Error().Err(herr.Err).Str("court", req.Court).Str("slot_id", req.SlotID).Msg("Failed to record wishlist entry")
		}
		http.Error(w, herr.Message, herr.Status)
		return
	}

	if limiter != nil && !result.AlreadyRecorded {
		limiter.RecordSubmit(phone, limiter.ClientIP(r))
	}

	status := http.StatusCreated
	if result.AlreadyRecorded {
		// Duplicate joins are a benign no-op, not an error.
		status = http.StatusOK
	}

	response := joinResponse{
		ID:              result.Entry.ID,
		Court:           result.Entry.Court,
		SlotID:          result.Entry.SlotID,
		SlotLabel:       result.Entry.SlotLabel,
		Date:            result.Entry.Date,
		Status:          result.Entry.Status,
		AlreadyRecorded: result.AlreadyRecorded,
	}
	if err := apiutil.WriteJSON(w, status, response); err != nil {
		logger.Error().Err(err).Str("wishlist_id", response.ID).Msg("Failed to write wishlist response")
	}
}

type listResponse struct {
	Date    string                `json:"date"`
	Court   string                `json:"court"`
	SlotID  string                `json:"slot_id"`
	Count   int                   `json:"count"`
	Entries []appdb.WishlistEntry `json:"entries"`
}

// GET /api/v1/wishlist?date=YYYY-MM-DD&court=ID&slot_id=ID
func HandleWishlistList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Wishlist handlers not initialized")
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
	slotID, err := apiutil.RequiredQueryParam(r, "slot_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), wishlistQueryTimeout)
	defer cancel()

	entries, err := service.ListForSlot(ctx, date, court, slotID)
	if err != nil {
		logger.Error().Err(err).Str("date", date).Str("slot_id", slotID).Msg("Failed to list wishlist entries")
		http.Error(w, "Failed to load wishlist", http.StatusInternalServerError)
		return
	}

	response := listResponse{
		Date:    date,
		Court:   court,
		SlotID:  slotID,
		Count:   len(entries),
		Entries: entries,
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, response); err != nil {
		logger.Error().Err(err).Str("date", date).Msg("Failed to write wishlist response")
	}
}

// decodeJoinRequest accepts the wishlist form as either a JSON document or
// classic form fields.
func decodeJoinRequest(r *http.Request) (joinRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req joinRequest
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return req, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return joinRequest{}, err
	}
	return joinRequest{
		UserName:           apiutil.FirstNonEmpty(r.FormValue("user_name"), r.FormValue("userName")),
		Phone:              r.FormValue("phone"),
		Notes:              r.FormValue("notes"),
		Coupon:             r.FormValue("coupon"),
		Court:              r.FormValue("court"),
		SlotID:             apiutil.FirstNonEmpty(r.FormValue("slot_id"), r.FormValue("slotId")),
		Date:               r.FormValue("date"),
		PreferredBookingID: apiutil.FirstNonEmpty(r.FormValue("preferred_booking_id"), r.FormValue("preferredBookingId")),
	}, nil
}

// serviceError maps service failures onto the status and message written to
// the client. The fallback covers store failures, which the caller logs.
func serviceError(err error, fallback string) apiutil.HandlerError {
	var validationErr bookingsvc.ValidationError
	if errors.As(err, &validationErr) {
		return apiutil.HandlerError{Status: http.StatusBadRequest, Message: validationErr.Error(), Err: err}
	}
	return apiutil.HandlerError{Status: http.StatusInternalServerError, Message: fallback, Err: err}
}

func allowSubmission(w http.ResponseWriter, r *http.Request, phone string) bool {
	if limiter == nil {
		return true
	}
	ip := limiter.ClientIP(r)
	result := limiter.CheckSubmit(phone, ip)
	if result.Allowed {
		return true
	}
	ratelimit.LogRateLimitExceeded("wishlist", phone, ip, result.Reason)
	w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
	http.Error(w, "Too many requests, slow down", http.StatusTooManyRequests)
	return false
}
