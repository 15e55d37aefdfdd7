// internal/api/bookings/handlers.go
package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Jyotishka27/GODs/internal/api/apiutil"
	bookingsvc "github.com/Jyotishka27/GODs/internal/bookings"
	appdb "github.com/Jyotishka27/GODs/internal/db"
	"github.com/Jyotishka27/GODs/internal/notify"
	"github.com/Jyotishka27/GODs/internal/ratelimit"
)

var (
	service  *bookingsvc.Service
	whatsapp *notify.WhatsApp
	limiter  *ratelimit.Limiter
	initOnce sync.Once
)

const bookingQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *bookingsvc.Service, wa *notify.WhatsApp, rl *ratelimit.Limiter) {
	if svc == nil {
		log.Warn().Msg("bookings.InitHandlers called with nil service")
		return
	}
	initOnce.Do(func() {
		service = svc
		whatsapp = wa
		limiter = rl
	})
}

type createRequest struct {
	UserName string `json:"user_name"`
	Phone    string `json:"phone"`
	Coupon   string `json:"coupon,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Court    string `json:"court"`
	SlotID   string `json:"slot_id"`
	Date     string `json:"date"`
}

type confirmationResponse struct {
	ID           string `json:"id"`
	When         string `json:"when"`
	Court        string `json:"court"`
	CourtLabel   string `json:"court_label"`
	SlotID       string `json:"slot_id"`
	Date         string `json:"date"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
}

// POST /api/v1/bookings
func HandleBookingCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Booking handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	req, err := decodeCreateRequest(r)
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

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	confirmation, err := service.Create(ctx, bookingsvc.CreateRequest{
		UserName: req.UserName,
		Phone:    req.Phone,
		Coupon:   req.Coupon,
		Notes:    req.Notes,
		Court:    req.Court,
		SlotID:   req.SlotID,
		Date:     req.Date,
	})
	if err != nil {
		herr := serviceError(err, fmt.Sprintf("Could not create booking: %v", err))
		if herr.Status == http.StatusInternalServerError {
			logger.Error().Err(herr.Err).Str("court", req.Court).Str("slot_id", req.SlotID).Msg("Failed to create booking")
		}
		http.Error(w, herr.Message, herr.Status)
		return
	}

	if limiter != nil {
		limiter.RecordSubmit(phone, limiter.ClientIP(r))
	}

	response := confirmationResponse{
		ID:         confirmation.Booking.ID,
		When:       confirmation.When,
		Court:      confirmation.Booking.Court,
		CourtLabel: confirmation.CourtLabel,
		SlotID:     confirmation.Booking.SlotID,
		Date:       confirmation.Booking.Date,
		Amount:     confirmation.Booking.Amount,
		Status:     confirmation.Booking.Status,
	}
	if whatsapp != nil {
		response.WhatsAppLink = whatsapp.BookingLink(confirmation.Booking)
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, response); err != nil {
		logger.Error().Err(err).Str("booking_id", response.ID).Msg("Failed to write booking response")
	}
}

// GET /api/v1/bookings?phone=
func HandleBookingList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Booking handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	phone, err := apiutil.RequiredQueryParam(r, "phone")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	bookings, err := service.ListByPhone(ctx, phone)
	if err != nil {
		herr := serviceError(err, "Failed to load bookings")
		if herr.Status == http.StatusInternalServerError {
			logger.Error().Err(herr.Err).Str("phone", ratelimit.SanitizePhone(phone)).Msg("Failed to list bookings")
		}
		http.Error(w, herr.Message, herr.Status)
		return
	}
	if bookings == nil {
		bookings = []appdb.Booking{}
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, bookings); err != nil {
		logger.Error().Err(err).Msg("Failed to write booking list response")
	}
}

// GET /api/v1/bookings/{id}
func HandleBookingGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Booking handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "invalid booking ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	booking, err := service.Get(ctx, id)
	if err != nil {
		herr := serviceError(err, "Failed to load booking")
		if herr.Status == http.StatusInternalServerError {
			logger.Error().Err(herr.Err).Str("booking_id", id).Msg("Failed to load booking")
		}
		http.Error(w, herr.Message, herr.Status)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, booking); err != nil {
		logger.Error().Err(err).Str("booking_id", id).Msg("Failed to write booking response")
	}
}

// PATCH /api/v1/bookings/{id}/cancel
func HandleBookingCancel(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if service == nil {
		logger.Error().Msg("Booking handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "invalid booking ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	cancelled, err := service.Cancel(ctx, id)
	if err != nil {
		herr := serviceError(err, "Failed to cancel booking")
		if herr.Status == http.StatusInternalServerError {
			logger.Error().Err(herr.Err).Str("booking_id", id).Msg("Failed to cancel booking")
		}
		http.Error(w, herr.Message, herr.Status)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, cancelled); err != nil {
		logger.Error().Err(err).Str("booking_id", id).Msg("Failed to write cancel response")
	}
}

// decodeCreateRequest accepts the booking form as either a JSON document or
// classic form fields.
func decodeCreateRequest(r *http.Request) (createRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req createRequest
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			return req, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return createRequest{}, err
	}
	return createRequest{
		UserName: apiutil.FirstNonEmpty(r.FormValue("user_name"), r.FormValue("userName")),
		Phone:    r.FormValue("phone"),
		Coupon:   r.FormValue("coupon"),
		Notes:    r.FormValue("notes"),
		Court:    r.FormValue("court"),
		SlotID:   apiutil.FirstNonEmpty(r.FormValue("slot_id"), r.FormValue("slotId")),
		Date:     r.FormValue("date"),
	}, nil
}

// serviceError maps service failures onto the status and message written to
// the client. The fallback covers store failures, which the caller logs.
func serviceError(err error, fallback string) apiutil.HandlerError {
	var validationErr bookingsvc.ValidationError
	if errors.As(err, &validationErr) {
		return apiutil.HandlerError{Status: http.StatusBadRequest, Message: validationErr.Error(), Err: err}
	}
	var conflictErr bookingsvc.ConflictError
	if errors.As(err, &conflictErr) {
		return apiutil.HandlerError{Status: http.StatusConflict, Message: conflictErr.Reason, Err: err}
	}
	switch {
	case errors.Is(err, bookingsvc.ErrNotFound):
		return apiutil.HandlerError{Status: http.StatusNotFound, Message: "Booking not found", Err: err}
	case errors.Is(err, bookingsvc.ErrAlreadyCancelled):
		return apiutil.HandlerError{Status: http.StatusConflict, Message: "Booking already cancelled", Err: err}
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
	ratelimit.LogRateLimitExceeded("booking", phone, ip, result.Reason)
	w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
	http.Error(w, "Too many requests, slow down", http.StatusTooManyRequests)
	return false
}
