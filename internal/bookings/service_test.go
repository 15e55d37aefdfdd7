package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Jyotishka27/GODs/internal/availability"
	"github.com/Jyotishka27/GODs/internal/config"
	"github.com/Jyotishka27/GODs/internal/courts"
	appdb "github.com/Jyotishka27/GODs/internal/db"
	"github.com/Jyotishka27/GODs/internal/slots"
	"github.com/Jyotishka27/GODs/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *appdb.DB) {
	t.Helper()

	database := testutil.NewTestDB(t)
	classifier := courts.NewClassifier([]config.CourtConfig{
		{ID: "5A", Type: "half", Label: "Half Ground Football", Price: 600},
		{ID: "5B", Type: "half", Label: "Half Ground Football", Price: 600},
		{ID: "7A", Type: "full", Label: "Full Ground Football", Price: 900},
		{ID: "CRK", Type: "cricket", Label: "Cricket (Full)", Price: 1500},
	})
	svc, err := NewService(database, classifier, slots.Generate(6, 23), "IN")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, database
}

func validRequest() CreateRequest {
	return CreateRequest{
		UserName: "Arjun",
		Phone:    "9876543210",
		Court:    "5A",
		SlotID:   "18:00-19:00",
		Date:     "2026-09-05",
	}
}

func TestCreateBooking(t *testing.T) {
	svc, database := newTestService(t)
	ctx := context.Background()

	conf, err := svc.Create(ctx, validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if conf.Booking.ID == "" {
		t.Fatal("missing booking id")
	}
	if conf.Booking.Status != appdb.BookingStatusPending {
		t.Fatalf("status: %s", conf.Booking.Status)
	}
	if conf.Booking.Phone != "+919876543210" {
		t.Fatalf("phone: %s", conf.Booking.Phone)
	}
	if conf.Booking.Amount != 600 {
		t.Fatalf("amount: %d", conf.Booking.Amount)
	}
	if conf.CourtLabel != "Half Ground Football" {
		t.Fatalf("court label: %s", conf.CourtLabel)
	}
	if conf.When != "Sep 5, 2026 · 18:00-19:00" {
		t.Fatalf("when: %s", conf.When)
	}

	stored, err := database.Queries.GetBooking(ctx, conf.Booking.ID)
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if stored.SlotLabel != "18:00-19:00" {
		t.Fatalf("stored slot label: %s", stored.SlotLabel)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateRequest)
		field  string
	}{
		{"blank name", func(r *CreateRequest) { r.UserName = "  " }, "user_name"},
		{"bad phone", func(r *CreateRequest) { r.Phone = "12345" }, "phone"},
		{"unknown court", func(r *CreateRequest) { r.Court = "9X" }, "court"},
		{"unknown slot", func(r *CreateRequest) { r.SlotID = "23:00-24:00" }, "slot_id"},
		{"bad date", func(r *CreateRequest) { r.Date = "05-09-2026" }, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			_, err := svc.Create(ctx, req)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("field: %s", verr.Field)
			}
		})
	}
}

func TestCreateConflictSecondWriterRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validRequest()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Same half again, different user.
	req := validRequest()
	req.UserName = "Rohit"
	req.Phone = "9812345678"

	_, err := svc.Create(ctx, req)
	var cerr ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if cerr.Reason != availability.ReasonOwnHalfBooked {
		t.Fatalf("reason: %q", cerr.Reason)
	}
}

func TestCreateConcurrentWriters(t *testing.T) {
	svc, database := newTestService(t)
	ctx := context.Background()

	// Two writers race for the same exclusive space: a half and the full
	// ground. The transaction serializes them; the loser gets either the
	// conflict reason or a busy error from the store, never a second row.
	second := validRequest()
	second.UserName = "Rohit"
	second.Phone = "9812345678"
	second.Court = "7A"

	start := make(chan struct{})
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, req := range []CreateRequest{validRequest(), second} {
		wg.Add(1)
		go func(req CreateRequest) {
			defer wg.Done()
			<-start
			_, err := svc.Create(ctx, req)
			errs <- err
		}(req)
	}
	close(start)
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Fatalf("successful creates: %d", succeeded)
	}

	stored, err := database.Queries.ListBookingsByDate(ctx, "2026-09-05")
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	active := 0
	for _, b := range stored {
		if b.Status != appdb.BookingStatusCancelled {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("active bookings: %d", active)
	}
}

func TestCreateConflictFullAfterHalf(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validRequest()); err != nil {
		t.Fatalf("half create: %v", err)
	}

	req := validRequest()
	req.Court = "7A"

	_, err := svc.Create(ctx, req)
	var cerr ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if cerr.Reason != availability.ReasonHalvesBlockFull {
		t.Fatalf("reason: %q", cerr.Reason)
	}
}

func TestCreateOtherHalfCoexists(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validRequest()); err != nil {
		t.Fatalf("first half: %v", err)
	}

	req := validRequest()
	req.Court = "5B"
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("second half: %v", err)
	}
}

func TestCancelFreesSlot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	conf, err := svc.Create(ctx, validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Full ground is blocked while the half is active.
	full := validRequest()
	full.Court = "7A"
	if _, err := svc.Create(ctx, full); err == nil {
		t.Fatal("expected conflict before cancellation")
	}

	cancelled, err := svc.Cancel(ctx, conf.Booking.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != appdb.BookingStatusCancelled {
		t.Fatalf("status: %s", cancelled.Status)
	}

	if _, err := svc.Create(ctx, full); err != nil {
		t.Fatalf("create after cancel: %v", err)
	}
}

func TestCancelTwice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	conf, err := svc.Create(ctx, validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Cancel(ctx, conf.Booking.ID); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if _, err := svc.Cancel(ctx, conf.Booking.ID); !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("second cancel: %v", err)
	}
}

func TestListByPhone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validRequest()); err != nil {
		t.Fatalf("create: %v", err)
	}
	other := validRequest()
	other.Phone = "9812345678"
	other.Court = "5B"
	if _, err := svc.Create(ctx, other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	listed, err := svc.ListByPhone(ctx, "+91 98765 43210")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("bookings: %d", len(listed))
	}
	if listed[0].Phone != "+919876543210" {
		t.Fatalf("phone: %s", listed[0].Phone)
	}

	if _, err := svc.ListByPhone(ctx, "banana"); err == nil {
		t.Fatal("expected validation error for bad phone")
	}
}

func TestCanonicalPhone(t *testing.T) {
	svc, _ := newTestService(t)

	// Local, spaced and country-coded spellings all resolve to one form.
	for _, raw := range []string{"9876543210", "98765 43210", "+919876543210"} {
		if got := svc.CanonicalPhone(raw); got != "+919876543210" {
			t.Fatalf("canonical(%q): %q", raw, got)
		}
	}
	if got := svc.CanonicalPhone("banana"); got != "banana" {
		t.Fatalf("fallback: %q", got)
	}
}

func TestGetMissingBooking(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFormatWhen(t *testing.T) {
	if got := FormatWhen("2026-09-05", "18:00-19:00"); got != "Sep 5, 2026 · 18:00-19:00" {
		t.Fatalf("formatted: %q", got)
	}
	if got := FormatWhen("garbage", "18:00-19:00"); got != "garbage · 18:00-19:00" {
		t.Fatalf("fallback: %q", got)
	}
}
