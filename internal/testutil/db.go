package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Jyotishka27/GODs/internal/db"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedBooking inserts a pending booking for the given slot and returns it.
func SeedBooking(t *testing.T, database *db.DB, date, court, slotID, name, phone string) db.Booking {
	t.Helper()

	b := db.Booking{
		ID:        uuid.NewString(),
		UserName:  name,
		Phone:     phone,
		Court:     court,
		SlotID:    slotID,
		SlotLabel: slotID,
		Date:      date,
		Amount:    600,
		Status:    db.BookingStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := database.Queries.CreateBooking(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

// SeedWishlistEntry inserts an open wishlist entry and returns it.
func SeedWishlistEntry(t *testing.T, database *db.DB, date, court, slotID, name, phone string) db.WishlistEntry {
	t.Helper()

	e := db.WishlistEntry{
		ID:        uuid.NewString(),
		UserName:  name,
		Phone:     phone,
		Court:     court,
		SlotID:    slotID,
		SlotLabel: slotID,
		Date:      date,
		Status:    db.WishlistStatusOpen,
		CreatedAt: time.Now().UTC(),
	}
	if err := database.Queries.CreateWishlistEntry(context.Background(), e); err != nil {
		t.Fatalf("seed wishlist entry: %v", err)
	}
	return e
}

