// internal/db/models.go
package db

import (
	"database/sql"
	"time"
)

// Booking statuses. A booking whose status is not cancelled is active and
// occupies its resource for its slot on its date. Unrecognized values from
// future writers are treated as active.
const (
	BookingStatusPending   = "pending"
	BookingStatusCancelled = "cancelled"
)

// Wishlist statuses.
const (
	WishlistStatusOpen     = "open"
	WishlistStatusNotified = "notified"
	WishlistStatusExpired  = "expired"
)

type Booking struct {
	ID        string
	UserName  string
	Phone     string
	Coupon    sql.NullString
	Notes     sql.NullString
	Court     string
	SlotID    string
	SlotLabel string
	Date      string // ISO calendar date, no time component
	Amount    int64
	Status    string
	CreatedAt time.Time
}

// IsActive reports whether the booking still occupies its resource.
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}

type WishlistEntry struct {
	ID                 string
	UserName           string
	Phone              string
	Notes              sql.NullString
	Coupon             sql.NullString
	Court              string
	SlotID             string
	SlotLabel          string
	Date               string
	PreferredBookingID sql.NullString
	Status             string
	CreatedAt          time.Time
}
