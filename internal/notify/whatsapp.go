// internal/notify/whatsapp.go

// Package notify constructs outbound notification payloads. Nothing here
// sends anything: the WhatsApp deep link opens the user's own messaging app,
// and freed-slot messages are logged for the operator to forward.
package notify

import (
	"fmt"
	"net/url"

	appdb "github.com/Jyotishka27/GODs/internal/db"
)

// WhatsApp builds wa.me deep links addressed to the venue's number.
type WhatsApp struct {
	venueName string
	number    string // digits only, country code included
}

func NewWhatsApp(venueName, number string) *WhatsApp {
	return &WhatsApp{venueName: venueName, number: number}
}

// BookingMessage is the prefilled text a customer sends the venue after
// booking.
func (w *WhatsApp) BookingMessage(b appdb.Booking) string {
	return fmt.Sprintf("Hi %s — I booked slot %s on %s (Booking ID: %s). Name: %s, Phone: %s.",
		w.venueName, b.SlotLabel, b.Date, b.ID, b.UserName, b.Phone)
}

// BookingLink is the deep link carrying BookingMessage.
func (w *WhatsApp) BookingLink(b appdb.Booking) string {
	return w.Link(w.BookingMessage(b))
}

// SlotFreedMessage is the text offered to a wishlisted user once their slot
// frees up.
func (w *WhatsApp) SlotFreedMessage(e appdb.WishlistEntry) string {
	return fmt.Sprintf("Hi %s — the %s slot on %s at %s just freed up. Book it before someone else does!",
		e.UserName, e.SlotLabel, e.Date, w.venueName)
}

// Link wraps text in a wa.me URL addressed to the venue.
func (w *WhatsApp) Link(text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", w.number, url.QueryEscape(text))
}
