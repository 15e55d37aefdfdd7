package notify

import (
	"strings"
	"testing"

	appdb "github.com/Jyotishka27/GODs/internal/db"
)

func TestBookingMessage(t *testing.T) {
	wa := NewWhatsApp("GODs Turf", "919876543210")
	b := appdb.Booking{
		ID:        "b-123",
		UserName:  "Arjun",
		Phone:     "+919812345678",
		SlotLabel: "18:00-19:00",
		Date:      "2026-09-05",
	}

	msg := wa.BookingMessage(b)
	for _, want := range []string{"GODs Turf", "18:00-19:00", "2026-09-05", "b-123", "Arjun", "+919812345678"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q: %s", want, msg)
		}
	}
}

func TestBookingLink(t *testing.T) {
	wa := NewWhatsApp("GODs Turf", "919876543210")
	b := appdb.Booking{ID: "b-123", UserName: "Arjun", SlotLabel: "18:00-19:00", Date: "2026-09-05"}

	link := wa.BookingLink(b)
	if !strings.HasPrefix(link, "https://wa.me/919876543210?text=") {
		t.Fatalf("link prefix: %s", link)
	}
	if strings.Contains(link, " ") {
		t.Fatalf("link not escaped: %s", link)
	}
}

func TestSlotFreedMessage(t *testing.T) {
	wa := NewWhatsApp("GODs Turf", "919876543210")
	e := appdb.WishlistEntry{
		UserName:  "Meera",
		SlotLabel: "19:00-20:00",
		Date:      "2026-09-06",
	}

	msg := wa.SlotFreedMessage(e)
	for _, want := range []string{"Meera", "19:00-20:00", "2026-09-06", "GODs Turf"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q: %s", want, msg)
		}
	}
}
