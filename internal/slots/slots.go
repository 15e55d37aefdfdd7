// internal/slots/slots.go

// Package slots generates the fixed catalog of hourly booking windows for
// the venue's operating hours.
package slots

import "fmt"

// Slot is one bookable hour. The id and label are both derived from the
// start hour, so the catalog is reproducible from the operating hours alone.
type Slot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartHour int    `json:"start_hour"`
}

// Generate returns one slot per integer hour in [openHour, closeHour),
// ordered ascending by start hour. The same bounds always produce the same
// sequence.
func Generate(openHour, closeHour int) []Slot {
	if closeHour <= openHour {
		return nil
	}
	catalog := make([]Slot, 0, closeHour-openHour)
	for h := openHour; h < closeHour; h++ {
		id := fmt.Sprintf("%02d:00-%02d:00", h, h+1)
		catalog = append(catalog, Slot{
			ID:        id,
			Label:     id,
			StartHour: h,
		})
	}
	return catalog
}

// ByID returns the slot with the given id from the catalog.
func ByID(catalog []Slot, id string) (Slot, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}
