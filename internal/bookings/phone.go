// internal/bookings/phone.go
package bookings

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone parses a user-supplied phone number against the venue's
// default region and returns it in E.164 form. Numbers that do not parse or
// are not valid for their region are rejected.
func NormalizePhone(raw, region string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	parsed, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", false
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), true
}
