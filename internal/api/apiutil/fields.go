package apiutil

import (
	"net/http"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

func RequiredQueryParam(r *http.Request, key string) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return "", FieldError{Field: key, Reason: "is required"}
	}
	return value, nil
}

// ParseDateParam validates a YYYY-MM-DD query value and returns it
// normalized.
func ParseDateParam(raw, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", FieldError{Field: field, Reason: "is required"}
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return "", FieldError{Field: field, Reason: "must be a calendar date in YYYY-MM-DD form"}
	}
	return parsed.Format(dateLayout), nil
}
