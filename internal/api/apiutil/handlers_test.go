package apiutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type samplePayload struct {
	Name string `json:"name"`
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Arjun"}`))

	var payload samplePayload
	if err := DecodeJSON(req, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Name != "Arjun" {
		t.Fatalf("name: %s", payload.Name)
	}
}

func TestDecodeJSONRejects(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown field", `{"name":"Arjun","admin":true}`},
		{"trailing garbage", `{"name":"Arjun"}{}`},
		{"not json", `name=Arjun`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var payload samplePayload
			if err := DecodeJSON(req, &payload); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	recorder := httptest.NewRecorder()
	if err := WriteJSON(recorder, http.StatusCreated, samplePayload{Name: "Arjun"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d", recorder.Code)
	}
	if got := recorder.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type: %s", got)
	}
	var payload samplePayload
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if payload.Name != "Arjun" {
		t.Fatalf("name: %s", payload.Name)
	}
}

func TestWriteJSONUnencodable(t *testing.T) {
	recorder := httptest.NewRecorder()
	if err := WriteJSON(recorder, http.StatusOK, func() {}); err == nil {
		t.Fatal("expected encode error")
	}
	// Buffer-first encoding means nothing was written on failure.
	if recorder.Body.Len() != 0 {
		t.Fatalf("partial body written: %q", recorder.Body.String())
	}
}

func TestRequiredQueryParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?court=5A&blank=%20", nil)

	value, err := RequiredQueryParam(req, "court")
	if err != nil {
		t.Fatalf("court: %v", err)
	}
	if value != "5A" {
		t.Fatalf("value: %s", value)
	}

	if _, err := RequiredQueryParam(req, "missing"); err == nil {
		t.Fatal("expected error for missing param")
	}
	if _, err := RequiredQueryParam(req, "blank"); err == nil {
		t.Fatal("expected error for blank param")
	}
}

func TestParseDateParam(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"valid", "2026-09-05", "2026-09-05", true},
		{"padded", "  2026-09-05 ", "2026-09-05", true},
		{"empty", "", "", false},
		{"wrong order", "05-09-2026", "", false},
		{"not a date", "tomorrow", "", false},
		{"invalid day", "2026-02-30", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDateParam(tc.raw, "date")
			if (err == nil) != tc.ok {
				t.Fatalf("err: %v", err)
			}
			if got != tc.want {
				t.Fatalf("value: %q", got)
			}
		})
	}
}

func TestIsJSONRequest(t *testing.T) {
	cases := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/x-www-form-urlencoded", false},
		{"", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if tc.contentType != "" {
			req.Header.Set("Content-Type", tc.contentType)
		}
		if got := IsJSONRequest(req); got != tc.want {
			t.Fatalf("content type %q: %v", tc.contentType, got)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "5A", "7A"); got != "5A" {
		t.Fatalf("value: %q", got)
	}
	if got := FirstNonEmpty("", "  "); got != "" {
		t.Fatalf("value: %q", got)
	}
}
