package wishlist

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Jyotishka27/GODs/internal/config"
	"github.com/Jyotishka27/GODs/internal/courts"
	appdb "github.com/Jyotishka27/GODs/internal/db"
	"github.com/Jyotishka27/GODs/internal/ratelimit"
	"github.com/Jyotishka27/GODs/internal/slots"
	"github.com/Jyotishka27/GODs/internal/testutil"
	wishlistsvc "github.com/Jyotishka27/GODs/internal/wishlist"
)

func setupWishlistTest(t *testing.T) *appdb.DB {
	t.Helper()

	database := testutil.NewTestDB(t)
	cl := courts.NewClassifier([]config.CourtConfig{
		{ID: "5A", Type: "half", Label: "Half Ground Football", Price: 600},
		{ID: "7A", Type: "full", Label: "Full Ground Football", Price: 900},
		{ID: "CRK", Type: "cricket", Label: "Cricket (Full)", Price: 1500},
	})
	svc, err := wishlistsvc.NewService(database, cl, slots.Generate(6, 23), "IN")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	service = nil
	limiter = nil
	initOnce = sync.Once{}
	InitHandlers(svc, nil)

	t.Cleanup(func() {
		service = nil
		limiter = nil
		initOnce = sync.Once{}
	})

	return database
}

func postJoin(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wishlist", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	HandleWishlistJoin(recorder, req)
	return recorder
}

func joinBody() string {
	return `{"user_name":"Meera","phone":"9876543210","court":"7A","slot_id":"19:00-20:00","date":"2026-09-06"}`
}

func TestHandleWishlistJoin(t *testing.T) {
	setupWishlistTest(t)

	recorder := postJoin(t, joinBody())
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	var resp joinResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("missing entry id")
	}
	if resp.Status != appdb.WishlistStatusOpen {
		t.Fatalf("status: %s", resp.Status)
	}
	if resp.AlreadyRecorded {
		t.Fatal("first join reported as duplicate")
	}
}

func TestHandleWishlistJoin_Duplicate(t *testing.T) {
	setupWishlistTest(t)

	first := postJoin(t, joinBody())
	if first.Code != http.StatusCreated {
		t.Fatalf("first status: %d", first.Code)
	}
	var firstResp joinResponse
	if err := json.Unmarshal(first.Body.Bytes(), &firstResp); err != nil {
		t.Fatalf("decode first response: %v", err)
	}

	second := postJoin(t, joinBody())
	if second.Code != http.StatusOK {
		t.Fatalf("duplicate status: %d", second.Code)
	}
	var secondResp joinResponse
	if err := json.Unmarshal(second.Body.Bytes(), &secondResp); err != nil {
		t.Fatalf("decode second response: %v", err)
	}
	if !secondResp.AlreadyRecorded {
		t.Fatal("duplicate join not flagged")
	}
	if secondResp.ID != firstResp.ID {
		t.Fatalf("duplicate returned different entry: %s vs %s", secondResp.ID, firstResp.ID)
	}
}

func TestHandleWishlistJoin_Validation(t *testing.T) {
	setupWishlistTest(t)

	recorder := postJoin(t, `{"user_name":"Meera","phone":"banana","court":"7A","slot_id":"19:00-20:00","date":"2026-09-06"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "phone") {
		t.Fatalf("body: %s", recorder.Body.String())
	}
}

func TestHandleWishlistJoin_BadJSON(t *testing.T) {
	setupWishlistTest(t)

	if recorder := postJoin(t, "nope"); recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleWishlistJoin_FormBody(t *testing.T) {
	setupWishlistTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wishlist", strings.NewReader("user_name=Meera&phone=9876543210&court=7A&slotId=19:00-20:00&date=2026-09-06"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	HandleWishlistJoin(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
}

func TestHandleWishlistJoin_RateLimited(t *testing.T) {
	setupWishlistTest(t)

	// A long cooldown blocks any second submission from the same phone.
	limiter = ratelimit.New(&ratelimit.Config{
		SubmitCooldown:     time.Hour,
		SubmitMaxPerHour:   100,
		SubmitMaxIPPerHour: 100,
	})
	defer limiter.Close()

	if recorder := postJoin(t, joinBody()); recorder.Code != http.StatusCreated {
		t.Fatalf("first status: %d", recorder.Code)
	}

	// The first join was recorded under the E.164 form; the country-coded
	// spelling of the same number shares its cooldown bucket.
	recorder := postJoin(t, `{"user_name":"Meera","phone":"+919876543210","court":"CRK","slot_id":"20:00-21:00","date":"2026-09-06"}`)
	if recorder.Code != http.StatusTooManyRequests {
		t.Fatalf("status: %d", recorder.Code)
	}
	if recorder.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
}

func TestHandleWishlistList(t *testing.T) {
	database := setupWishlistTest(t)
	testutil.SeedWishlistEntry(t, database, "2026-09-06", "7A", "19:00-20:00", "Meera", "+919876543210")
	testutil.SeedWishlistEntry(t, database, "2026-09-06", "7A", "19:00-20:00", "Rohit", "+919812345678")
	testutil.SeedWishlistEntry(t, database, "2026-09-06", "CRK", "19:00-20:00", "Dev", "+919898989898")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlist?date=2026-09-06&court=7A&slot_id=19:00-20:00", nil)
	recorder := httptest.NewRecorder()

	HandleWishlistList(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var resp listResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.Entries) != 2 {
		t.Fatalf("count: %d entries: %d", resp.Count, len(resp.Entries))
	}
	if resp.Entries[0].UserName != "Meera" {
		t.Fatalf("first entry: %s", resp.Entries[0].UserName)
	}
}

func TestHandleWishlistList_BadParams(t *testing.T) {
	setupWishlistTest(t)

	cases := []struct {
		name string
		url  string
	}{
		{"missing date", "/api/v1/wishlist?court=7A&slot_id=19:00-20:00"},
		{"missing court", "/api/v1/wishlist?date=2026-09-06&slot_id=19:00-20:00"},
		{"missing slot", "/api/v1/wishlist?date=2026-09-06&court=7A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			HandleWishlistList(recorder, httptest.NewRequest(http.MethodGet, tc.url, nil))
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status: %d", recorder.Code)
			}
		})
	}
}
