package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"possu/internal/log"
	"possu/internal/sheets/memory"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, store *memory.Store, rpm int) *Server {
	t.Helper()
	srv := NewServer(":0", store, Options{
		YearsBack:         2,
		RequestsPerMinute: rpm,
		Now:               func() time.Time { return testNow },
		Logger:            log.New(log.Config{Output: io.Discard}),
	})
	if srv.templates == nil {
		t.Fatal("templates not parsed")
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginPage(t *testing.T) {
	srv := newTestServer(t, memory.New(nil), 0)

	rr := do(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{`id="username_input_field"`, `type="password"`, `id="login_button"`} {
		if !strings.Contains(body, want) {
			t.Errorf("login page missing %s", want)
		}
	}
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if rr.Header().Get(log.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestLoginRedirects(t *testing.T) {
	srv := newTestServer(t, memory.New(nil), 0)

	rr := do(srv, postForm("/login", url.Values{"username": {"a"}, "password": {"b"}}))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("HX-Redirect"); got != "/entries/new" {
		t.Errorf("HX-Redirect = %q", got)
	}
}

func TestNewEntryFormPreselectsToday(t *testing.T) {
	srv := newTestServer(t, memory.New([]string{"Food", "Rent"}), 0)

	rr := do(srv, httptest.NewRequest(http.MethodGet, "/entries/new", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`id="date_datetime_select"`,
		`id="date_year_select_field"`,
		`id="date_month_select_field"`,
		`id="date_day_select_field"`,
		`name="date" value="2024-03-15T12:00:00Z"`,
		`<option value="2022"`,
		`<option value="3" selected>March</option>`,
		`<option value="Rent">Rent</option>`,
		`hx-post="/ui/amount"`,
		`hx-get="/ui/month-overview?year=2024&month=3"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("entry form missing %s", want)
		}
	}
	if strings.Contains(body, `<option value="2021"`) {
		t.Error("year before the range offered")
	}
}

func TestDateSelectRoundTrip(t *testing.T) {
	srv := newTestServer(t, memory.New(nil), 0)
	pre := testNow.Format(time.RFC3339)

	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{
			name:  "no changed level starts from preselect",
			query: url.Values{"id": {"date"}, "preselect": {pre}},
			want:  `name="date" value="2024-03-15T12:00:00Z"`,
		},
		{
			name:  "changing the year keeps month and day",
			query: url.Values{"id": {"date"}, "changed": {"year"}, "year": {"2023"}, "month": {"3"}, "day": {"15"}, "preselect": {pre}},
			want:  `name="date" value="2023-03-15T12:00:00Z"`,
		},
		{
			name:  "clearing the day empties the date",
			query: url.Values{"id": {"date"}, "changed": {"day"}, "year": {"2024"}, "month": {"3"}, "day": {""}, "preselect": {pre}},
			want:  `name="date" value=""`,
		},
		{
			name:  "day past the month end falls back to the last day",
			query: url.Values{"id": {"date"}, "changed": {"month"}, "year": {"2024"}, "month": {"2"}, "day": {"30"}, "preselect": {pre}},
			want:  `name="date" value="2024-02-29T12:00:00Z"`,
		},
		{
			name:  "unknown id falls back",
			query: url.Values{"id": {"<script>"}, "preselect": {pre}},
			want:  `id="date_datetime_select"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(srv, httptest.NewRequest(http.MethodGet, "/ui/date-select?"+tc.query.Encode(), nil))
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d", rr.Code)
			}
			if body := rr.Body.String(); !strings.Contains(body, tc.want) {
				t.Errorf("body missing %s\n%s", tc.want, body)
			}
		})
	}
}

func TestAmountNormalised(t *testing.T) {
	srv := newTestServer(t, memory.New(nil), 0)

	rr := do(srv, postForm("/ui/amount", url.Values{"amount": {"1234,5"}}))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body := rr.Body.String(); !strings.Contains(body, `id="amount_section"`) {
		t.Errorf("body is not the amount input: %s", body)
	}
}

func TestCreateEntry(t *testing.T) {
	store := memory.New([]string{"Food"})
	srv := newTestServer(t, store, 0)

	rr := do(srv, postForm("/entries", url.Values{
		"date":        {"2024-03-10T12:00:00Z"},
		"description": {"  Lunch\x00 "},
		"amount":      {"12.50"},
		"category":    {"Food"},
	}))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}
	var triggers map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rr.Header().Get("HX-Trigger")), &triggers); err != nil {
		t.Fatalf("HX-Trigger: %v", err)
	}
	if _, ok := triggers["entry:created"]; !ok {
		t.Errorf("missing entry:created trigger: %v", triggers)
	}
	if _, ok := triggers["form:reset"]; !ok {
		t.Errorf("missing form:reset trigger: %v", triggers)
	}

	entries, err := store.ListEntries(context.Background(), 2024, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("stored %d entries", len(entries))
	}
	if e := entries[0]; e.Description != "Lunch" || e.Amount.Cents != 1250 || e.Date.Day() != 10 {
		t.Errorf("stored %+v", e)
	}

	rr = do(srv, httptest.NewRequest(http.MethodGet, "/ui/month-overview?year=2024&month=3", nil))
	body := rr.Body.String()
	for _, want := range []string{"March 2024", "Total: 12.50", "Lunch"} {
		if !strings.Contains(body, want) {
			t.Errorf("overview missing %q", want)
		}
	}
}

func TestCreateEntryRejects(t *testing.T) {
	valid := url.Values{
		"date":        {"2024-03-10T12:00:00Z"},
		"description": {"Lunch"},
		"amount":      {"12.50"},
		"category":    {"Food"},
	}
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"incomplete date", "date", "", "Choose a complete date"},
		{"malformed date", "date", "yesterday", "Choose a complete date"},
		{"date before range", "date", "2020-01-01T12:00:00Z", "outside the allowed range"},
		{"date after now", "date", "2024-03-16T12:00:00Z", "outside the allowed range"},
		{"zero amount", "amount", "0", "Invalid amount"},
		{"empty description", "description", "  ", "Description is required"},
		{"no category", "category", "", "Choose a category"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.New([]string{"Food"})
			srv := newTestServer(t, store, 0)
			form := url.Values{}
			for k, v := range valid {
				form[k] = v
			}
			form.Set(tc.field, tc.value)

			rr := do(srv, postForm("/entries", form))
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d", rr.Code)
			}
			if body := rr.Body.String(); !strings.Contains(body, tc.want) {
				t.Errorf("body = %s, want %q", body, tc.want)
			}
			if entries, _ := store.ListEntries(context.Background(), 2024, 3); len(entries) != 0 {
				t.Errorf("rejected entry stored")
			}
		})
	}
}

func TestMonthOverviewEmpty(t *testing.T) {
	srv := newTestServer(t, memory.New(nil), 0)

	rr := do(srv, httptest.NewRequest(http.MethodGet, "/ui/month-overview?month=13", nil))
	body := rr.Body.String()
	if !strings.Contains(body, "March 2024") {
		t.Errorf("invalid month should fall back to now: %s", body)
	}
	if !strings.Contains(body, "No entries this month") {
		t.Errorf("missing placeholder: %s", body)
	}
}

func TestCategoriesJSON(t *testing.T) {
	srv := newTestServer(t, memory.New([]string{"Food", "Rent"}), 0)

	rr := do(srv, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var got struct {
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Categories) != 2 || got.Categories[0] != "Food" {
		t.Errorf("categories = %v", got.Categories)
	}
}

type failingPinger struct{ *memory.Store }

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, memory.New(nil), 0)
	if rr := do(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rr.Code != http.StatusOK {
		t.Errorf("healthz = %d", rr.Code)
	}
	if rr := do(srv, httptest.NewRequest(http.MethodGet, "/readyz", nil)); rr.Code != http.StatusOK {
		t.Errorf("readyz = %d", rr.Code)
	}

	down := NewServer(":0", failingPinger{memory.New(nil)}, Options{Logger: log.New(log.Config{Output: io.Discard})})
	defer down.Shutdown(context.Background())
	if rr := do(down, httptest.NewRequest(http.MethodGet, "/readyz", nil)); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz with failing backend = %d", rr.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	srv := newTestServer(t, memory.New(nil), 0)

	rr := do(srv, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Error("missing Cache-Control")
	}
}

func TestPostsAreRateLimited(t *testing.T) {
	srv := newTestServer(t, memory.New(nil), 1)

	if rr := do(srv, postForm("/login", nil)); rr.Code != http.StatusOK {
		t.Fatalf("first POST = %d", rr.Code)
	}
	rr := do(srv, postForm("/login", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second POST = %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rr.Header().Get("Retry-After"))
	}
	if rr := do(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rr.Code != http.StatusOK {
		t.Errorf("GET limited too: %d", rr.Code)
	}
}
