package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestExtractProfileSlug(t *testing.T) {
	cases := []struct {
		url  string
		slug string
		ok   bool
	}{
		{"https://linkedin.com/in/jane-doe", "jane-doe", true},
		{"https://www.linkedin.com/in/jane-doe/details?x=1", "jane-doe", true},
		{"https://site.example/in/jane-doe", "jane-doe", true},
		{"https://linkedin.com/company/acme", "", false},
		{"https://linkedin.com/in/", "", false},
	}
	for _, tc := range cases {
		slug, err := ExtractProfileSlug(tc.url)
		if tc.ok && (err != nil || slug != tc.slug) {
			t.Fatalf("ExtractProfileSlug(%q) = %q, %v; want %q", tc.url, slug, err, tc.slug)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidProfileURL) {
			t.Fatalf("ExtractProfileSlug(%q) err = %v, want ErrInvalidProfileURL", tc.url, err)
		}
	}
}

func TestParseCookieHeader(t *testing.T) {
	cookies := parseCookieHeader("li_at=abc123; JSESSIONID=xyz")
	if len(cookies) != 2 {
		t.Fatalf("cookies = %d, want 2", len(cookies))
	}
	if cookies[0].Name != "li_at" || cookies[0].Value != "abc123" || cookies[0].Domain != ".linkedin.com" {
		t.Fatalf("cookie[0] = %+v", cookies[0])
	}

	if got := parseCookieHeader(""); got != nil {
		t.Fatalf("empty header should yield no cookies")
	}
	if got := parseCookieHeader("li_at=YOUR_LI_AT_COOKIE_HERE"); got != nil {
		t.Fatalf("placeholder header should yield no cookies")
	}
}

func TestHasValidCredentials(t *testing.T) {
	s, err := NewApifyScraper(Config{Token: "t", Actor: "a", CookieHeader: "li_at=abc"})
	if err != nil {
		t.Fatalf("NewApifyScraper: %v", err)
	}
	if !s.HasValidCredentials() {
		t.Fatalf("li_at cookie should count as credentials")
	}

	s, _ = NewApifyScraper(Config{Token: "t", Actor: "a", CookieHeader: "JSESSIONID=xyz"})
	if s.HasValidCredentials() {
		t.Fatalf("session cookie alone should not count as credentials")
	}
}

func TestApifyScrapeFullRun(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/acts/test~actor/runs", func(w http.ResponseWriter, r *http.Request) {
		var input runInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Errorf("decode run input: %v", err)
		}
		if len(input.URLs) != 1 || !input.UseChrome || !input.Headless {
			t.Errorf("run input = %+v", input)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "run-1", "status": "RUNNING"}})
	})
	mux.HandleFunc("GET /v2/acts/test~actor/runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		status := "RUNNING"
		if polls.Add(1) >= 2 {
			status = "SUCCEEDED"
		}
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "run-1", "status": status}})
	})
	mux.HandleFunc("GET /v2/acts/test~actor/runs/run-1/dataset/items", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{{
			"firstName":        "Jane",
			"lastName":         "Doe",
			"headline":         "Engineer",
			"geoLocationName":  "Berlin",
			"publicIdentifier": "jane-doe",
			"connectionsCount": float64(321),
			"positions": []any{map[string]any{
				"title":       "Engineer",
				"companyName": "Acme",
				"timePeriod": map[string]any{
					"startDate": map[string]any{"year": float64(2020)},
				},
			}},
			"educations": []any{map[string]any{
				"schoolName": "TU Berlin",
				"timePeriod": map[string]any{
					"startDate": map[string]any{"year": float64(2014)},
					"endDate":   map[string]any{"year": float64(2018)},
				},
			}},
			"skills": []any{map[string]any{"name": "Go", "endorsements": float64(12)}},
		}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s, err := NewApifyScraper(Config{
		Token:        "t",
		Actor:        "test~actor",
		BaseURL:      srv.URL,
		MaxWait:      time.Second,
		PollInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewApifyScraper: %v", err)
	}

	snap, err := s.Scrape(context.Background(), "https://linkedin.com/in/jane-doe")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if snap.BasicInfo.FullName != "Jane Doe" {
		t.Fatalf("full name = %q", snap.BasicInfo.FullName)
	}
	if snap.BasicInfo.ProfileURL != "https://linkedin.com/in/jane-doe" {
		t.Fatalf("profile url = %q", snap.BasicInfo.ProfileURL)
	}
	if snap.BasicInfo.Connections != "321" {
		t.Fatalf("connections = %q", snap.BasicInfo.Connections)
	}
	if len(snap.Experience) != 1 || snap.Experience[0].Duration != "2020 - Present" {
		t.Fatalf("experience = %+v", snap.Experience)
	}
	if len(snap.Education) != 1 || snap.Education[0].Duration != "2014 - 2018" {
		t.Fatalf("education = %+v", snap.Education)
	}
	if len(snap.Skills) != 1 || snap.Skills[0].Endorsements != 12 {
		t.Fatalf("skills = %+v", snap.Skills)
	}
}

func TestApifyScrapeRunFailed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/acts/test~actor/runs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "run-1"}})
	})
	mux.HandleFunc("GET /v2/acts/test~actor/runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "run-1", "status": "FAILED"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s, _ := NewApifyScraper(Config{Token: "t", Actor: "test~actor", BaseURL: srv.URL, PollInterval: time.Millisecond})
	if _, err := s.Scrape(context.Background(), "https://linkedin.com/in/jane-doe"); !errors.Is(err, ErrRunFailed) {
		t.Fatalf("err = %v, want ErrRunFailed", err)
	}
}

func TestApifyScrapeNoResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/acts/test~actor/runs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "run-1"}})
	})
	mux.HandleFunc("GET /v2/acts/test~actor/runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "run-1", "status": "SUCCEEDED"}})
	})
	mux.HandleFunc("GET /v2/acts/test~actor/runs/run-1/dataset/items", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s, _ := NewApifyScraper(Config{Token: "t", Actor: "test~actor", BaseURL: srv.URL, PollInterval: time.Millisecond})
	if _, err := s.Scrape(context.Background(), "https://linkedin.com/in/jane-doe"); !errors.Is(err, ErrNoResults) {
		t.Fatalf("err = %v, want ErrNoResults", err)
	}
}

func TestMockScraper(t *testing.T) {
	s := NewMockScraper()

	snap, err := s.Scrape(context.Background(), "https://linkedin.com/in/anyone")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if snap.BasicInfo.FullName != "John Doe" {
		t.Fatalf("mock profile name = %q", snap.BasicInfo.FullName)
	}
	if _, err := s.Scrape(context.Background(), "https://linkedin.com/jobs"); !errors.Is(err, ErrInvalidProfileURL) {
		t.Fatalf("invalid url err = %v", err)
	}
}

func TestNewScraperModes(t *testing.T) {
	if s, err := NewScraper(Config{Mode: "auto"}); err != nil {
		t.Fatalf("tokenless auto: %v", err)
	} else if _, ok := s.(*MockScraper); !ok {
		t.Fatalf("tokenless auto returned %T", s)
	}

	if s, err := NewScraper(Config{Mode: "auto", Token: "t", Actor: "a"}); err != nil {
		t.Fatalf("keyed auto: %v", err)
	} else if _, ok := s.(*ApifyScraper); !ok {
		t.Fatalf("keyed auto returned %T", s)
	}

	if _, err := NewScraper(Config{Mode: "apify"}); err == nil {
		t.Fatalf("apify mode without token must fail")
	}
	if _, err := NewScraper(Config{Mode: "carrier-pigeon"}); err == nil {
		t.Fatalf("unknown mode must fail")
	}
}
