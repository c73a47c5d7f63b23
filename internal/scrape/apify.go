package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/careerforge/careerforge/internal/profile"
)

const defaultApifyBaseURL = "https://api.apify.com"

// ApifyScraper drives an Apify actor run over the REST API: start the run,
// poll until it reaches a terminal state, then fetch the dataset items.
type ApifyScraper struct {
	baseURL      string
	token        string
	actor        string
	cookies      []sessionCookie
	proxy        proxyConfig
	maxWait      time.Duration
	pollInterval time.Duration
	client       *http.Client
	onError      func(code string)
}

type sessionCookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
}

type proxyConfig struct {
	UseApifyProxy    bool     `json:"useApifyProxy"`
	ApifyProxyGroups []string `json:"apifyProxyGroups,omitempty"`
	ProxyURLs        []string `json:"proxyUrls,omitempty"`
}

func NewApifyScraper(cfg Config) (*ApifyScraper, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultApifyBaseURL
	}
	actor := strings.TrimSpace(cfg.Actor)
	if actor == "" {
		return nil, fmt.Errorf("apify actor is required")
	}
	maxWait := cfg.MaxWait
	if maxWait <= 0 {
		maxWait = 5 * time.Minute
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}

	proxy := proxyConfig{UseApifyProxy: true, ApifyProxyGroups: []string{"RESIDENTIAL"}}
	if url := strings.TrimSpace(cfg.ProxyURL); url != "" {
		proxy = proxyConfig{UseApifyProxy: false, ProxyURLs: []string{url}}
	}

	return &ApifyScraper{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        cfg.Token,
		actor:        actor,
		cookies:      parseCookieHeader(cfg.CookieHeader),
		proxy:        proxy,
		maxWait:      maxWait,
		pollInterval: pollInterval,
		client:       &http.Client{Timeout: 30 * time.Second},
		onError:      cfg.OnError,
	}, nil
}

// HasValidCredentials reports whether an li_at session cookie was parsed.
func (s *ApifyScraper) HasValidCredentials() bool {
	for _, c := range s.cookies {
		if strings.Contains(c.Name, "li_at") {
			return true
		}
	}
	return false
}

type runInput struct {
	URLs      []string        `json:"urls"`
	Cookie    []sessionCookie `json:"cookie"`
	Proxy     proxyConfig     `json:"proxy"`
	UseChrome bool            `json:"useChrome"`
	Headless  bool            `json:"headless"`
}

type runEnvelope struct {
	Data struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
}

func (s *ApifyScraper) Scrape(ctx context.Context, profileURL string) (*profile.Snapshot, error) {
	snap, err := s.scrape(ctx, profileURL)
	if err != nil {
		s.reportError(err)
	}
	return snap, err
}

func (s *ApifyScraper) scrape(ctx context.Context, profileURL string) (*profile.Snapshot, error) {
	if _, err := ExtractProfileSlug(profileURL); err != nil {
		return nil, err
	}

	runID, err := s.startRun(ctx, profileURL)
	if err != nil {
		return nil, err
	}

	if err := s.waitForRun(ctx, runID); err != nil {
		return nil, err
	}

	return s.fetchResult(ctx, runID)
}

func (s *ApifyScraper) reportError(err error) {
	if s.onError == nil {
		return
	}
	switch {
	case errors.Is(err, ErrInvalidProfileURL):
		s.onError("invalid_url")
	case errors.Is(err, ErrNoResults):
		s.onError("no_results")
	case errors.Is(err, ErrRunFailed):
		s.onError("run_failed")
	case errors.Is(err, ErrRunTimeout):
		s.onError("run_timeout")
	default:
		s.onError("request_failed")
	}
}

func (s *ApifyScraper) startRun(ctx context.Context, profileURL string) (string, error) {
	payload, err := json.Marshal(runInput{
		URLs:      []string{profileURL},
		Cookie:    s.cookies,
		Proxy:     s.proxy,
		UseChrome: true,
		Headless:  true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal run input: %w", err)
	}

	var env runEnvelope
	status, err := s.doJSON(ctx, http.MethodPost, s.runsURL(), payload, &env)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("start run: unexpected status %d", status)
	}
	if env.Data.ID == "" {
		return "", fmt.Errorf("start run: missing run id")
	}
	return env.Data.ID, nil
}

func (s *ApifyScraper) waitForRun(ctx context.Context, runID string) error {
	deadline := time.Now().Add(s.maxWait)
	for {
		var env runEnvelope
		status, err := s.doJSON(ctx, http.MethodGet, s.runsURL()+"/"+runID, nil, &env)
		if err != nil {
			return err
		}
		if status == http.StatusOK {
			switch env.Data.Status {
			case "SUCCEEDED":
				return nil
			case "FAILED", "ABORTED", "TIMED-OUT":
				return fmt.Errorf("%w: status %s", ErrRunFailed, env.Data.Status)
			}
		}

		if time.Now().After(deadline) {
			return ErrRunTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *ApifyScraper) fetchResult(ctx context.Context, runID string) (*profile.Snapshot, error) {
	var items []map[string]any
	status, err := s.doJSON(ctx, http.MethodGet, s.runsURL()+"/"+runID+"/dataset/items", nil, &items)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset: unexpected status %d", status)
	}
	if len(items) == 0 {
		return nil, ErrNoResults
	}

	snap := mapRawProfile(items[0])
	if snap.BasicInfo.FullName == "" {
		return nil, ErrNoResults
	}
	return snap, nil
}

func (s *ApifyScraper) runsURL() string {
	return s.baseURL + "/v2/acts/" + s.actor + "/runs"
}

func (s *ApifyScraper) doJSON(ctx context.Context, method, url string, body []byte, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	res, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if out != nil && res.StatusCode >= 200 && res.StatusCode < 300 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return res.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return res.StatusCode, nil
}

// parseCookieHeader turns a "name=value; name=value" header string into the
// cookie objects the actor expects, pinned to the profile host domain.
func parseCookieHeader(header string) []sessionCookie {
	header = strings.TrimSpace(header)
	if header == "" || strings.Contains(header, "YOUR_LI_AT_COOKIE_HERE") {
		return nil
	}

	var cookies []sessionCookie
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		cookies = append(cookies, sessionCookie{
			Name:   strings.TrimSpace(name),
			Value:  strings.TrimSpace(value),
			Domain: ".linkedin.com",
		})
	}
	return cookies
}

// mapRawProfile converts one raw actor item into the structured snapshot.
func mapRawProfile(raw map[string]any) *profile.Snapshot {
	snap := &profile.Snapshot{}
	snap.BasicInfo.FullName = strings.TrimSpace(str(raw, "firstName") + " " + str(raw, "lastName"))
	snap.BasicInfo.Headline = str(raw, "headline")
	snap.BasicInfo.Location = str(raw, "geoLocationName")
	snap.BasicInfo.Summary = str(raw, "summary")
	snap.BasicInfo.ProfilePicture = str(raw, "pictureUrl")
	if id := str(raw, "publicIdentifier"); id != "" {
		snap.BasicInfo.ProfileURL = "https://linkedin.com/in/" + id
	}
	snap.BasicInfo.Connections = num(raw, "connectionsCount")
	snap.BasicInfo.Followers = num(raw, "followersCount")

	for _, item := range list(raw, "positions") {
		snap.Experience = append(snap.Experience, profile.Experience{
			Title:    str(item, "title"),
			Company:  str(item, "companyName"),
			Duration: timePeriod(item, true),
		})
	}
	for _, item := range list(raw, "educations") {
		snap.Education = append(snap.Education, profile.Education{
			School:   str(item, "schoolName"),
			Duration: timePeriod(item, false),
		})
	}
	for _, item := range list(raw, "skills") {
		endorsements := 0
		if v, ok := item["endorsements"].(float64); ok {
			endorsements = int(v)
		}
		snap.Skills = append(snap.Skills, profile.Skill{
			Name:         str(item, "name"),
			Endorsements: endorsements,
		})
	}
	return snap
}

func timePeriod(item map[string]any, openEnded bool) string {
	period, _ := item["timePeriod"].(map[string]any)
	start, _ := period["startDate"].(map[string]any)
	end, _ := period["endDate"].(map[string]any)

	startYear := year(start)
	endYear := year(end)
	switch {
	case startYear != "" && endYear != "":
		return startYear + " - " + endYear
	case startYear != "" && openEnded:
		return startYear + " - Present"
	default:
		return ""
	}
}

func year(date map[string]any) string {
	if v, ok := date["year"].(float64); ok {
		return strconv.Itoa(int(v))
	}
	return ""
}

func str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func num(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case float64:
		return strconv.Itoa(int(v))
	case string:
		return v
	default:
		return ""
	}
}

func list(m map[string]any, key string) []map[string]any {
	raw, _ := m[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
