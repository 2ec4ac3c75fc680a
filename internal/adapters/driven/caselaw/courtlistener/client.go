// Package courtlistener searches published opinions through the
// CourtListener REST API.
package courtlistener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
	"github.com/exonascope/exonascope-cli/internal/core/ports/driven"
	"github.com/exonascope/exonascope-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.CaselawSearcher = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL           = "https://www.courtlistener.com"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 1.0
	searchPath               = "/api/rest/v4/search/"
)

// courtCodes maps workflow jurisdiction names to CourtListener court IDs.
// Anything else is passed through as given.
var courtCodes = map[string]string{
	"3rd": "ca3",
}

// Config holds configuration for the CourtListener client.
type Config struct {
	// BaseURL is the site root (default: https://www.courtlistener.com).
	BaseURL string

	// APIToken is optional. Anonymous requests are accepted but throttled.
	APIToken string

	// RequestsPerSecond is the client-side rate limit (default: 1).
	RequestsPerSecond float64

	// Timeout bounds each request (default: 30s).
	Timeout time.Duration
}

// Client runs opinion searches.
type Client struct {
	client  *http.Client
	baseURL string
	token   string
	limiter *RateLimiter
}

type searchResponse struct {
	Count   int            `json:"count"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	CaseName    string   `json:"caseName"`
	Citation    []string `json:"citation"`
	Court       string   `json:"court"`
	CourtID     string   `json:"court_id"`
	AbsoluteURL string   `json:"absolute_url"`
}

// NewClient creates a CourtListener client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.APIToken,
		limiter: NewRateLimiter(cfg.RequestsPerSecond),
	}
}

// CourtCode returns the CourtListener court ID for a jurisdiction.
func CourtCode(jurisdiction string) string {
	if code, ok := courtCodes[jurisdiction]; ok {
		return code
	}
	return jurisdiction
}

// Search returns up to limit opinions matching query, newest first.
func (c *Client) Search(ctx context.Context, query, court string, limit int) ([]domain.CaselawRef, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty caselaw query", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("type", "o")
	params.Set("q", query)
	params.Set("order_by", "dateFiled desc")
	if code := CourtCode(court); code != "" {
		params.Set("court", code)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimitError(retryAfter(resp.Header.Get("Retry-After")))
		return nil, fmt.Errorf("courtlistener: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("courtlistener error (status %d): %s", resp.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	logger.Debug("courtlistener: %q court=%s matched %d", query, court, sr.Count)

	refs := make([]domain.CaselawRef, 0, min(limit, len(sr.Results)))
	for _, r := range sr.Results {
		if len(refs) == limit {
			break
		}
		refs = append(refs, c.toRef(r))
	}
	return refs, nil
}

func (c *Client) toRef(r searchResult) domain.CaselawRef {
	ref := domain.CaselawRef{
		Name:  r.CaseName,
		Court: r.Court,
	}
	if len(r.Citation) > 0 {
		ref.Citation = r.Citation[0]
	}
	if ref.Court == "" {
		ref.Court = r.CourtID
	}
	if r.AbsoluteURL != "" {
		if strings.HasPrefix(r.AbsoluteURL, "http") {
			ref.URL = r.AbsoluteURL
		} else {
			ref.URL = c.baseURL + r.AbsoluteURL
		}
	}
	return ref
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
