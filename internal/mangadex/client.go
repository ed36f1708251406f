package mangadex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"mangasearch/pkg/models"
)

// MangaDex API base (public)
const DefaultBaseURL = "https://api.mangadex.org"

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
	maxErrorBody   = 512
)

var ErrUnexpectedStatus = errors.New("mangadex: unexpected status")

// Client performs the two read-only lookups the results page needs.
type Client struct {
	BaseURL   string
	HTTP      *http.Client
	Limiter   *rate.Limiter // nil disables client-side limiting
	UserAgent string
}

type Options struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	UserAgent     string
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	c := &Client{
		BaseURL:   opts.BaseURL,
		HTTP:      &http.Client{Timeout: opts.Timeout},
		UserAgent: opts.UserAgent,
	}
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.Limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return c
}

type searchResponse struct {
	Result string            `json:"result"`
	Data   []models.RawManga `json:"data"`
	Total  int               `json:"total"`
}

type statisticsResponse struct {
	Result     string                          `json:"result"`
	Statistics map[string]models.RawStatistics `json:"statistics"`
}

// SearchFirst returns the best title match, or nil when the catalog has none.
func (c *Client) SearchFirst(ctx context.Context, title string) (*models.RawManga, error) {
	u, err := url.Parse(c.BaseURL + "/manga")
	if err != nil {
		return nil, fmt.Errorf("mangadex: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("title", title)
	q.Set("limit", "1")
	// include author + cover data in relationships
	q.Add("includes[]", "cover_art")
	q.Add("includes[]", "author")
	u.RawQuery = q.Encode()

	var resp searchResponse
	if err := c.getJSON(ctx, u.String(), &resp); err != nil {
		return nil, fmt.Errorf("mangadex: search %q: %w", title, err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	m := resp.Data[0]
	return &m, nil
}

// Statistics returns rating and follow counts for id, or nil when the
// response carries no entry for it.
func (c *Client) Statistics(ctx context.Context, id string) (*models.RawStatistics, error) {
	u := c.BaseURL + "/statistics/manga/" + url.PathEscape(id)

	var resp statisticsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("mangadex: statistics %s: %w", id, err)
	}
	stats, ok := resp.Statistics[id]
	if !ok {
		return nil, nil
	}
	return &stats, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
