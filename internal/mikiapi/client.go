// Package mikiapi talks to the ranking API and the image generation API.
package mikiapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnavailable is returned when an API did not answer in time or answered with an error status.
var ErrUnavailable = errors.New("mikiapi: service unavailable")

const (
	defaultTimeout = 10 * time.Second
	maxCardBytes   = 8 << 20
)

// Config holds API endpoints and limits.
type Config struct {
	BaseURL  string
	WebURL   string
	ImageURL string
	Token    string
	Timeout  time.Duration
	// RequestsPerSecond is the client-side request budget; <= 0 disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// LeaderboardOptions selects one page of a ranking.
type LeaderboardOptions struct {
	Type    string
	GuildID int64 // 0 for the global ranking
	Offset  int
	Amount  int
}

// LeaderboardItem is one ranked row.
type LeaderboardItem struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// LeaderboardPage is the API page DTO.
type LeaderboardPage struct {
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Items       []LeaderboardItem `json:"items"`
}

// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client with a bounded timeout and an optional rate limiter.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// GetPagedLeaderboards fetches one leaderboard page.
func (c *Client) GetPagedLeaderboards(ctx context.Context, opts LeaderboardOptions) (*LeaderboardPage, error) {
	q := url.Values{}
	q.Set("type", opts.Type)
	q.Set("offset", strconv.Itoa(opts.Offset))
	q.Set("amount", strconv.Itoa(opts.Amount))
	if opts.GuildID != 0 {
		q.Set("guildId", strconv.FormatInt(opts.GuildID, 10))
	}

	body, err := c.get(ctx, c.cfg.BaseURL, "/leaderboards", q, "application/json")
	if err != nil {
		return nil, err
	}

	var page LeaderboardPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard page: %w", err)
	}
	return &page, nil
}

// BuildLeaderboardsURL links to the web view of the page opts selects.
func (c *Client) BuildLeaderboardsURL(opts LeaderboardOptions) string {
	page := 1
	if opts.Amount > 0 {
		page = opts.Offset/opts.Amount + 1
	}
	q := url.Values{}
	q.Set("type", opts.Type)
	q.Set("page", strconv.Itoa(page))
	if opts.GuildID != 0 {
		q.Set("guild", strconv.FormatInt(opts.GuildID, 10))
	}
	return strings.TrimRight(c.cfg.WebURL, "/") + "/leaderboards?" + q.Encode()
}

// GetUserCard downloads the rendered experience card for a user.
func (c *Client) GetUserCard(ctx context.Context, userID int64) ([]byte, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(userID, 10))
	return c.get(ctx, c.cfg.ImageURL, "/api/user", q, "image/png")
}

func (c *Client) get(ctx context.Context, base, path string, q url.Values, accept string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	u := strings.TrimRight(base, "/") + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "accounts-bot/1.0")
	req.Header.Set("Accept", accept)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnavailable, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCardBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}
