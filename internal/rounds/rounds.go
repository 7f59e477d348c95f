package rounds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pfrederiksen/liga-rankings/internal/logger"
	"github.com/pfrederiksen/liga-rankings/internal/metrics"
	"github.com/pfrederiksen/liga-rankings/internal/team"
)

const (
	RankingURL = "https://liga.record.pt/common/services/teams_getranking_search.ashx"
	UserAgent  = "liga-rankings/1.0 (github.com/pfrederiksen/liga-rankings)"
	Timeout    = 30 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoEntries is returned when the endpoint answers without any team entry
var ErrNoEntries = errors.New("no team entries in response")

// Client fetches per-round rankings from the league search endpoint
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	trackedUser string
	log         *logger.Logger
	metrics     *metrics.Manager
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the search endpoint
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithTrackedUser sets the username preferred when several teams share a name
func WithTrackedUser(user string) Option {
	return func(c *Client) {
		c.trackedUser = strings.TrimSpace(user)
	}
}

// WithLogger sets the logger used for recovered request failures
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics records request outcomes on m
func WithMetrics(m *metrics.Manager) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new round ranking client
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: Timeout,
		},
		baseURL:   RankingURL,
		userAgent: UserAgent,
		log:       logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// teamResult is the outcome of one team request, kept in its own slot
type teamResult struct {
	record team.Record
	err    error
}

// FetchRound fetches every team's entry for round in parallel and returns them
// re-ranked 1..N by upstream round position. Teams whose request fails are left
// out. An error is returned only if ctx is done or no team request succeeded.
func (c *Client) FetchRound(ctx context.Context, names []string, round string) ([]team.Record, error) {
	results := make([]teamResult, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			rec, err := c.fetchTeam(ctx, name, round)
			results[i] = teamResult{record: rec, err: err}
		}(i, name)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("round %s: %w", round, err)
	}

	records := make([]team.Record, 0, len(names))
	var errs []error
	for i, res := range results {
		if res.err != nil {
			c.log.Warn("Team request failed", logger.Fields{
				"round": round,
				"team":  names[i],
			}, res.err)
			errs = append(errs, res.err)
			continue
		}
		records = append(records, res.record)
	}

	if len(names) > 0 && len(records) == 0 {
		return nil, fmt.Errorf("round %s: all %d team requests failed: %w", round, len(names), errors.Join(errs...))
	}

	return team.Rerank(records), nil
}

// fetchTeam queries the endpoint for a single team in a round
func (c *Client) fetchTeam(ctx context.Context, name, round string) (team.Record, error) {
	start := time.Now()
	rec, err := c.doFetchTeam(ctx, name, round)
	c.metrics.ObserveRequest(metrics.SourceRound, err, time.Since(start))
	return rec, err
}

func (c *Client) doFetchTeam(ctx context.Context, name, round string) (team.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(name, round), nil)
	if err != nil {
		return team.Record{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return team.Record{}, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return team.Record{}, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var pages []searchPage
	if err := json.NewDecoder(resp.Body).Decode(&pages); err != nil {
		return team.Record{}, fmt.Errorf("parsing response: %w", err)
	}

	if len(pages) == 0 || len(pages[0].Teams) == 0 {
		return team.Record{}, ErrNoEntries
	}

	return pickEntry(pages[0].Teams, c.trackedUser).toRecord(), nil
}

// requestURL builds the search query for one team in one round
func (c *Client) requestURL(name, round string) string {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("pagesize", "10")
	params.Set("round", round)
	params.Set("type", "total")
	params.Set("team", name)
	params.Set("sex", "")
	params.Set("region", "")
	params.Set("club", "")
	params.Set("getpagecount", "1")

	return fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
}

// pickEntry selects the canonical entry among same-named search results:
// the tracked user's entry if present, else the first one.
func pickEntry(entries []apiTeam, trackedUser string) apiTeam {
	if trackedUser != "" {
		for _, e := range entries {
			if strings.EqualFold(strings.TrimSpace(e.NameUser), trackedUser) {
				return e
			}
		}
	}
	return entries[0]
}
