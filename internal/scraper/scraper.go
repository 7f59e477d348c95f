package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/liga-rankings/internal/team"
)

const (
	StandingsURL = "https://liga.record.pt/common/services/teamsleague_page.ashx?guid=7ed55a3e-4496-4608-bc61-d6b1c2e16890&page=1&pagesize=50&mode_ranking=&type_ranking="
	UserAgent    = "liga-rankings/1.0 (github.com/pfrederiksen/liga-rankings)"
	Timeout      = 30 * time.Second
)

// CSS markers of the standings markup
const (
	rowSelector      = ".row_equipa"
	positionSelector = ".posicao"
	nameSelector     = ".nome"
	userSelector     = ".user"
	pointsSelector   = ".pontos_equipa"
	pointsSuffix     = "pts"
)

// Scraper handles fetching and parsing the season standings page
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithURL overrides the standings page URL
func WithURL(url string) Option {
	return func(s *Scraper) {
		if url != "" {
			s.url = url
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url:       StandingsURL,
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the standings page the scraper reads
func (s *Scraper) URL() string {
	return s.url
}

// FetchStandings fetches and parses the season standings page
func (s *Scraper) FetchStandings(ctx context.Context) ([]team.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return ParseStandings(resp.Body), nil
}

// ParseStandings extracts one record per standings row from HTML.
// Malformed input yields an empty slice.
func ParseStandings(r io.Reader) []team.Record {
	records := make([]team.Record, 0)

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return records
	}

	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		pointsText := strings.TrimSpace(fieldText(row, pointsSelector))
		pointsText = strings.TrimSpace(strings.Replace(pointsText, pointsSuffix, "", 1))

		records = append(records, team.Record{
			Position: fieldText(row, positionSelector),
			Name:     fieldText(row, nameSelector),
			User:     fieldText(row, userSelector),
			Points:   parsePoints(pointsText),
		})
	})

	return records
}

// fieldText returns the trimmed text of the first element matching selector
func fieldText(row *goquery.Selection, selector string) string {
	return strings.TrimSpace(row.Find(selector).First().Text())
}

// parsePoints reads the leading integer of s, returning 0 when there is none.
// "1234", "87 " and "-3" parse; "", "n/a" and "pts" do not.
func parsePoints(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
