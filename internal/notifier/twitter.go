package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/liga-rankings/internal/views"
)

const (
	tweetLimit = 280

	// pause between tweets of one run
	tweetInterval = 2 * time.Second
)

// Credentials are the OAuth1 keys of the posting account
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// TwitterNotifier posts digests to Twitter
type TwitterNotifier struct {
	client   *twitter.Client
	interval time.Duration
}

// NewTwitterNotifier creates a new Twitter notifier. Every credential is required.
func NewTwitterNotifier(creds Credentials) (*TwitterNotifier, error) {
	if creds.ConsumerKey == "" || creds.ConsumerSecret == "" || creds.AccessToken == "" || creds.AccessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials (twitter_consumer_key, twitter_consumer_secret, twitter_access_token, twitter_access_secret)")
	}

	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return newTwitterNotifier(httpClient, tweetInterval), nil
}

func newTwitterNotifier(httpClient *http.Client, interval time.Duration) *TwitterNotifier {
	return &TwitterNotifier{
		client:   twitter.NewClient(httpClient),
		interval: interval,
	}
}

// Notify posts one tweet per digest
func (n *TwitterNotifier) Notify(ctx context.Context, digests []views.RoundDigest) error {
	for i, d := range digests {
		tweet := formatTweet(d)

		_, _, err := n.client.Statuses.Update(tweet, nil)
		if err != nil {
			return fmt.Errorf("failed to post tweet for round %s: %w", d.Round, err)
		}

		// Rate limiting: wait between tweets
		if i < len(digests)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.interval):
			}
		}
	}

	return nil
}

// formatTweet formats a digest as a tweet
func formatTweet(d views.RoundDigest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚽ Round %s\n\n", d.Round)
	fmt.Fprintf(&b, "🏆 %s", d.Winner.Name)
	if d.Winner.User != "" {
		fmt.Fprintf(&b, " (%s)", d.Winner.User)
	}
	fmt.Fprintf(&b, " - %d pts\n", d.Winner.Points)

	if d.Pool > 0 {
		fmt.Fprintf(&b, "💸 %d teams add %d to the pool\n", len(d.Payers), d.Pool)
	}
	b.WriteString("\n#LigaRecord")

	return truncate(b.String(), tweetLimit)
}

// truncate shortens s to at most limit characters, ending with an ellipsis
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
