package notifier

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/pfrederiksen/liga-rankings/internal/config"
	"github.com/pfrederiksen/liga-rankings/internal/team"
	"github.com/pfrederiksen/liga-rankings/internal/views"
)

func testDigest(round string) views.RoundDigest {
	return views.RoundDigest{
		Round:  round,
		Teams:  20,
		Winner: team.Record{Position: "1", Name: "No Fear", User: "joao", Points: 64},
		Payers: []views.Payer{
			{Position: 15, Name: "Os Bravos", Amount: 1},
			{Position: 20, Name: "Last FC", Amount: 2},
		},
		Pool: 3,
	}
}

// rewriteTransport sends every request to target, keeping the path
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func TestFormatTweet(t *testing.T) {
	tests := []struct {
		name        string
		digest      views.RoundDigest
		contains    []string
		notContains []string
	}{
		{
			name:   "round with pool",
			digest: testDigest("7"),
			contains: []string{
				"Round 7",
				"No Fear (joao) - 64 pts",
				"2 teams add 3 to the pool",
				"#LigaRecord",
			},
		},
		{
			name: "round without pool",
			digest: views.RoundDigest{
				Round:  "1",
				Winner: team.Record{Name: "A", Points: 10},
			},
			contains:    []string{"Round 1", "A - 10 pts"},
			notContains: []string{"pool", "()"},
		},
		{
			name: "very long team name",
			digest: views.RoundDigest{
				Round:  "3",
				Winner: team.Record{Name: strings.Repeat("Ã", 400)},
			},
			contains: []string{"..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTweet(tt.digest)

			if n := utf8.RuneCountInString(got); n > tweetLimit {
				t.Errorf("formatTweet() length = %d, want <= %d", n, tweetLimit)
			}
			if !utf8.ValidString(got) {
				t.Error("formatTweet() produced invalid UTF-8")
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatTweet() missing %q in:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("formatTweet() should not contain %q in:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestDryRunNotifier(t *testing.T) {
	var out bytes.Buffer
	n := NewDryRunNotifier(&out)

	if err := n.Notify(context.Background(), []views.RoundDigest{testDigest("1"), testDigest("2")}); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"--- Tweet 1/2 ---", "--- Tweet 2/2 ---", "Round 1", "Round 2", "(Length: "} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestTwitterNotifier_Notify(t *testing.T) {
	var posted []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1.1/statuses/update.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		posted = append(posted, r.Form.Get("status"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "text": "ok"}`))
	}))
	defer server.Close()

	target, _ := url.Parse(server.URL)
	n := newTwitterNotifier(&http.Client{Transport: rewriteTransport{target: target}}, 0)

	if err := n.Notify(context.Background(), []views.RoundDigest{testDigest("4"), testDigest("5")}); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if len(posted) != 2 {
		t.Fatalf("posted %d tweets, want 2", len(posted))
	}
	if !strings.Contains(posted[0], "Round 4") || !strings.Contains(posted[1], "Round 5") {
		t.Errorf("posted = %q", posted)
	}
}

func TestTwitterNotifier_Error(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[{"code":187,"message":"Status is a duplicate."}]}`))
	}))
	defer server.Close()

	target, _ := url.Parse(server.URL)
	n := newTwitterNotifier(&http.Client{Transport: rewriteTransport{target: target}}, 0)

	err := n.Notify(context.Background(), []views.RoundDigest{testDigest("4"), testDigest("5")})
	if err == nil || !strings.Contains(err.Error(), "round 4") {
		t.Errorf("Notify() error = %v, want failure for round 4", err)
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want to stop after the first failure", calls.Load())
	}
}

func TestNewTwitterNotifier_MissingCredentials(t *testing.T) {
	_, err := NewTwitterNotifier(Credentials{ConsumerKey: "k", ConsumerSecret: "s", AccessToken: "t"})
	if err == nil {
		t.Error("NewTwitterNotifier() expected error for missing access secret")
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	n, err := New(ChannelDryRun, cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New(dry-run) error = %v", err)
	}
	if _, ok := n.(*DryRunNotifier); !ok {
		t.Errorf("New(dry-run) = %T", n)
	}

	if _, err := New(ChannelTwitter, cfg, nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("New(twitter) without credentials error = %v, want ErrNotConfigured", err)
	}
	if _, err := New(ChannelTelegram, cfg, nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("New(telegram) without token error = %v, want ErrNotConfigured", err)
	}

	cfg.TelegramBotToken = "t"
	if _, err := New(ChannelTelegram, cfg, nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("New(telegram) without chat id error = %v, want ErrNotConfigured", err)
	}

	cfg.TwitterConsumerKey = "ck"
	cfg.TwitterConsumerSecret = "cs"
	cfg.TwitterAccessToken = "at"
	if _, err := New(ChannelTwitter, cfg, nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("New(twitter) without access secret error = %v, want ErrNotConfigured", err)
	}
	cfg.TwitterAccessSecret = "as"
	if n, err := New(ChannelTwitter, cfg, nil); err != nil {
		t.Errorf("New(twitter) error = %v", err)
	} else if _, ok := n.(*TwitterNotifier); !ok {
		t.Errorf("New(twitter) = %T", n)
	}

	cfg.TelegramChatID = "c"
	if n, err := New(ChannelTelegram, cfg, nil); err != nil {
		t.Errorf("New(telegram) error = %v", err)
	} else if _, ok := n.(*TelegramNotifier); !ok {
		t.Errorf("New(telegram) = %T", n)
	}

	if _, err := New("pigeon", cfg, nil); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("New(pigeon) error = %v, want ErrUnknownChannel", err)
	}
}
