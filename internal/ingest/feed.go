package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultFeedTimeout bounds a single feed request
	DefaultFeedTimeout = 15 * time.Second

	// DefaultFeedRate is the default request rate across all feeds, per second
	DefaultFeedRate = 1.0

	// DefaultMaxFeedItems caps the entries taken from one feed
	DefaultMaxFeedItems = 50

	feedUserAgent = "bizpulse/1.0 (+news ingest)"
)

// ErrAllFeedsFailed is returned when no configured feed could be read
var ErrAllFeedsFailed = errors.New("all feeds failed")

// FeedOptions configures a FeedFetcher. Zero values take the defaults.
type FeedOptions struct {
	RatePerSecond float64
	Timeout       time.Duration
	MaxItems      int
	HTTPClient    *http.Client
}

// FeedFetcher reads RSS and Atom feeds into headlines. Requests share one rate
// limiter so polling many feeds stays polite.
type FeedFetcher struct {
	logger     arbor.ILogger
	httpClient *http.Client
	limiter    *rate.Limiter
	parser     *gofeed.Parser
	maxItems   int
	now        func() time.Time
}

// NewFeedFetcher creates a fetcher with the given options
func NewFeedFetcher(logger arbor.ILogger, opts FeedOptions) *FeedFetcher {
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = DefaultFeedRate
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultFeedTimeout
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxFeedItems
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	burst := int(math.Max(1, math.Ceil(opts.RatePerSecond)))
	return &FeedFetcher{
		logger:     logger,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst),
		parser:     gofeed.NewParser(),
		maxItems:   opts.MaxItems,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// FetchAll reads every feed in order. A failing feed is logged and skipped;
// the error is ErrAllFeedsFailed only when none succeeded.
func (f *FeedFetcher) FetchAll(ctx context.Context, urls []string) ([]Headline, error) {
	var (
		out    []Headline
		failed int
	)
	for _, url := range urls {
		headlines, err := f.Fetch(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			failed++
			f.logger.Warn().Str("feed", url).Err(err).Msg("Failed to fetch feed")
			continue
		}
		out = append(out, headlines...)
	}

	if len(urls) > 0 && failed == len(urls) {
		return nil, fmt.Errorf("%w: %d feeds", ErrAllFeedsFailed, failed)
	}

	f.logger.Info().
		Int("feeds", len(urls)).
		Int("failed", failed).
		Int("headlines", len(out)).
		Msg("Feeds fetched")
	return out, nil
}

// Fetch reads one feed. The feed title becomes the headline source and an
// entry without a publish or update time is stamped with the fetch time.
func (f *FeedFetcher) Fetch(ctx context.Context, url string) ([]Headline, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", feedUserAgent)

	f.logger.Debug().Str("feed", url).Msg("Fetching feed")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return f.headlines(feed), nil
}

func (f *FeedFetcher) headlines(feed *gofeed.Feed) []Headline {
	source := strings.TrimSpace(feed.Title)
	fetched := f.now()

	out := make([]Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(out) == f.maxItems {
			break
		}
		if item == nil {
			continue
		}
		title := plainText(item.Title)
		if title == "" {
			continue
		}

		h := Headline{
			Headline:    title,
			Source:      source,
			URL:         strings.TrimSpace(item.Link),
			PublishedAt: fetched,
		}
		switch {
		case item.PublishedParsed != nil:
			h.PublishedAt = item.PublishedParsed.UTC()
		case item.UpdatedParsed != nil:
			h.PublishedAt = item.UpdatedParsed.UTC()
		}
		out = append(out, h)
	}
	return out
}

// plainText strips markup and collapses whitespace in a feed title
func plainText(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
