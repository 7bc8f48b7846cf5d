package newspilot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
)

const defaultRSSSource = "RSS Feed"

// RSSFetcher pulls articles from fixed RSS/Atom feeds. It is the secondary,
// gap-filling discovery source: no result cap, expected feed sizes are small.
type RSSFetcher struct {
	Client *http.Client
}

// NewRSSFetcher returns an RSS fetcher with a short per-request timeout.
func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch parses every feed URL and returns the merged article list, newest
// first. Failures are isolated per feed: a broken feed contributes zero
// articles and never aborts the others.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURLs []string, windowDays int) []Article {
	if len(feedURLs) == 0 {
		return []Article{}
	}

	var articles []Article
	seenURLs := make(map[string]bool)

	for _, feedURL := range feedURLs {
		entries, err := f.FetchFeed(ctx, feedURL, windowDays)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"feed":  feedURL,
				"error": err,
			}).Warn("feed parsing issue")
		}

		// A parse error still yields whatever entries could be extracted.
		for _, a := range entries {
			if seenURLs[a.URL] {
				continue
			}
			articles = append(articles, a)
			seenURLs[a.URL] = true
		}
	}

	sortNewestFirst(articles)
	if articles == nil {
		articles = []Article{}
	}
	return articles
}

// FetchFeed fetches and parses a single feed, returning the entries inside
// the recency window. The article list is always usable; a non-nil error
// only marks partial success, it never discards the returned entries.
func (f *RSSFetcher) FetchFeed(ctx context.Context, feedURL string, windowDays int) ([]Article, error) {
	fp := gofeed.NewParser()
	fp.Client = f.Client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return []Article{}, fmt.Errorf("failed to parse feed: %w", err)
	}

	source := feed.Title
	if source == "" {
		source = defaultRSSSource
	}

	now := time.Now()
	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}

		published := ParsePublished(item.PublishedParsed, item.Published, now)
		if !withinWindow(published, now, windowDays) {
			continue
		}

		// The feed's own display name doubles as the category for RSS hits.
		articles = append(articles, newArticle(
			item.Title, item.Link, source, item.Description,
			source, FoundViaRSS, published,
		))
	}

	return articles, nil
}
