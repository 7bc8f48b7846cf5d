package newspilot

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultSearchBaseURL = "https://news.google.com/rss/search"
	defaultSearchSource  = "News Source"

	// Cooperative rate limit toward the search provider. Keyword queries are
	// human-paced and synchronous, so a fixed small delay is enough.
	defaultKeywordDelay = 500 * time.Millisecond
)

// SearchFetcher finds articles through the Google News search feed, one
// query per keyword. It is the primary discovery source.
type SearchFetcher struct {
	BaseURL  string
	Language string // hl parameter
	Country  string // gl parameter
	Delay    time.Duration
	Client   *http.Client
}

// NewSearchFetcher returns a search fetcher with the provider defaults and a
// short per-request timeout so one unreachable endpoint cannot stall a run.
func NewSearchFetcher() *SearchFetcher {
	return &SearchFetcher{
		BaseURL:  defaultSearchBaseURL,
		Language: "en",
		Country:  "US",
		Delay:    defaultKeywordDelay,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// searchFeed mirrors the provider's RSS search response. The universal gofeed
// item drops the <source> element, which carries the publisher name here, so
// the search feed is decoded directly.
type searchFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []searchItem `xml:"item"`
	} `xml:"channel"`
}

type searchItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
	Source      struct {
		URL  string `xml:"url,attr"`
		Name string `xml:",chardata"`
	} `xml:"source"`
}

// Fetch searches the feed once per keyword and returns the merged article
// list, newest first, capped at maxResults. Entries older than the window
// are dropped at fetch time. A failure on one keyword is logged and does not
// abort the others; partial results are still usable.
func (f *SearchFetcher) Fetch(ctx context.Context, keywords []string, windowDays, maxResults int) []Article {
	if len(keywords) == 0 {
		return []Article{}
	}

	now := time.Now()
	perKeyword := maxResults / len(keywords)
	articles := make([]Article, 0, maxResults)
	seenURLs := make(map[string]bool)

	for i, keyword := range keywords {
		if i > 0 {
			select {
			case <-ctx.Done():
				return capResults(articles, maxResults)
			case <-time.After(f.Delay):
			}
		}

		entries, err := f.search(ctx, keyword)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"keyword": keyword,
				"error":   err,
			}).Error("search feed query failed")
			continue
		}

		if len(entries) > perKeyword {
			entries = entries[:perKeyword]
		}

		for _, entry := range entries {
			if entry.Link == "" || seenURLs[entry.Link] {
				continue
			}

			published := ParsePublished(nil, entry.PubDate, now)
			if !withinWindow(published, now, windowDays) {
				continue
			}

			source := entry.Source.Name
			if source == "" {
				source = defaultSearchSource
			}

			articles = append(articles, newArticle(
				entry.Title, entry.Link, source, entry.Description,
				keyword, FoundViaSearch, published,
			))
			seenURLs[entry.Link] = true
		}
	}

	sortNewestFirst(articles)
	return capResults(articles, maxResults)
}

// search runs one keyword query against the provider and decodes the feed.
func (f *SearchFetcher) search(ctx context.Context, keyword string) ([]searchItem, error) {
	query := url.Values{}
	query.Set("q", keyword)
	query.Set("hl", f.Language)
	query.Set("gl", f.Country)
	query.Set("ceid", fmt.Sprintf("%s:%s", f.Country, f.Language))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("User-Agent", "newspilot/1.0")
	req.Header.Set("Accept", "application/rss+xml, application/xml")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search feed returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search feed: %w", err)
	}

	var feed searchFeed
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse search feed: %w", err)
	}

	return feed.Channel.Items, nil
}

func capResults(articles []Article, maxResults int) []Article {
	if len(articles) > maxResults {
		return articles[:maxResults]
	}
	return articles
}
