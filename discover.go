package newspilot

import (
	"context"
	"fmt"
)

// Default overall cap on search-feed results per discovery run.
const DefaultMaxResults = 50

// ProgressFunc receives human-readable phase markers during a discovery run.
// It only feeds observability, never the returned data.
type ProgressFunc func(status string)

// Discoverer sequences the source fetchers into one discovery run.
type Discoverer struct {
	Search     *SearchFetcher
	RSS        *RSSFetcher
	MaxResults int
}

// NewDiscoverer returns a discoverer wired with default fetchers.
func NewDiscoverer() *Discoverer {
	return &Discoverer{
		Search:     NewSearchFetcher(),
		RSS:        NewRSSFetcher(),
		MaxResults: DefaultMaxResults,
	}
}

// Discover runs one synchronous discovery pass: the search feed first
// (primary source), RSS feeds second (gap-filling only, an RSS article whose
// URL was already produced by the search pass is dropped). The merged set is
// deduplicated by exact URL and sorted newest first. Individual source
// failures never surface here; the result is whatever could be gathered.
// Nothing configured means an empty result without any network call.
func (d *Discoverer) Discover(ctx context.Context, keywords, feedURLs []string, period string, progress ProgressFunc) []Article {
	if progress == nil {
		progress = func(string) {}
	}

	windowDays := ParseWindow(period)

	var all []Article
	seenURLs := make(map[string]bool)

	if len(keywords) > 0 {
		progress("Searching news...")
		for _, a := range d.Search.Fetch(ctx, keywords, windowDays, d.MaxResults) {
			all = append(all, a)
			seenURLs[a.URL] = true
		}
	}

	if len(feedURLs) > 0 {
		progress("Checking RSS feeds...")
		for _, a := range d.RSS.Fetch(ctx, feedURLs, windowDays) {
			if seenURLs[a.URL] {
				continue
			}
			all = append(all, a)
			seenURLs[a.URL] = true
		}
	}

	unique := dedupByURL(all)
	sortNewestFirst(unique)

	progress(fmt.Sprintf("Found %d articles", len(unique)))
	return unique
}

// dedupByURL keeps the first-seen article for each exact URL. Covers any
// residual duplicates a fetcher may have produced internally. The URL string
// is compared verbatim: trailing slashes, query strings and scheme are all
// significant.
func dedupByURL(articles []Article) []Article {
	unique := make([]Article, 0, len(articles))
	seen := make(map[string]bool, len(articles))
	for _, a := range articles {
		if seen[a.URL] {
			continue
		}
		unique = append(unique, a)
		seen[a.URL] = true
	}
	return unique
}
