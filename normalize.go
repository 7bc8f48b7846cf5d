package newspilot

import (
	"strings"
	"time"
)

// Layouts attempted when a feed entry only carries a textual date. RFC-822
// style strings first (the common RSS shape), then ISO-8601 variants.
var publishedLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseWindow maps a time-period label ("Last 7 days", "Last 14 days",
// "Last 30 days") to its lookback in days. Unrecognized labels get the
// 7-day default.
func ParseWindow(period string) int {
	switch {
	case strings.Contains(period, "7"):
		return 7
	case strings.Contains(period, "14"):
		return 14
	case strings.Contains(period, "30"):
		return 30
	default:
		return 7
	}
}

// ParsePublished resolves the published timestamp for a feed entry. The
// chain is: provider-parsed time if present, then each supported string
// layout, then now. A bad date field never fails the entry.
func ParsePublished(parsed *time.Time, raw string, now time.Time) time.Time {
	if parsed != nil {
		return *parsed
	}
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range publishedLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return now
}

// withinWindow reports whether published falls inside the lookback window
// ending at now.
func withinWindow(published, now time.Time, windowDays int) bool {
	return now.Sub(published) <= time.Duration(windowDays)*24*time.Hour
}

// newArticle builds the canonical article shape from normalized entry
// fields. The id is content-addressed from the URL.
func newArticle(title, url, source, snippet, category, foundVia string, published time.Time) Article {
	return Article{
		ArticleID:         ArticleID(url),
		Title:             strings.TrimSpace(title),
		URL:               url,
		Source:            source,
		Snippet:           snippet,
		PublishedDate:     published.Format("2006-01-02"),
		PublishedDatetime: published,
		Category:          category,
		FoundVia:          foundVia,
	}
}
