package newspilot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rssFeedXML(title string, items ...string) string {
	body := ""
	for _, item := range items {
		body += item
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%s</title>%s</channel></rss>`, title, body)
}

func rssItemXML(title, link string, published time.Time) string {
	return fmt.Sprintf(
		`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate><description>body text</description></item>`,
		title, link, published.Format(time.RFC1123Z),
	)
}

// TestRSSFetcher_FeedTitleAsSourceAndCategory verifies every entry carries
// the feed's display name as both source and category
func TestRSSFetcher_FeedTitleAsSourceAndCategory(t *testing.T) {
	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeedXML("Energy Weekly",
			rssItemXML("Grid update", "http://example.com/grid", now.Add(-2*time.Hour)),
		))
	}))
	defer server.Close()

	articles, err := NewRSSFetcher().FetchFeed(context.Background(), server.URL, 7)

	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Energy Weekly", articles[0].Source)
	assert.Equal(t, "Energy Weekly", articles[0].Category)
	assert.Equal(t, FoundViaRSS, articles[0].FoundVia)
	assert.Equal(t, ArticleID("http://example.com/grid"), articles[0].ArticleID)
}

// TestRSSFetcher_RecencyWindow verifies stale entries are dropped at fetch
// time
func TestRSSFetcher_RecencyWindow(t *testing.T) {
	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeedXML("Feed",
			rssItemXML("Fresh", "http://example.com/fresh", now.Add(-2*time.Hour)),
			rssItemXML("Stale", "http://example.com/stale", now.AddDate(0, 0, -20)),
		))
	}))
	defer server.Close()

	articles, err := NewRSSFetcher().FetchFeed(context.Background(), server.URL, 14)

	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Fresh", articles[0].Title)
}

// TestRSSFetcher_FeedFailureIsolated verifies one broken feed does not abort
// the others
func TestRSSFetcher_FeedFailureIsolated(t *testing.T) {
	now := time.Now()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeedXML("Good Feed",
			rssItemXML("Kept", "http://example.com/kept", now.Add(-1*time.Hour)),
		))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	articles := NewRSSFetcher().Fetch(context.Background(), []string{bad.URL, good.URL}, 7)

	require.Len(t, articles, 1)
	assert.Equal(t, "Kept", articles[0].Title)
}

// TestRSSFetcher_DedupAcrossFeeds verifies the same URL appearing in two
// feeds is kept once
func TestRSSFetcher_DedupAcrossFeeds(t *testing.T) {
	now := time.Now()
	handler := func(title string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, rssFeedXML(title,
				rssItemXML("Shared story", "http://example.com/shared", now.Add(-1*time.Hour)),
			))
		}
	}
	first := httptest.NewServer(handler("First Feed"))
	defer first.Close()
	second := httptest.NewServer(handler("Second Feed"))
	defer second.Close()

	articles := NewRSSFetcher().Fetch(context.Background(), []string{first.URL, second.URL}, 7)

	require.Len(t, articles, 1)
	assert.Equal(t, "First Feed", articles[0].Source)
}

// TestRSSFetcher_EmptyFeedList verifies no feeds yields an empty, non-nil
// list
func TestRSSFetcher_EmptyFeedList(t *testing.T) {
	articles := NewRSSFetcher().Fetch(context.Background(), nil, 7)

	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

// TestRSSFetcher_DefaultSourceLabel verifies a feed without a title gets the
// generic label
func TestRSSFetcher_DefaultSourceLabel(t *testing.T) {
	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeedXML("",
			rssItemXML("Untitled feed entry", "http://example.com/untitled", now.Add(-1*time.Hour)),
		))
	}))
	defer server.Close()

	articles, err := NewRSSFetcher().FetchFeed(context.Background(), server.URL, 7)

	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "RSS Feed", articles[0].Source)
}
