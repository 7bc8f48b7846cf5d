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

func searchFeedXML(items ...string) string {
	body := ""
	for _, item := range items {
		body += item
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Search results</title>` + body + `</channel></rss>`
}

func searchItemXML(title, link string, published time.Time, source string) string {
	return fmt.Sprintf(
		`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate><description>snippet</description><source url="http://%s.example.com">%s</source></item>`,
		title, link, published.Format(time.RFC1123Z), source, source,
	)
}

func testSearchFetcher(baseURL string) *SearchFetcher {
	f := NewSearchFetcher()
	f.BaseURL = baseURL
	f.Delay = time.Millisecond
	return f
}

// TestSearchFetcher_BasicQuery verifies entry extraction, provenance tagging
// and the keyword as category
func TestSearchFetcher_BasicQuery(t *testing.T) {
	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "battery recycling", r.URL.Query().Get("q"))
		assert.Equal(t, "en", r.URL.Query().Get("hl"))
		fmt.Fprint(w, searchFeedXML(
			searchItemXML("Recycling plant opens", "http://example.com/plant", now.Add(-1*time.Hour), "Example Times"),
		))
	}))
	defer server.Close()

	articles := testSearchFetcher(server.URL).Fetch(context.Background(), []string{"battery recycling"}, 7, 50)

	require.Len(t, articles, 1)
	assert.Equal(t, "Recycling plant opens", articles[0].Title)
	assert.Equal(t, "http://example.com/plant", articles[0].URL)
	assert.Equal(t, "Example Times", articles[0].Source)
	assert.Equal(t, "battery recycling", articles[0].Category)
	assert.Equal(t, FoundViaSearch, articles[0].FoundVia)
	assert.Equal(t, ArticleID("http://example.com/plant"), articles[0].ArticleID)
}

// TestSearchFetcher_RecencyWindow verifies entries older than the window are
// dropped at fetch time
func TestSearchFetcher_RecencyWindow(t *testing.T) {
	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchFeedXML(
			searchItemXML("Today", "http://example.com/today", now.Add(-2*time.Hour), "A"),
			searchItemXML("Yesterday", "http://example.com/yesterday", now.AddDate(0, 0, -1), "A"),
			searchItemXML("Stale", "http://example.com/stale", now.AddDate(0, 0, -10), "A"),
		))
	}))
	defer server.Close()

	articles := testSearchFetcher(server.URL).Fetch(context.Background(), []string{"anything"}, 7, 50)

	require.Len(t, articles, 2)
	assert.Equal(t, "Today", articles[0].Title)
	assert.Equal(t, "Yesterday", articles[1].Title)
}

// TestSearchFetcher_SortedNewestFirst verifies output ordering across
// keywords
func TestSearchFetcher_SortedNewestFirst(t *testing.T) {
	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "first":
			fmt.Fprint(w, searchFeedXML(
				searchItemXML("Older", "http://example.com/older", now.Add(-30*time.Hour), "A"),
			))
		default:
			fmt.Fprint(w, searchFeedXML(
				searchItemXML("Newer", "http://example.com/newer", now.Add(-1*time.Hour), "A"),
			))
		}
	}))
	defer server.Close()

	articles := testSearchFetcher(server.URL).Fetch(context.Background(), []string{"first", "second"}, 7, 50)

	require.Len(t, articles, 2)
	assert.Equal(t, "Newer", articles[0].Title)
	assert.Equal(t, "Older", articles[1].Title)
}

// TestSearchFetcher_PerKeywordCap verifies each keyword contributes at most
// cap divided by keyword count entries
func TestSearchFetcher_PerKeywordCap(t *testing.T) {
	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var items []string
		for i := 0; i < 10; i++ {
			items = append(items, searchItemXML(
				fmt.Sprintf("Story %d", i),
				fmt.Sprintf("http://example.com/%s/%d", r.URL.Query().Get("q"), i),
				now.Add(-time.Duration(i)*time.Hour), "A",
			))
		}
		fmt.Fprint(w, searchFeedXML(items...))
	}))
	defer server.Close()

	// Cap 8 across two keywords: 4 entries each.
	articles := testSearchFetcher(server.URL).Fetch(context.Background(), []string{"one", "two"}, 7, 8)

	assert.Len(t, articles, 8)
}

// TestSearchFetcher_KeywordFailureIsolated verifies a failing keyword does
// not abort the others
func TestSearchFetcher_KeywordFailureIsolated(t *testing.T) {
	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, searchFeedXML(
			searchItemXML("Survivor", "http://example.com/survivor", now.Add(-1*time.Hour), "A"),
		))
	}))
	defer server.Close()

	articles := testSearchFetcher(server.URL).Fetch(context.Background(), []string{"broken", "working"}, 7, 50)

	require.Len(t, articles, 1)
	assert.Equal(t, "Survivor", articles[0].Title)
}

// TestSearchFetcher_DefaultSourceLabel verifies a missing source element
// falls back to the generic label
func TestSearchFetcher_DefaultSourceLabel(t *testing.T) {
	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchFeedXML(
			fmt.Sprintf(`<item><title>No source</title><link>http://example.com/anon</link><pubDate>%s</pubDate></item>`,
				now.Add(-1*time.Hour).Format(time.RFC1123Z)),
		))
	}))
	defer server.Close()

	articles := testSearchFetcher(server.URL).Fetch(context.Background(), []string{"kw"}, 7, 50)

	require.Len(t, articles, 1)
	assert.Equal(t, "News Source", articles[0].Source)
}

// TestSearchFetcher_NoKeywords verifies an empty keyword list produces an
// empty result without any request
func TestSearchFetcher_NoKeywords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request with no keywords")
	}))
	defer server.Close()

	articles := testSearchFetcher(server.URL).Fetch(context.Background(), nil, 7, 50)

	assert.Empty(t, articles)
}
