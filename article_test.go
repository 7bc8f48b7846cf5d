package newspilot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestArticleID_Deterministic verifies the id is stable for the same URL and
// distinct for different URLs
func TestArticleID_Deterministic(t *testing.T) {
	a := ArticleID("http://example.com/story")
	b := ArticleID("http://example.com/story")
	c := ArticleID("http://example.com/other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 12)
}

// TestFilterArticles verifies filtering by source, provenance and category
func TestFilterArticles(t *testing.T) {
	articles := []Article{
		{ArticleID: "1", Source: "BBC News", FoundVia: FoundViaSearch, Category: "batteries"},
		{ArticleID: "2", Source: "BBC News", FoundVia: FoundViaRSS, Category: "BBC News"},
		{ArticleID: "3", Source: "Reuters", FoundVia: FoundViaSearch, Category: "recycling"},
	}

	bySource := FilterArticles(articles, "BBC News", "", "")
	assert.Len(t, bySource, 2)

	byMethod := FilterArticles(articles, "", "rss", "")
	assert.Len(t, byMethod, 1)
	assert.Equal(t, "2", byMethod[0].ArticleID)

	byCategory := FilterArticles(articles, "", "", "recycling")
	assert.Len(t, byCategory, 1)

	all := FilterArticles(articles, "", "", "")
	assert.Len(t, all, 3)
}

// TestCategorizeArticles verifies keyword grouping with an Other bucket
func TestCategorizeArticles(t *testing.T) {
	articles := []Article{
		{ArticleID: "1", Title: "Battery recycling breakthrough"},
		{ArticleID: "2", Title: "Unrelated story", Snippet: "nothing relevant"},
		{ArticleID: "3", Title: "News", Snippet: "solar power is growing"},
	}

	categorized := CategorizeArticles(articles, []string{"battery recycling", "solar"})

	assert.Len(t, categorized["battery recycling"], 1)
	assert.Len(t, categorized["solar"], 1)
	assert.Len(t, categorized["Other"], 1)
	assert.Equal(t, "2", categorized["Other"][0].ArticleID)
}
