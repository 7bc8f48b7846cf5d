package newspilot

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// Provenance values for Article.FoundVia.
const (
	FoundViaSearch = "search"
	FoundViaRSS    = "rss"
)

// Article is a single discovered news item. Articles are ephemeral: they are
// produced by one discovery run and held in session memory only.
type Article struct {
	ArticleID         string    `json:"article_id"`
	Title             string    `json:"title"`
	URL               string    `json:"url"`
	Source            string    `json:"source"`
	Snippet           string    `json:"snippet,omitempty"`
	PublishedDate     string    `json:"published_date"`
	PublishedDatetime time.Time `json:"published_datetime"`
	Category          string    `json:"category"`
	FoundVia          string    `json:"found_via"`
}

// ArticleID derives the stable identifier for an article URL: the first 12
// hex characters of the URL's md5 digest. The same URL always yields the same
// id, which is what makes selection sets survive re-renders and what dedup
// keys on. Not collision-resistant, adequate at newsletter scale.
func ArticleID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:12]
}

// sortNewestFirst orders articles by published timestamp descending. The sort
// is stable so articles with equal timestamps keep their fetch order.
func sortNewestFirst(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedDatetime.After(articles[j].PublishedDatetime)
	})
}

// FilterArticles narrows an article list by source, provenance and category.
// An empty filter value means "all".
func FilterArticles(articles []Article, source, foundVia, category string) []Article {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if source != "" && a.Source != source {
			continue
		}
		if foundVia != "" && !strings.EqualFold(a.FoundVia, foundVia) {
			continue
		}
		if category != "" && a.Category != category {
			continue
		}
		out = append(out, a)
	}
	return out
}

// CategorizeArticles groups articles under the first keyword that appears in
// their title or snippet. Articles matching no keyword land under "Other".
func CategorizeArticles(articles []Article, keywords []string) map[string][]Article {
	categorized := make(map[string][]Article, len(keywords)+1)
	for _, kw := range keywords {
		categorized[kw] = []Article{}
	}
	categorized["Other"] = []Article{}

	for _, a := range articles {
		title := strings.ToLower(a.Title)
		snippet := strings.ToLower(a.Snippet)

		matched := false
		for _, kw := range keywords {
			needle := strings.ToLower(kw)
			if strings.Contains(title, needle) || strings.Contains(snippet, needle) {
				categorized[kw] = append(categorized[kw], a)
				matched = true
				break
			}
		}
		if !matched {
			categorized["Other"] = append(categorized["Other"], a)
		}
	}

	return categorized
}
