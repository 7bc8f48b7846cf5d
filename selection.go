package newspilot

import (
	"sort"

	"github.com/google/uuid"
)

// Session holds one user's working state: the current tenant, the article
// pool from the last discovery run, and the selection set being assembled
// for the next publication. Each user interaction gets its own Session;
// nothing here is shared across users, and the core keeps no ambient global
// state.
type Session struct {
	ID       uuid.UUID
	Email    string
	TenantID string

	articles []Article
	selected map[string]bool
}

// NewSession creates a fresh session for a user acting on a tenant.
func NewSession(email, tenantID string) *Session {
	return &Session{
		ID:       uuid.New(),
		Email:    email,
		TenantID: tenantID,
		selected: make(map[string]bool),
	}
}

// Articles returns the article pool from the last discovery run.
func (s *Session) Articles() []Article {
	return s.articles
}

// SetArticles installs the pool from a new discovery run. Starting a new run
// clears the selection set: ids from the previous pool would no longer be
// meaningful.
func (s *Session) SetArticles(articles []Article) {
	s.articles = articles
	s.ClearSelection()
}

// Toggle adds or removes one article id from the selection set. Idempotent:
// selecting an already-selected id or deselecting an absent one is a no-op.
func (s *Session) Toggle(articleID string, included bool) {
	if included {
		s.selected[articleID] = true
	} else {
		delete(s.selected, articleID)
	}
}

// SelectAllVisible adds every visible article id to the selection set. The
// union is additive: previously selected ids outside the current filter view
// are preserved, never silently dropped.
func (s *Session) SelectAllVisible(visibleIDs []string) {
	for _, id := range visibleIDs {
		s.selected[id] = true
	}
}

// ClearSelection empties the selection set.
func (s *Session) ClearSelection() {
	s.selected = make(map[string]bool)
}

// IsSelected reports selection-set membership for one article id.
func (s *Session) IsSelected(articleID string) bool {
	return s.selected[articleID]
}

// Selected returns the selected article ids in lexical order.
func (s *Session) Selected() []string {
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SelectedArticles resolves the selection set against the current pool,
// newest first. Ids not present in the pool (left over from an earlier run)
// are silently dropped.
func (s *Session) SelectedArticles() []Article {
	picked := make([]Article, 0, len(s.selected))
	for _, a := range s.articles {
		if s.selected[a.ArticleID] {
			picked = append(picked, a)
		}
	}
	sortNewestFirst(picked)
	return picked
}
