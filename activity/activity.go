// Package activity records audit events (logins, discovery runs,
// publications) in SQLite and answers simple per-tenant aggregates for the
// admin console.
package activity

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// Event kinds.
const (
	KindLogin       = "login"
	KindDiscovery   = "discovery"
	KindPublication = "publication"
)

// Store persists activity events using SQLite.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// Event is one recorded action.
type Event struct {
	ID           int64     `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Email        string    `json:"email"`
	Kind         string    `json:"kind"`
	Detail       string    `json:"detail,omitempty"`
	ArticleCount int       `json:"article_count,omitempty"`
	DurationMS   int64     `json:"duration_ms,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TenantStats aggregates a tenant's recorded activity.
type TenantStats struct {
	Logins        int `json:"logins"`
	Discoveries   int `json:"discoveries"`
	Publications  int `json:"publications"`
	ArticlesFound int `json:"articles_found"`
}

// NewStore opens (or creates) the activity database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tenant_id TEXT NOT NULL,
		email TEXT NOT NULL,
		kind TEXT NOT NULL,
		detail TEXT,
		article_count INTEGER DEFAULT 0,
		duration_ms INTEGER DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_tenant ON events(tenant_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordLogin records one successful authentication.
func (s *Store) RecordLogin(tenantID, email string) error {
	return s.insert(tenantID, email, KindLogin, "", 0, 0)
}

// RecordDiscovery records one discovery run with its result size and
// duration.
func (s *Store) RecordDiscovery(tenantID, email string, articleCount int, elapsed time.Duration) error {
	return s.insert(tenantID, email, KindDiscovery, "", articleCount, elapsed.Milliseconds())
}

// RecordPublication records one published newsletter.
func (s *Store) RecordPublication(tenantID, email, filename string) error {
	return s.insert(tenantID, email, KindPublication, filename, 0, 0)
}

func (s *Store) insert(tenantID, email, kind, detail string, articleCount int, durationMS int64) error {
	query := s.sb.Insert("events").
		Columns("tenant_id", "email", "kind", "detail", "article_count", "duration_ms", "created_at").
		Values(tenantID, email, kind, detail, articleCount, durationMS, time.Now().UTC().Format(time.RFC3339))

	if _, err := query.RunWith(s.db).Exec(); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Recent returns the latest events across all tenants, newest first.
func (s *Store) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}

	query := s.sb.Select("id", "tenant_id", "email", "kind", "detail", "article_count", "duration_ms", "created_at").
		From("events").
		OrderBy("id DESC").
		Limit(uint64(limit))

	rows, err := query.RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var createdAt string
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Email, &e.Kind, &e.Detail, &e.ArticleCount, &e.DurationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

// StatsFor aggregates a tenant's activity counts.
func (s *Store) StatsFor(tenantID string) (*TenantStats, error) {
	query := s.sb.Select("kind", "COUNT(*)", "COALESCE(SUM(article_count), 0)").
		From("events").
		Where(sq.Eq{"tenant_id": tenantID}).
		GroupBy("kind")

	rows, err := query.RunWith(s.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	stats := &TenantStats{}
	for rows.Next() {
		var kind string
		var count, articles int
		if err := rows.Scan(&kind, &count, &articles); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		switch kind {
		case KindLogin:
			stats.Logins = count
		case KindDiscovery:
			stats.Discoveries = count
			stats.ArticlesFound = articles
		case KindPublication:
			stats.Publications = count
		}
	}
	return stats, rows.Err()
}
