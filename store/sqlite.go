// Package store persists tracked sources in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/use-agent/mediascout/models"
)

// SQLiteStore keeps tracked sources in a single SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens the database at path and configures WAL mode.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: exec %s: %w", pragma, err)
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Timestamps are unix milliseconds so staleness comparisons stay numeric.
const migration = `
CREATE TABLE IF NOT EXISTS scraper_sources (
	id            TEXT PRIMARY KEY,
	content_id    TEXT NOT NULL DEFAULT '',
	source_url    TEXT NOT NULL,
	scraper_type  TEXT NOT NULL DEFAULT 'auto',
	status        TEXT NOT NULL DEFAULT 'pending',
	last_checked  INTEGER,
	error_message TEXT NOT NULL DEFAULT '',
	metadata      TEXT,
	created_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scraper_sources_status ON scraper_sources(status);
CREATE INDEX IF NOT EXISTS idx_scraper_sources_last_checked ON scraper_sources(last_checked);
CREATE INDEX IF NOT EXISTS idx_scraper_sources_content_id ON scraper_sources(content_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, migration); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Add registers a new tracked source, applying request defaults.
func (s *SQLiteStore) Add(ctx context.Context, req models.SourceRequest) (*models.Source, error) {
	req.Defaults()

	var meta json.RawMessage
	if len(req.Metadata) > 0 {
		b, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("store: marshal metadata: %w", err)
		}
		meta = b
	}

	src := &models.Source{
		ID:          uuid.New().String(),
		ContentID:   req.ContentID,
		SourceURL:   req.SourceURL,
		ScraperType: req.ScraperType,
		Status:      req.Status,
		Metadata:    meta,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scraper_sources (id, content_id, source_url, scraper_type, status, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		src.ID, src.ContentID, src.SourceURL, src.ScraperType, src.Status,
		nullableJSON(meta), src.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("store: insert source: %w", err)
	}
	return src, nil
}

const sourceColumns = `id, content_id, source_url, scraper_type, status, last_checked, error_message, metadata, created_at`

// Get returns one source. A missing id is a NOT_FOUND *models.ScrapeError.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Source, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM scraper_sources WHERE id = ?`, id)
	src, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewScrapeError(models.ErrCodeNotFound, fmt.Sprintf("source %s not found", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get source %s: %w", id, err)
	}
	return src, nil
}

// List returns sources newest first. limit <= 0 means no limit.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]models.Source, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sourceColumns+` FROM scraper_sources ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list sources: %w", err)
	}
	return collect(rows)
}

// ListDue selects sources for a bulk check. Sources in the error state are
// never selected. Unless all is set, only never-checked sources and those
// last checked more than staleAfter ago qualify. Never-checked sources come
// first, then the oldest checks.
func (s *SQLiteStore) ListDue(ctx context.Context, all bool, staleAfter time.Duration, limit int) ([]models.Source, error) {
	cutoff := s.now().Add(-staleAfter).UnixMilli()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sourceColumns+` FROM scraper_sources
		 WHERE status != ?
		   AND (? OR last_checked IS NULL OR last_checked < ?)
		 ORDER BY last_checked IS NOT NULL, last_checked, created_at
		 LIMIT ?`,
		models.SourceError, all, cutoff, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list due sources: %w", err)
	}
	return collect(rows)
}

// UpdateStatus records the outcome of a probe.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id, status, errMsg string, checkedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scraper_sources SET status = ?, error_message = ?, last_checked = ? WHERE id = ?`,
		status, errMsg, checkedAt.UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("store: update source %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return models.NewScrapeError(models.ErrCodeNotFound, fmt.Sprintf("source %s not found", id), nil)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSource(row scanner) (*models.Source, error) {
	var (
		src         models.Source
		lastChecked sql.NullInt64
		meta        sql.NullString
		createdAt   int64
	)
	err := row.Scan(&src.ID, &src.ContentID, &src.SourceURL, &src.ScraperType, &src.Status,
		&lastChecked, &src.ErrorMessage, &meta, &createdAt)
	if err != nil {
		return nil, err
	}
	if lastChecked.Valid {
		t := time.UnixMilli(lastChecked.Int64).UTC()
		src.LastChecked = &t
	}
	if meta.Valid && meta.String != "" {
		src.Metadata = json.RawMessage(meta.String)
	}
	src.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &src, nil
}

func collect(rows *sql.Rows) ([]models.Source, error) {
	defer rows.Close()
	out := []models.Source{}
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan source: %w", err)
		}
		out = append(out, *src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate sources: %w", err)
	}
	return out, nil
}

func nullableJSON(b json.RawMessage) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
