package models

import (
	"encoding/json"
	"time"
)

// Tracked source states. Pending sources have never been probed.
const (
	SourceActive  = LinkActive
	SourceOffline = LinkOffline
	SourceError   = LinkError
	SourcePending = "pending"
)

// Source is a tracked third-party page whose health is checked periodically.
type Source struct {
	ID           string          `json:"id"`
	ContentID    string          `json:"content_id,omitempty"`
	SourceURL    string          `json:"source_url"`
	ScraperType  string          `json:"scraper_type"`
	Status       string          `json:"status"`
	LastChecked  *time.Time      `json:"last_checked"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SourceCheck is the per-source outcome of a bulk link check.
type SourceCheck struct {
	ID        string `json:"id"`
	SourceURL string `json:"source_url"`
	LinkHealth

	// Previous is the status the source had before this check.
	Previous string `json:"previous_status"`
}

// CheckLinksResult summarises one bulk link check run.
type CheckLinksResult struct {
	RunID     string        `json:"run_id"`
	Processed int           `json:"processed"`
	Results   []SourceCheck `json:"results"`
}
