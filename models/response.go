package models

// TimingInfo provides duration breakdowns for an operation.
type TimingInfo struct {
	TotalMs int64 `json:"total_ms"`
	FetchMs int64 `json:"fetch_ms,omitempty"`
}

// PreviewResponse is the response for POST /api/v1/scraper/preview.
type PreviewResponse struct {
	Success bool     `json:"success"`
	Data    *Preview `json:"data,omitempty"`

	// CacheStatus is "hit", "miss", or empty when caching was not requested.
	CacheStatus string `json:"cache_status,omitempty"`

	Timing TimingInfo   `json:"timing"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// ChapterImagesResponse is the response for POST /api/v1/scraper/chapter-images.
type ChapterImagesResponse struct {
	Success bool         `json:"success"`
	Images  []string     `json:"images"`
	Count   int          `json:"count"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// EpisodeVideoResponse is the response for POST /api/v1/scraper/episode-video.
type EpisodeVideoResponse struct {
	Success  bool   `json:"success"`
	VideoURL string `json:"video_url,omitempty"`

	// Resolved is false when no player was found and VideoURL is the
	// episode page itself.
	Resolved bool         `json:"resolved"`
	Error    *ErrorDetail `json:"error,omitempty"`
}

// ChapterTextResponse is the response for POST /api/v1/scraper/chapter-text.
type ChapterTextResponse struct {
	Success bool `json:"success"`
	*ChapterText
	Error *ErrorDetail `json:"error,omitempty"`
}

// LinkStatusResponse is the response for POST /api/v1/scraper/link-status.
type LinkStatusResponse struct {
	Success bool         `json:"success"`
	Data    *LinkHealth  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// CheckLinksResponse is the response for POST /api/v1/scraper/check-links.
type CheckLinksResponse struct {
	Success   bool          `json:"success"`
	RunID     string        `json:"run_id,omitempty"`
	Processed int           `json:"processed"`
	Results   []SourceCheck `json:"results"`
	Error     *ErrorDetail  `json:"error,omitempty"`
}

// SourceResponse wraps a single tracked source.
type SourceResponse struct {
	Success bool         `json:"success"`
	Source  *Source      `json:"source,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// SourceListResponse wraps the tracked source list.
type SourceListResponse struct {
	Success bool         `json:"success"`
	Sources []Source     `json:"sources"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorResponse is the generic failure envelope used by middleware.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string   `json:"status"`
	Uptime  string   `json:"uptime"`
	Version string   `json:"version"`
	Engines []string `json:"engines"`
}
