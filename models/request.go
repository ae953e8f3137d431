package models

// PreviewRequest is the payload for POST /api/v1/scraper/preview.
type PreviewRequest struct {
	// URL is the catalog page to preview. Required.
	URL string `json:"url" binding:"required,url"`

	// MaxAge, in milliseconds, allows serving a cached preview younger
	// than this. Zero disables the cache for this request.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// TargetRequest carries a single sub-page URL for the detail and probe
// endpoints (chapter-images, episode-video, chapter-text, link-status).
type TargetRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// SourceRequest is the payload for POST /api/v1/sources.
type SourceRequest struct {
	// SourceURL is the tracked page. Required.
	SourceURL string `json:"source_url" binding:"required,url"`

	// ContentID links the source to an imported catalog entry.
	ContentID string `json:"content_id,omitempty"`

	// ScraperType names the extraction profile. Default: "auto".
	ScraperType string `json:"scraper_type,omitempty"`

	// Status is the initial health. Default: "active" (the import was
	// just confirmed against a live page).
	Status string `json:"status,omitempty" binding:"omitempty,oneof=active offline error pending"`

	// Metadata is stored verbatim as JSON.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *SourceRequest) Defaults() {
	if r.ScraperType == "" {
		r.ScraperType = "auto"
	}
	if r.Status == "" {
		r.Status = SourceActive
	}
}
