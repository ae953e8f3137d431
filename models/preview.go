package models

// Content status values reported in Metadata.Status.
const (
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusHiatus    = "hiatus"
)

// Suggested content types. The suggestion is a default for an operator to
// confirm, never a classification guarantee.
const (
	TypeMovie = "movie"
	TypeAnime = "anime"
	TypeComic = "comic"
)

// MaxDescriptionLength caps Metadata.Description, counted in characters.
const MaxDescriptionLength = 2000

// Metadata holds the per-field results of one metadata extraction pass.
// Every field has a usable zero value; absence is never an error.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CoverImage  string   `json:"cover_image"`
	Genres      []string `json:"genres"`
	Rating      float64  `json:"rating"`
	Status      string   `json:"status"`
	Year        *int     `json:"year"`
	Author      string   `json:"author"`
	SourceURL   string   `json:"source_url"`
}

// EpisodeStub references an episode page. VideoURL is the episode page
// itself until ResolveVideoURL is called on it.
type EpisodeStub struct {
	EpisodeNumber int    `json:"episode_number"`
	Title         string `json:"title"`
	VideoURL      string `json:"video_url"`
}

// ChapterStub references a chapter page pending image extraction.
type ChapterStub struct {
	ChapterNumber float64 `json:"chapter_number"`
	Title         string  `json:"title"`
	URL           string  `json:"url"`
}

// Preview is the structured, reviewable result of scraping one source URL.
// Numbers on episodes and chapters are best-effort and may collide.
type Preview struct {
	Metadata
	SuggestedType string        `json:"suggested_type"`
	Episodes      []EpisodeStub `json:"episodes"`
	Chapters      []ChapterStub `json:"chapters"`
	EpisodesCount int           `json:"episodes_count"`
	ChaptersCount int           `json:"chapters_count"`
}

// ChapterText is the readable body of a novel chapter page.
type ChapterText struct {
	Title    string `json:"title"`
	HTML     string `json:"html"`
	Markdown string `json:"markdown"`
}
