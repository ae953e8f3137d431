package scraper

import (
	"context"

	"github.com/use-agent/mediascout/cleaner"
	"github.com/use-agent/mediascout/models"
)

// BuildPreview runs the metadata and both listing extractors over one
// document and suggests a content type.
func BuildPreview(d *Document) *models.Preview {
	episodes := ExtractEpisodes(d)
	chapters := ExtractChapters(d)
	return &models.Preview{
		Metadata:      ExtractMetadata(d),
		SuggestedType: SuggestType(len(episodes), len(chapters)),
		Episodes:      episodes,
		Chapters:      chapters,
		EpisodesCount: len(episodes),
		ChaptersCount: len(chapters),
	}
}

// SuggestType is a coarse default for an operator to override: any
// chapters mean comic, more than one episode means anime, otherwise movie.
func SuggestType(episodes, chapters int) string {
	switch {
	case chapters > 0:
		return models.TypeComic
	case episodes > 1:
		return models.TypeAnime
	default:
		return models.TypeMovie
	}
}

// Preview fetches rawURL and builds its preview. Only fetch failures are
// returned; missing fields fall back to their defaults.
func (s *Scraper) Preview(ctx context.Context, rawURL string) (*models.Preview, error) {
	d, err := s.FetchDocument(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return BuildPreview(d), nil
}

// ResolveChapterText fetches a novel chapter page and extracts its body.
func (s *Scraper) ResolveChapterText(ctx context.Context, chapterURL string) (*models.ChapterText, error) {
	d, err := s.fetchWithReferer(ctx, chapterURL)
	if err != nil {
		return nil, err
	}
	return cleaner.ExtractChapterText(d.Selection(), d.URL), nil
}
