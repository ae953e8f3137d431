package scraper

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Known reader containers, most specific first.
var readerImages = compileAll(
	"div.reading-content img",
	"div#readerarea img",
	"div.chapter-content img",
	"div.page-break img",
	"div.container-chapter-reader img",
	"div.reading-area img",
)

var playerRules = []rule{
	attrOf(`iframe[src*="embed"]`, "src"),
	attrOf(`iframe[src*="player"]`, "src"),
	attrOf(`iframe[src*="video"]`, "src"),
	attrOf("iframe", "src"),
	attrOf("video source", "src"),
	attrOf("video", "src"),
}

var (
	scripts     = cascadia.MustCompile("script")
	scriptVideo = regexp.MustCompile(`(?i)(?:file|source|src|url|video_url)\s*[:=]\s*['"](https?://[^'"]+\.(?:mp4|m3u8|mkv))['"]`)
)

// ChapterImages lists page images from the first reader container that
// yields any. Logos and icons are dropped. An empty result is valid.
func ChapterImages(d *Document) []string {
	for _, sel := range readerImages {
		images := []string{}
		d.find(sel).Each(func(_ int, s *goquery.Selection) {
			src := imageSource(s)
			if src == "" || isDecoration(src) {
				return
			}
			images = append(images, d.Resolve(src))
		})
		if len(images) > 0 {
			return images
		}
	}
	return []string{}
}

func isDecoration(src string) bool {
	lower := strings.ToLower(src)
	return strings.Contains(lower, "logo") || strings.Contains(lower, "icon")
}

// VideoURL finds the playable target of an episode page: a player iframe,
// then a <video> source, then a media URL assigned in an inline script.
// When nothing matches it returns the page URL and false.
func VideoURL(d *Document) (string, bool) {
	if src := firstOf(d, playerRules); src != "" {
		return d.Resolve(src), true
	}

	var found string
	d.find(scripts).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := scriptVideo.FindStringSubmatch(s.Text()); m != nil {
			found = m[1]
			return false
		}
		return true
	})
	if found != "" {
		return found, true
	}
	return d.URL, false
}

// ResolveChapterImages fetches a chapter page and lists its images.
func (s *Scraper) ResolveChapterImages(ctx context.Context, chapterURL string) ([]string, error) {
	d, err := s.fetchWithReferer(ctx, chapterURL)
	if err != nil {
		return nil, err
	}
	return ChapterImages(d), nil
}

// ResolveVideoURL fetches an episode page and finds its video. The bool is
// false when the episode URL itself is returned as a soft failure.
func (s *Scraper) ResolveVideoURL(ctx context.Context, episodeURL string) (string, bool, error) {
	d, err := s.fetchWithReferer(ctx, episodeURL)
	if err != nil {
		return "", false, err
	}
	u, ok := VideoURL(d)
	return u, ok, nil
}
