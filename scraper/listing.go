package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/mediascout/models"
)

// Known episode list layouts, most specific first.
var episodeLists = compileAll(
	"div.episodelist ul li a",
	"ul.episodios li a",
	"div.eplister ul li a",
	"div.episodes-list a",
	"ul.episode-list li a",
	"div.ep-list a",
	"ul.list-episode li a",
)

// Known chapter list layouts, most specific first.
var chapterLists = compileAll(
	"div.chapterlist ul li a",
	"ul.chapter-list li a",
	"div.chapters ul li a",
	"div.listing-chapters_wrap a",
	"ul.main li a",
	"div.chapter-list a",
)

// listLink is one anchor from a matched list.
type listLink struct {
	position int // 1-based, counting anchors without href too
	text     string
	href     string
}

// firstListing returns the links of the first layout producing at least one
// usable anchor. Layouts are never merged.
func firstListing(d *Document, layouts []cascadia.Selector) []listLink {
	for _, sel := range layouts {
		var links []listLink
		d.find(sel).Each(func(i int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			href = strings.TrimSpace(href)
			if href == "" {
				return
			}
			links = append(links, listLink{
				position: i + 1,
				text:     strings.TrimSpace(s.Text()),
				href:     d.Resolve(href),
			})
		})
		if len(links) > 0 {
			return links
		}
	}
	return nil
}

// ExtractEpisodes lists episode pages in document order. Numbers are
// best-effort and may repeat; VideoURL is the episode page.
func ExtractEpisodes(d *Document) []models.EpisodeStub {
	links := firstListing(d, episodeLists)
	episodes := make([]models.EpisodeStub, 0, len(links))
	for _, l := range links {
		episodes = append(episodes, models.EpisodeStub{
			EpisodeNumber: episodeNumber(l.text, l.position),
			Title:         l.text,
			VideoURL:      l.href,
		})
	}
	return episodes
}

// ExtractChapters lists chapter pages in document order. Numbers are
// best-effort and may repeat.
func ExtractChapters(d *Document) []models.ChapterStub {
	links := firstListing(d, chapterLists)
	chapters := make([]models.ChapterStub, 0, len(links))
	for _, l := range links {
		chapters = append(chapters, models.ChapterStub{
			ChapterNumber: chapterNumber(l.text, l.position),
			Title:         l.text,
			URL:           l.href,
		})
	}
	return chapters
}
