// Package cleaner turns novel chapter pages into clean HTML and Markdown.
package cleaner

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/mediascout/models"
)

// Known novel reader containers, most specific first.
var readerContainers = []cascadia.Selector{
	cascadia.MustCompile("div.reading-content"),
	cascadia.MustCompile("div#readerarea"),
	cascadia.MustCompile("div.chapter-content"),
	cascadia.MustCompile("div.text-left"),
	cascadia.MustCompile("div.entry-content"),
}

var chapterTitles = []cascadia.Selector{
	cascadia.MustCompile("h1.entry-title"),
	cascadia.MustCompile(".chapter-title"),
	cascadia.MustCompile("h1"),
	cascadia.MustCompile("title"),
}

// ExtractChapterText pulls the prose of a novel chapter out of page. Known
// reader containers are tried first, then readability over the whole page.
// A page with no recognizable body yields empty HTML and Markdown.
func ExtractChapterText(page *goquery.Selection, pageURL string) *models.ChapterText {
	out := &models.ChapterText{Title: chapterTitle(page)}

	out.HTML = readerBody(page)
	if out.HTML == "" {
		rawHTML, err := goquery.OuterHtml(page)
		if err == nil {
			if article, ok := ExtractContent(rawHTML, pageURL); ok {
				out.HTML = strings.TrimSpace(article.Content)
				if out.Title == "" {
					out.Title = strings.TrimSpace(article.Title)
				}
			}
		}
	}
	if out.HTML == "" {
		return out
	}

	md, err := ToMarkdown(out.HTML, pageURL)
	if err != nil {
		slog.Warn("chapter markdown conversion failed", "url", pageURL, "error", err)
		return out
	}
	out.Markdown = strings.TrimSpace(md)
	return out
}

func chapterTitle(page *goquery.Selection) string {
	for _, sel := range chapterTitles {
		if t := strings.TrimSpace(page.FindMatcher(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// readerBody returns the cleaned inner HTML of the first reader container
// holding enough text.
func readerBody(page *goquery.Selection) string {
	for _, sel := range readerContainers {
		match := page.FindMatcher(sel).First()
		if match.Length() == 0 {
			continue
		}
		body := match.Clone()
		stripNoise(body.Get(0))
		if len(strings.TrimSpace(body.Text())) < minContentLength {
			continue
		}
		h, err := body.Html()
		if err != nil {
			continue
		}
		return strings.TrimSpace(h)
	}
	return ""
}
