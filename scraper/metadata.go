package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/mediascout/models"
)

var titleRules = []rule{
	textOf("h1.entry-title"),
	textOf("h1.title"),
	firstTextOf("h1"),
	attrOf(`meta[property="og:title"]`, "content"),
	textOf("title"),
}

var descriptionRules = []rule{
	firstTextOf("div.entry-content p"),
	textOf("div.sinopsis p"),
	textOf("div.synopsis p"),
	textOf("div.description p"),
	attrOf(`meta[property="og:description"]`, "content"),
	attrOf(`meta[name="description"]`, "content"),
}

var coverRules = []rule{
	imageOf("div.thumb img"),
	imageOf("img.wp-post-image"),
	imageOf("div.cover img"),
	attrOf(`meta[property="og:image"]`, "content"),
}

var authorRules = []rule{
	textOf("span.author a"),
	func(d *Document) string {
		t := d.find(authorBlock).Text()
		return strings.TrimSpace(strings.Replace(t, "Author:", "", 1))
	},
}

var (
	genreLinks    = cascadia.MustCompile(`span.genre a, div.genre a, a[rel="tag"], .genres a`)
	ratingDisplay = compileAll("div.rating strong", "span.rating", "div.score")
	statusBlocks  = cascadia.MustCompile(`span.status, div.status, td:contains("Status")`)
	yearBlocks    = cascadia.MustCompile("span.year, div.year, time.year")
	authorBlock   = cascadia.MustCompile("div.author")

	// A grouped figure like "1,234" is tried before the decimal-comma form.
	ratingNumber  = regexp.MustCompile(`-?\d{1,3}(?:,\d{3})+(?:\.\d+)?|-?\d+(?:[.,]\d+)?`)
	groupedNumber = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+`)
	fourDigits    = regexp.MustCompile(`\d{4}`)
)

// ExtractMetadata runs every field's lookup chain against d. Fields are
// independent: a miss on one never affects another, and nothing here fails.
func ExtractMetadata(d *Document) models.Metadata {
	return models.Metadata{
		Title:       firstOf(d, titleRules),
		Description: truncateRunes(firstOf(d, descriptionRules), models.MaxDescriptionLength),
		CoverImage:  d.Resolve(firstOf(d, coverRules)),
		Genres:      extractGenres(d),
		Rating:      extractRating(d),
		Status:      extractStatus(d),
		Year:        extractYear(d),
		Author:      firstOf(d, authorRules),
		SourceURL:   d.URL,
	}
}

// extractGenres keeps document order and drops exact duplicates.
func extractGenres(d *Document) []string {
	genres := []string{}
	seen := make(map[string]struct{})
	d.find(genreLinks).Each(func(_ int, s *goquery.Selection) {
		g := strings.TrimSpace(s.Text())
		if g == "" {
			return
		}
		if _, dup := seen[g]; dup {
			return
		}
		seen[g] = struct{}{}
		genres = append(genres, g)
	})
	return genres
}

// extractRating takes the first positive number from the rating displays,
// clamped to [0, 10].
func extractRating(d *Document) float64 {
	for _, sel := range ratingDisplay {
		if r := parseRating(d.find(sel).Text()); r > 0 {
			return r
		}
	}
	return 0
}

func parseRating(text string) float64 {
	m := ratingNumber.FindString(text)
	if m == "" {
		return 0
	}
	if groupedNumber.MatchString(m) {
		m = strings.ReplaceAll(m, ",", "")
	} else {
		m = strings.Replace(m, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return clamp(v, 0, 10)
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// extractStatus matches substrings permissively, so "Weekend release"
// reads as completed.
func extractStatus(d *Document) string {
	var sb strings.Builder
	d.find(statusBlocks).Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
		sb.WriteByte(' ')
		// Table layouts keep the value in the cell after the label.
		if goquery.NodeName(s) == "td" {
			sb.WriteString(s.Next().Text())
			sb.WriteByte(' ')
		}
	})
	return classifyStatus(sb.String())
}

func classifyStatus(text string) string {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "completed"), strings.Contains(text, "tamat"), strings.Contains(text, "end"):
		return models.StatusCompleted
	case strings.Contains(text, "hiatus"):
		return models.StatusHiatus
	default:
		return models.StatusOngoing
	}
}

func extractYear(d *Document) *int {
	m := fourDigits.FindString(d.find(yearBlocks).Text())
	if m == "" {
		return nil
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &y
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
