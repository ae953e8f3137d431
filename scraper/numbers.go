package scraper

import (
	"regexp"
	"strconv"
)

var (
	episodeLabel = regexp.MustCompile(`(?i)(?:ep|episode|eps)[\s.-]*(\d+)`)
	chapterLabel = regexp.MustCompile(`(?i)(?:ch|chapter|chap)[\s.-]*(\d+[.\d]*)`)
	firstInt     = regexp.MustCompile(`(\d+)`)
	firstDecimal = regexp.MustCompile(`(\d+[.\d]*)`)
	leadingFloat = regexp.MustCompile(`^\d+(?:\.\d+)?`)
)

// episodeNumber parses a labelled number ("Ep 12", "Episode-3"), else the
// first digit run, else falls back to position (1-based).
func episodeNumber(text string, position int) int {
	for _, re := range []*regexp.Regexp{episodeLabel, firstInt} {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
			break
		}
	}
	return position
}

// chapterNumber is episodeNumber for chapters, keeping sub-numbers such as
// 10.5. Malformed runs like "10.5.2" keep their leading number (10.5).
func chapterNumber(text string, position int) float64 {
	for _, re := range []*regexp.Regexp{chapterLabel, firstDecimal} {
		if m := re.FindStringSubmatch(text); m != nil {
			if f, ok := parseLeadingFloat(m[1]); ok {
				return f
			}
			break
		}
	}
	return float64(position)
}

func parseLeadingFloat(s string) (float64, bool) {
	num := leadingFloat.FindString(s)
	if num == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
