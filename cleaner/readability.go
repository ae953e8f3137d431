package cleaner

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum text length (in characters) for an
// extracted body to count as chapter content.
const minContentLength = 50

// ExtractContent runs the Mozilla Readability algorithm on rawHTML. The bool
// is false when readability failed or found too little text, in which case
// the returned Article is empty.
func ExtractContent(rawHTML string, sourceURL string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("readability: invalid source URL", "url", sourceURL, "error", err)
		return readability.Article{}, false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability: extraction failed", "url", sourceURL, "error", err)
		return readability.Article{}, false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Debug("readability: extracted content too short",
			"url", sourceURL, "length", len(article.TextContent),
		)
		return readability.Article{}, false
	}

	return article, true
}
