// Package scraper extracts catalog metadata, episode and chapter listings,
// reader images, player URLs and link health from pages of unknown
// template. Fetching produces a Document; every extractor is a pure
// function of a Document.
package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/mediascout/models"
)

// Document is one fetched and parsed page. It is read-only after creation
// and safe to share between extractors.
type Document struct {
	// URL is the address that was requested.
	URL string

	// Origin is scheme://host[:port] of the page that was finally served.
	// Relative links resolve against it.
	Origin string

	// HTML is the raw markup.
	HTML string

	dom *goquery.Document
}

// ParseDocument parses rawHTML served from pageURL. finalURL may be empty
// when no redirect happened.
func ParseDocument(rawHTML, pageURL, finalURL string) (*Document, error) {
	base := finalURL
	if base == "" {
		base = pageURL
	}
	u, err := parseTarget(base)
	if err != nil {
		return nil, err
	}
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("scraper: parse html: %w", err)
	}
	return &Document{
		URL:    pageURL,
		Origin: originOf(u),
		HTML:   rawHTML,
		dom:    dom,
	}, nil
}

// Resolve makes u absolute against the document origin.
func (d *Document) Resolve(u string) string {
	return ResolveURL(d.Origin, u)
}

// Selection exposes the parsed tree for callers that need ad-hoc queries.
func (d *Document) Selection() *goquery.Selection {
	return d.dom.Selection
}

// parseTarget accepts only absolute http(s) URLs with a host.
func parseTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "invalid URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("unsupported URL scheme %q", u.Scheme), nil)
	}
	if u.Host == "" {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "URL has no host", nil)
	}
	return u, nil
}

// ValidateURL reports whether raw is an absolute http(s) URL. The returned
// error is a *models.ScrapeError with code INVALID_INPUT.
func ValidateURL(raw string) error {
	_, err := parseTarget(raw)
	return err
}

func originOf(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}
