package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// rule is one lookup strategy for a single string field. Rules for a field
// are evaluated in order and the first non-empty result wins.
type rule func(d *Document) string

// compileAll compiles selectors once at package init. A bad selector is a
// programming error.
func compileAll(selectors ...string) []cascadia.Selector {
	out := make([]cascadia.Selector, len(selectors))
	for i, s := range selectors {
		out[i] = cascadia.MustCompile(s)
	}
	return out
}

func (d *Document) find(sel cascadia.Selector) *goquery.Selection {
	return d.dom.FindMatcher(sel)
}

// textOf concatenates the text of every element matching selector.
func textOf(selector string) rule {
	sel := cascadia.MustCompile(selector)
	return func(d *Document) string {
		return strings.TrimSpace(d.find(sel).Text())
	}
}

// firstTextOf takes the text of the first element matching selector.
func firstTextOf(selector string) rule {
	sel := cascadia.MustCompile(selector)
	return func(d *Document) string {
		return strings.TrimSpace(d.find(sel).First().Text())
	}
}

// attrOf reads attr from the first element matching selector.
func attrOf(selector, attr string) rule {
	sel := cascadia.MustCompile(selector)
	return func(d *Document) string {
		v, _ := d.find(sel).First().Attr(attr)
		return strings.TrimSpace(v)
	}
}

// imageOf reads a usable image address from the first element matching
// selector, skipping inline data: placeholders left by lazy loaders.
func imageOf(selector string) rule {
	sel := cascadia.MustCompile(selector)
	return func(d *Document) string {
		return imageSource(d.find(sel).First())
	}
}

func firstOf(d *Document, rules []rule) string {
	for _, r := range rules {
		if v := r(d); v != "" {
			return v
		}
	}
	return ""
}

var lazyImageAttrs = []string{"src", "data-src", "data-lazy-src"}

// imageSource returns the first non-placeholder address among src,
// data-src and data-lazy-src.
func imageSource(s *goquery.Selection) string {
	for _, attr := range lazyImageAttrs {
		v, ok := s.Attr(attr)
		v = strings.TrimSpace(v)
		if !ok || v == "" || strings.HasPrefix(v, "data:") {
			continue
		}
		return v
	}
	return ""
}
