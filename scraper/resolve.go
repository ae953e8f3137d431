package scraper

import "strings"

// ResolveURL makes u absolute against origin (scheme://host[:port]).
//
//	""              -> ""
//	http(s)://...   -> unchanged
//	//host/path     -> https://host/path
//	/path           -> origin + /path
//	anything else   -> origin + / + u
//
// The last rule ignores the current page path: "../img.jpg" found on
// /series/a/ becomes origin/../img.jpg, not origin/series/img.jpg.
// Callers must not rely on sibling-relative links resolving correctly.
func ResolveURL(origin, u string) string {
	u = strings.TrimSpace(u)
	switch {
	case u == "":
		return ""
	case hasPrefixFold(u, "http://"), hasPrefixFold(u, "https://"):
		return u
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/"):
		return origin + u
	default:
		return origin + "/" + u
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
