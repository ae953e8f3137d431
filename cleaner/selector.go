package cleaner

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// noise matches elements that never belong to chapter prose: scripts, ad
// slots, share bars and inline navigation.
var noise = cascadia.MustCompile(strings.Join([]string{
	"script", "style", "noscript", "iframe", "ins", "form", "button",
	".adsbygoogle", ".code-block", ".sharedaddy", ".social-share",
	".nav-links", ".chapter-nav", `div[class*="ads"]`, `div[id*="ads"]`,
}, ", "))

// stripNoise detaches every noise descendant of root and returns how many
// were removed.
func stripNoise(root *html.Node) int {
	if root == nil {
		return 0
	}
	removed := 0
	for _, n := range cascadia.QueryAll(root, noise) {
		if n.Parent == nil {
			continue
		}
		n.Parent.RemoveChild(n)
		removed++
	}
	return removed
}
