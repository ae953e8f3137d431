package browser

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var resourceTypes = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
	"Script":     proto.NetworkResourceTypeScript,
}

// adHosts are ad, tracking and pop-under networks common on streaming and
// scanlation sites. Subdomains match too.
var adHosts = map[string]struct{}{
	"doubleclick.net":       {},
	"googlesyndication.com": {},
	"googleadservices.com":  {},
	"google-analytics.com":  {},
	"googletagmanager.com":  {},
	"googletagservices.com": {},
	"amazon-adsystem.com":   {},
	"adnxs.com":             {},
	"criteo.com":            {},
	"outbrain.com":          {},
	"taboola.com":           {},
	"pubmatic.com":          {},
	"rubiconproject.com":    {},
	"scorecardresearch.com": {},
	"hotjar.com":            {},
	"histats.com":           {},
	"popads.net":            {},
	"popcash.net":           {},
	"propellerads.com":      {},
	"adsterra.com":          {},
	"exoclick.com":          {},
	"juicyads.com":          {},
	"onclickads.net":        {},
	"hilltopads.net":        {},
	"a-ads.com":             {},
	"disqus.com":            {},
	"sharethis.com":         {},
	"addthis.com":           {},
}

// isAdHost reports whether host or any parent domain is a known ad host.
func isAdHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for host != "" {
		if _, ok := adHosts[host]; ok {
			return true
		}
		dot := strings.IndexByte(host, '.')
		if dot < 0 {
			return false
		}
		host = host[dot+1:]
	}
	return false
}

// blockedSet maps configured names to resource types, skipping unknown names.
func blockedSet(names []string) map[proto.NetworkResourceType]struct{} {
	set := make(map[proto.NetworkResourceType]struct{}, len(names))
	for _, name := range names {
		if rt, ok := resourceTypes[name]; ok {
			set[rt] = struct{}{}
		}
	}
	return set
}

// setupHijack fails requests for blocked resource types and ad hosts.
// It returns nil when nothing needs blocking; otherwise the caller must
// Stop the returned router.
func setupHijack(page *rod.Page, blockedTypes []string, blockAds bool) *rod.HijackRouter {
	blocked := blockedSet(blockedTypes)
	if len(blocked) == 0 && !blockAds {
		return nil
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(h *rod.Hijack) {
		if _, ok := blocked[h.Request.Type()]; ok {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		if blockAds {
			if u, err := url.Parse(h.Request.URL().String()); err == nil && isAdHost(u.Hostname()) {
				h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
				return
			}
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})

	go router.Run()
	return router
}
