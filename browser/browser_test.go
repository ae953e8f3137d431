package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/use-agent/mediascout/engine"
	"github.com/use-agent/mediascout/models"
)

func TestIsAdHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"doubleclick.net", true},
		{"pagead2.googlesyndication.com", true},
		{"CDN.PopAds.net.", true},
		{"example.com", false},
		{"net", false},
		{"", false},
		{"notdoubleclick.net", false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, isAdHost(tt.host))
		})
	}
}

func TestBlockedSet(t *testing.T) {
	set := blockedSet([]string{"Image", "Font", "Bogus"})
	assert.Len(t, set, 2)
	assert.Contains(t, set, proto.NetworkResourceTypeImage)
	assert.Contains(t, set, proto.NetworkResourceTypeFont)
}

func TestExtraHeaders(t *testing.T) {
	r := &Renderer{}

	h := r.extraHeaders(&engine.FetchRequest{URL: "https://reader.example.com/ch-1"})
	assert.Equal(t, "https://www.google.com/search?q=reader.example.com", h["Referer"])

	h = r.extraHeaders(&engine.FetchRequest{
		URL:     "https://reader.example.com/ch-1",
		Headers: map[string]string{"Referer": "https://reader.example.com"},
	})
	assert.Equal(t, "https://reader.example.com", h["Referer"])
}

func TestToHeadersMap(t *testing.T) {
	m := toHeadersMap(map[string]string{"Referer": "https://a.example"})
	assert.Equal(t, "https://a.example", m["Referer"].Str())
}

func TestCategorizeError(t *testing.T) {
	assert.Equal(t, models.ErrCodeFetchTimeout, categorizeError(fmt.Errorf("wrap: %w", context.DeadlineExceeded), "x").Code)
	assert.Equal(t, models.ErrCodeFetchFailed, categorizeError(errors.New("net::ERR_NAME_NOT_RESOLVED"), "x").Code)
}

type fakeInjector struct {
	scripts []string
	removed int
	err     error
}

func (f *fakeInjector) EvalOnNewDocument(js string) (func() error, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.scripts = append(f.scripts, js)
	return func() error {
		f.removed++
		return nil
	}, nil
}

func TestInstallStealthIsRemovedOnCleanup(t *testing.T) {
	page := &fakeInjector{}

	for range 3 {
		cleanup := installStealth(page, true)
		cleanup()
	}
	assert.Len(t, page.scripts, 3)
	assert.Equal(t, 3, page.removed, "every stealth registration must be undone before reuse")
}

func TestInstallStealthDisabled(t *testing.T) {
	page := &fakeInjector{}
	installStealth(page, false)()
	assert.Empty(t, page.scripts)
	assert.Zero(t, page.removed)
}

func TestInstallStealthInjectionFailure(t *testing.T) {
	page := &fakeInjector{err: errors.New("target closed")}
	cleanup := installStealth(page, true)
	assert.NotNil(t, cleanup)
	assert.NotPanics(t, cleanup)
}
