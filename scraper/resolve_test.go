package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveURL(t *testing.T) {
	const origin = "https://anime.example.com"
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"absolute https", "https://cdn.example.net/a.jpg", "https://cdn.example.net/a.jpg"},
		{"absolute http", "http://cdn.example.net/a.jpg", "http://cdn.example.net/a.jpg"},
		{"uppercase scheme", "HTTPS://cdn.example.net/a.jpg", "HTTPS://cdn.example.net/a.jpg"},
		{"protocol relative", "//cdn.example.net/a.jpg", "https://cdn.example.net/a.jpg"},
		{"root relative", "/series/solo-leveling", "https://anime.example.com/series/solo-leveling"},
		{"bare relative", "episode-1", "https://anime.example.com/episode-1"},
		{"dot relative stays origin based", "../img/cover.jpg", "https://anime.example.com/../img/cover.jpg"},
		{"surrounding whitespace", "  /a  ", "https://anime.example.com/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(origin, tt.in))
		})
	}
}

func TestResolveURLIdempotent(t *testing.T) {
	origins := []string{"https://a.example.com", "http://127.0.0.1:8080"}
	inputs := []string{
		"", "/x", "x", "//cdn.example.net/x", "https://b.example/x?y=1#z",
		"http://b.example", "episode/12", "/", "?page=2",
	}
	for _, origin := range origins {
		for _, in := range inputs {
			once := ResolveURL(origin, in)
			assert.Equal(t, once, ResolveURL(origin, once), "origin=%s input=%q", origin, in)
		}
	}
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com/series"))
	assert.NoError(t, ValidateURL("http://127.0.0.1:9000"))

	for _, bad := range []string{"", "example.com/series", "ftp://example.com", "https://", "://x", "javascript:alert(1)"} {
		assert.Error(t, ValidateURL(bad), bad)
	}
}
