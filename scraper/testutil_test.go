package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testPageURL = "https://anime.example.com/series/solo-leveling/"

func mustDoc(t *testing.T, body string) *Document {
	t.Helper()
	d, err := ParseDocument("<html><head></head><body>"+body+"</body></html>", testPageURL, "")
	require.NoError(t, err)
	return d
}

func mustFullDoc(t *testing.T, page string) *Document {
	t.Helper()
	d, err := ParseDocument(page, testPageURL, "")
	require.NoError(t, err)
	return d
}
