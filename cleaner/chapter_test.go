package cleaner

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, page string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc.Selection
}

const prose = "The rain had not stopped for three days, and the old bridge groaned under every cart that crossed it."

func TestExtractChapterTextReaderContainer(t *testing.T) {
	page := parse(t, `<html><head><title>Site</title></head><body>
		<h1 class="entry-title">Chapter 12: The Bridge</h1>
		<div class="reading-content">
			<p>`+prose+`</p>
			<script>var ad = 1;</script>
			<div class="code-block">BUY NOW</div>
			<p>She <a href="/glossary#bridge">crossed</a> anyway.</p>
		</div>
	</body></html>`)

	got := ExtractChapterText(page, "https://novels.example.com/series/x/chapter-12")

	assert.Equal(t, "Chapter 12: The Bridge", got.Title)
	assert.Contains(t, got.HTML, "old bridge groaned")
	assert.NotContains(t, got.HTML, "<script")
	assert.NotContains(t, got.HTML, "BUY NOW")
	assert.Contains(t, got.Markdown, "old bridge groaned")
	assert.Contains(t, got.Markdown, "glossary#bridge")
}

func TestExtractChapterTextSkipsThinContainers(t *testing.T) {
	page := parse(t, `<html><body>
		<div class="reading-content"><p>Loading…</p></div>
		<div class="entry-content"><p>`+prose+`</p></div>
	</body></html>`)

	got := ExtractChapterText(page, "https://novels.example.com/c/1")
	assert.Contains(t, got.HTML, "old bridge groaned")
	assert.NotContains(t, got.HTML, "Loading")
}

func TestExtractChapterTextEmptyPage(t *testing.T) {
	got := ExtractChapterText(parse(t, `<html><body><nav>Home</nav></body></html>`), "https://novels.example.com/c/1")
	assert.Empty(t, got.HTML)
	assert.Empty(t, got.Markdown)
}

func TestStripNoise(t *testing.T) {
	body := parse(t, `<div id="root"><p>keep</p><ins class="adsbygoogle"></ins><div class="top-ads">x</div><style>p{}</style></div>`).Find("#root")
	require.Equal(t, 1, body.Length())

	removed := stripNoise(body.Get(0))
	assert.Equal(t, 3, removed)
	assert.Equal(t, "keep", strings.TrimSpace(body.Text()))
	assert.Equal(t, 0, stripNoise(nil))
}
