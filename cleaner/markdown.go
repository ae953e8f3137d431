package cleaner

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// mdConverter is shared by all callers; Converter is goroutine-safe.
var mdConverter = newMarkdownConverter()

// newMarkdownConverter strips non-content tags (base), renders standard
// Markdown (commonmark) and keeps author notes laid out as tables (table).
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// ToMarkdown converts clean HTML to Markdown. Relative links and images are
// made absolute against pageURL.
func ToMarkdown(htmlContent string, pageURL string) (string, error) {
	return mdConverter.ConvertString(htmlContent, converter.WithDomain(pageURL))
}
