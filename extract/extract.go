// Package extract converts source documents into a single normalized
// UTF-8 string with line boundaries preserved. Structural cues that
// would otherwise be lost to plain text (DOCX heading styles, workbook
// sheet names) are rendered as markdown heading markers so the
// downstream segmenter can see them.
package extract

import (
	"context"
	"strings"
	"unicode"
)

// Extractor converts one document format to normalized plain text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
	SupportedFormats() []string
}

// Normalize scrubs extracted text: CRLF/CR line endings become LF, a
// leading BOM is dropped, and control characters other than newline and
// tab are removed. Line boundaries are preserved.
func Normalize(text string) string {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
