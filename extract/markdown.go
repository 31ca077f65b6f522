package extract

import (
	"context"
	"fmt"
	"os"
)

// MarkdownExtractor handles markdown and plain text files, which are
// already the pipeline's native representation.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) SupportedFormats() []string { return []string{"md", "markdown", "txt"} }

func (e *MarkdownExtractor) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading text file: %w", err)
	}
	return Normalize(string(data)), nil
}
