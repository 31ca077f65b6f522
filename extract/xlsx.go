package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXExtractor handles spreadsheet-authored course material (question
// banks, outlines). Each sheet becomes a level-2 heading so sheets map
// onto sections, with rows rendered one per line; single-cell rows keep
// their text bare so enumerated question lines stay recognizable.
type XLSXExtractor struct{}

func (e *XLSXExtractor) SupportedFormats() []string { return []string{"xlsx"} }

func (e *XLSXExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening XLSX: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	sheetsWithData := 0

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + sheet + "\n")
		for _, row := range rows {
			cells := nonEmpty(row)
			if len(cells) == 0 {
				continue
			}
			if len(cells) == 1 {
				b.WriteString(cells[0] + "\n")
				continue
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
		sheetsWithData++
	}

	if sheetsWithData == 0 {
		return "", fmt.Errorf("no data found in XLSX")
	}
	return Normalize(b.String()), nil
}

func nonEmpty(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			out = append(out, strings.TrimSpace(c))
		}
	}
	return out
}
