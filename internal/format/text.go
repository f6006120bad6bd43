package format

import (
	"fmt"
	"strings"

	"github.com/mwai-ops/doc-intel/internal/progress"
)

// PlainText concatenates every line of every page, in page order then line
// order, joined by newlines.
type PlainText struct{}

// Format implements Formatter.
func (PlainText) Format() Format {
	return Text
}

// Render implements Formatter.
func (PlainText) Render(doc Document, report progress.ReportFunc) (any, error) {
	if report == nil {
		report = func(int, string) {}
	}
	report(0, "Extracting text content...")

	var lines []string
	total := len(doc.Result.Pages)
	for idx, page := range doc.Result.Pages {
		for _, line := range page.Lines {
			lines = append(lines, line.Content)
		}
		if total > 0 {
			report((idx+1)*100/total, fmt.Sprintf("Extracting page %d/%d...", idx+1, total))
		}
	}
	return strings.Join(lines, "\n"), nil
}
