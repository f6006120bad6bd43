package format

import (
	"fmt"
	"strings"

	"github.com/mwai-ops/doc-intel/internal/analysis"
	"github.com/mwai-ops/doc-intel/internal/progress"
)

// MarkdownFormatter renders the document as Markdown: a title derived from
// the source filename, per-page content (paragraphs when the service
// segmented them, raw lines otherwise), then rendered tables and extracted
// fields.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (MarkdownFormatter) Format() Format {
	return Markdown
}

// Render implements Formatter.
func (MarkdownFormatter) Render(doc Document, report progress.ReportFunc) (any, error) {
	if report == nil {
		report = func(int, string) {}
	}
	report(0, "Formatting markdown...")

	res := doc.Result
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", doc.Title())
	b.WriteString("*Extracted from PDF using Microsoft Document Intelligence*\n")
	fmt.Fprintf(&b, "*Total Pages: %d*\n", len(res.Pages))
	b.WriteString("---\n")

	total := len(res.Pages)
	for idx, page := range res.Pages {
		pageNumber := page.PageNumber
		if pageNumber == 0 {
			pageNumber = idx + 1
		}
		fmt.Fprintf(&b, "\n## Page %d\n", pageNumber)

		// Paragraph segmentation preserves reading order; raw lines are
		// the fallback when no paragraph references this page.
		paragraphs := res.ParagraphsOnPage(pageNumber)
		if len(paragraphs) > 0 {
			for _, p := range paragraphs {
				fmt.Fprintf(&b, "%s\n", p.Content)
			}
		} else {
			for _, line := range page.Lines {
				fmt.Fprintf(&b, "%s\n", line.Content)
			}
		}
		b.WriteString("\n")

		if total > 0 {
			report((idx+1)*60/total, fmt.Sprintf("Formatting page %d/%d...", idx+1, total))
		}
	}

	if len(res.Tables) > 0 {
		report(80, "Formatting tables...")
		b.WriteString("\n---\n")
		b.WriteString("\n## Tables\n")
		for idx, table := range res.Tables {
			fmt.Fprintf(&b, "\n### Table %d\n", idx+1)
			b.WriteString(renderTable(table))
			b.WriteString("\n")
		}
	}

	if pairs := presentPairs(res.KeyValuePairs); len(pairs) > 0 {
		report(95, "Extracting fields...")
		b.WriteString("\n---\n")
		b.WriteString("\n## Extracted Fields\n")
		for _, kv := range pairs {
			fmt.Fprintf(&b, "- **%s**: %s\n", strings.TrimSpace(kv.Key), strings.TrimSpace(kv.Value))
		}
	}

	report(100, "Markdown complete")
	return b.String(), nil
}

// renderTable lays the sparse cell list out as a markdown grid: first row as
// header, a dash separator per column, remaining rows as data. Missing cells
// stay empty rather than collapsing the column.
func renderTable(table analysis.Table) string {
	if table.RowCount <= 0 || table.ColumnCount <= 0 {
		return ""
	}
	grid := make([][]string, table.RowCount)
	for i := range grid {
		grid[i] = make([]string, table.ColumnCount)
	}
	for _, cell := range table.Cells {
		if cell.Row < 0 || cell.Row >= table.RowCount || cell.Column < 0 || cell.Column >= table.ColumnCount {
			continue
		}
		grid[cell.Row][cell.Column] = strings.TrimSpace(cell.Content)
	}

	var lines []string
	lines = append(lines, "| "+strings.Join(grid[0], " | ")+" |")
	separator := make([]string, table.ColumnCount)
	for i := range separator {
		separator[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(separator, " | ")+" |")
	for _, row := range grid[1:] {
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

func presentPairs(pairs []analysis.KeyValuePair) []analysis.KeyValuePair {
	var out []analysis.KeyValuePair
	for _, kv := range pairs {
		if kv.Key == "" || kv.Value == "" {
			continue
		}
		out = append(out, kv)
	}
	return out
}
