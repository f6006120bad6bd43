package format

import (
	"strings"

	"github.com/mwai-ops/doc-intel/internal/progress"
)

// Structured is the json-format payload.
type Structured struct {
	Pages         int               `json:"pages"`
	Tables        []StructuredTable `json:"tables"`
	KeyValuePairs []StructuredPair  `json:"key_value_pairs"`
	Paragraphs    []string          `json:"paragraphs"`
}

// StructuredTable carries row/column counts plus the flat cell list.
type StructuredTable struct {
	RowCount    int              `json:"row_count"`
	ColumnCount int              `json:"column_count"`
	Cells       []StructuredCell `json:"cells"`
}

// StructuredCell addresses one cell.
type StructuredCell struct {
	Row     int    `json:"row"`
	Column  int    `json:"column"`
	Content string `json:"content"`
}

// StructuredPair is one extracted field.
type StructuredPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// StructuredJSON renders the analysis result as a Structured payload.
type StructuredJSON struct{}

// Format implements Formatter.
func (StructuredJSON) Format() Format {
	return JSON
}

// Render implements Formatter.
func (StructuredJSON) Render(doc Document, report progress.ReportFunc) (any, error) {
	if report == nil {
		report = func(int, string) {}
	}
	report(0, "Extracting structured data...")

	res := doc.Result
	out := &Structured{
		Pages:         len(res.Pages),
		Tables:        []StructuredTable{},
		KeyValuePairs: []StructuredPair{},
		Paragraphs:    []string{},
	}

	if len(res.Tables) > 0 {
		report(30, "Extracting tables...")
		for _, table := range res.Tables {
			st := StructuredTable{
				RowCount:    table.RowCount,
				ColumnCount: table.ColumnCount,
				Cells:       []StructuredCell{},
			}
			for _, cell := range table.Cells {
				st.Cells = append(st.Cells, StructuredCell{
					Row:     cell.Row,
					Column:  cell.Column,
					Content: cell.Content,
				})
			}
			out.Tables = append(out.Tables, st)
		}
	}

	if pairs := presentPairs(res.KeyValuePairs); len(pairs) > 0 {
		report(60, "Extracting key-value pairs...")
		for _, kv := range pairs {
			out.KeyValuePairs = append(out.KeyValuePairs, StructuredPair{
				Key:   strings.TrimSpace(kv.Key),
				Value: strings.TrimSpace(kv.Value),
			})
		}
	}

	if len(res.Paragraphs) > 0 {
		report(80, "Extracting paragraphs...")
		for _, p := range res.Paragraphs {
			out.Paragraphs = append(out.Paragraphs, p.Content)
		}
	}

	report(100, "Structured extraction complete")
	return out, nil
}
