// Package analysis defines the document analysis result model and the narrow
// contract every analysis provider implements. The result is produced once
// per document and shared read-only across all formatters.
package analysis

// Result is the structured output of one document analysis.
type Result struct {
	// Pages are ordered by page number as returned by the service.
	Pages []Page
	// Tables are ordered as returned by the service. Cells are sparse;
	// absent cells render as empty content.
	Tables []Table
	// KeyValuePairs holds extracted form fields.
	KeyValuePairs []KeyValuePair
	// Paragraphs preserve the service's reading order.
	Paragraphs []Paragraph
}

// Page is one document page with its recognized text lines.
type Page struct {
	// PageNumber is 1-based.
	PageNumber int
	Lines      []Line
}

// Line is a single recognized text line.
type Line struct {
	Content string
}

// Table is a recognized table with a sparse cell list.
type Table struct {
	RowCount    int
	ColumnCount int
	Cells       []TableCell
}

// TableCell addresses one cell by zero-based row/column index.
type TableCell struct {
	Row     int
	Column  int
	Content string
}

// KeyValuePair is one extracted form field. Either side may be empty when
// the service could not pair the content.
type KeyValuePair struct {
	Key   string
	Value string
}

// Paragraph is a recognized paragraph together with the page regions that
// contain it.
type Paragraph struct {
	Content string
	// Regions lists the pages the paragraph spans, usually one.
	Regions []BoundingRegion
}

// BoundingRegion ties content to a page.
type BoundingRegion struct {
	PageNumber int
}

// PageCount returns the number of analyzed pages.
func (r *Result) PageCount() int {
	if r == nil {
		return 0
	}
	return len(r.Pages)
}

// ParagraphsOnPage returns the paragraphs whose bounding regions reference
// the given page number, preserving result order.
func (r *Result) ParagraphsOnPage(pageNumber int) []Paragraph {
	var out []Paragraph
	for _, p := range r.Paragraphs {
		for _, region := range p.Regions {
			if region.PageNumber == pageNumber {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
