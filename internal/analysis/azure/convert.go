package azure

import "github.com/mwai-ops/doc-intel/internal/analysis"

// analyzeResponse is the poll response envelope.
type analyzeResponse struct {
	Status        string         `json:"status"`
	AnalyzeResult *analyzeResult `json:"analyzeResult"`
	Error         *apiError      `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type analyzeResult struct {
	Pages         []wirePage      `json:"pages"`
	Tables        []wireTable     `json:"tables"`
	KeyValuePairs []wireKVPair    `json:"keyValuePairs"`
	Paragraphs    []wireParagraph `json:"paragraphs"`
}

type wirePage struct {
	PageNumber int        `json:"pageNumber"`
	Lines      []wireLine `json:"lines"`
}

type wireLine struct {
	Content string `json:"content"`
}

type wireTable struct {
	RowCount    int        `json:"rowCount"`
	ColumnCount int        `json:"columnCount"`
	Cells       []wireCell `json:"cells"`
}

type wireCell struct {
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
	Content     string `json:"content"`
}

type wireKVPair struct {
	Key   *wireContent `json:"key"`
	Value *wireContent `json:"value"`
}

type wireContent struct {
	Content string `json:"content"`
}

type wireParagraph struct {
	Content         string       `json:"content"`
	BoundingRegions []wireRegion `json:"boundingRegions"`
}

type wireRegion struct {
	PageNumber int `json:"pageNumber"`
}

// toResult maps the wire representation onto the domain model.
func toResult(in *analyzeResult) *analysis.Result {
	out := &analysis.Result{}
	for _, p := range in.Pages {
		page := analysis.Page{PageNumber: p.PageNumber}
		for _, l := range p.Lines {
			page.Lines = append(page.Lines, analysis.Line{Content: l.Content})
		}
		out.Pages = append(out.Pages, page)
	}
	for _, t := range in.Tables {
		table := analysis.Table{RowCount: t.RowCount, ColumnCount: t.ColumnCount}
		for _, c := range t.Cells {
			table.Cells = append(table.Cells, analysis.TableCell{
				Row:     c.RowIndex,
				Column:  c.ColumnIndex,
				Content: c.Content,
			})
		}
		out.Tables = append(out.Tables, table)
	}
	for _, kv := range in.KeyValuePairs {
		pair := analysis.KeyValuePair{}
		if kv.Key != nil {
			pair.Key = kv.Key.Content
		}
		if kv.Value != nil {
			pair.Value = kv.Value.Content
		}
		out.KeyValuePairs = append(out.KeyValuePairs, pair)
	}
	for _, p := range in.Paragraphs {
		para := analysis.Paragraph{Content: p.Content}
		for _, r := range p.BoundingRegions {
			para.Regions = append(para.Regions, analysis.BoundingRegion{PageNumber: r.PageNumber})
		}
		out.Paragraphs = append(out.Paragraphs, para)
	}
	return out
}
