// Package local implements the analysis contract with an in-process PDF text
// extractor. It exists for development without remote credentials; it yields
// pages and lines only, so tables, key-value pairs, and paragraphs come back
// empty.
package local

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mwai-ops/doc-intel/internal/analysis"
)

// Client extracts text directly from the PDF bytes.
type Client struct{}

// New returns a local analysis client.
func New() *Client {
	return &Client{}
}

// BeginAnalyze parses the document synchronously; the returned operation is
// already complete.
func (Client) BeginAnalyze(_ context.Context, document []byte) (analysis.Operation, error) {
	reader, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	result := &analysis.Result{}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		out := analysis.Page{PageNumber: i}
		if !page.V.IsNull() {
			text, err := page.GetPlainText(nil)
			if err != nil {
				return nil, fmt.Errorf("extract text from page %d: %w", i, err)
			}
			for _, line := range strings.Split(text, "\n") {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				out.Lines = append(out.Lines, analysis.Line{Content: line})
			}
		}
		result.Pages = append(result.Pages, out)
	}
	return completedOperation{result: result}, nil
}

// completedOperation wraps an already-finished analysis.
type completedOperation struct {
	result *analysis.Result
}

func (completedOperation) Done(context.Context) (bool, error) {
	return true, nil
}

func (o completedOperation) Result(context.Context) (*analysis.Result, error) {
	return o.result, nil
}
