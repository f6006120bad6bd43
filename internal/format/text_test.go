package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mwai-ops/doc-intel/internal/analysis"
)

func TestPlainTextJoinsLinesInPageOrder(t *testing.T) {
	t.Parallel()

	doc := Document{
		Filename: "doc.pdf",
		Result: &analysis.Result{
			Pages: []analysis.Page{
				{PageNumber: 1, Lines: []analysis.Line{{Content: "Hello"}, {Content: "World"}}},
				{PageNumber: 2, Lines: []analysis.Line{{Content: "Foo"}, {Content: "Bar"}}},
			},
		},
	}

	got, err := PlainText{}.Render(doc, nil)
	require.NoError(t, err)
	require.Equal(t, "Hello\nWorld\nFoo\nBar", got)
}

func TestPlainTextReportsPerPageProgress(t *testing.T) {
	t.Parallel()

	doc := Document{
		Result: &analysis.Result{
			Pages: []analysis.Page{
				{PageNumber: 1, Lines: []analysis.Line{{Content: "a"}}},
				{PageNumber: 2, Lines: []analysis.Line{{Content: "b"}}},
			},
		},
	}

	var values []int
	_, err := PlainText{}.Render(doc, func(p int, _ string) {
		values = append(values, p)
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 50, 100}, values)
}

func TestPlainTextEmptyDocument(t *testing.T) {
	t.Parallel()

	doc := Document{Result: &analysis.Result{}}
	got, err := PlainText{}.Render(doc, func(int, string) {})
	require.NoError(t, err)
	require.Equal(t, "", got)
}
