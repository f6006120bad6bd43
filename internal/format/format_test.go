package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAcceptsKnownFormats(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Format{
		"text":     Text,
		"Markdown": Markdown,
		" JSON ":   JSON,
	} {
		got, err := Parse(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := Parse("xml")
	require.Error(t, err)
}

func TestParseAllPreservesOrderAndDedupes(t *testing.T) {
	t.Parallel()

	got, err := ParseAll([]string{"markdown", "text", "markdown", "json"})
	require.NoError(t, err)
	require.Equal(t, []Format{Markdown, Text, JSON}, got)

	_, err = ParseAll([]string{"text", "bogus"})
	require.Error(t, err)
}

func TestDocumentTitleStripsPathAndExtension(t *testing.T) {
	t.Parallel()

	require.Equal(t, "invoice", Document{Filename: "invoice.pdf"}.Title())
	require.Equal(t, "report", Document{Filename: "uploads/report.pdf"}.Title())
	require.Equal(t, "scan", Document{Filename: `C:\docs\scan.pdf`}.Title())
	require.Equal(t, "noext", Document{Filename: "noext"}.Title())
}

func TestNewReturnsMatchingFormatter(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{Text, Markdown, JSON} {
		formatter, err := New(f)
		require.NoError(t, err)
		require.Equal(t, f, formatter.Format())
	}

	_, err := New(Format("xml"))
	require.Error(t, err)
}
