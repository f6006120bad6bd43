// Package format renders an analysis result into the supported output
// representations. Formatters are stateless; each receives the shared
// read-only result and a report callback scoped to its slice of the
// progress timeline.
package format

import (
	"fmt"
	"strings"

	"github.com/mwai-ops/doc-intel/internal/analysis"
	"github.com/mwai-ops/doc-intel/internal/progress"
)

// Format names one output representation.
type Format string

// Supported output formats.
const (
	Text     Format = "text"
	Markdown Format = "markdown"
	JSON     Format = "json"
)

// Parse validates a single format name.
func Parse(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case Text:
		return Text, nil
	case Markdown:
		return Markdown, nil
	case JSON:
		return JSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q", name)
	}
}

// ParseAll validates a list of format names, preserving order and dropping
// duplicates.
func ParseAll(names []string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]struct{}, len(names))
	for _, name := range names {
		f, err := Parse(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}

// Document couples the analysis result with the source file identity the
// markdown formatter derives its title from.
type Document struct {
	Result   *analysis.Result
	Filename string
}

// Title returns the base filename without extension.
func (d Document) Title() string {
	name := d.Filename
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}

// Bundle maps each requested format to its rendered content: a string for
// text and markdown, a *Structured for json.
type Bundle map[Format]any

// Formatter renders one output representation.
type Formatter interface {
	// Format names the representation this formatter produces.
	Format() Format
	// Render consumes the shared result and reports local 0-100 progress
	// through report, which may be nil.
	Render(doc Document, report progress.ReportFunc) (any, error)
}

// New returns the formatter for the given format.
func New(f Format) (Formatter, error) {
	switch f {
	case Text:
		return PlainText{}, nil
	case Markdown:
		return MarkdownFormatter{}, nil
	case JSON:
		return StructuredJSON{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}
