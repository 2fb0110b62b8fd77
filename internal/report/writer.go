// Package report renders dashboards for humans (Markdown) and machines (JSON).
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/bmireport/internal/dashboard"
	"github.com/KaramelBytes/bmireport/internal/utils"
)

// Writer outputs a dashboard in one format.
type Writer interface {
	Write(d *dashboard.Dashboard) error
}

// Format names accepted by NewWriter.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// NewWriter returns the Writer for format ("markdown"/"md" or "json").
func NewWriter(format string, out io.Writer) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatMarkdown, "md", "":
		return NewMarkdownWriter(out), nil
	case FormatJSON:
		return NewJSONWriter(out), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use markdown or json)", format)
	}
}

// JSONWriter writes the dashboard as indented JSON.
type JSONWriter struct {
	output io.Writer
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{output: output}
}

// Write encodes d.
func (w *JSONWriter) Write(d *dashboard.Dashboard) error {
	return w.WriteValue(d)
}

// WriteValue encodes v followed by a newline.
func (w *JSONWriter) WriteValue(v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if _, err := w.output.Write(b); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
