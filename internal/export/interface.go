package export

import (
	"fmt"
	"io"

	"github.com/lesplan/untis-tabulator/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(table *internal.Table, w io.Writer) error
	Extension() string
}

// UnsupportedFormatError is returned for an unknown export format
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s (supported: html, csv, md, json, jsonl, yaml, ics, table)", e.Format)
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "html":
		return &HTMLExporter{}, nil
	case "csv":
		return &CSVExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "ics":
		return &ICSExporter{}, nil
	case "table":
		return &TableExporter{}, nil
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}
