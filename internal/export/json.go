package export

import (
	"encoding/json"
	"io"

	"github.com/lesplan/untis-tabulator/internal"
)

// JSONExporter exports the table as a pretty-printed JSON array
type JSONExporter struct{}

// Export exports a table to JSON format
func (e *JSONExporter) Export(table *internal.Table, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rowRecords(table))
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
