package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lesplan/untis-tabulator/internal"
)

// JSONLExporter exports the table in JSONL format (one row per line)
type JSONLExporter struct{}

// Export exports a table to JSONL format
func (e *JSONLExporter) Export(table *internal.Table, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, row := range table.Rows {
		if err := enc.Encode(newRowRecord(row)); err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
