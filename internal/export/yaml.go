package export

import (
	"io"

	"github.com/lesplan/untis-tabulator/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports the table in YAML format
type YAMLExporter struct{}

// Export exports a table to YAML format
func (e *YAMLExporter) Export(table *internal.Table, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(map[string]interface{}{"sessions": rowRecords(table)})
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
