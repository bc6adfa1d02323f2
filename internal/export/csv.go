package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/lesplan/untis-tabulator/internal"
)

// CSVHeader is the fixed header row of the csv format
var CSVHeader = []string{"course", "session", "moment", "content"}

// CSVExporter exports the table as semicolon-separated text with flattened content
type CSVExporter struct{}

// Export exports a table to CSV format
func (e *CSVExporter) Export(table *internal.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, row := range table.Rows {
		record := []string{
			row.Course,
			strconv.Itoa(row.Number),
			row.Moment.Format(internal.MomentLayout),
			internal.FlatText(row.Content),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}
