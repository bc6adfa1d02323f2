package export

import (
	"github.com/lesplan/untis-tabulator/internal"
)

const dateLayout = "2006-01-02"

// rowRecord is the structured form of a row used by the data formats
type rowRecord struct {
	Course  string   `json:"course" yaml:"course"`
	Session int      `json:"session" yaml:"session"`
	Moment  string   `json:"moment" yaml:"moment"`
	End     string   `json:"end" yaml:"end"`
	Content []string `json:"content" yaml:"content"`
	Missing bool     `json:"missing,omitempty" yaml:"missing,omitempty"`
}

func newRowRecord(row internal.Row) rowRecord {
	return rowRecord{
		Course:  row.Course,
		Session: row.Number,
		Moment:  row.Moment.Format(internal.MomentLayout),
		End:     row.End.Format(internal.MomentLayout),
		Content: internal.Flatten(internal.Enumerate(row.Content, "")),
		Missing: row.Missing,
	}
}

func rowRecords(table *internal.Table) []rowRecord {
	records := make([]rowRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, newRowRecord(row))
	}
	return records
}
