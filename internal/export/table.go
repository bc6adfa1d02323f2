package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lesplan/untis-tabulator/internal"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	missingStyle = cellStyle.Foreground(lipgloss.Color("214")).Italic(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// TableExporter renders the table for a terminal
type TableExporter struct{}

// Export exports a table as a bordered terminal table
func (e *TableExporter) Export(tbl *internal.Table, w io.Writer) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("COURSE", "SESSION", "START", "CONTENT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(tbl.Rows) && tbl.Rows[row].Missing && col == 3 {
				return missingStyle
			}
			return cellStyle
		})

	for _, row := range tbl.Rows {
		t.Row(
			row.Course,
			strconv.Itoa(row.Number),
			row.Moment.Format(internal.MomentLayout),
			strings.Join(internal.Flatten(internal.Enumerate(row.Content, "")), "\n"),
		)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Extension returns the file extension for this format
func (e *TableExporter) Extension() string {
	return "txt"
}
