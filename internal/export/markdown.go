package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/lesplan/untis-tabulator/internal"
)

// MarkdownExporter exports the table as a Markdown table
type MarkdownExporter struct{}

// Export exports a table to Markdown format
func (e *MarkdownExporter) Export(table *internal.Table, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "| Course | Session | Moment | Content |\n")
	_, _ = fmt.Fprintf(w, "|---|---:|---|---|\n")

	for _, row := range table.Rows {
		content := escapeMarkdown(strings.Join(internal.Flatten(internal.Enumerate(row.Content, "")), "<br>"))
		if row.Missing {
			content = "_" + content + "_"
		}
		_, err := fmt.Fprintf(w, "| %s | %d | %s | %s |\n",
			escapeMarkdown(row.Course), row.Number, row.Moment.Format(internal.MomentLayout), content)
		if err != nil {
			return err
		}
	}

	return nil
}

// escapeMarkdown escapes the characters that would break a table cell or emphasis
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	text = strings.ReplaceAll(text, "**", "\\*\\*")
	text = strings.ReplaceAll(text, "__", "\\_\\_")
	return strings.ReplaceAll(text, "\n", " ")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
