package export

import (
	"html/template"
	"io"

	"github.com/lesplan/untis-tabulator/internal"
)

// HTMLExporter exports the table as a self-contained HTML page. Every row carries its
// course and date as data attributes so the page can hide earlier dates and whole courses.
type HTMLExporter struct{}

// contentView is the template-friendly form of an enumerated content tree
type contentView struct {
	Leaf     bool
	Text     string
	Children []contentView
}

func newContentView(node internal.ContentNode) contentView {
	switch n := node.(type) {
	case internal.Leaf:
		return contentView{Leaf: true, Text: n.Text}
	case internal.Grouping:
		view := contentView{Children: make([]contentView, 0, len(n.Children))}
		for _, child := range n.Children {
			view.Children = append(view.Children, newContentView(child))
		}
		return view
	default:
		return contentView{}
	}
}

type htmlRow struct {
	Course  string
	Number  int
	Moment  string
	Date    string
	Missing bool
	Content contentView
}

type htmlPage struct {
	Courses []string
	Rows    []htmlRow
}

var pageTemplate = template.Must(template.New("page").Parse(`{{define "content"}}{{if .Leaf}}{{.Text}}{{else if .Children}}<ol class="content">{{range .Children}}{{if .Leaf}}<li>{{.Text}}</li>{{else}}<li class="nested">{{template "content" .}}</li>{{end}}{{end}}</ol>{{end}}{{end}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Sessions</title>
<style>
.out-of-range-date { display: none; }
.hidden-course { display: none; }
[type="checkbox"] { margin-right: 2em; }
tbody { vertical-align: baseline; }
td.number { text-align: center; }
tr.missing td:last-child { font-style: italic; color: #a00; }
ol.content { list-style: none; padding-left: 0; margin: 0; }
li.nested > ol.content { padding-left: 1.5em; }
</style>
</head>
<body>
<form>
<label for="datepicker">Show from:</label>
<input type="date" id="datepicker">
<fieldset>
<legend>Show courses:</legend>
{{range .Courses}}<label for="course-{{.}}">{{.}}</label><input id="course-{{.}}" type="checkbox" value="{{.}}" checked>
{{end}}</fieldset>
</form>
<table>
<thead><tr><th>Course</th><th>Session</th><th>Start</th><th>Content</th></tr></thead>
<tbody>
{{range .Rows}}<tr data-course="{{.Course}}" data-date="{{.Date}}"{{if .Missing}} class="missing"{{end}}><td>{{.Course}}</td><td class="number">{{.Number}}</td><td>{{.Moment}}</td><td>{{template "content" .Content}}</td></tr>
{{end}}</tbody>
</table>
<script>
const OUT_OF_RANGE_DATE_CLASS_NAME = 'out-of-range-date';
const HIDDEN_COURSE_CLASS_NAME = 'hidden-course';
const rows = document.querySelectorAll('tbody tr');
document.querySelector('#datepicker').addEventListener('change', (event) => {
	const startDate = event.target.value;
	rows.forEach((row) => {
		row.classList.toggle(OUT_OF_RANGE_DATE_CLASS_NAME, startDate !== '' && row.dataset.date < startDate);
	});
});
document.querySelectorAll('input[type="checkbox"]').forEach((box) => box.addEventListener('change', (event) => {
	rows.forEach((row) => {
		if (row.dataset.course === event.target.value) {
			row.classList.toggle(HIDDEN_COURSE_CLASS_NAME, !event.target.checked);
		}
	});
}));
</script>
</body>
</html>
`))

// Export exports a table to HTML format
func (e *HTMLExporter) Export(table *internal.Table, w io.Writer) error {
	page := htmlPage{
		Courses: table.Courses(),
		Rows:    make([]htmlRow, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		page.Rows = append(page.Rows, htmlRow{
			Course:  row.Course,
			Number:  row.Number,
			Moment:  row.Moment.Format(internal.MomentLayout),
			Date:    row.Moment.Format(dateLayout),
			Missing: row.Missing,
			Content: newContentView(internal.Enumerate(row.Content, "")),
		})
	}
	return pageTemplate.Execute(w, page)
}

// Extension returns the file extension for this format
func (e *HTMLExporter) Extension() string {
	return "html"
}
