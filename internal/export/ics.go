package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/lesplan/untis-tabulator/internal"
)

// uidNamespace scopes the event UIDs so re-exports update existing calendar entries
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("untis-tabulator"))

// ICSExporter exports every session as a calendar event
type ICSExporter struct {
	// Now stamps the events; defaults to time.Now
	Now func() time.Time
}

// Export exports a table to iCalendar format
func (e *ICSExporter) Export(table *internal.Table, w io.Writer) error {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	stamp := now()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//untis-tabulator//sessions//EN")

	for _, row := range table.Rows {
		event := cal.AddEvent(SessionUID(row.Course, row.Moment))
		event.SetDtStampTime(stamp)
		event.SetStartAt(row.Moment)
		event.SetEndAt(row.End)
		event.SetSummary(fmt.Sprintf("%s #%d", row.Course, row.Number))
		event.SetDescription(strings.Join(internal.Flatten(internal.Enumerate(row.Content, "")), "\n"))
	}

	return cal.SerializeTo(w)
}

// SessionUID returns the stable event UID of a course session
func SessionUID(course string, moment time.Time) string {
	return uuid.NewSHA1(uidNamespace, []byte(course+"|"+moment.UTC().Format(time.RFC3339))).String()
}

// Extension returns the file extension for this format
func (e *ICSExporter) Extension() string {
	return "ics"
}
