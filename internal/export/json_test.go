package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lesplan/untis-tabulator/internal"
)

func wantRowRecords() []rowRecord {
	return []rowRecord{
		{Course: "prog1", Session: 1, Moment: "2024-02-12 08:30:00", End: "2024-02-12 09:30:00", Content: []string{"Introduction"}},
		{Course: "db", Session: 1, Moment: "2024-02-13 13:00:00", End: "2024-02-13 14:30:00", Content: []string{internal.MissingContentText}, Missing: true},
		{Course: "prog1", Session: 2, Moment: "2024-02-19 08:30:00", End: "2024-02-19 09:30:00", Content: []string{"1.Loops", "1.1.for", "1.2.while"}},
	}
}

func TestJSONExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(newTestTable(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var got []rowRecord
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if diff := cmp.Diff(wantRowRecords(), got); diff != "" {
		t.Errorf("Export() mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(newTestTable(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var got []rowRecord
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var rec rowRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		got = append(got, rec)
	}
	if diff := cmp.Diff(wantRowRecords(), got); diff != "" {
		t.Errorf("Export() mismatch (-want +got):\n%s", diff)
	}
}
