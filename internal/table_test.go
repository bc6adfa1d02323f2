package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		input   string
		want    Order
		wantErr bool
	}{
		{input: "", want: OrderChronological},
		{input: "chronological", want: OrderChronological},
		{input: "course", want: OrderByCourse},
		{input: "by-course", want: OrderByCourse},
		{input: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOrder(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}

type rowKey struct {
	Course string
	Number int
	Moment string
}

func rowKeys(table *Table) []rowKey {
	keys := make([]rowKey, 0, len(table.Rows))
	for _, r := range table.Rows {
		keys = append(keys, rowKey{Course: r.Course, Number: r.Number, Moment: r.Moment.Format("2006-01-02 15:04")})
	}
	return keys
}

func TestNewTable(t *testing.T) {
	records := []SessionRecord{
		CreateTestRecord("prog1", "2024-02-12 08:30", "intro"),
		CreateTestRecord("prog1", "2024-02-19 08:30", "loops"),
		CreateTestRecord("db", "2024-02-13 13:00", "sql"),
		CreateTestRecord("db", "2024-02-20 13:00", "joins"),
	}

	tests := []struct {
		name        string
		order       Order
		want        []rowKey
		wantCourses []string
	}{
		{
			name:  "chronological",
			order: OrderChronological,
			want: []rowKey{
				{"prog1", 1, "2024-02-12 08:30"},
				{"db", 1, "2024-02-13 13:00"},
				{"prog1", 2, "2024-02-19 08:30"},
				{"db", 2, "2024-02-20 13:00"},
			},
			wantCourses: []string{"prog1", "db"},
		},
		{
			name:  "by course",
			order: OrderByCourse,
			want: []rowKey{
				{"prog1", 1, "2024-02-12 08:30"},
				{"prog1", 2, "2024-02-19 08:30"},
				{"db", 1, "2024-02-13 13:00"},
				{"db", 2, "2024-02-20 13:00"},
			},
			wantCourses: []string{"prog1", "db"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable(records, tt.order)
			if diff := cmp.Diff(tt.want, rowKeys(table)); diff != "" {
				t.Errorf("NewTable() rows mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantCourses, table.Courses()); diff != "" {
				t.Errorf("Courses() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewTableStableOnEqualMoments(t *testing.T) {
	records := []SessionRecord{
		CreateTestRecord("b", "2024-02-12 08:30", "x"),
		CreateTestRecord("a", "2024-02-12 08:30", "y"),
	}
	table := NewTable(records, OrderChronological)
	if table.Rows[0].Course != "b" || table.Rows[1].Course != "a" {
		t.Errorf("NewTable() reordered equal moments: %v", rowKeys(table))
	}
	if records[0].Course != "b" {
		t.Error("NewTable() modified its input")
	}
}
