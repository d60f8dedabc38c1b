package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"

	"github.com/harendra-pratap/Survey-form/model"
	"github.com/harendra-pratap/Survey-form/store"
)

func TestRowsGroupByRespondent(t *testing.T) {
	answers := []store.ExportedAnswer{
		{UserID: 2, QuestionID: 1, QuestionTitle: "Name", Text: "Bea", QuestionType: model.QuestionShort, Required: true},
		{UserID: 1, QuestionID: 1, QuestionTitle: "Name", Text: "Ada", QuestionType: model.QuestionShort, Required: true},
		{UserID: 2, QuestionID: 2, QuestionTitle: "Color", OptionText: "Red", QuestionType: model.QuestionMcq},
		{UserID: 1, QuestionID: 2, QuestionTitle: "Color", OptionText: "Blue", QuestionType: model.QuestionMcq},
	}

	rows := Rows(answers)

	gotOrder := make([][2]int, len(rows))
	for i, row := range rows {
		gotOrder[i] = [2]int{row.UserID, row.QuestionID}
	}
	// sorted by respondent, fetch order preserved within each
	wantOrder := [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Fatalf("got order %v, want %v", gotOrder, wantOrder)
	}
}

func TestRowsEmpty(t *testing.T) {
	if rows := Rows(nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{UserID: 1, QuestionID: 7, QuestionTitle: "Name", Text: "Ada", QuestionType: "short", Required: true},
		{UserID: 1, QuestionID: 8, QuestionTitle: "Color", OptionText: "Red", QuestionType: "mcq", Required: false},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 records, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0], Header) {
		t.Errorf("header mismatch: %v", records[0])
	}
	want := []string{"1", "7", "Name", "Ada", "", "short", "true"}
	if !reflect.DeepEqual(records[1], want) {
		t.Errorf("got %v, want %v", records[1], want)
	}
	want = []string{"1", "8", "Color", "", "Red", "mcq", "false"}
	if !reflect.DeepEqual(records[2], want) {
		t.Errorf("got %v, want %v", records[2], want)
	}
}

// A short answer that itself contains commas and quotes must survive the
// round trip.
func TestWriteCSVQuoting(t *testing.T) {
	rows := []Row{{UserID: 1, QuestionID: 1, QuestionTitle: "Name", Text: `hello, "world"`, QuestionType: "short"}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if records[1][3] != `hello, "world"` {
		t.Errorf("got %q", records[1][3])
	}
}
