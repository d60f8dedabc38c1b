// Package export turns a form's persisted answers into tabular report rows
// and renders them as CSV.
package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/harendra-pratap/Survey-form/store"
)

// Header is the fixed column set of an answers report.
var Header = []string{
	"User ID",
	"Question ID",
	"Question Title",
	"Answer Text",
	"Answer MCQ Option",
	"Question Type",
	"Is Required",
}

// Row is one report line, one per answer. Text is blank for MCQ answers,
// OptionText is blank for text answers.
type Row struct {
	UserID        int
	QuestionID    int
	QuestionTitle string
	Text          string
	OptionText    string
	QuestionType  string
	Required      bool
}

// Rows groups a form's answers by respondent: stable-sorted by user id, the
// fetch order preserved within each respondent.
func Rows(answers []store.ExportedAnswer) []Row {
	rows := make([]Row, len(answers))
	for i, a := range answers {
		rows[i] = Row{
			UserID:        a.UserID,
			QuestionID:    a.QuestionID,
			QuestionTitle: a.QuestionTitle,
			Text:          a.Text,
			OptionText:    a.OptionText,
			QuestionType:  string(a.QuestionType),
			Required:      a.Required,
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].UserID < rows[j].UserID
	})
	return rows
}

// WriteCSV renders the header plus one record per row.
func WriteCSV(w io.Writer, rows []Row) error {
	out := csv.NewWriter(w)
	if err := out.Write(Header); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.UserID),
			strconv.Itoa(row.QuestionID),
			row.QuestionTitle,
			row.Text,
			row.OptionText,
			row.QuestionType,
			strconv.FormatBool(row.Required),
		}
		if err := out.Write(record); err != nil {
			return errors.Wrap(err, "write csv record")
		}
	}
	out.Flush()
	return errors.Wrap(out.Error(), "flush csv")
}
