package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/harendra-pratap/Survey-form/model"
)

func InsertAnswer(ctx context.Context, q Querier, a *model.Answer) error {
	err := q.QueryRowContext(ctx, `
		INSERT INTO answer (survey_form_id, question_id, user_id, text, mcq_option_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		a.SurveyFormID,
		a.QuestionID,
		a.UserID,
		nullString(a.Text),
		nullInt(a.McqOptionID),
	).Scan(&a.ID)
	if IsUniqueViolation(err) {
		return err
	}
	return errors.Wrap(err, "insert answer")
}

func UpdateAnswer(ctx context.Context, q Querier, a *model.Answer) error {
	res, err := q.ExecContext(ctx, `
		UPDATE answer
		SET text = ?, mcq_option_id = ?
		WHERE id = ?`,
		nullString(a.Text),
		nullInt(a.McqOptionID),
		a.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update answer")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update answer.verify")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

func DeleteAnswer(ctx context.Context, q Querier, id int) error {
	res, err := q.ExecContext(ctx, `DELETE FROM answer WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete answer")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete answer.verify")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

func AnswerByID(ctx context.Context, q Querier, id int) (*model.Answer, error) {
	return scanAnswer(q.QueryRowContext(ctx, `
		SELECT id, survey_form_id, question_id, user_id, text, mcq_option_id
		FROM answer
		WHERE id = ?`,
		id,
	))
}

// AnswerByIDForUser resolves an answer only when it belongs to the given
// user; any other user's answer reads as not found.
func AnswerByIDForUser(ctx context.Context, q Querier, id, userID int) (*model.Answer, error) {
	return scanAnswer(q.QueryRowContext(ctx, `
		SELECT id, survey_form_id, question_id, user_id, text, mcq_option_id
		FROM answer
		WHERE id = ? AND user_id = ?`,
		id, userID,
	))
}

func AnswersByFormAndUser(ctx context.Context, q Querier, formID, userID int) ([]model.Answer, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, survey_form_id, question_id, user_id, text, mcq_option_id
		FROM answer
		WHERE survey_form_id = ? AND user_id = ?`,
		formID, userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "get answers by form and user")
	}
	defer rows.Close()
	return collectAnswers(rows)
}

// AnsweredFormIDs lists the forms the user has answered, ordered by form
// title for a stable index response.
func AnsweredFormIDs(ctx context.Context, q Querier, userID int) ([]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT DISTINCT a.survey_form_id
		FROM answer a
		INNER JOIN survey_form f ON (f.id = a.survey_form_id)
		WHERE a.user_id = ?
		ORDER BY f.title ASC`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "get answered form ids")
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "get answered form ids.scan")
		}
		ids = append(ids, id)
	}
	return ids, errors.Wrap(rows.Err(), "get answered form ids")
}

// ExportedAnswer is one answer joined to its question and chosen option,
// as consumed by the export aggregator.
type ExportedAnswer struct {
	UserID        int
	QuestionID    int
	QuestionTitle string
	Text          string
	OptionText    string
	QuestionType  model.QuestionType
	Required      bool
}

// AnswersForExport loads every answer against a form, any respondent,
// ordered by respondent id.
func AnswersForExport(ctx context.Context, q Querier, formID int) ([]ExportedAnswer, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT
			a.user_id, a.question_id, q.title,
			a.text, o.text,
			q.question_type, q.required
		FROM answer a
		INNER JOIN question q ON (q.id = a.question_id)
		LEFT OUTER JOIN mcq_option o ON (o.id = a.mcq_option_id)
		WHERE a.survey_form_id = ?
		ORDER BY a.user_id ASC, a.id ASC`,
		formID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "get answers for export")
	}
	defer rows.Close()

	var answers []ExportedAnswer
	for rows.Next() {
		var a ExportedAnswer
		var text, option sql.NullString
		err = rows.Scan(
			&a.UserID, &a.QuestionID, &a.QuestionTitle,
			&text, &option,
			&a.QuestionType, &a.Required,
		)
		if err != nil {
			return nil, errors.Wrap(err, "get answers for export.scan")
		}
		a.Text = text.String
		a.OptionText = option.String
		answers = append(answers, a)
	}
	return answers, errors.Wrap(rows.Err(), "get answers for export")
}

func scanAnswer(row *sql.Row) (*model.Answer, error) {
	a := model.Answer{}
	var text sql.NullString
	var option sql.NullInt64
	err := row.Scan(&a.ID, &a.SurveyFormID, &a.QuestionID, &a.UserID, &text, &option)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get answer")
	}
	a.Text = text.String
	if option.Valid {
		id := int(option.Int64)
		a.McqOptionID = &id
	}
	return &a, nil
}

func collectAnswers(rows *sql.Rows) ([]model.Answer, error) {
	var answers []model.Answer
	for rows.Next() {
		a := model.Answer{}
		var text sql.NullString
		var option sql.NullInt64
		err := rows.Scan(&a.ID, &a.SurveyFormID, &a.QuestionID, &a.UserID, &text, &option)
		if err != nil {
			return nil, errors.Wrap(err, "get answers.scan")
		}
		a.Text = text.String
		if option.Valid {
			id := int(option.Int64)
			a.McqOptionID = &id
		}
		answers = append(answers, a)
	}
	return answers, errors.Wrap(rows.Err(), "get answers")
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
