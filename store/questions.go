package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/harendra-pratap/Survey-form/model"
)

// QuestionByID loads a question together with its option set.
// Returns ErrNotFound when the id does not resolve.
func QuestionByID(ctx context.Context, q Querier, id int) (*model.Question, error) {
	question := model.Question{}
	err := q.QueryRowContext(ctx, `
		SELECT id, survey_form_id, title, question_type, required
		FROM question
		WHERE id = ?`,
		id,
	).Scan(&question.ID, &question.SurveyFormID, &question.Title, &question.Type, &question.Required)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get question")
	}

	question.Options, err = optionsByQuestion(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// QuestionsByForm loads a form's questions, options included, in insertion
// order.
func QuestionsByForm(ctx context.Context, q Querier, formID int) ([]model.Question, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, survey_form_id, title, question_type, required
		FROM question
		WHERE survey_form_id = ?
		ORDER BY id ASC`,
		formID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "get questions")
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		question := model.Question{}
		err = rows.Scan(&question.ID, &question.SurveyFormID, &question.Title, &question.Type, &question.Required)
		if err != nil {
			return nil, errors.Wrap(err, "get questions.scan")
		}
		questions = append(questions, question)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get questions")
	}

	for i := range questions {
		questions[i].Options, err = optionsByQuestion(ctx, q, questions[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return questions, nil
}

func optionsByQuestion(ctx context.Context, q Querier, questionID int) ([]model.McqOption, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, question_id, text
		FROM mcq_option
		WHERE question_id = ?
		ORDER BY id ASC`,
		questionID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "get mcq options")
	}
	defer rows.Close()

	var options []model.McqOption
	for rows.Next() {
		opt := model.McqOption{}
		if err = rows.Scan(&opt.ID, &opt.QuestionID, &opt.Text); err != nil {
			return nil, errors.Wrap(err, "get mcq options.scan")
		}
		options = append(options, opt)
	}
	return options, errors.Wrap(rows.Err(), "get mcq options")
}
