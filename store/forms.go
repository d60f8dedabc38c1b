package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/harendra-pratap/Survey-form/model"
)

// FormByID loads the bare survey form row. Returns ErrNotFound when the id
// does not resolve.
func FormByID(ctx context.Context, q Querier, id int) (*model.SurveyForm, error) {
	form := model.SurveyForm{}
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, title, description
		FROM survey_form
		WHERE id = ?`,
		id,
	).Scan(&form.ID, &form.UserID, &form.Title, &form.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get survey form")
	}
	return &form, nil
}

// FormWithQuestions loads the form aggregate: form row plus its questions
// and their options.
func FormWithQuestions(ctx context.Context, q Querier, id int) (*model.SurveyForm, error) {
	form, err := FormByID(ctx, q, id)
	if err != nil {
		return nil, err
	}
	form.Questions, err = QuestionsByForm(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return form, nil
}

// InsertForm persists a new form aggregate owned by userID, assigning ids to
// the form, its questions and their options.
func InsertForm(ctx context.Context, q Querier, userID int, form *model.SurveyForm) error {
	form.UserID = userID
	err := q.QueryRowContext(ctx, `
		INSERT INTO survey_form (user_id, title, description) VALUES (?, ?, ?)
		RETURNING id`,
		userID,
		form.Title,
		form.Description,
	).Scan(&form.ID)
	if err != nil {
		return errors.Wrap(err, "insert survey form")
	}

	for i := range form.Questions {
		if err := insertQuestion(ctx, q, form.ID, &form.Questions[i]); err != nil {
			return err
		}
	}
	return nil
}

// SaveForm applies a form aggregate edit as one diff against the stored
// children: questions and options present with an id are updated, ones
// without an id are inserted, ones marked Deleted or absent from the payload
// are removed (cascading to options and answers).
func SaveForm(ctx context.Context, q Querier, form *model.SurveyForm) error {
	_, err := q.ExecContext(ctx, `
		UPDATE survey_form
		SET title = ?, description = ?
		WHERE id = ?`,
		form.Title,
		form.Description,
		form.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update survey form")
	}

	existing, err := QuestionsByForm(ctx, q, form.ID)
	if err != nil {
		return err
	}

	keep := make(map[int]bool)
	for i := range form.Questions {
		question := &form.Questions[i]
		if question.Deleted {
			continue
		}
		if question.ID == 0 {
			if err := insertQuestion(ctx, q, form.ID, question); err != nil {
				return err
			}
		} else {
			if err := saveQuestion(ctx, q, question); err != nil {
				return err
			}
		}
		keep[question.ID] = true
	}

	for _, question := range existing {
		if !keep[question.ID] {
			_, err := q.ExecContext(ctx, `DELETE FROM question WHERE id = ?`, question.ID)
			if err != nil {
				return errors.Wrap(err, "delete question")
			}
		}
	}
	return nil
}

// DeleteForm removes the form; questions, options and answers go with it via
// the schema's cascades.
func DeleteForm(ctx context.Context, q Querier, id int) error {
	res, err := q.ExecContext(ctx, `DELETE FROM survey_form WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete survey form")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete survey form.verify")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

func insertQuestion(ctx context.Context, q Querier, formID int, question *model.Question) error {
	question.SurveyFormID = formID
	err := q.QueryRowContext(ctx, `
		INSERT INTO question (survey_form_id, title, question_type, required)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		formID,
		question.Title,
		question.Type,
		question.Required,
	).Scan(&question.ID)
	if err != nil {
		return errors.Wrap(err, "insert question")
	}

	for i := range question.Options {
		if question.Options[i].Deleted {
			continue
		}
		if err := insertOption(ctx, q, question.ID, &question.Options[i]); err != nil {
			return err
		}
	}
	return nil
}

func saveQuestion(ctx context.Context, q Querier, question *model.Question) error {
	_, err := q.ExecContext(ctx, `
		UPDATE question
		SET title = ?, question_type = ?, required = ?
		WHERE id = ?`,
		question.Title,
		question.Type,
		question.Required,
		question.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update question")
	}

	existing, err := optionsByQuestion(ctx, q, question.ID)
	if err != nil {
		return err
	}

	keep := make(map[int]bool)
	for i := range question.Options {
		opt := &question.Options[i]
		if opt.Deleted {
			continue
		}
		if opt.ID == 0 {
			if err := insertOption(ctx, q, question.ID, opt); err != nil {
				return err
			}
		} else {
			_, err := q.ExecContext(ctx, `UPDATE mcq_option SET text = ? WHERE id = ?`, opt.Text, opt.ID)
			if err != nil {
				return errors.Wrap(err, "update mcq option")
			}
		}
		keep[opt.ID] = true
	}

	for _, opt := range existing {
		if !keep[opt.ID] {
			_, err := q.ExecContext(ctx, `DELETE FROM mcq_option WHERE id = ?`, opt.ID)
			if err != nil {
				return errors.Wrap(err, "delete mcq option")
			}
		}
	}
	return nil
}

func insertOption(ctx context.Context, q Querier, questionID int, opt *model.McqOption) error {
	opt.QuestionID = questionID
	err := q.QueryRowContext(ctx, `
		INSERT INTO mcq_option (question_id, text) VALUES (?, ?)
		RETURNING id`,
		questionID,
		opt.Text,
	).Scan(&opt.ID)
	return errors.Wrap(err, "insert mcq option")
}
