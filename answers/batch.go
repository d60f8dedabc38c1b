package answers

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/harendra-pratap/Survey-form/model"
	"github.com/harendra-pratap/Survey-form/store"
	"github.com/harendra-pratap/Survey-form/validate"
)

const alreadyAnswered = "You can only answer this question once."

// CreateBatch validates and persists a set of new answers for one survey
// form, all scoped to the acting user. The pre-checks run before the
// transaction and write nothing; past them, the whole list is applied inside
// one transaction and the first invalid payload rolls everything back.
//
// Failure modes: *RequiredError or ErrMissingQuestionID from the pre-checks,
// *BatchError from the transactional loop, anything else is a store fault.
func CreateBatch(ctx context.Context, db *sql.DB, formID, userID int, payloads []Payload) ([]model.Answer, error) {
	if err := precheckRequired(ctx, db, payloadRefs(payloads)); err != nil {
		return nil, err
	}
	for _, p := range payloads {
		if p.QuestionID == 0 {
			return nil, ErrMissingQuestionID
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	var created []model.Answer
	for _, p := range payloads {
		a := model.Answer{
			SurveyFormID: formID,
			QuestionID:   p.QuestionID,
			UserID:       userID,
			Text:         p.Text,
			McqOptionID:  p.McqOptionID,
		}

		question, err := store.QuestionByID(ctx, tx, p.QuestionID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if violations := validate.Answer(a, question); len(violations) > 0 {
			return nil, &BatchError{Items: []ItemError{{QuestionID: p.QuestionID, Errors: violations}}}
		}

		// A payload with no content that still validated belongs to an
		// optional text question: skipping it is the answer, there is no
		// row to store.
		if a.Text == "" && a.McqOptionID == nil {
			continue
		}

		if err := store.InsertAnswer(ctx, tx, &a); err != nil {
			if store.IsUniqueViolation(err) {
				return nil, &BatchError{Items: []ItemError{{QuestionID: p.QuestionID, Errors: []string{alreadyAnswered}}}}
			}
			return nil, err
		}
		created = append(created, a)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return created, nil
}

// UpdateResult separates the answers an update batch modified from the ones
// it deleted.
type UpdateResult struct {
	Updated []model.Answer `json:"answers"`
	Deleted []model.Answer `json:"deleted_answers"`
}

// UpdateBatch applies a set of update/delete operations to the acting user's
// existing answers, all-or-nothing like CreateBatch. An unresolvable id (or
// one owned by someone else) aborts the batch. Deletions are honored only
// when the owning question is optional; a delete against a required question
// is skipped silently, neither an error nor reported as deleted.
func UpdateBatch(ctx context.Context, db *sql.DB, userID int, items []UpdatePayload) (*UpdateResult, error) {
	if err := precheckRequired(ctx, db, updateRefs(items)); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	result := &UpdateResult{}
	for _, item := range items {
		a, err := store.AnswerByIDForUser(ctx, tx, item.ID, userID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, &BatchError{Items: []ItemError{{
				AnswerID: item.ID,
				Errors:   []string{"Answer not found or not authorized to update"},
			}}}
		}
		if err != nil {
			return nil, err
		}

		question, err := store.QuestionByID(ctx, tx, a.QuestionID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		if item.Deleted {
			if question != nil && question.Required {
				continue
			}
			if err := store.DeleteAnswer(ctx, tx, a.ID); err != nil {
				return nil, err
			}
			result.Deleted = append(result.Deleted, *a)
			continue
		}

		if item.Text != nil {
			a.Text = *item.Text
		}
		if item.McqOptionID != nil {
			a.McqOptionID = item.McqOptionID
		}
		if violations := validate.Answer(*a, question); len(violations) > 0 {
			return nil, &BatchError{Items: []ItemError{{AnswerID: a.ID, Errors: violations}}}
		}
		if err := store.UpdateAnswer(ctx, tx, a); err != nil {
			return nil, err
		}
		result.Updated = append(result.Updated, *a)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return result, nil
}

// Delete removes one answer outside of any batch. The acting user must own
// it: a miss is store.ErrNotFound, someone else's answer is ErrForbidden.
func Delete(ctx context.Context, db *sql.DB, id, userID int) error {
	a, err := store.AnswerByID(ctx, db, id)
	if err != nil {
		return err
	}
	if a.UserID != userID {
		return ErrForbidden
	}
	return store.DeleteAnswer(ctx, db, a.ID)
}

type itemRef struct {
	questionID int
	text       string
	option     *int
}

func payloadRefs(payloads []Payload) []itemRef {
	refs := make([]itemRef, len(payloads))
	for i, p := range payloads {
		refs[i] = itemRef{p.QuestionID, p.Text, p.McqOptionID}
	}
	return refs
}

// updateRefs skips delete operations: a delete payload naturally carries no
// text or option, and required-question deletes are resolved inside the
// batch loop, not by the pre-check.
func updateRefs(items []UpdatePayload) []itemRef {
	refs := make([]itemRef, 0, len(items))
	for _, item := range items {
		if item.Deleted {
			continue
		}
		var text string
		if item.Text != nil {
			text = *item.Text
		}
		refs = append(refs, itemRef{item.QuestionID, text, item.McqOptionID})
	}
	return refs
}

// precheckRequired rejects the whole request, before the transaction opens,
// when a required question's payload carries neither text nor an option.
// Unresolvable question ids are left for the per-item validation.
func precheckRequired(ctx context.Context, db *sql.DB, refs []itemRef) error {
	for _, ref := range refs {
		if ref.questionID == 0 {
			continue
		}
		question, err := store.QuestionByID(ctx, db, ref.questionID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if question.Required && ref.text == "" && ref.option == nil {
			return &RequiredError{QuestionID: question.ID}
		}
	}
	return nil
}
