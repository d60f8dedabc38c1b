// Package answers coordinates validating and persisting sets of answers.
// A batch is applied inside one transaction: either every operation in the
// request commits, or the first violation rolls the whole batch back.
package answers

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Payload is one proposed answer in a create batch.
type Payload struct {
	QuestionID  int    `json:"question_id"`
	Text        string `json:"text"`
	McqOptionID *int   `json:"mcq_option_id"`
}

// UpdatePayload is one operation in an update/delete batch. Text and
// McqOptionID are pointers so an absent field leaves the stored value alone.
type UpdatePayload struct {
	ID          int     `json:"id"`
	QuestionID  int     `json:"question_id"`
	Text        *string `json:"text"`
	McqOptionID *int    `json:"mcq_option_id"`
	Deleted     bool    `json:"deleted"`
}

// ItemError pins a violation list to the batch item that caused it: the
// question id on the create path, the answer id on the update path.
type ItemError struct {
	QuestionID int      `json:"question_id,omitempty"`
	AnswerID   int      `json:"id,omitempty"`
	Errors     []string `json:"errors"`
}

// BatchError aborts a batch. It always carries the full violation list
// collected before the rollback; the batch never half-commits.
type BatchError struct {
	Items []ItemError
}

func (e *BatchError) Error() string {
	msgs := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		msgs = append(msgs, strings.Join(item.Errors, "; "))
	}
	return "batch aborted: " + strings.Join(msgs, "; ")
}

// RequiredError rejects a batch before any write when a required question's
// payload carries neither text nor an option.
type RequiredError struct {
	QuestionID int
}

func (e *RequiredError) Error() string {
	return fmt.Sprintf("Answer is required for question %d", e.QuestionID)
}

// ErrMissingQuestionID rejects a create batch in which some payload has a
// blank question id.
var ErrMissingQuestionID = errors.New("Question ID must be present for all answers")

// ErrForbidden reports an operation on another user's answer.
var ErrForbidden = errors.New("forbidden")
