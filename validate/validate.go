// Package validate holds the field-level validation rules for answers, users
// and survey form aggregates. All functions are pure: callers load the data,
// validation only looks at it.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"

	"github.com/harendra-pratap/Survey-form/model"
)

const (
	ShortMaxLen     = 100
	ParagraphMinLen = 100
	ParagraphMaxLen = 500
)

// Answer checks a candidate answer against its resolved question and returns
// every violated rule. An empty slice means the answer is well-formed.
// q is nil when the answer's question id did not resolve; that is its own
// violation and suppresses the type-specific rules.
func Answer(a model.Answer, q *model.Question) []string {
	if q == nil {
		return []string{"Question must be present"}
	}

	var violations []string
	switch q.Type {
	case model.QuestionMcq:
		if a.Text != "" {
			violations = append(violations, "Text should not be filled for an MCQ question")
		}
		if a.McqOptionID == nil {
			violations = append(violations, "Mcq option can't be blank")
		} else if q.Option(*a.McqOptionID) == nil {
			violations = append(violations, "Mcq option does not belong to this question")
		}

	case model.QuestionShort:
		if a.McqOptionID != nil {
			violations = append(violations, "Mcq option should not be provided for a short answer question")
		}
		if utf8.RuneCountInString(a.Text) > ShortMaxLen {
			violations = append(violations, "Text must not exceed 100 characters for a short answer question")
		}
		if q.Required && a.Text == "" {
			violations = append(violations, "Text can't be blank")
		}

	case model.QuestionParagraph:
		// The length window applies even to empty text on optional
		// questions; an optional paragraph can only be skipped by not
		// submitting an answer row at all.
		if n := utf8.RuneCountInString(a.Text); n < ParagraphMinLen || n > ParagraphMaxLen {
			violations = append(violations, "Text must be between 100 and 500 characters for a paragraph question")
		}
	}
	return violations
}

// User checks the account fields supplied at signup or profile update.
// The password has its own rule, see Password.
func User(u model.User) error {
	var errs *multierror.Error
	if u.FirstName == "" {
		errs = multierror.Append(errs, errors.New("First name can't be blank"))
	} else if len(u.FirstName) > 25 {
		errs = multierror.Append(errs, errors.New("First name is too long (maximum is 25 characters)"))
	}
	if u.LastName == "" {
		errs = multierror.Append(errs, errors.New("Last name can't be blank"))
	} else if len(u.LastName) > 25 {
		errs = multierror.Append(errs, errors.New("Last name is too long (maximum is 25 characters)"))
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		errs = multierror.Append(errs, errors.New("Email is invalid"))
	}
	if u.CountryCode <= 0 {
		errs = multierror.Append(errs, errors.New("Country code is not a number"))
	}
	if len(u.PhoneNumber) != 10 || !digitsOnly(u.PhoneNumber) {
		errs = multierror.Append(errs, errors.New("Phone number is the wrong length (should be 10 digits)"))
	}
	if u.FullPhoneNumber == "" {
		errs = multierror.Append(errs, errors.New("Full phone number can't be blank"))
	} else if len(u.FullPhoneNumber) > 15 {
		errs = multierror.Append(errs, errors.New("Full phone number is too long (maximum is 15 characters)"))
	}
	return errs.ErrorOrNil()
}

func Password(password string) error {
	if len(password) < 6 {
		return errors.New("Password is too short (minimum is 6 characters)")
	}
	return nil
}

// Form checks a survey form aggregate, questions and options included.
// Children marked Deleted are about to be removed and are not validated.
func Form(f model.SurveyForm) error {
	var errs *multierror.Error
	if f.Title == "" {
		errs = multierror.Append(errs, errors.New("Title can't be blank"))
	} else if len(f.Title) > 255 {
		errs = multierror.Append(errs, errors.New("Title is too long (maximum is 255 characters)"))
	}
	if f.Description == "" {
		errs = multierror.Append(errs, errors.New("Description can't be blank"))
	} else if len(f.Description) > 1000 {
		errs = multierror.Append(errs, errors.New("Description is too long (maximum is 1000 characters)"))
	}

	for i, q := range f.Questions {
		if q.Deleted {
			continue
		}
		if q.Title == "" {
			errs = multierror.Append(errs, fmt.Errorf("Questions[%d] title can't be blank", i))
		} else if len(q.Title) > 255 {
			errs = multierror.Append(errs, fmt.Errorf("Questions[%d] title is too long (maximum is 255 characters)", i))
		}
		if !q.Type.Valid() {
			errs = multierror.Append(errs, fmt.Errorf("Questions[%d] question type is not included in the list", i))
			continue
		}

		options := 0
		for _, opt := range q.Options {
			if opt.Deleted {
				continue
			}
			options++
			if opt.Text == "" {
				errs = multierror.Append(errs, fmt.Errorf("Questions[%d] mcq option text can't be blank", i))
			}
		}
		if q.Type == model.QuestionMcq && options == 0 {
			errs = multierror.Append(errs, fmt.Errorf("Questions[%d] mcq options must be present for MCQ questions", i))
		}
		if q.Type != model.QuestionMcq && options > 0 {
			errs = multierror.Append(errs, fmt.Errorf("Questions[%d] mcq options cannot be present for non-MCQ questions", i))
		}
	}
	return errs.ErrorOrNil()
}

// Messages flattens a multierror into the list of individual messages, for
// rendering as a JSON errors array.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		msgs := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
