package model

type QuestionType string

const (
	QuestionShort     QuestionType = "short"
	QuestionParagraph QuestionType = "paragraph"
	QuestionMcq       QuestionType = "mcq"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionShort, QuestionParagraph, QuestionMcq:
		return true
	}
	return false
}

type User struct {
	ID              int    `json:"id,omitempty"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	CountryCode     int    `json:"country_code"`
	PhoneNumber     string `json:"phone_number"`
	FullPhoneNumber string `json:"full_phone_number"`
}

type SurveyForm struct {
	ID          int        `json:"id,omitempty"`
	UserID      int        `json:"user_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

type Question struct {
	ID           int          `json:"id,omitempty"`
	SurveyFormID int          `json:"survey_form_id,omitempty"`
	Title        string       `json:"title"`
	Type         QuestionType `json:"question_type"`
	Required     bool         `json:"is_required"`
	Options      []McqOption  `json:"mcq_options,omitempty"`

	// Deleted marks the question for removal in an aggregate form update.
	Deleted bool `json:"deleted,omitempty"`
}

type McqOption struct {
	ID         int    `json:"id,omitempty"`
	QuestionID int    `json:"question_id,omitempty"`
	Text       string `json:"text"`
	Deleted    bool   `json:"deleted,omitempty"`
}

// Option returns the option with the given id, or nil when no option of this
// question matches.
func (q *Question) Option(id int) *McqOption {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

// Answer holds one user's response to one question. Text is empty for MCQ
// choices; McqOptionID is nil for text answers.
type Answer struct {
	ID           int    `json:"id,omitempty"`
	SurveyFormID int    `json:"survey_form_id"`
	QuestionID   int    `json:"question_id"`
	UserID       int    `json:"user_id"`
	Text         string `json:"text,omitempty"`
	McqOptionID  *int   `json:"mcq_option_id,omitempty"`
}
