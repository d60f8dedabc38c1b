package answers_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/harendra-pratap/Survey-form/answers"
	"github.com/harendra-pratap/Survey-form/database"
	"github.com/harendra-pratap/Survey-form/model"
	"github.com/harendra-pratap/Survey-form/store"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, email string) int {
	t.Helper()
	u := model.User{
		FirstName:       "Test",
		LastName:        "User",
		Email:           email,
		CountryCode:     1,
		PhoneNumber:     "5550000000",
		FullPhoneNumber: "1" + email,
	}
	if err := store.InsertUser(context.Background(), db, &u, []byte("hash")); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

// seedForm creates a form with one question of each type: a required short,
// an optional short, an optional paragraph and a required mcq.
func seedForm(t *testing.T, db *sql.DB, userID int) *model.SurveyForm {
	t.Helper()
	form := model.SurveyForm{
		Title:       "Customer feedback",
		Description: "How did we do?",
		Questions: []model.Question{
			{Title: "Your name", Type: model.QuestionShort, Required: true},
			{Title: "Nickname", Type: model.QuestionShort},
			{Title: "Tell us more", Type: model.QuestionParagraph},
			{Title: "Would you return?", Type: model.QuestionMcq, Required: true, Options: []model.McqOption{
				{Text: "Yes"},
				{Text: "No"},
			}},
		},
	}
	if err := store.InsertForm(context.Background(), db, userID, &form); err != nil {
		t.Fatalf("seed form: %v", err)
	}
	return &form
}

func answerCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM answer").Scan(&n); err != nil {
		t.Fatalf("count answers: %v", err)
	}
	return n
}

func intp(i int) *int { return &i }

func strp(s string) *string { return &s }

func paragraph() string { return strings.Repeat("It was fine. ", 10) } // 130 chars

func TestCreateBatch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	form := seedForm(t, db, userID)
	q := form.Questions

	created, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: q[0].ID, Text: "Ada"},
		{QuestionID: q[2].ID, Text: paragraph()},
		{QuestionID: q[3].ID, McqOptionID: intp(q[3].Options[0].ID)},
	})
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 created answers, got %d", len(created))
	}
	for _, a := range created {
		if a.ID == 0 {
			t.Error("created answer has no id")
		}
		if a.UserID != userID || a.SurveyFormID != form.ID {
			t.Errorf("answer not scoped to user/form: %+v", a)
		}
	}
	if n := answerCount(t, db); n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
}

// An optional question submitted with neither text nor option is skipped:
// no row is stored for it, empty or otherwise.
func TestCreateBatchSkipsEmptyOptional(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	form := seedForm(t, db, userID)
	q := form.Questions

	created, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: q[0].ID, Text: "Ada"},
		{QuestionID: q[1].ID}, // optional short, left blank
		{QuestionID: q[3].ID, McqOptionID: intp(q[3].Options[0].ID)},
	})
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created answers, got %d", len(created))
	}
	for _, a := range created {
		if a.QuestionID == q[1].ID {
			t.Error("blank optional answer should not be stored")
		}
	}
	if n := answerCount(t, db); n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
}

func TestCreateBatchRequiredPrecheck(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	form := seedForm(t, db, userID)
	q := form.Questions

	// the mcq question is required but its payload is empty
	_, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: q[0].ID, Text: "Ada"},
		{QuestionID: q[3].ID},
	})

	var required *answers.RequiredError
	if !errors.As(err, &required) {
		t.Fatalf("expected RequiredError, got %v", err)
	}
	if required.QuestionID != q[3].ID {
		t.Errorf("error names question %d, want %d", required.QuestionID, q[3].ID)
	}
	if !strings.Contains(required.Error(), fmt.Sprintf("question %d", q[3].ID)) {
		t.Errorf("message does not identify the question: %q", required.Error())
	}
	if n := answerCount(t, db); n != 0 {
		t.Fatalf("pre-check failure must write nothing, found %d rows", n)
	}
}

func TestCreateBatchMissingQuestionID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	form := seedForm(t, db, userID)

	_, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: form.Questions[1].ID, Text: "x"},
		{Text: "orphan"},
	})
	if !errors.Is(err, answers.ErrMissingQuestionID) {
		t.Fatalf("expected ErrMissingQuestionID, got %v", err)
	}
	if n := answerCount(t, db); n != 0 {
		t.Fatalf("expected no writes, found %d rows", n)
	}
}

func TestCreateBatchRollsBackOnInvalidItem(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	form := seedForm(t, db, userID)
	q := form.Questions

	// items 1 and 2 are valid, item 3 violates the paragraph length rule
	_, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: q[0].ID, Text: "Ada"},
		{QuestionID: q[3].ID, McqOptionID: intp(q[3].Options[1].ID)},
		{QuestionID: q[2].ID, Text: "too short"},
	})

	var batch *answers.BatchError
	if !errors.As(err, &batch) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if len(batch.Items) != 1 || batch.Items[0].QuestionID != q[2].ID {
		t.Fatalf("violations should name the invalid item's question: %+v", batch.Items)
	}
	if n := answerCount(t, db); n != 0 {
		t.Fatalf("earlier valid items must be rolled back, found %d rows", n)
	}
}

func TestCreateBatchUnknownQuestion(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	form := seedForm(t, db, userID)

	_, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: 99999, Text: "hello"},
	})
	var batch *answers.BatchError
	if !errors.As(err, &batch) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if len(batch.Items) != 1 || batch.Items[0].Errors[0] != "Question must be present" {
		t.Fatalf("got %+v", batch.Items)
	}
}

func TestCreateBatchDuplicatePair(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	form := seedForm(t, db, userID)
	q := form.Questions

	_, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: q[1].ID, Text: "first time"},
	})
	if err != nil {
		t.Fatalf("first batch: %v", err)
	}

	// second batch: a fresh valid item plus a duplicate of the first pair
	_, err = answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: q[0].ID, Text: "Ada"},
		{QuestionID: q[1].ID, Text: "second time"},
	})
	var batch *answers.BatchError
	if !errors.As(err, &batch) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if batch.Items[0].Errors[0] != "You can only answer this question once." {
		t.Fatalf("got %+v", batch.Items)
	}
	// nothing from the failed batch may stick, only the original row remains
	if n := answerCount(t, db); n != 1 {
		t.Fatalf("expected 1 row, got %d", n)
	}
}

func TestUpdateBatchRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	form := seedForm(t, db, userID)
	q := form.Questions

	created, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: q[0].ID, Text: "Ada"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := answers.UpdateBatch(ctx, db, userID, []answers.UpdatePayload{
		{ID: created[0].ID, QuestionID: q[0].ID, Text: strp("Grace")},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(result.Updated) != 1 || len(result.Deleted) != 0 {
		t.Fatalf("got %+v", result)
	}

	stored, err := store.AnswerByID(ctx, db, created[0].ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Text != "Grace" {
		t.Errorf("text not updated: %q", stored.Text)
	}
	if stored.ID != created[0].ID {
		t.Errorf("id changed: %d -> %d", created[0].ID, stored.ID)
	}
	if n := answerCount(t, db); n != 1 {
		t.Fatalf("expected a single stored row, got %d", n)
	}
}

func TestUpdateBatchRollsBackOnViolation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	form := seedForm(t, db, userID)
	q := form.Questions

	created, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: q[0].ID, Text: "Ada"},
		{QuestionID: q[1].ID, Text: "ada"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// first item valid, second exceeds the short limit
	_, err = answers.UpdateBatch(ctx, db, userID, []answers.UpdatePayload{
		{ID: created[0].ID, QuestionID: q[0].ID, Text: strp("Grace")},
		{ID: created[1].ID, QuestionID: q[1].ID, Text: strp(strings.Repeat("a", 101))},
	})
	var batch *answers.BatchError
	if !errors.As(err, &batch) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if batch.Items[0].AnswerID != created[1].ID {
		t.Fatalf("violation should name the second answer: %+v", batch.Items)
	}

	stored, err := store.AnswerByID(ctx, db, created[0].ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Text != "Ada" {
		t.Errorf("first item's update must be rolled back, text is %q", stored.Text)
	}
}

func TestUpdateBatchNotFoundOrForeignAborts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	strangerID := seedUser(t, db, "two@example.com")
	form := seedForm(t, db, userID)
	q := form.Questions

	created, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: q[1].ID, Text: "mine"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// the stranger tries to edit the owner's answer
	_, err = answers.UpdateBatch(ctx, db, strangerID, []answers.UpdatePayload{
		{ID: created[0].ID, QuestionID: q[1].ID, Text: strp("not yours")},
	})
	var batch *answers.BatchError
	if !errors.As(err, &batch) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if batch.Items[0].Errors[0] != "Answer not found or not authorized to update" {
		t.Fatalf("got %+v", batch.Items)
	}

	stored, _ := store.AnswerByID(ctx, db, created[0].ID)
	if stored.Text != "mine" {
		t.Errorf("answer was modified: %q", stored.Text)
	}
}

func TestUpdateBatchDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	form := seedForm(t, db, userID)
	q := form.Questions

	created, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: q[0].ID, Text: "Ada"},     // required short
		{QuestionID: q[1].ID, Text: "nickname"}, // optional short
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := answers.UpdateBatch(ctx, db, userID, []answers.UpdatePayload{
		{ID: created[0].ID, QuestionID: q[0].ID, Deleted: true},
		{ID: created[1].ID, QuestionID: q[1].ID, Deleted: true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// the required question's delete is silently skipped
	if len(result.Deleted) != 1 || result.Deleted[0].ID != created[1].ID {
		t.Fatalf("only the optional answer may be deleted: %+v", result.Deleted)
	}
	if _, err := store.AnswerByID(ctx, db, created[0].ID); err != nil {
		t.Error("required-question answer should still exist")
	}
	if _, err := store.AnswerByID(ctx, db, created[1].ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("optional answer should be gone, got %v", err)
	}
}

func TestSingleDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "one@example.com")
	strangerID := seedUser(t, db, "two@example.com")
	form := seedForm(t, db, userID)

	created, err := answers.CreateBatch(ctx, db, form.ID, userID, []answers.Payload{
		{QuestionID: form.Questions[1].ID, Text: "mine"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := answers.Delete(ctx, db, 99999, userID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := answers.Delete(ctx, db, created[0].ID, strangerID); !errors.Is(err, answers.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := answers.Delete(ctx, db, created[0].ID, userID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
	if n := answerCount(t, db); n != 0 {
		t.Errorf("expected 0 rows, got %d", n)
	}
}
