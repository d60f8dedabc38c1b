package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/harendra-pratap/Survey-form/answers"
	"github.com/harendra-pratap/Survey-form/app"
	"github.com/harendra-pratap/Survey-form/export"
	"github.com/harendra-pratap/Survey-form/httpx"
	"github.com/harendra-pratap/Survey-form/log"
	"github.com/harendra-pratap/Survey-form/model"
	"github.com/harendra-pratap/Survey-form/routes/middlewares"
	"github.com/harendra-pratap/Survey-form/store"
)

// CreateAnswers submits a batch of new answers against one survey form.
// The whole batch commits or none of it does.
func CreateAnswers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := struct {
			SurveyFormID int               `json:"survey_form_id"`
			Answers      []answers.Payload `json:"answers"`
		}{}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if _, err := store.FormByID(r.Context(), app.DB, req.SurveyFormID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "create_answers", "Survey form not found")
				return
			}
			httpx.LogInternalError(w, "db.get_survey_form", err)
			return
		}

		userID := middlewares.UserID(r.Context())
		created, err := answers.CreateBatch(r.Context(), app.DB, req.SurveyFormID, userID, req.Answers)
		if err != nil {
			renderBatchFailure(w, r, "create_answers", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"message": "Answers saved successfully",
			"answers": created,
		})
	}
}

// UpdateAnswers applies a batch of answer updates and deletions, again
// all-or-nothing.
func UpdateAnswers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := struct {
			Answers []answers.UpdatePayload `json:"answers"`
		}{}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		userID := middlewares.UserID(r.Context())
		result, err := answers.UpdateBatch(r.Context(), app.DB, userID, req.Answers)
		if err != nil {
			renderBatchFailure(w, r, "update_answers", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"message":         "Answers updated successfully",
			"answers":         result.Updated,
			"deleted_answers": result.Deleted,
		})
	}
}

// renderBatchFailure maps coordinator errors onto the response contract:
// pre-check failures carry a single message, batch aborts the per-item
// violation list, and an abort with no recorded violation falls back to a
// generic unknown error.
func renderBatchFailure(w http.ResponseWriter, r *http.Request, code string, err error) {
	var required *answers.RequiredError
	var batch *answers.BatchError
	switch {
	case errors.As(err, &required):
		httpx.LogError(w, r, http.StatusUnprocessableEntity, log.DebugLevel, code+".required", required.Error())
	case errors.Is(err, answers.ErrMissingQuestionID):
		httpx.LogError(w, r, http.StatusUnprocessableEntity, log.DebugLevel, code+".question_id", err.Error())
	case errors.As(err, &batch):
		if len(batch.Items) == 0 {
			httpx.LogErrors(w, r, http.StatusUnprocessableEntity, log.WarnLevel, code+".unknown", []string{"An unknown error occurred"})
			return
		}
		httpx.LogErrors(w, r, http.StatusUnprocessableEntity, log.DebugLevel, code+".batch", batch.Items)
	default:
		httpx.LogInternalError(w, code, err)
	}
}

// ListAnswers reports the acting user's answers grouped per survey form,
// each form carrying its full question list with the user's answer merged in.
func ListAnswers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middlewares.UserID(r.Context())

		formIDs, err := store.AnsweredFormIDs(r.Context(), app.DB, userID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_answered_forms", err)
			return
		}
		if len(formIDs) == 0 {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]any{"message": "No answers found for the user"})
			return
		}

		forms := make([]map[string]any, 0, len(formIDs))
		for _, formID := range formIDs {
			form, err := store.FormWithQuestions(r.Context(), app.DB, formID)
			if err != nil {
				httpx.LogInternalError(w, "db.get_survey_form", err)
				return
			}
			userAnswers, err := store.AnswersByFormAndUser(r.Context(), app.DB, formID, userID)
			if err != nil {
				httpx.LogInternalError(w, "db.get_answers", err)
				return
			}

			questions := make([]map[string]any, 0, len(form.Questions))
			for i := range form.Questions {
				q := &form.Questions[i]
				questions = append(questions, map[string]any{
					"id":            q.ID,
					"title":         q.Title,
					"question_type": q.Type,
					"is_required":   q.Required,
					"mcq_options":   optionsJSON(q.Options),
					"answer":        formatAnswer(answerFor(userAnswers, q.ID), q),
				})
			}

			forms = append(forms, map[string]any{
				"survey_form": map[string]any{
					"id":          form.ID,
					"title":       form.Title,
					"description": form.Description,
					"questions":   questions,
				},
			})
		}

		render.JSON(w, r, map[string]any{"survey_forms": forms})
	}
}

// GetFormAnswers renders one survey form with the acting user's answers
// merged into its question list.
func GetFormAnswers(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		form, err := store.FormWithQuestions(r.Context(), app.DB, formID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "get_form_answers", "Survey form not found")
				return
			}
			httpx.LogInternalError(w, "db.get_survey_form", err)
			return
		}

		userID := middlewares.UserID(r.Context())
		userAnswers, err := store.AnswersByFormAndUser(r.Context(), app.DB, formID, userID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_answers", err)
			return
		}

		questions := make([]map[string]any, 0, len(form.Questions))
		for i := range form.Questions {
			q := &form.Questions[i]
			questions = append(questions, map[string]any{
				"id":            q.ID,
				"title":         q.Title,
				"question_type": q.Type,
				"required":      q.Required,
				"mcq_options":   optionsJSON(q.Options),
				"answer":        answerFor(userAnswers, q.ID),
			})
		}

		render.JSON(w, r, map[string]any{
			"survey_form": map[string]any{
				"id":        form.ID,
				"title":     form.Title,
				"questions": questions,
			},
		})
	}
}

// DeleteAnswer removes one answer outside of any batch.
func DeleteAnswer(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		err = answers.Delete(r.Context(), app.DB, id, middlewares.UserID(r.Context()))
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.LogNotFound(w, r, "delete_answer", "Answer not found")
		case errors.Is(err, answers.ErrForbidden):
			httpx.LogError(w, r, http.StatusForbidden, log.DebugLevel, "delete_answer.forbidden",
				"You are not authorized to delete this answer")
		case err != nil:
			httpx.LogInternalError(w, "db.delete_answer", err)
		default:
			render.JSON(w, r, map[string]any{"message": "Answer deleted successfully"})
		}
	}
}

// DownloadCSV streams the form's full answer report, owner only.
func DownloadCSV(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := strconv.Atoi(chi.URLParam(r, "survey_form_id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.survey_form_id")
			return
		}

		form, err := store.FormByID(r.Context(), app.DB, formID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "download_csv", "Survey form not found")
				return
			}
			httpx.LogInternalError(w, "db.get_survey_form", err)
			return
		}
		if form.UserID != middlewares.UserID(r.Context()) {
			httpx.LogError(w, r, http.StatusForbidden, log.DebugLevel, "download_csv.forbidden",
				"You are not authorized to access this resource")
			return
		}

		exported, err := store.AnswersForExport(r.Context(), app.DB, formID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_answers_for_export", err)
			return
		}
		if len(exported) == 0 {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]any{"message": "No answers found for this survey form"})
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", form.Title+"_answers.csv"))
		if err := export.WriteCSV(w, export.Rows(exported)); err != nil {
			log.Errorf("download_csv.write: %s", err)
		}
	}
}

func answerFor(userAnswers []model.Answer, questionID int) *model.Answer {
	for i := range userAnswers {
		if userAnswers[i].QuestionID == questionID {
			return &userAnswers[i]
		}
	}
	return nil
}

// formatAnswer condenses an answer for the index listing: just the text, or
// the chosen option with its display text.
func formatAnswer(a *model.Answer, q *model.Question) map[string]any {
	if a == nil {
		return nil
	}
	if a.Text != "" {
		return map[string]any{"text": a.Text}
	}
	if a.McqOptionID != nil {
		formatted := map[string]any{"mcq_option_id": *a.McqOptionID}
		if opt := q.Option(*a.McqOptionID); opt != nil {
			formatted["mcq_option_text"] = opt.Text
		}
		return formatted
	}
	return nil
}

func optionsJSON(options []model.McqOption) []map[string]any {
	out := make([]map[string]any, 0, len(options))
	for _, opt := range options {
		out = append(out, map[string]any{"id": opt.ID, "text": opt.Text})
	}
	return out
}
