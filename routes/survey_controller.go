package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/harendra-pratap/Survey-form/app"
	"github.com/harendra-pratap/Survey-form/httpx"
	"github.com/harendra-pratap/Survey-form/log"
	"github.com/harendra-pratap/Survey-form/model"
	"github.com/harendra-pratap/Survey-form/routes/middlewares"
	"github.com/harendra-pratap/Survey-form/store"
	"github.com/harendra-pratap/Survey-form/validate"
)

type surveyFormBody struct {
	SurveyForm model.SurveyForm `json:"survey_form"`
}

// CreateSurveyForm persists a whole form aggregate (form, questions, mcq
// options) in one transaction.
func CreateSurveyForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := surveyFormBody{}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		form := body.SurveyForm

		if err := validate.Form(form); err != nil {
			httpx.LogErrors(w, r, http.StatusUnprocessableEntity, log.DebugLevel, "create_survey_form.validate", validate.Messages(err))
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		if err := store.InsertForm(r.Context(), tx, middlewares.UserID(r.Context()), &form); err != nil {
			httpx.LogInternalError(w, "db.insert_survey_form", err)
			return
		}

		if err := tx.Commit(); err != nil {
			httpx.LogInternalError(w, "db.insert_survey_form.commit", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"message":     "Survey form created successfully",
			"survey_form": form,
		})
	}
}

func GetSurveyForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		form, err := store.FormWithQuestions(r.Context(), app.DB, formID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "get_survey_form", "Survey form not found")
				return
			}
			httpx.LogInternalError(w, "db.get_survey_form", err)
			return
		}

		render.JSON(w, r, map[string]any{"survey_form": form})
	}
}

// UpdateSurveyForm edits the aggregate: the stored children are diffed
// against the payload, all inside one transaction. Only the owner may edit;
// someone else's form reads as not found.
func UpdateSurveyForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		body := surveyFormBody{}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		form := body.SurveyForm
		form.ID = formID

		existing, err := store.FormByID(r.Context(), app.DB, formID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			httpx.LogInternalError(w, "db.get_survey_form", err)
			return
		}
		if existing == nil || existing.UserID != middlewares.UserID(r.Context()) {
			httpx.LogNotFound(w, r, "update_survey_form", "Survey form not found")
			return
		}

		if err := validate.Form(form); err != nil {
			httpx.LogErrors(w, r, http.StatusUnprocessableEntity, log.DebugLevel, "update_survey_form.validate", validate.Messages(err))
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		if err := store.SaveForm(r.Context(), tx, &form); err != nil {
			httpx.LogInternalError(w, "db.update_survey_form", err)
			return
		}

		if err := tx.Commit(); err != nil {
			httpx.LogInternalError(w, "db.update_survey_form.commit", err)
			return
		}

		saved, err := store.FormWithQuestions(r.Context(), app.DB, formID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey_form", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"message":     "Survey form updated successfully",
			"survey_form": saved,
		})
	}
}

// DeleteSurveyForm removes the form; questions, options and answers cascade.
func DeleteSurveyForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		form, err := store.FormByID(r.Context(), app.DB, formID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			httpx.LogInternalError(w, "db.get_survey_form", err)
			return
		}
		if form == nil || form.UserID != middlewares.UserID(r.Context()) {
			httpx.LogNotFound(w, r, "delete_survey_form", "Survey form not found")
			return
		}

		if err := store.DeleteForm(r.Context(), app.DB, formID); err != nil {
			httpx.LogInternalError(w, "db.delete_survey_form", err)
			return
		}

		render.JSON(w, r, map[string]any{"message": "Survey form deleted successfully"})
	}
}
