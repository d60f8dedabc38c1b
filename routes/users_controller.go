package routes

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/render"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/harendra-pratap/Survey-form/app"
	"github.com/harendra-pratap/Survey-form/httpx"
	"github.com/harendra-pratap/Survey-form/log"
	"github.com/harendra-pratap/Survey-form/model"
	"github.com/harendra-pratap/Survey-form/routes/middlewares"
	"github.com/harendra-pratap/Survey-form/store"
	"github.com/harendra-pratap/Survey-form/validate"
)

type userPayload struct {
	model.User
	Password string `json:"password"`
}

type userBody struct {
	User userPayload `json:"user"`
}

// SignUp creates an account; on success it also issues a first token by
// running the fresh credentials through the oauth password grant.
func SignUp(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := userBody{}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		user := body.User.User

		err := validate.User(user)
		if pwErr := validate.Password(body.User.Password); pwErr != nil {
			err = multierror.Append(err, pwErr)
		}
		if err != nil {
			httpx.LogErrors(w, r, http.StatusUnprocessableEntity, log.DebugLevel, "signup.validate", validate.Messages(err))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.User.Password), bcrypt.DefaultCost)
		if err != nil {
			httpx.LogInternalError(w, "signup.hash_password", err)
			return
		}

		if err := store.InsertUser(r.Context(), app.DB, &user, hash); err != nil {
			if store.IsUniqueViolation(err) {
				httpx.LogErrors(w, r, http.StatusUnprocessableEntity, log.DebugLevel, "signup.unique", []string{uniqueUserMessage(err)})
				return
			}
			httpx.LogInternalError(w, "db.insert_user", err)
			return
		}

		token := issueToken(app, user.Email, body.User.Password)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"message": "User created successfully",
			"user":    user,
			"token":   token,
		})
	}
}

func GetUser(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := store.UserByID(r.Context(), app.DB, middlewares.UserID(r.Context()))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "get_user", "User not found")
				return
			}
			httpx.LogInternalError(w, "db.get_user", err)
			return
		}
		render.JSON(w, r, map[string]any{"user": user})
	}
}

func UpdateUser(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := userBody{}
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		user := body.User.User
		user.ID = middlewares.UserID(r.Context())

		if err := validate.User(user); err != nil {
			httpx.LogErrors(w, r, http.StatusUnprocessableEntity, log.DebugLevel, "update_user.validate", validate.Messages(err))
			return
		}

		if err := store.UpdateUser(r.Context(), app.DB, &user); err != nil {
			switch {
			case store.IsUniqueViolation(err):
				httpx.LogErrors(w, r, http.StatusUnprocessableEntity, log.DebugLevel, "update_user.unique", []string{uniqueUserMessage(err)})
			case errors.Is(err, store.ErrNotFound):
				httpx.LogNotFound(w, r, "update_user", "User not found")
			default:
				httpx.LogInternalError(w, "db.update_user", err)
			}
			return
		}

		render.JSON(w, r, map[string]any{
			"message": "User updated successfully",
			"user":    user,
		})
	}
}

// DeleteUser removes the account; forms and answers cascade with it.
func DeleteUser(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeleteUser(r.Context(), app.DB, middlewares.UserID(r.Context()))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httpx.LogNotFound(w, r, "delete_user", "User not found")
				return
			}
			httpx.LogInternalError(w, "db.delete_user", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// issueToken runs the password grant internally and returns the token
// payload, or nil if the grant failed (the account still exists, the caller
// can log in normally).
func issueToken(app app.App, email, password string) map[string]any {
	body := url.Values{
		"grant_type": {"password"},
		"username":   {email},
		"password":   {password},
	}
	req, err := grantRequest(body)
	if err != nil {
		log.Errorf("signup.token.new_request: %s", err)
		return nil
	}

	resp := httpx.NewResponseBuffer()
	app.UserCredentials(resp, req)
	if resp.Status() != http.StatusOK {
		log.Warnf("signup.token: status %d", resp.Status())
		return nil
	}

	var token map[string]any
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		log.Errorf("signup.token.parse: %s", err)
		return nil
	}
	return token
}

func uniqueUserMessage(err error) string {
	if strings.Contains(err.Error(), "user.full_phone_number") {
		return "Full phone number has already been taken"
	}
	return "Email has already been taken"
}
