package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harendra-pratap/Survey-form/app"
	"github.com/harendra-pratap/Survey-form/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/signup", SignUp(app))
	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	authenticated := middlewares.Authenticated(app.TokenSecret)

	api.Route("/users", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", GetUser(app))
		r.Put("/", UpdateUser(app))
		r.Delete("/", DeleteUser(app))
	})

	api.Route("/survey_forms", func(r chi.Router) {
		r.Get(`/{id:^\d+$}`, GetSurveyForm(app))

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Post("/", CreateSurveyForm(app))
			r.Put(`/{id:^\d+$}`, UpdateSurveyForm(app))
			r.Delete(`/{id:^\d+$}`, DeleteSurveyForm(app))
		})
	})

	api.Route("/answers", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", ListAnswers(app))
		r.Post("/", CreateAnswers(app))
		r.Put("/", UpdateAnswers(app))
		r.Get(`/download_csv/{survey_form_id:^\d+$}`, DownloadCSV(app))
		r.Get(`/{id:^\d+$}`, GetFormAnswers(app))
		r.Delete(`/{id:^\d+$}`, DeleteAnswer(app))
	})

	return api
}
