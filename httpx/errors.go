package httpx

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/harendra-pratap/Survey-form/log"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send a 404 response with a JSON error body
func LogNotFound(w http.ResponseWriter, r *http.Request, code string, msg string) {
	log.Debugf("%s: not found", code)
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, map[string]any{"error": msg})
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code at the given level, and send a JSON error body
func LogError(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string, msg string) {
	log.Log(level, code+":", msg)
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": msg})
}

// Will log an error code at the given level, and send a JSON errors array
func LogErrors(w http.ResponseWriter, r *http.Request, status int, level log.Level, code string, errs any) {
	log.Logf(level, "%s: %v", code, errs)
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"errors": errs})
}
