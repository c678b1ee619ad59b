package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akshay-builds/techkart/errs"
)

//go:embed templates
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS,
	"templates/*.html", "templates/*/*.html"))

// flashCookie carries a one-shot notice between a redirect and the next
// rendered page.
const flashCookie = "techkart_flash"

type Flash struct {
	Category string
	Message  string
}

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// Flash queues a notice for the next rendered page.
func (r Responder) Flash(w http.ResponseWriter, category, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash consumes the queued notice, if any.
func popFlash(w http.ResponseWriter, req *http.Request) *Flash {
	cookie, err := req.Cookie(flashCookie)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	category, message, found := strings.Cut(raw, "|")
	if !found || message == "" {
		return nil
	}
	return &Flash{Category: category, Message: message}
}

// Render executes the named page template. The session user and any queued
// flash notice are injected alongside the handler's data.
func (r Responder) Render(w http.ResponseWriter, req *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["User"] = ctxGetUser(req.Context())
	data["Flash"] = popFlash(w, req)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		r.logger.Error().Err(err).Str("template", name).Msg("error rendering template")
	}
}

// Redirect sends the browser to the given location.
func (r Responder) Redirect(w http.ResponseWriter, req *http.Request, location string) {
	http.Redirect(w, req, location, http.StatusSeeOther)
}

// RedirectError converts a taxonomy error into a flash notice plus a
// redirect to a sensible prior page. Unexpected errors log and render a
// bare 500; they never crash the process.
func (r Responder) RedirectError(w http.ResponseWriter, req *http.Request, err error, fallback string) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error at request boundary")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	r.Flash(w, flashCategory(apiErr.StatusCode), apiErr.Notice())
	r.Redirect(w, req, fallback)
}

// flashCategory maps an error status onto the notice style the templates
// understand.
func flashCategory(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "danger"
	case status >= 400 && status < 500:
		return "warning"
	default:
		return "danger"
	}
}
