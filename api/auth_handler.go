package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/akshay-builds/techkart/auth"
	"github.com/akshay-builds/techkart/database"
	"github.com/akshay-builds/techkart/errs"
	"github.com/akshay-builds/techkart/models"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	sessions  *auth.SessionManager
	userRepo  *database.UserRepo
}

func newAuthHandler(sessions *auth.SessionManager, userRepo *database.UserRepo) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		sessions:  sessions,
		userRepo:  userRepo,
	}
}

func (h authHandler) loginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.Render(w, r, "auth/login", map[string]any{"Title": "Log in"})
	}
}

// login verifies the submitted credentials and establishes the session.
// The rejection message is identical for an unknown email and a wrong
// password.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.responder.RedirectError(w, r, errs.NewValidationError("form", "malformed form"), "/login")
			return
		}

		email := auth.NormalizeEmail(r.PostFormValue("email"))
		password := r.PostFormValue("password")

		user, err := h.userRepo.FindByEmail(email)
		if err != nil || !auth.CheckPassword(user.PasswordHash, password) {
			h.responder.RedirectError(w, r, errs.NewInvalidCredentialsError(), "/login")
			return
		}

		if err := h.sessions.Issue(w, user.ID); err != nil {
			h.responder.RedirectError(w, r, errs.NewInternalErrorWithCause("could not establish session", err), "/login")
			return
		}

		h.responder.Flash(w, "success", "Logged in successfully.")
		h.responder.Redirect(w, r, "/")
	}
}

func (h authHandler) registerForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.Render(w, r, "auth/register", map[string]any{"Title": "Register"})
	}
}

func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.responder.RedirectError(w, r, errs.NewValidationError("form", "malformed form"), "/register")
			return
		}

		name := r.PostFormValue("name")
		email := auth.NormalizeEmail(r.PostFormValue("email"))
		password := r.PostFormValue("password")

		if email == "" || password == "" {
			h.responder.RedirectError(w, r, errs.NewValidationError("email", "email and password are required"), "/register")
			return
		}

		if _, err := h.userRepo.FindByEmail(email); err == nil {
			h.responder.RedirectError(w, r, errs.NewDuplicateEmailError(email), "/register")
			return
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewInternalErrorWithCause("could not hash password", err), "/register")
			return
		}

		user := models.User{Name: name, Email: email, PasswordHash: hash}
		if err := h.userRepo.Add(&user); err != nil {
			// Two concurrent registrations can both pass the existence
			// check; the unique index decides, and the loser lands here.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				h.responder.RedirectError(w, r, errs.NewDuplicateEmailError(email), "/register")
				return
			}
			h.responder.RedirectError(w, r, errs.NewDatabaseError("create", "user", err), "/register")
			return
		}

		h.responder.Flash(w, "success", "Registration successful. Please log in.")
		h.responder.Redirect(w, r, "/login")
	}
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.Clear(w)
		h.responder.Flash(w, "info", "Logged out.")
		h.responder.Redirect(w, r, "/")
	}
}
