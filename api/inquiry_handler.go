package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/akshay-builds/techkart/database"
	"github.com/akshay-builds/techkart/errs"
	"github.com/akshay-builds/techkart/models"
)

type inquiryHandler struct {
	responder   Responder
	logger      zerolog.Logger
	inquiryRepo *database.InquiryRepo
}

func newInquiryHandler(inquiryRepo *database.InquiryRepo) inquiryHandler {
	logger := log.With().Str("handlerName", "inquiryHandler").Logger()

	return inquiryHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		inquiryRepo: inquiryRepo,
	}
}

func (h inquiryHandler) form() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.Render(w, r, "client/other_request", map[string]any{"Title": "Custom request"})
	}
}

// submit records a free-text custom requirement for the logged-in visitor.
// The category reference stays unset: this is the general inquiry flow.
func (h inquiryHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxGetUser(r.Context())

		if err := r.ParseForm(); err != nil {
			h.responder.RedirectError(w, r, errs.NewValidationError("form", "malformed form"), "/other")
			return
		}

		details := strings.TrimSpace(r.PostFormValue("details"))
		if details == "" {
			h.responder.RedirectError(w, r, errs.NewValidationError("details", "Please provide details."), "/other")
			return
		}

		inquiry := models.Inquiry{UserID: &user.ID, Details: details}
		if err := h.inquiryRepo.Add(&inquiry); err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("create", "inquiry", err), "/other")
			return
		}

		h.responder.Flash(w, "success", "Thanks! We received your requirement. We will reach out with a quotation.")
		h.responder.Redirect(w, r, "/")
	}
}
