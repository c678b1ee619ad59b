package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/akshay-builds/techkart/database"
	"github.com/akshay-builds/techkart/errs"
	"github.com/akshay-builds/techkart/models"
)

type adminHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.TechCategoryRepo
	userRepo     *database.UserRepo
	projectRepo  *database.ProjectRepo
	inquiryRepo  *database.InquiryRepo
	startupTime  time.Time
}

func newAdminHandler(categoryRepo *database.TechCategoryRepo, userRepo *database.UserRepo, projectRepo *database.ProjectRepo, inquiryRepo *database.InquiryRepo, startupTime time.Time) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		projectRepo:  projectRepo,
		inquiryRepo:  inquiryRepo,
		startupTime:  startupTime,
	}
}

// dashboard shows the aggregate counts. Plain reads, no caching.
func (h adminHandler) dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totalUsers, err := h.userRepo.Count()
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("count", "users", err), "/")
			return
		}
		totalProjects, err := h.projectRepo.Count()
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("count", "projects", err), "/")
			return
		}
		totalInquiries, err := h.inquiryRepo.Count()
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("count", "inquiries", err), "/")
			return
		}

		h.responder.Render(w, r, "admin/dashboard", map[string]any{
			"Title":          "Dashboard",
			"TotalUsers":     totalUsers,
			"TotalProjects":  totalProjects,
			"TotalInquiries": totalInquiries,
			"Uptime":         time.Since(h.startupTime).Round(time.Second),
		})
	}
}

func (h adminHandler) languages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll()
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("find", "categories", err), "/admin")
			return
		}

		h.responder.Render(w, r, "admin/languages", map[string]any{
			"Title":      "Tech categories",
			"Categories": categories,
		})
	}
}

func (h adminHandler) createLanguage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.responder.RedirectError(w, r, errs.NewValidationError("form", "malformed form"), "/admin/languages")
			return
		}

		name := strings.TrimSpace(r.PostFormValue("name"))
		description := r.PostFormValue("description")
		isActive := r.PostFormValue("is_active") != ""

		if name == "" {
			h.responder.RedirectError(w, r, errs.NewValidationError("name", "Language name required"), "/admin/languages")
			return
		}

		if _, err := h.categoryRepo.FindByName(name); err == nil {
			h.responder.RedirectError(w, r, errs.NewDuplicateNameError("language", name), "/admin/languages")
			return
		}

		category := models.TechCategory{Name: name, Description: description, IsActive: isActive}
		if err := h.categoryRepo.Add(&category); err != nil {
			// The existence check above can race with another create; the
			// unique index reports the conflict instead of crashing.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				h.responder.RedirectError(w, r, errs.NewDuplicateNameError("language", name), "/admin/languages")
				return
			}
			h.responder.RedirectError(w, r, errs.NewDatabaseError("create", "category", err), "/admin/languages")
			return
		}

		h.responder.Flash(w, "success", "Language added")
		h.responder.Redirect(w, r, "/admin/languages")
	}
}

func (h adminHandler) toggleLanguage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := parseUintParam(r, "categoryID")
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewNotFoundError("category"), "/admin/languages")
			return
		}

		category, err := h.categoryRepo.FindByID(categoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.RedirectError(w, r, errs.NewNotFoundError("category"), "/admin/languages")
				return
			}
			h.responder.RedirectError(w, r, errs.NewDatabaseError("find", "category", err), "/admin/languages")
			return
		}

		category.IsActive = !category.IsActive
		if err := h.categoryRepo.Update(category); err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("update", "category", err), "/admin/languages")
			return
		}

		h.responder.Flash(w, "info", "Language visibility updated")
		h.responder.Redirect(w, r, "/admin/languages")
	}
}
