package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/akshay-builds/techkart/database"
	"github.com/akshay-builds/techkart/errs"
	"github.com/akshay-builds/techkart/storage"
)

type catalogHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.TechCategoryRepo
	projectRepo  *database.ProjectRepo
}

func newCatalogHandler(categoryRepo *database.TechCategoryRepo, projectRepo *database.ProjectRepo) catalogHandler {
	logger := log.With().Str("handlerName", "catalogHandler").Logger()

	return catalogHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: categoryRepo,
		projectRepo:  projectRepo,
	}
}

// index lists the active categories, name ascending
func (h catalogHandler) index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindActive()
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("find", "categories", err), "/")
			return
		}

		h.responder.Render(w, r, "client/index", map[string]any{
			"Title":      "Home",
			"Categories": categories,
		})
	}
}

// categoryProjects lists one category's projects newest first, or sends
// browsers of the "Other" sentinel to the inquiry flow.
func (h catalogHandler) categoryProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := parseUintParam(r, "categoryID")
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewNotFoundError("category"), "/")
			return
		}

		category, err := h.categoryRepo.FindByID(categoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.RedirectError(w, r, errs.NewNotFoundError("category"), "/")
				return
			}
			h.responder.RedirectError(w, r, errs.NewDatabaseError("find", "category", err), "/")
			return
		}

		if category.IsOther() {
			h.responder.Redirect(w, r, "/other")
			return
		}

		projects, err := h.projectRepo.FindByCategory(category.ID)
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("find", "projects", err), "/")
			return
		}

		h.responder.Render(w, r, "client/projects", map[string]any{
			"Title":    category.Name,
			"Category": category,
			"Projects": projects,
		})
	}
}

type uploadHandler struct {
	store *storage.LocalStore
}

func newUploadHandler(store *storage.LocalStore) uploadHandler {
	return uploadHandler{store: store}
}

// serve streams a stored image back by its on-disk name
func (h uploadHandler) serve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.store.ServeHTTP(w, r, chi.URLParam(r, "filename"))
	}
}

// parseUintParam reads a numeric chi route parameter
func parseUintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
