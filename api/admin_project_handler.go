package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/akshay-builds/techkart/database"
	"github.com/akshay-builds/techkart/errs"
	"github.com/akshay-builds/techkart/models"
	"github.com/akshay-builds/techkart/storage"
)

type adminProjectHandler struct {
	responder      Responder
	logger         zerolog.Logger
	projectRepo    *database.ProjectRepo
	imageRepo      *database.ProjectImageRepo
	categoryRepo   *database.TechCategoryRepo
	store          *storage.LocalStore
	maxUploadBytes int64
}

func newAdminProjectHandler(projectRepo *database.ProjectRepo, imageRepo *database.ProjectImageRepo, categoryRepo *database.TechCategoryRepo, store *storage.LocalStore, maxUploadBytes int64) adminProjectHandler {
	logger := log.With().Str("handlerName", "adminProjectHandler").Logger()

	return adminProjectHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		projectRepo:    projectRepo,
		imageRepo:      imageRepo,
		categoryRepo:   categoryRepo,
		store:          store,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h adminProjectHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll()
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("find", "projects", err), "/admin")
			return
		}

		categories, err := h.categoryRepo.FindAll()
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("find", "categories", err), "/admin")
			return
		}

		names := make(map[uint]string, len(categories))
		for _, category := range categories {
			names[category.ID] = category.Name
		}

		rows := make([]adminProjectRow, 0, len(projects))
		for _, project := range projects {
			row := adminProjectRow{Project: project}
			if project.TechCategoryID != nil {
				row.CategoryName = names[*project.TechCategoryID]
			}
			rows = append(rows, row)
		}

		h.responder.Render(w, r, "admin/projects", map[string]any{
			"Title": "Projects",
			"Rows":  rows,
		})
	}
}

func (h adminProjectHandler) newForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll()
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("find", "categories", err), "/admin/projects")
			return
		}

		h.responder.Render(w, r, "admin/project_form", map[string]any{
			"Title":            "New project",
			"Categories":       categories,
			"SelectedCategory": uint(0),
		})
	}
}

// create inserts the project row first to obtain its id, then stores and
// links each allow-listed image. Disallowed files are skipped silently.
func (h adminProjectHandler) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.parseUploadForm(w, r); err != nil {
			h.responder.RedirectError(w, r, err, "/admin/projects/new")
			return
		}

		project, err := projectFromForm(r)
		if err != nil {
			h.responder.RedirectError(w, r, err, "/admin/projects/new")
			return
		}

		if err := h.projectRepo.Add(project); err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("create", "project", err), "/admin/projects/new")
			return
		}

		h.saveImages(project.ID, r.MultipartForm.File["images"])

		h.responder.Flash(w, "success", "Project created")
		h.responder.Redirect(w, r, "/admin/projects")
	}
}

func (h adminProjectHandler) editForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.findProject(r)
		if err != nil {
			h.responder.RedirectError(w, r, err, "/admin/projects")
			return
		}

		categories, err := h.categoryRepo.FindAll()
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("find", "categories", err), "/admin/projects")
			return
		}

		var selected uint
		if project.TechCategoryID != nil {
			selected = *project.TechCategoryID
		}

		h.responder.Render(w, r, "admin/project_form", map[string]any{
			"Title":            "Edit project",
			"Project":          project,
			"Categories":       categories,
			"SelectedCategory": selected,
		})
	}
}

// update overwrites every scalar field unconditionally. A submission
// without a price clears a previously set quote. New images are appended;
// existing ones stay.
func (h adminProjectHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.findProject(r)
		if err != nil {
			h.responder.RedirectError(w, r, err, "/admin/projects")
			return
		}

		if err := h.parseUploadForm(w, r); err != nil {
			h.responder.RedirectError(w, r, err, "/admin/projects")
			return
		}

		submitted, err := projectFromForm(r)
		if err != nil {
			h.responder.RedirectError(w, r, err, "/admin/projects")
			return
		}

		project.Title = submitted.Title
		project.ShortDesc = submitted.ShortDesc
		project.LongDesc = submitted.LongDesc
		project.PriceQuote = submitted.PriceQuote
		project.TechCategoryID = submitted.TechCategoryID

		if err := h.projectRepo.Update(project); err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("update", "project", err), "/admin/projects")
			return
		}

		h.saveImages(project.ID, r.MultipartForm.File["images"])

		h.responder.Flash(w, "success", "Project updated")
		h.responder.Redirect(w, r, "/admin/projects")
	}
}

// delete removes the project and its image rows in one transaction. The
// file deletions are best-effort: a leftover file on disk is acceptable, a
// dangling row is not.
func (h adminProjectHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.findProject(r)
		if err != nil {
			h.responder.RedirectError(w, r, err, "/admin/projects")
			return
		}

		for _, image := range project.Images {
			if err := h.store.Delete(image.Filename); err != nil {
				h.logger.Warn().Err(err).Str("filename", image.Filename).Msg("could not delete image file")
			}
		}

		if err := h.projectRepo.DeleteWithImages(project.ID); err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("delete", "project", err), "/admin/projects")
			return
		}

		h.responder.Flash(w, "info", "Project deleted")
		h.responder.Redirect(w, r, "/admin/projects")
	}
}

func (h adminProjectHandler) deleteImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		imageID, err := parseUintParam(r, "imageID")
		if err != nil {
			h.responder.RedirectError(w, r, errs.NewNotFoundError("image"), "/admin/projects")
			return
		}

		image, err := h.imageRepo.FindByID(imageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.RedirectError(w, r, errs.NewNotFoundError("image"), "/admin/projects")
				return
			}
			h.responder.RedirectError(w, r, errs.NewDatabaseError("find", "image", err), "/admin/projects")
			return
		}

		if err := h.store.Delete(image.Filename); err != nil {
			h.logger.Warn().Err(err).Str("filename", image.Filename).Msg("could not delete image file")
		}

		if err := h.imageRepo.Delete(image.ID); err != nil {
			h.responder.RedirectError(w, r, errs.NewDatabaseError("delete", "image", err), "/admin/projects")
			return
		}

		h.responder.Flash(w, "info", "Image removed")
		h.responder.Redirect(w, r, "/admin/projects")
	}
}

// findProject resolves the projectID route parameter to a loaded project
func (h adminProjectHandler) findProject(r *http.Request) (*models.Project, error) {
	projectID, err := parseUintParam(r, "projectID")
	if err != nil {
		return nil, errs.NewNotFoundError("project")
	}

	project, err := h.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("project")
		}
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return project, nil
}

// parseUploadForm caps the whole multipart payload before anything is
// written to disk.
func (h adminProjectHandler) parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errs.NewPayloadTooLargeError(h.maxUploadBytes)
		}
		return errs.NewValidationError("form", "malformed multipart form")
	}
	return nil
}

// projectFromForm builds a project from the submitted scalar fields
func projectFromForm(r *http.Request) (*models.Project, error) {
	title := strings.TrimSpace(r.PostFormValue("title"))
	techIDRaw := strings.TrimSpace(r.PostFormValue("tech_id"))

	if title == "" || techIDRaw == "" {
		return nil, errs.NewValidationError("title", "Title and Technology are required")
	}

	techID, err := strconv.ParseUint(techIDRaw, 10, 64)
	if err != nil {
		return nil, errs.NewValidationError("tech_id", "Technology must be a valid category")
	}
	categoryID := uint(techID)

	project := &models.Project{
		Title:          title,
		ShortDesc:      strings.TrimSpace(r.PostFormValue("short_desc")),
		LongDesc:       strings.TrimSpace(r.PostFormValue("long_desc")),
		TechCategoryID: &categoryID,
	}

	if raw := strings.TrimSpace(r.PostFormValue("price_quote")); raw != "" {
		price, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errs.NewValidationError("price_quote", "Price quote must be a number")
		}
		project.PriceQuote = &price
	}

	return project, nil
}

// saveImages stores each allow-listed upload and links it to the project.
// Files failing the allow-list or the disk write are skipped, not fatal.
func (h adminProjectHandler) saveImages(projectID uint, files []*multipart.FileHeader) {
	for _, header := range files {
		if header.Filename == "" || !storage.Allowed(header.Filename) {
			continue
		}

		file, err := header.Open()
		if err != nil {
			h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("could not open uploaded file")
			continue
		}

		storedName, err := h.store.Save(projectID, header.Filename, file)
		file.Close()
		if err != nil {
			h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("could not store uploaded file")
			continue
		}

		image := models.ProjectImage{Filename: storedName, ProjectID: projectID}
		if err := h.imageRepo.Add(&image); err != nil {
			h.logger.Error().Err(err).Str("filename", storedName).Msg("could not link uploaded file")
			if err := h.store.Delete(storedName); err != nil {
				h.logger.Warn().Err(err).Str("filename", storedName).Msg("could not remove orphaned file")
			}
		}
	}
}
