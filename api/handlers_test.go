package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/akshay-builds/techkart/auth"
	"github.com/akshay-builds/techkart/database"
	"github.com/akshay-builds/techkart/models"
	"github.com/akshay-builds/techkart/storage"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type testEnv struct {
	router *chi.Mux
	db     database.Database
	store  *storage.LocalStore
}

func newTestEnv(t *testing.T, conf map[string]string) *testEnv {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gormDB))
	require.NoError(t, database.Seed(gormDB, "admin@example.com", "admin123"))

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	sessions := auth.NewSessionManager("test-secret", time.Hour)
	db := database.New(gormDB)
	if conf == nil {
		conf = map[string]string{}
	}

	return &testEnv{
		router: newRouter(db, store, sessions, withConfig(conf), withStartupTime(time.Now())),
		db:     db,
		store:  store,
	}
}

func (e *testEnv) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), cookies)
}

func (e *testEnv) postForm(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, cookies)
}

// login authenticates and returns the session cookie for follow-up requests.
func (e *testEnv) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	rec := e.postForm("/login", url.Values{"email": {email}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Result().Header.Get("Location"))

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.SessionCookie {
			return []*http.Cookie{cookie}
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

// popFlashCookie decodes the queued notice a handler left on the response.
func popFlashCookie(t *testing.T, rec *httptest.ResponseRecorder) (category, message string) {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == flashCookie && cookie.MaxAge >= 0 && cookie.Value != "" {
			raw, err := url.QueryUnescape(cookie.Value)
			require.NoError(t, err)
			category, message, _ = strings.Cut(raw, "|")
			return category, message
		}
	}
	return "", ""
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for name, content := range files {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.postForm("/register", url.Values{
		"name":     {"Priya"},
		"email":    {"Priya@Example.com"},
		"password": {"hunter2"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Result().Header.Get("Location"))
	category, message := popFlashCookie(t, rec)
	assert.Equal(t, "success", category)
	assert.Equal(t, "Registration successful. Please log in.", message)

	// The address is stored lowercased, so either casing logs in.
	cookies := env.login(t, "priya@example.com", "hunter2")

	rec = env.get("/", cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Priya")
}

func TestRegisterDuplicateEmailAnyCase(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.postForm("/register", url.Values{
		"name":     {"First"},
		"email":    {"taken@example.com"},
		"password": {"pw"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.postForm("/register", url.Values{
		"name":     {"Second"},
		"email":    {"TAKEN@Example.COM"},
		"password": {"pw"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/register", rec.Result().Header.Get("Location"))
	category, _ := popFlashCookie(t, rec)
	assert.Equal(t, "warning", category)

	count, err := env.db.UserRepo().Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count) // seeded admin + first registration
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.postForm("/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"wrong"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Result().Header.Get("Location"))
	category, _ := popFlashCookie(t, rec)
	assert.Equal(t, "danger", category)

	for _, cookie := range rec.Result().Cookies() {
		assert.NotEqual(t, auth.SessionCookie, cookie.Name)
	}
}

func TestAdminRequiresLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get("/admin/", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Result().Header.Get("Location"))
	category, _ := popFlashCookie(t, rec)
	assert.Equal(t, "danger", category)
}

func TestAdminForbiddenForRegularUser(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.postForm("/register", url.Values{
		"name":     {"User"},
		"email":    {"user@example.com"},
		"password": {"pw"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := env.login(t, "user@example.com", "pw")

	rec = env.get("/admin/", cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Result().Header.Get("Location"))
}

func TestInquiryRequiresLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.postForm("/other", url.Values{"details": {"need a site"}}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Result().Header.Get("Location"))

	inquiries, err := env.db.InquiryRepo().Count()
	require.NoError(t, err)
	assert.Zero(t, inquiries)
}

func TestBlankInquiryRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	cookies := env.login(t, "admin@example.com", "admin123")

	rec := env.postForm("/other", url.Values{"details": {"   "}}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/other", rec.Result().Header.Get("Location"))
	category, message := popFlashCookie(t, rec)
	assert.Equal(t, "warning", category)
	assert.Equal(t, "Please provide details.", message)

	inquiries, err := env.db.InquiryRepo().Count()
	require.NoError(t, err)
	assert.Zero(t, inquiries)
}

func TestInquirySubmitted(t *testing.T) {
	env := newTestEnv(t, nil)
	cookies := env.login(t, "admin@example.com", "admin123")

	rec := env.postForm("/other", url.Values{"details": {"Dashboard for my shop"}}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Result().Header.Get("Location"))

	inquiries, err := env.db.InquiryRepo().FindAll()
	require.NoError(t, err)
	require.Len(t, inquiries, 1)
	assert.Equal(t, "Dashboard for my shop", inquiries[0].Details)
	require.NotNil(t, inquiries[0].UserID)
}

func TestOtherCategoryRedirectsToInquiry(t *testing.T) {
	env := newTestEnv(t, nil)

	other, err := env.db.TechCategoryRepo().FindByName(models.OtherCategoryName)
	require.NoError(t, err)

	rec := env.get(fmt.Sprintf("/tech/%d", other.ID), nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/other", rec.Result().Header.Get("Location"))
}

func TestUnknownCategoryRedirectsHome(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get("/tech/99999", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Result().Header.Get("Location"))
	category, _ := popFlashCookie(t, rec)
	assert.Equal(t, "warning", category)
}

func TestToggleLanguageHidesItFromIndex(t *testing.T) {
	env := newTestEnv(t, nil)
	cookies := env.login(t, "admin@example.com", "admin123")

	rec := env.get("/", nil)
	require.Contains(t, rec.Body.String(), "Python")

	python, err := env.db.TechCategoryRepo().FindByName("Python")
	require.NoError(t, err)

	rec = env.get(fmt.Sprintf("/admin/languages/%d/toggle", python.ID), cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.get("/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Python")
}

func TestCreateDuplicateLanguage(t *testing.T) {
	env := newTestEnv(t, nil)
	cookies := env.login(t, "admin@example.com", "admin123")

	rec := env.postForm("/admin/languages", url.Values{"name": {"Python"}}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	category, _ := popFlashCookie(t, rec)
	assert.Equal(t, "warning", category)
}

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)
	cookies := env.login(t, "admin@example.com", "admin123")

	// New language for the project to live under.
	rec := env.postForm("/admin/languages", url.Values{"name": {"Rust"}}, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rust, err := env.db.TechCategoryRepo().FindByName("Rust")
	require.NoError(t, err)

	// One allow-listed image, one file that must be skipped silently.
	body, contentType := multipartBody(t,
		map[string]string{
			"title":       "Parser",
			"short_desc":  "A streaming parser",
			"long_desc":   "Parses very large inputs without loading them.",
			"price_quote": "500",
			"tech_id":     fmt.Sprintf("%d", rust.ID),
		},
		map[string]string{
			"photo.png": "png-bytes",
			"notes.txt": "not an image",
		},
	)
	req := httptest.NewRequest(http.MethodPost, "/admin/projects/new", body)
	req.Header.Set("Content-Type", contentType)
	rec = env.do(req, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/projects", rec.Result().Header.Get("Location"))

	projects, err := env.db.ProjectRepo().FindByCategory(rust.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	project := projects[0]
	assert.Equal(t, "Parser", project.Title)
	require.NotNil(t, project.PriceQuote)
	assert.Equal(t, 500, *project.PriceQuote)
	require.Len(t, project.Images, 1)

	entries, err := os.ReadDir(env.store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// Visible to visitors.
	rec = env.get(fmt.Sprintf("/tech/%d", rust.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Parser")

	// Deleting the project with its image still on disk removes the rows
	// and the stored file.
	rec = env.postForm(fmt.Sprintf("/admin/projects/%d/delete", project.ID), nil, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	_, err = env.db.ProjectRepo().FindByID(project.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	images, err := env.db.ProjectImageRepo().FindByProject(project.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
	entries, err = os.ReadDir(env.store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)

	rec = env.get(fmt.Sprintf("/tech/%d", rust.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Parser")
}

func TestDeleteImageRemovesFile(t *testing.T) {
	env := newTestEnv(t, nil)
	cookies := env.login(t, "admin@example.com", "admin123")

	project := &models.Project{Title: "Gallery"}
	require.NoError(t, env.db.ProjectRepo().Add(project))
	name, err := env.store.Save(project.ID, "shot.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	image := &models.ProjectImage{Filename: name, ProjectID: project.ID}
	require.NoError(t, env.db.ProjectImageRepo().Add(image))

	rec := env.postForm(fmt.Sprintf("/admin/images/%d/delete", image.ID), nil, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	images, err := env.db.ProjectImageRepo().FindByProject(project.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
	entries, err := os.ReadDir(env.store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProjectUpdateClearsPrice(t *testing.T) {
	env := newTestEnv(t, nil)
	cookies := env.login(t, "admin@example.com", "admin123")

	rec := env.postForm("/admin/languages", url.Values{"name": {"Go"}}, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	goCategory, err := env.db.TechCategoryRepo().FindByName("Go")
	require.NoError(t, err)

	price := 250
	project := &models.Project{Title: "CLI", PriceQuote: &price, TechCategoryID: &goCategory.ID}
	require.NoError(t, env.db.ProjectRepo().Add(project))

	// Resubmitting without a price clears the stored quote.
	body, contentType := multipartBody(t, map[string]string{
		"title":   "CLI",
		"tech_id": fmt.Sprintf("%d", goCategory.ID),
	}, nil)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/projects/%d/edit", project.ID), body)
	req.Header.Set("Content-Type", contentType)
	rec = env.do(req, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	updated, err := env.db.ProjectRepo().FindByID(project.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.PriceQuote)
}

func TestProjectCreateMissingTitle(t *testing.T) {
	env := newTestEnv(t, nil)
	cookies := env.login(t, "admin@example.com", "admin123")

	body, contentType := multipartBody(t, map[string]string{
		"title":   "",
		"tech_id": "1",
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/admin/projects/new", body)
	req.Header.Set("Content-Type", contentType)
	rec := env.do(req, cookies)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/projects/new", rec.Result().Header.Get("Location"))
	category, message := popFlashCookie(t, rec)
	assert.Equal(t, "warning", category)
	assert.Equal(t, "Title and Technology are required", message)

	count, err := env.db.ProjectRepo().Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUploadOverCapRejected(t *testing.T) {
	env := newTestEnv(t, map[string]string{"MAX_UPLOAD_BYTES": "512"})
	cookies := env.login(t, "admin@example.com", "admin123")

	body, contentType := multipartBody(t,
		map[string]string{"title": "Big", "tech_id": "1"},
		map[string]string{"huge.png": strings.Repeat("x", 4096)},
	)
	req := httptest.NewRequest(http.MethodPost, "/admin/projects/new", body)
	req.Header.Set("Content-Type", contentType)
	rec := env.do(req, cookies)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/projects/new", rec.Result().Header.Get("Location"))
	category, _ := popFlashCookie(t, rec)
	assert.Equal(t, "warning", category)

	count, err := env.db.ProjectRepo().Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDashboardShowsCountsAndUptime(t *testing.T) {
	env := newTestEnv(t, nil)
	cookies := env.login(t, "admin@example.com", "admin123")

	require.NoError(t, env.db.InquiryRepo().Add(&models.Inquiry{Details: "anything"}))

	rec := env.get("/admin/", cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Inquiries")
	assert.Contains(t, body, "Up 0s") // rounded to the second, just started
}

func TestServeUploadedImage(t *testing.T) {
	env := newTestEnv(t, nil)

	name, err := env.store.Save(9, "pic.png", strings.NewReader("the-bytes"))
	require.NoError(t, err)

	rec := env.get("/uploads/"+name, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "the-bytes", rec.Body.String())
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, nil)
	cookies := env.login(t, "admin@example.com", "admin123")

	rec := env.get("/logout", cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Result().Header.Get("Location"))

	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.SessionCookie {
			cleared = cookie.MaxAge < 0
		}
	}
	assert.True(t, cleared)
}
