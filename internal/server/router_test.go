package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"clientdesk/internal/config"
	"clientdesk/internal/models"
	"clientdesk/internal/testutil"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	cfg := &config.Config{
		SessionSecret: "test-secret",
		UploadDir:     t.TempDir(),
	}
	r, err := NewRouter(cfg, db)
	require.NoError(t, err)
	return r, db, cfg
}

func login(t *testing.T, r *gin.Engine, email string) []*http.Cookie {
	t.Helper()

	form := url.Values{"email": {email}, "password": {testutil.Password}}
	w := do(r, http.MethodPost, "/login", strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return w.Result().Cookies()
}

func do(r *gin.Engine, method, path string, body io.Reader, contentType string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(r *gin.Engine, method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	return do(r, method, path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", cookies)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()

	out := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func clientForm(name, email string) url.Values {
	return url.Values{
		"name":    {name},
		"email":   {email},
		"phone":   {"555-0100"},
		"company": {name + " Co"},
		"address": {"1 Main St"},
		"status":  {"active"},
	}
}

func TestHealthEndpoint(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := do(r, http.MethodGet, "/health", nil, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	r, _, _ := newTestServer(t)

	for _, path := range []string{"/dashboard", "/clients", "/projects", "/audit"} {
		w := do(r, http.MethodGet, path, nil, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r, db, _ := newTestServer(t)
	testutil.SeedUser(t, db, "admin@example.com", models.RoleAdmin)

	form := url.Values{"email": {"admin@example.com"}, "password": {"wrong"}}
	w := doForm(r, http.MethodPost, "/login", form, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterCreatesRegularUser(t *testing.T) {
	r, db, _ := newTestServer(t)

	form := url.Values{
		"name":     {"New Person"},
		"email":    {"new@example.com"},
		"password": {testutil.Password},
	}
	w := doForm(r, http.MethodPost, "/register", form, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Where("email = ?", "new@example.com").First(&user).Error)
	assert.Equal(t, models.RoleUser, user.Role)

	// the new credentials work
	login(t, r, "new@example.com")
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	r, _, _ := newTestServer(t)

	form := url.Values{
		"name":     {"New Person"},
		"email":    {"new@example.com"},
		"password": {"short"},
	}
	w := doForm(r, http.MethodPost, "/register", form, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	r, db, _ := newTestServer(t)
	testutil.SeedUser(t, db, "admin@example.com", models.RoleAdmin)
	cookies := login(t, r, "admin@example.com")

	w := do(r, http.MethodPost, "/logout", nil, "", cookies)
	require.Equal(t, http.StatusNoContent, w.Code)

	// the cleared session cookie replaces the authenticated one
	w = do(r, http.MethodGet, "/dashboard", nil, "", w.Result().Cookies())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegularUserCannotManageClients(t *testing.T) {
	r, db, _ := newTestServer(t)
	testutil.SeedUser(t, db, "user@example.com", models.RoleUser)
	cookies := login(t, r, "user@example.com")

	w := do(r, http.MethodGet, "/clients", nil, "", cookies)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doForm(r, http.MethodPost, "/clients", clientForm("Acme", "acme@example.com"), cookies)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClientLifecycleOverHTTP(t *testing.T) {
	r, db, _ := newTestServer(t)
	testutil.SeedUser(t, db, "admin@example.com", models.RoleAdmin)
	cookies := login(t, r, "admin@example.com")

	w := doForm(r, http.MethodPost, "/clients", clientForm("Acme", "acme@example.com"), cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Client struct {
			ID     uint   `json:"id"`
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"client"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Acme", created.Client.Name)
	assert.Equal(t, "active", created.Client.Status)
	id := created.Client.ID

	w = do(r, http.MethodGet, "/clients", nil, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "acme@example.com")

	update := clientForm("Acme Renamed", "acme@example.com")
	update.Set("status", "inactive")
	w = doForm(r, http.MethodPut, fmt.Sprintf("/clients/%d", id), update, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Acme Renamed")

	w = do(r, http.MethodDelete, fmt.Sprintf("/clients/%d", id), nil, "", cookies)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, fmt.Sprintf("/clients/%d", id), nil, "", cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// trashed rows stay reachable through the listing filter
	w = do(r, http.MethodGet, "/clients?trashed=1", nil, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deleted_at")
}

func TestClientValidationFailureReturns422(t *testing.T) {
	r, db, _ := newTestServer(t)
	testutil.SeedUser(t, db, "admin@example.com", models.RoleAdmin)
	cookies := login(t, r, "admin@example.com")

	form := url.Values{"name": {"Acme"}, "email": {"not-an-email"}, "status": {"bogus"}}
	w := doForm(r, http.MethodPost, "/clients", form, cookies)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decode(t, w)
	var fields map[string][]string
	require.NoError(t, json.Unmarshal(body["errors"], &fields))
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "phone")

	var count int64
	require.NoError(t, db.Model(&models.Client{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestClientProjectsEndpoint(t *testing.T) {
	r, db, _ := newTestServer(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", models.RoleAdmin)
	client := testutil.SeedClient(t, db, "Acme", "acme@example.com")
	other := testutil.SeedClient(t, db, "Other", "other@example.com")
	testutil.SeedProject(t, db, client.ID, admin.ID, "Relaunch")
	testutil.SeedProject(t, db, other.ID, admin.ID, "Elsewhere")
	cookies := login(t, r, "admin@example.com")

	w := do(r, http.MethodGet, fmt.Sprintf("/clients/%d/projects", client.ID), nil, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Relaunch")
	assert.NotContains(t, w.Body.String(), "Elsewhere")

	w = do(r, http.MethodGet, "/clients/999/projects", nil, "", cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectListingIsScopedPerCaller(t *testing.T) {
	r, db, _ := newTestServer(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", models.RoleAdmin)
	owner := testutil.SeedUser(t, db, "owner@example.com", models.RoleUser)
	client := testutil.SeedClient(t, db, "Acme", "acme@example.com")
	testutil.SeedProject(t, db, client.ID, admin.ID, "Admin project")
	testutil.SeedProject(t, db, client.ID, owner.ID, "Owner project")

	type listing struct {
		Projects []struct {
			Title string `json:"title"`
		} `json:"projects"`
		Can struct {
			DeleteProject bool `json:"delete_project"`
		} `json:"can"`
	}

	cookies := login(t, r, "owner@example.com")
	w := do(r, http.MethodGet, "/projects", nil, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var own listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &own))
	require.Len(t, own.Projects, 1)
	assert.Equal(t, "Owner project", own.Projects[0].Title)
	assert.False(t, own.Can.DeleteProject)

	cookies = login(t, r, "admin@example.com")
	w = do(r, http.MethodGet, "/projects", nil, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var all listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all.Projects, 2)
	assert.True(t, all.Can.DeleteProject)
}

func TestProjectUpdateStoresAttachment(t *testing.T) {
	r, db, cfg := newTestServer(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", models.RoleUser)
	client := testutil.SeedClient(t, db, "Acme", "acme@example.com")
	project := testutil.SeedProject(t, db, client.ID, owner.ID, "Relaunch")
	cookies := login(t, r, "owner@example.com")

	var body strings.Builder
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("client_id", fmt.Sprint(client.ID)))
	require.NoError(t, mw.WriteField("user_id", fmt.Sprint(owner.ID)))
	require.NoError(t, mw.WriteField("title", "Relaunch v2"))
	require.NoError(t, mw.WriteField("status", "in_progress"))
	part, err := mw.CreateFormFile("file", "brief.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := do(r, http.MethodPut, fmt.Sprintf("/projects/%d", project.ID),
		strings.NewReader(body.String()), mw.FormDataContentType(), cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "brief.pdf")

	var file models.File
	require.NoError(t, db.Where("fileable_type = ? AND fileable_id = ?", "projects", project.ID).
		First(&file).Error)
	assert.Equal(t, "brief.pdf", file.OriginalName)
	assert.Equal(t, int64(len("%PDF-1.4 fake")), file.Size)

	_, statErr := os.Stat(filepath.Join(cfg.UploadDir, file.Path))
	assert.NoError(t, statErr)

	var stored models.Project
	require.NoError(t, db.First(&stored, project.ID).Error)
	assert.Equal(t, "Relaunch v2", stored.Title)
	assert.Equal(t, models.StatusInProgress, stored.Status)
}

func TestProjectDeleteForbiddenForRegularUser(t *testing.T) {
	r, db, _ := newTestServer(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", models.RoleUser)
	client := testutil.SeedClient(t, db, "Acme", "acme@example.com")
	project := testutil.SeedProject(t, db, client.ID, owner.ID, "Mine")
	cookies := login(t, r, "owner@example.com")

	w := do(r, http.MethodDelete, fmt.Sprintf("/projects/%d", project.ID), nil, "", cookies)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectValidationFailureReturns422(t *testing.T) {
	r, db, _ := newTestServer(t)
	testutil.SeedUser(t, db, "owner@example.com", models.RoleUser)
	cookies := login(t, r, "owner@example.com")

	form := url.Values{"title": {"T"}, "status": {"pending"}, "client_id": {"999"}, "user_id": {"998"}}
	w := doForm(r, http.MethodPost, "/projects", form, cookies)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decode(t, w)
	var fields map[string][]string
	require.NoError(t, json.Unmarshal(body["errors"], &fields))
	assert.Equal(t, []string{"does not exist"}, fields["client_id"])
}

func TestAuditTrailIsRecordedAndRestricted(t *testing.T) {
	r, db, _ := newTestServer(t)
	testutil.SeedUser(t, db, "admin@example.com", models.RoleAdmin)
	testutil.SeedUser(t, db, "user@example.com", models.RoleUser)

	cookies := login(t, r, "admin@example.com")
	w := doForm(r, http.MethodPost, "/clients", clientForm("Acme", "acme@example.com"), cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodGet, "/audit", nil, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "created client Acme")

	cookies = login(t, r, "user@example.com")
	w = do(r, http.MethodGet, "/audit", nil, "", cookies)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDashboardSummary(t *testing.T) {
	r, db, _ := newTestServer(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", models.RoleAdmin)
	client := testutil.SeedClient(t, db, "Acme", "acme@example.com")
	testutil.SeedProject(t, db, client.ID, admin.ID, "One")
	testutil.SeedProject(t, db, client.ID, admin.ID, "Two")
	cookies := login(t, r, "admin@example.com")

	w := do(r, http.MethodGet, "/dashboard", nil, "", cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var summary struct {
		Clients  int64 `json:"clients"`
		Projects int64 `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, int64(1), summary.Clients)
	assert.Equal(t, int64(2), summary.Projects)
}
