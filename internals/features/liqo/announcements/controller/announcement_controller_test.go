package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jejakliqo_backend/internals/constants"
	"jejakliqo_backend/internals/databases/testdb"
	"jejakliqo_backend/internals/features/liqo/announcements/dto"
	authHelper "jejakliqo_backend/internals/helpers/auth"
	"jejakliqo_backend/internals/helpers/storage"
	authMiddleware "jejakliqo_backend/internals/middlewares/auth"
)

type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newApp(t *testing.T, role string) (*fiber.App, *storage.MemoryStore, uuid.UUID) {
	t.Helper()
	db := testdb.New(t)
	store := storage.NewMemoryStore("http://localhost/storage")
	userID := uuid.New()

	app := fiber.New()
	ctrl := NewAnnouncementController(db, store)
	g := app.Group("/api/announcements", func(c *fiber.Ctx) error {
		c.Locals(authHelper.LocUserID, userID)
		c.Locals(authHelper.LocRole, role)
		return c.Next()
	})
	adminOnly := authMiddleware.OnlyRoles("khusus admin", constants.AdminAndAbove...)
	g.Get("/", ctrl.List)
	g.Post("/", adminOnly, ctrl.Create)
	g.Put("/:id", adminOnly, ctrl.Update)
	g.Patch("/:id/archive", adminOnly, ctrl.Archive)
	return app, store, userID
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func send(t *testing.T, app *fiber.App, method, url string, body io.Reader, contentType string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, url, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestCreateAnnouncement_MultipartWithPDF(t *testing.T) {
	app, store, userID := newApp(t, constants.RoleAdmin)

	body, ct := multipartBody(t, map[string]string{"title": "Jadwal Mabit", "content": "Lihat lampiran", "event_date": "2026-11-01"},
		"jadwal.pdf", []byte("%PDF-1.4 isi"))
	code, env := send(t, app, "POST", "/api/announcements", body, ct)
	require.Equal(t, fiber.StatusCreated, code, env.Message)

	var out dto.AnnouncementResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, userID, out.CreatedBy)
	assert.Equal(t, string(constants.FileKindPDF), out.FileType)
	assert.Contains(t, out.FileURL, "http://localhost/storage/announcements/")
	assert.Equal(t, "2026-11-01", out.EventDate)
	assert.Equal(t, 1, store.Len())

	// ganti lampiran: file lama terhapus
	body, ct = multipartBody(t, map[string]string{"title": "Jadwal Mabit", "content": "Revisi"}, "jadwal-v2.pdf", []byte("%PDF-1.4 v2"))
	code, env = send(t, app, "PUT", "/api/announcements/"+out.ID.String(), body, ct)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	var updated dto.AnnouncementResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.NotEqual(t, out.FileURL, updated.FileURL)
	assert.Equal(t, 1, store.Len())
}

func TestCreateAnnouncement_RejectsUnsupportedFile(t *testing.T) {
	app, store, _ := newApp(t, constants.RoleAdmin)

	body, ct := multipartBody(t, map[string]string{"title": "Virus", "content": "jangan dibuka"}, "setup.exe", []byte("MZ"))
	code, _ := send(t, app, "POST", "/api/announcements", body, ct)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, code)
	assert.Equal(t, 0, store.Len())
}

func TestAnnouncement_MentorReadOnly(t *testing.T) {
	app, _, _ := newApp(t, constants.RoleMentor)

	code, env := send(t, app, "GET", "/api/announcements", nil, "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "success", env.Status)

	code, _ = send(t, app, "POST", "/api/announcements", bytes.NewBufferString(`{"title":"Hai","content":"x"}`), "application/json")
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = send(t, app, "PATCH", "/api/announcements/"+uuid.NewString()+"/archive", nil, "")
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestCreateAnnouncement_ValidationError(t *testing.T) {
	app, _, _ := newApp(t, constants.RoleAdmin)

	code, env := send(t, app, "POST", "/api/announcements", bytes.NewBufferString(`{"title":"Hi"}`), "application/json")
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "title")
	assert.Contains(t, env.Errors, "content")
}
