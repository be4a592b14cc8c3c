package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/configs"
	"jejakliqo_backend/internals/constants"
	"jejakliqo_backend/internals/databases/testdb"
	authModel "jejakliqo_backend/internals/features/users/auth/model"
	userModel "jejakliqo_backend/internals/features/users/user/model"
	"jejakliqo_backend/internals/features/users/user/dto"
	userService "jejakliqo_backend/internals/features/users/user/service"
	helper "jejakliqo_backend/internals/helpers"
	"jejakliqo_backend/internals/helpers/cache"
	"jejakliqo_backend/internals/helpers/storage"
)

func newServer(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	configs.JWTSecret = "rahasia-test"
	configs.JWTTTL = time.Hour
	db := testdb.New(t)
	app := fiber.New(fiber.Config{ErrorHandler: helper.FiberErrorHandler})
	SetupRoutes(app, db, Deps{Store: storage.NewMemoryStore("/storage"), Cache: cache.NewMemoryCache()})
	return app, db
}

func createUser(t *testing.T, db *gorm.DB, role, email string) {
	t.Helper()
	_, err := userService.CreateUserWithProfile(context.Background(), db, role, dto.CreateUserRequest{
		Email: email, Password: "Rahasia123", ProfileFields: dto.ProfileFields{FullName: "User " + role},
	})
	require.NoError(t, err)
}

func request(t *testing.T, app *fiber.App, method, url, token, body string) int {
	t.Helper()
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"email":"`+email+`","password":"Rahasia123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var env struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	require.NotEmpty(t, env.Data.Token)
	return env.Data.Token
}

func TestSetupRoutes_RoleAreasAreIsolated(t *testing.T) {
	app, db := newServer(t)
	createUser(t, db, constants.RoleAdmin, "admin@liqo.id")
	createUser(t, db, constants.RoleMentor, "mentor@liqo.id")
	createUser(t, db, constants.RoleSuperAdmin, "root@liqo.id")

	admin := login(t, app, "admin@liqo.id")
	mentor := login(t, app, "mentor@liqo.id")
	root := login(t, app, "root@liqo.id")

	cases := []struct {
		name   string
		method string
		url    string
		token  string
		want   int
	}{
		{"health", "GET", "/health", "", fiber.StatusOK},
		{"metrics", "GET", "/metrics", "", fiber.StatusOK},
		{"tanpa token", "GET", "/api/mentees", "", fiber.StatusUnauthorized},
		{"admin ke groups", "GET", "/api/groups", admin, fiber.StatusOK},
		{"admin ke meetings", "GET", "/api/meetings", admin, fiber.StatusOK},
		{"admin ke laporan", "GET", "/api/reports/monthly?year=2026&month=3", admin, fiber.StatusOK},
		{"admin ke dashboard", "GET", "/api/dashboard/stats", admin, fiber.StatusOK},
		{"admin ke area mentor", "GET", "/api/mentor/groups", admin, fiber.StatusForbidden},
		{"admin kelola mentor", "GET", "/api/mentors", admin, fiber.StatusOK},
		{"admin kelola admin", "GET", "/api/admins", admin, fiber.StatusForbidden},
		{"super admin kelola admin", "GET", "/api/admins", root, fiber.StatusOK},
		{"mentor ke groups admin", "GET", "/api/groups", mentor, fiber.StatusForbidden},
		{"mentor ke groups sendiri", "GET", "/api/mentor/groups", mentor, fiber.StatusOK},
		{"mentor ke meetings sendiri", "GET", "/api/mentor/meetings", mentor, fiber.StatusOK},
		{"mentor dashboard", "GET", "/api/mentor/dashboard", mentor, fiber.StatusOK},
		{"mentor baca pengumuman", "GET", "/api/announcements", mentor, fiber.StatusOK},
		{"mentor tulis pengumuman", "POST", "/api/announcements", mentor, fiber.StatusForbidden},
		{"mentor profil", "GET", "/api/profile", mentor, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := ""
			if tc.method == "POST" {
				body = `{"title":"Pengumuman","content":"isi"}`
			}
			assert.Equal(t, tc.want, request(t, app, tc.method, tc.url, tc.token, body))
		})
	}
}

func blockByEmail(t *testing.T, db *gorm.DB, email string) {
	t.Helper()
	require.NoError(t, db.Model(&userModel.UserModel{}).Where("email = ?", email).
		Update("blocked_at", time.Now()).Error)
}

func countTokens(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&authModel.PersonalAccessTokenModel{}).Count(&n).Error)
	return n
}

func TestAuthMiddleware_BlockedUserRevokesSessions(t *testing.T) {
	app, db := newServer(t)
	createUser(t, db, constants.RoleMentor, "mentor@liqo.id")
	token := login(t, app, "mentor@liqo.id")
	require.EqualValues(t, 1, countTokens(t, db))

	blockByEmail(t, db, "mentor@liqo.id")

	assert.Equal(t, fiber.StatusForbidden, request(t, app, "GET", "/api/profile", token, ""))
	assert.Zero(t, countTokens(t, db))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "GET", "/api/profile", token, ""))
}

func TestAuthMiddleware_BlockedUserStillForbiddenWhenRevokeFails(t *testing.T) {
	app, db := newServer(t)
	createUser(t, db, constants.RoleMentor, "mentor@liqo.id")
	token := login(t, app, "mentor@liqo.id")

	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:fail_token_delete", func(tx *gorm.DB) {
		if tx.Statement.Table == "personal_access_tokens" {
			_ = tx.AddError(errors.New("delete gagal"))
		}
	}))
	blockByEmail(t, db, "mentor@liqo.id")

	assert.Equal(t, fiber.StatusForbidden, request(t, app, "GET", "/api/profile", token, ""))
	assert.EqualValues(t, 1, countTokens(t, db))
}
