package helper

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseAccessToken(t *testing.T) {
	uid := uuid.New()
	tok, ac, err := IssueAccessToken(uid, "mentor", "rahasia", time.Hour, time.Now())
	require.NoError(t, err)

	got, err := ParseAccessToken(tok, "rahasia")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UserID)
	assert.Equal(t, "mentor", got.Role)
	assert.Equal(t, ac.JTI, got.JTI)
	assert.Equal(t, ac.Exp.Unix(), got.Exp.Unix())
}

func TestParseAccessToken_WrongSecretOrExpired(t *testing.T) {
	tok, _, err := IssueAccessToken(uuid.New(), "admin", "rahasia", time.Hour, time.Now())
	require.NoError(t, err)
	_, err = ParseAccessToken(tok, "lain")
	assert.Error(t, err)

	old, _, err := IssueAccessToken(uuid.New(), "admin", "rahasia", time.Minute, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = ParseAccessToken(old, "rahasia")
	assert.Error(t, err)
}

func TestIssueAccessToken_EmptySecret(t *testing.T) {
	_, _, err := IssueAccessToken(uuid.New(), "admin", " ", time.Hour, time.Now())
	assert.Error(t, err)
}

func TestHashToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc", "s"), HashToken("abc", "s"))
	assert.NotEqual(t, HashToken("abc", "s"), HashToken("abc", "t"))
	assert.Len(t, HashToken("abc", "s"), 64)
}

func TestExtractBearerToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		tok, err := ExtractBearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString(err.Error())
		}
		return c.SendString(tok)
	})

	cases := []struct {
		header string
		code   int
	}{
		{"Bearer abc", 200},
		{"bearer   abc", 200},
		{"Token abc", 401},
		{"", 401},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tc.code, resp.StatusCode, tc.header)
	}
}

func TestIdentityFromLocals(t *testing.T) {
	app := fiber.New()
	uid := uuid.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals(LocUserID, uid.String())
		c.Locals(LocRole, "super_admin")
		got, err := GetUserIDFromToken(c)
		if err != nil || got != uid || !IsSuperAdmin(c) || !IsAdminOrAbove(c) {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		if _, err := GetTokenID(c); err == nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
