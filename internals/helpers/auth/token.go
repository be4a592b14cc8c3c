package helper

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// AccessClaims = isi JWT yang diterbitkan saat login.
type AccessClaims struct {
	UserID uuid.UUID
	Role   string
	JTI    uuid.UUID
	Exp    time.Time
}

// IssueAccessToken menandatangani JWT HS256 berisi id, role, jti, exp.
func IssueAccessToken(userID uuid.UUID, role, secret string, ttl time.Duration, now time.Time) (string, AccessClaims, error) {
	if strings.TrimSpace(secret) == "" {
		return "", AccessClaims{}, errors.New("JWT secret kosong")
	}
	ac := AccessClaims{
		UserID: userID,
		Role:   role,
		JTI:    uuid.New(),
		Exp:    now.Add(ttl).UTC(),
	}
	claims := jwt.MapClaims{
		"id":   userID.String(),
		"role": role,
		"jti":  ac.JTI.String(),
		"iat":  now.Unix(),
		"exp":  ac.Exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", AccessClaims{}, err
	}
	return signed, ac, nil
}

// ParseAccessToken memverifikasi signature + exp lalu mengembalikan klaim.
func ParseAccessToken(tokenString, secret string) (AccessClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return AccessClaims{}, err
	}

	var ac AccessClaims
	if ac.UserID, err = claimUUID(claims, "id"); err != nil {
		return AccessClaims{}, err
	}
	if ac.JTI, err = claimUUID(claims, "jti"); err != nil {
		return AccessClaims{}, err
	}
	ac.Role, _ = claims["role"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		ac.Exp = time.Unix(int64(exp), 0).UTC()
	}
	return ac, nil
}

func claimUUID(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	s, ok := claims[key].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("klaim %s tidak ada", key)
	}
	return uuid.Parse(strings.TrimSpace(s))
}

// HashToken: HMAC-SHA256(token) hex, yang disimpan di DB (bukan plaintext).
func HashToken(rawToken, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(rawToken))
	return hex.EncodeToString(m.Sum(nil))
}

// ExtractBearerToken ambil token dari Authorization: Bearer ... atau cookie access_token.
func ExtractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", errors.New("unauthorized - No token provided")
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errors.New("unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errors.New("unauthorized - Empty token")
	}
	return tok, nil
}
