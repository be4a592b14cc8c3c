package helper

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestParseTrashed(t *testing.T) {
	assert.Equal(t, TrashedOnly, ParseTrashed("only"))
	assert.Equal(t, TrashedOnly, ParseTrashed("true"))
	assert.Equal(t, TrashedWith, ParseTrashed("WITH"))
	assert.Equal(t, TrashedNone, ParseTrashed(""))
	assert.Equal(t, TrashedNone, ParseTrashed("apa"))
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, "%ahmad%", LikePattern(" Ahmad "))
	assert.Equal(t, `%50\%\_a%`, LikePattern("50%_a"))
}

func TestParseUUIDs_DedupAndInvalid(t *testing.T) {
	a := uuid.New()
	ids, invalid := ParseUUIDs([]string{a.String(), "x", " " + a.String() + " "})
	assert.Equal(t, []uuid.UUID{a}, ids)
	assert.Equal(t, []string{"x"}, invalid)
}

func TestUUIDPtrEqual(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	a2 := a
	assert.True(t, UUIDPtrEqual(nil, nil))
	assert.True(t, UUIDPtrEqual(&a, &a2))
	assert.False(t, UUIDPtrEqual(&a, &b))
	assert.False(t, UUIDPtrEqual(&a, nil))
}

func TestParseBoolPtr(t *testing.T) {
	assert.Nil(t, ParseBoolPtr(""))
	assert.True(t, *ParseBoolPtr("true"))
	assert.False(t, *ParseBoolPtr("0"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, IsUniqueViolation(nil))
}
