package helper

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trashed: cakupan soft delete pada query list (?trashed=with|only).
type Trashed string

const (
	TrashedNone Trashed = ""
	TrashedWith Trashed = "with"
	TrashedOnly Trashed = "only"
)

func ParseTrashed(s string) Trashed {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "with", "all":
		return TrashedWith
	case "only", "true", "1":
		return TrashedOnly
	}
	return TrashedNone
}

func (t Trashed) Scope(db *gorm.DB, table string) *gorm.DB {
	switch t {
	case TrashedWith:
		return db.Unscoped()
	case TrashedOnly:
		return db.Unscoped().Where(table + ".deleted_at IS NOT NULL")
	}
	return db
}

// LikePattern: "%kata%" lowercase, wildcard dari user di-escape.
func LikePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// ParseUUIDPtr: string kosong → nil, tidak valid → error.
func ParseUUIDPtr(s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseUUIDs: id tidak valid dikembalikan terpisah agar bisa jadi pesan 422.
func ParseUUIDs(raw []string) (ids []uuid.UUID, invalid []string) {
	seen := make(map[uuid.UUID]struct{}, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			invalid = append(invalid, s)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, invalid
}

// ParseBoolPtr untuk query filter opsional (?blocked=true).
func ParseBoolPtr(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		v := true
		return &v
	case "false", "0", "no":
		v := false
		return &v
	}
	return nil
}

func UUIDPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// SearchWhere: OR dari LOWER(col) LIKE pattern untuk setiap kolom.
func SearchWhere(db *gorm.DB, term string, cols ...string) *gorm.DB {
	if strings.TrimSpace(term) == "" || len(cols) == 0 {
		return db
	}
	pattern := LikePattern(term)
	parts := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, col := range cols {
		parts[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return db.Where("("+strings.Join(parts, " OR ")+")", args...)
}
