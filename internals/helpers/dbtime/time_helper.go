// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"jejakliqo_backend/internals/configs"
)

var (
	locOnce sync.Once
	appLoc  *time.Location
)

// AppLocation: APP_TIMEZONE (default Asia/Jakarta), fallback UTC.
func AppLocation() *time.Location {
	locOnce.Do(func() {
		name := configs.GetEnv("APP_TIMEZONE", "Asia/Jakarta")
		if loc, err := time.LoadLocation(name); err == nil {
			appLoc = loc
			return
		}
		appLoc = time.UTC
	})
	return appLoc
}

func NowInApp() time.Time {
	return time.Now().In(AppLocation())
}

// ParseDate menerima "2006-01-02" atau RFC3339.
// Tanggal tanpa jam dianggap 00:00 di loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("tanggal kosong")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("format tanggal tidak valid: %q (pakai YYYY-MM-DD)", s)
}

// ParseDatePtr: string kosong → nil.
func ParseDatePtr(s string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MonthRange → [awal bulan, awal bulan berikutnya) di loc.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// EndOfDay dipakai untuk filter date_to inklusif.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// FormatDate untuk kolom date (birth_date) yang disimpan tengah malam UTC.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
