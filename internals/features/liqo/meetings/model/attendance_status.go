package model

import (
	"fmt"
	"strings"
)

// AttendanceStatus adalah nilai kanonik yang disimpan di DB.
// Panel admin dan panel mentor punya kosakata sendiri lewat StatusCodec.
type AttendanceStatus string

const (
	AttendancePresent    AttendanceStatus = "present"
	AttendanceSick       AttendanceStatus = "sick"
	AttendancePermission AttendanceStatus = "permission"
	AttendanceAbsent     AttendanceStatus = "absent"
)

// urutan tampilan laporan
var AttendanceStatuses = []AttendanceStatus{
	AttendancePresent,
	AttendanceSick,
	AttendancePermission,
	AttendanceAbsent,
}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceSick, AttendancePermission, AttendanceAbsent:
		return true
	}
	return false
}

type StatusCodec struct {
	Name   string
	labels map[AttendanceStatus]string
}

var (
	AdminCodec = StatusCodec{
		Name: "admin",
		labels: map[AttendanceStatus]string{
			AttendancePresent:    "Present",
			AttendanceSick:       "Sick",
			AttendancePermission: "Permission",
			AttendanceAbsent:     "Absent",
		},
	}
	MentorCodec = StatusCodec{
		Name: "mentor",
		labels: map[AttendanceStatus]string{
			AttendancePresent:    "hadir",
			AttendanceSick:       "sakit",
			AttendancePermission: "izin",
			AttendanceAbsent:     "alpha",
		},
	}
)

// lookup: label (lowercase) dari semua kosakata → kanonik
var statusLookup = func() map[string]AttendanceStatus {
	m := make(map[string]AttendanceStatus)
	for _, s := range AttendanceStatuses {
		m[string(s)] = s
		m[strings.ToLower(AdminCodec.labels[s])] = s
		m[strings.ToLower(MentorCodec.labels[s])] = s
	}
	// ejaan yang sering muncul dari frontend lama
	m["alpa"] = AttendanceAbsent
	return m
}()

// ParseAttendanceStatus tidak peka huruf besar/kecil dan menerima
// kosakata admin maupun mentor.
func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := statusLookup[key]; ok {
		return s, nil
	}
	return "", fmt.Errorf("status kehadiran tidak dikenal: %q", raw)
}

func (c StatusCodec) Encode(s AttendanceStatus) string {
	if label, ok := c.labels[s]; ok {
		return label
	}
	return string(s)
}

func (c StatusCodec) Decode(raw string) (AttendanceStatus, error) {
	return ParseAttendanceStatus(raw)
}

// Labels dipakai untuk pesan validasi (oneof).
func (c StatusCodec) Labels() []string {
	out := make([]string, 0, len(AttendanceStatuses))
	for _, s := range AttendanceStatuses {
		out = append(out, c.labels[s])
	}
	return out
}
