package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttendanceStatus_AcceptsBothVocabularies(t *testing.T) {
	cases := map[string]AttendanceStatus{
		"Present":    AttendancePresent,
		"hadir":      AttendancePresent,
		"HADIR":      AttendancePresent,
		" sick ":     AttendanceSick,
		"sakit":      AttendanceSick,
		"Permission": AttendancePermission,
		"izin":       AttendancePermission,
		"absent":     AttendanceAbsent,
		"Alpha":      AttendanceAbsent,
		"alpa":       AttendanceAbsent,
	}
	for in, want := range cases {
		got, err := ParseAttendanceStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseAttendanceStatus_Unknown(t *testing.T) {
	_, err := ParseAttendanceStatus("telat")
	assert.Error(t, err)

	_, err = ParseAttendanceStatus("")
	assert.Error(t, err)
}

func TestStatusCodec_EncodePerSurface(t *testing.T) {
	assert.Equal(t, "Present", AdminCodec.Encode(AttendancePresent))
	assert.Equal(t, "hadir", MentorCodec.Encode(AttendancePresent))
	assert.Equal(t, "Absent", AdminCodec.Encode(AttendanceAbsent))
	assert.Equal(t, "alpha", MentorCodec.Encode(AttendanceAbsent))

	// label mentor diterjemahkan ke label admin lewat nilai kanonik
	s, err := MentorCodec.Decode("izin")
	require.NoError(t, err)
	assert.Equal(t, "Permission", AdminCodec.Encode(s))
}

func TestStatusCodec_RoundTripAllStatuses(t *testing.T) {
	for _, codec := range []StatusCodec{AdminCodec, MentorCodec} {
		for _, s := range AttendanceStatuses {
			got, err := codec.Decode(codec.Encode(s))
			require.NoError(t, err)
			assert.Equal(t, s, got, codec.Name)
		}
	}
	assert.Equal(t, []string{"hadir", "sakit", "izin", "alpha"}, MentorCodec.Labels())
}

func TestAttendanceStatus_Valid(t *testing.T) {
	assert.True(t, AttendanceSick.Valid())
	assert.False(t, AttendanceStatus("Present").Valid())
}
