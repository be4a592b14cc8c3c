package constants

// Status mentee
const (
	MenteeStatusActive    = "Aktif"
	MenteeStatusInactive  = "Non-Aktif"
	MenteeStatusGraduated = "Lulus"
)

var MenteeStatuses = []string{MenteeStatusActive, MenteeStatusInactive, MenteeStatusGraduated}

// Gender dipakai oleh profile dan mentee
const (
	GenderIkhwan = "Ikhwan"
	GenderAkhwat = "Akhwat"
)

// Jenis pertemuan
const (
	MeetingTypeOnline     = "Online"
	MeetingTypeOffline    = "Offline"
	MeetingTypeAssignment = "Assignment"
)

var MeetingTypes = []string{MeetingTypeOnline, MeetingTypeOffline, MeetingTypeAssignment}

// Status keaktifan profile pengguna
const (
	ProfileStatusActive   = "Aktif"
	ProfileStatusInactive = "Non-Aktif"
	ProfileStatusLeave    = "Cuti"
	ProfileStatusMoved    = "Pindah"
	ProfileStatusOther    = "Lainnya"
)
