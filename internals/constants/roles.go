package constants

import "fmt"

const (
	RoleAdmin      = "admin"
	RoleMentor     = "mentor"
	RoleSuperAdmin = "super_admin"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess      = "❌ Hanya admin atau super admin yang boleh mengakses fitur %s."
	ErrOnlySuperAdminsCanAccess = "❌ Hanya super admin yang boleh mengakses fitur %s."
	ErrOnlyMentorsCanAccess     = "❌ Hanya mentor yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorSuperAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlySuperAdminsCanAccess, feature)
}

func RoleErrorMentor(feature string) string {
	return fmt.Sprintf(ErrOnlyMentorsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleMentor,
		RoleSuperAdmin,
	}

	AdminAndAbove = []string{
		RoleAdmin,
		RoleSuperAdmin,
	}

	SuperAdminOnly = []string{
		RoleSuperAdmin,
	}

	MentorOnly = []string{
		RoleMentor,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
