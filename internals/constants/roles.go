package constants

// Role names as stored on users.user_role and carried in JWT claims.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleTeacher    = "TEACHER"
	RoleReviewer   = "REVIEWER"
	RoleParent     = "PARENT"
)

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleSuperAdmin,
		RoleAdmin,
		RoleTeacher,
		RoleReviewer,
		RoleParent,
	}

	AdminAndAbove = []string{
		RoleAdmin,
		RoleSuperAdmin,
	}

	TeacherAndAbove = []string{
		RoleTeacher,
		RoleAdmin,
		RoleSuperAdmin,
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
