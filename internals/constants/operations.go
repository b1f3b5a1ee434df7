package constants

// Operation names checked against the authorization table. Each handler resolves
// its operation exactly once instead of branching on roles per field.
const (
	OpFormCreate      = "form:create"
	OpFormUpdate      = "form:update"
	OpFormClose       = "form:close"
	OpFormReopen      = "form:reopen"
	OpFormDistribute  = "form:distribute"
	OpFormReview      = "form:review"
	OpSubmissionSign  = "submission:sign"
	OpSubmissionView  = "submission:view"
	OpStudentManage   = "student:manage"
	OpGroupManage     = "group:manage"
	OpUserManage      = "user:manage"
	OpInviteCreate    = "invite:create"
	OpSchoolManage    = "school:manage"
	OpAuditView       = "audit:view"
)

// operationRoles is the single source of truth for which role may trigger
// which operation. Tenant (same-school) checks stay in the handlers since
// they need row data; role admission is decided here.
var operationRoles = map[string][]string{
	OpFormCreate:     TeacherAndAbove,
	OpFormUpdate:     TeacherAndAbove,
	OpFormClose:      TeacherAndAbove,
	OpFormReopen:     TeacherAndAbove,
	OpFormDistribute: TeacherAndAbove,
	OpFormReview:     {RoleReviewer},
	OpSubmissionSign: {RoleParent},
	OpSubmissionView: {RoleParent, RoleTeacher, RoleAdmin, RoleSuperAdmin},
	OpStudentManage:  AdminAndAbove,
	OpGroupManage:    TeacherAndAbove,
	OpUserManage:     AdminAndAbove,
	OpInviteCreate:   AdminAndAbove,
	OpSchoolManage:   {RoleSuperAdmin},
	OpAuditView:      AdminAndAbove,
}

// RoleAllowed reports whether role may trigger op. Unknown operations are
// always denied.
func RoleAllowed(role, op string) bool {
	for _, r := range operationRoles[op] {
		if r == role {
			return true
		}
	}
	return false
}

// RolesFor returns the allowed roles for op (for route-level middleware).
func RolesFor(op string) []string {
	return operationRoles[op]
}
