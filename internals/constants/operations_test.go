// file: internals/constants/operations_test.go
package constants

import "testing"

func TestRoleAllowed(t *testing.T) {
	cases := []struct {
		role string
		op   string
		want bool
	}{
		{RoleTeacher, OpFormCreate, true},
		{RoleParent, OpFormCreate, false},
		{RoleReviewer, OpFormCreate, false},
		{RoleReviewer, OpFormReview, true},
		{RoleAdmin, OpFormReview, false},
		{RoleSuperAdmin, OpFormReview, false},
		{RoleParent, OpSubmissionSign, true},
		{RoleTeacher, OpSubmissionSign, false},
		{RoleAdmin, OpStudentManage, true},
		{RoleTeacher, OpStudentManage, false},
		{RoleSuperAdmin, OpSchoolManage, true},
		{RoleAdmin, OpSchoolManage, false},
		{RoleAdmin, "unknown:op", false},
		{"UNKNOWN_ROLE", OpFormCreate, false},
	}
	for _, tc := range cases {
		if got := RoleAllowed(tc.role, tc.op); got != tc.want {
			t.Errorf("RoleAllowed(%s, %s) = %v, want %v", tc.role, tc.op, got, tc.want)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	for _, r := range AllRoles {
		if !IsValidRole(r) {
			t.Errorf("IsValidRole(%s) = false", r)
		}
	}
	if IsValidRole("STUDENT") {
		t.Error("IsValidRole(STUDENT) = true, want false")
	}
}
