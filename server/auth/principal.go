// Package auth models the authenticated principal and the role predicates
// the dashboard layer evaluates before doing any work.
package auth

import "fmt"

// Role is a closed set. Dashboard dispatch switches over it exhaustively, so
// adding a role without handling it everywhere is a compile-time problem
// rather than a silent fallback.
type Role int32

const (
	// RoleStudent is a learner enrolled in courses.
	RoleStudent Role = iota + 1
	// RoleInstructor owns and publishes courses.
	RoleInstructor
	// RoleAdmin operates the marketplace.
	RoleAdmin
)

// String returns the lowercase wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleInstructor:
		return "instructor"
	case RoleAdmin:
		return "admin"
	}
	return fmt.Sprintf("role(%d)", int32(r))
}

// RoleFromString parses a stored role name.
func RoleFromString(s string) (Role, error) {
	switch s {
	case "student":
		return RoleStudent, nil
	case "instructor":
		return RoleInstructor, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Principal is an authenticated caller.
type Principal struct {
	UserID int32
	UID    string
	Role   Role
}

// CanViewStudentDashboard reports whether p may read the student dashboard.
func (p Principal) CanViewStudentDashboard() bool {
	return p.Role == RoleStudent
}

// CanViewInstructorDashboard reports whether p may read the instructor dashboard.
func (p Principal) CanViewInstructorDashboard() bool {
	return p.Role == RoleInstructor
}

// CanViewAdminDashboard reports whether p may read the admin dashboard.
func (p Principal) CanViewAdminDashboard() bool {
	return p.Role == RoleAdmin
}

// CanManageCourse reports whether p may mutate courses it owns.
func (p Principal) CanManageCourse() bool {
	return p.Role == RoleInstructor || p.Role == RoleAdmin
}
