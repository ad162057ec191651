package cachekey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructuredKeyDeterminism(t *testing.T) {
	a := Structured("instructor", "dashboard", "u123")
	b := Structured("instructor", "dashboard", "u123")

	require.Equal(t, a, b)
	require.Equal(t, a.String(), b.String())
	require.Equal(t, "instructor_dashboard_u123", a.String())
}

func TestQualifierOrderMatters(t *testing.T) {
	a := Structured("course", "students", "c1", "c2")
	b := Structured("course", "students", "c2", "c1")

	require.NotEqual(t, a.String(), b.String())
}

func TestSharedPatternDeterminism(t *testing.T) {
	require.Equal(t, SharedPattern("instructor", "dashboard"), SharedPattern("instructor", "dashboard"))
	require.Equal(t, "instructor_dashboard_*", SharedPattern("instructor", "dashboard"))
}

func TestPrefixMatchesSharedPattern(t *testing.T) {
	k := InstructorDashboard("u123")

	// The pattern with the trailing * stripped must prefix-match every
	// per-user instance of the view.
	pattern := SharedPattern("instructor", "dashboard")
	require.Equal(t, k.Prefix()+"*", pattern[:len(k.Prefix())]+"*")
	require.Contains(t, k.String(), k.Prefix())
}

func TestNamedConstructors(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{"student dashboard", StudentDashboard("u1"), "student_dashboard_u1"},
		{"instructor dashboard", InstructorDashboard("u2"), "instructor_dashboard_u2"},
		{"admin dashboard", AdminDashboard("u3"), "admin_dashboard_u3"},
		{"course record", CourseRecord("c9"), "course_record_c9"},
		{"user record", UserRecord("u9"), "user_record_u9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.key.String())
		})
	}
}
