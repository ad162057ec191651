// Package cachekey is the single source of truth for naming cached views.
//
// Every cached composite view has two key forms derived from the same tuple:
// a structured Key used by the in-process query cache, and a flat string
// (or glob pattern) used by the shared cache, which only understands strings.
// Both forms must be byte-identical across calls with the same arguments or
// cache hits never occur.
package cachekey

import "strings"

// Separator joins key segments in the flat string form.
const Separator = "_"

// Key is the structured form of a cache key: (domain, view, qualifiers...).
// Qualifier order is part of the contract; callers must pass qualifiers in a
// fixed order or they will produce distinct keys.
type Key struct {
	Domain     string
	View       string
	Qualifiers []string
}

// Structured builds a Key from its tuple parts.
func Structured(domain, view string, qualifiers ...string) Key {
	return Key{
		Domain:     domain,
		View:       view,
		Qualifiers: qualifiers,
	}
}

// String renders the flat shared-cache form: "<domain>_<view>_<q1>_<q2>...".
func (k Key) String() string {
	parts := make([]string, 0, 2+len(k.Qualifiers))
	parts = append(parts, k.Domain, k.View)
	parts = append(parts, k.Qualifiers...)
	return strings.Join(parts, Separator)
}

// Prefix renders the flat form without qualifiers plus a trailing separator,
// suitable for prefix-matching every instance of a view.
func (k Key) Prefix() string {
	return k.Domain + Separator + k.View + Separator
}

// SharedPattern produces the glob used for bulk invalidation of every
// per-qualifier instance of a view in the shared cache.
func SharedPattern(domain, view string) string {
	return domain + Separator + view + Separator + "*"
}

// Named key constructors. Orchestrators and the mutation effect table must
// build keys through these so the two sides can never drift apart.

// StudentDashboard is the composite student dashboard for one user.
func StudentDashboard(userUID string) Key {
	return Structured("student", "dashboard", userUID)
}

// InstructorDashboard is the composite instructor dashboard for one user.
func InstructorDashboard(userUID string) Key {
	return Structured("instructor", "dashboard", userUID)
}

// AdminDashboard is the composite admin dashboard for one user.
func AdminDashboard(userUID string) Key {
	return Structured("admin", "dashboard", userUID)
}

// CourseRecord is the local single-course read-through cache entry.
func CourseRecord(courseUID string) Key {
	return Structured("course", "record", courseUID)
}

// UserRecord is the local single-user read-through cache entry.
func UserRecord(userUID string) Key {
	return Structured("user", "record", userUID)
}
