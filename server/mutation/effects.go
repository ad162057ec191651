// Package mutation declares, once per write operation, every cached view the
// write can stale, across both cache tiers.
//
// The same entity is read through many composite views: a course shows up on
// the owning instructor's dashboard, the admin course-performance table, and
// every enrolled student's course list. Scattering invalidation calls across
// each write's implementation is how views go silently stale as the system
// grows, so the mapping lives in this one table instead. The cost is that
// the table is maintained by hand; TestEveryMutationIsDeclared turns a
// forgotten entry into a test failure.
package mutation

import (
	"context"

	"github.com/learnloop/learnloop/server/cachekey"
)

// Mutation names. These are stable strings referenced by the effect table
// and by the services performing the writes; they never change meaning.
const (
	CreateCourse   = "createCourse"
	UpdateCourse   = "updateCourse"
	DeleteCourse   = "deleteCourse"
	PublishCourse  = "publishCourse"
	Enroll         = "enroll"
	CompleteItem   = "completeItem"
	CompleteCourse = "completeCourse"
	RecordPayment  = "recordPayment"
	UpdateUser     = "updateUser"
)

// Effect is the set of cache entries a mutation invalidates. LocalKeys target
// the structured-key local cache; a key without qualifiers means every
// instance of that view. SharedPatterns are glob strings for the shared cache.
type Effect struct {
	LocalKeys      []cachekey.Key
	SharedPatterns []string
}

// Empty reports whether the effect invalidates nothing.
func (e Effect) Empty() bool {
	return len(e.LocalKeys) == 0 && len(e.SharedPatterns) == 0
}

var (
	studentDashboards    = cachekey.SharedPattern("student", "dashboard")
	instructorDashboards = cachekey.SharedPattern("instructor", "dashboard")
	adminDashboards      = cachekey.SharedPattern("admin", "dashboard")

	allDashboards = []string{studentDashboards, instructorDashboards, adminDashboards}

	courseRecords = cachekey.Structured("course", "record")
	userRecords   = cachekey.Structured("user", "record")
)

// effects is the whole table. Every mutation the system performs must have
// an entry here, even an empty one: an explicit empty entry documents "this
// write stales no cached view", while a missing entry is indistinguishable
// from a typo.
var effects = map[string]Effect{
	CreateCourse: {
		LocalKeys:      []cachekey.Key{courseRecords},
		SharedPatterns: []string{instructorDashboards, adminDashboards},
	},
	UpdateCourse: {
		LocalKeys:      []cachekey.Key{courseRecords},
		SharedPatterns: allDashboards,
	},
	DeleteCourse: {
		LocalKeys:      []cachekey.Key{courseRecords},
		SharedPatterns: allDashboards,
	},
	PublishCourse: {
		LocalKeys:      []cachekey.Key{courseRecords},
		SharedPatterns: allDashboards,
	},
	Enroll: {
		SharedPatterns: allDashboards,
	},
	CompleteItem: {
		SharedPatterns: []string{studentDashboards, instructorDashboards, adminDashboards},
	},
	CompleteCourse: {
		SharedPatterns: allDashboards,
	},
	RecordPayment: {
		SharedPatterns: allDashboards,
	},
	UpdateUser: {
		LocalKeys:      []cachekey.Key{userRecords},
		SharedPatterns: []string{adminDashboards},
	},
}

// EffectsOf returns the declared effect for a mutation. An unknown name
// returns an empty effect rather than an error: a mutation with no declared
// effect is assumed to touch no cached view. That default is safe for
// deliberate omissions and unsafe for typos, which is why the table
// completeness test exists.
func EffectsOf(mutationName string) Effect {
	return effects[mutationName]
}

// Declared reports whether the mutation has an explicit table entry.
func Declared(mutationName string) bool {
	_, ok := effects[mutationName]
	return ok
}

// Names returns every mutation name with a declared effect.
func Names() []string {
	names := make([]string, 0, len(effects))
	for name := range effects {
		names = append(names, name)
	}
	return names
}

// LocalInvalidator drops local cache entries for one structured key.
type LocalInvalidator interface {
	InvalidateLocal(key cachekey.Key)
}

// SharedInvalidator drops shared cache entries matching a glob pattern.
type SharedInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// ApplyEffects invalidates everything the named mutation stales. Local
// invalidation is synchronous fire-and-forget; shared invalidation crosses a
// network boundary and its first failure is returned so the mutation caller
// knows stale views may still be live.
func ApplyEffects(ctx context.Context, mutationName string, local LocalInvalidator, shared SharedInvalidator) error {
	effect := EffectsOf(mutationName)

	if local != nil {
		for _, key := range effect.LocalKeys {
			local.InvalidateLocal(key)
		}
	}

	if shared != nil {
		for _, pattern := range effect.SharedPatterns {
			if err := shared.Invalidate(ctx, pattern); err != nil {
				return err
			}
		}
	}
	return nil
}
