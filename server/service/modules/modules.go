// Package modules holds the per-business-area services the dashboard layer
// fans out to. Each service exposes narrow reads over its own entities plus
// write operations carrying stable mutation names. Reads never cache;
// composite-view caching is the dashboard layer's job. Every write applies
// its declared cache effects after it succeeds.
package modules

import (
	"log/slog"

	"github.com/learnloop/learnloop/server/mutation"
	"github.com/learnloop/learnloop/store"
	"github.com/learnloop/learnloop/store/cache"
)

// Services bundles the per-area module services over one store.
type Services struct {
	Catalog     *CatalogService
	Enrollments *EnrollmentService
	Progress    *ProgressService
	Payments    *PaymentService
	Users       *UserService
	Activities  *ActivityService
}

// NewServices wires the module services. shared may be nil in tests that
// only exercise reads.
func NewServices(st *store.Store, shared cache.Shared, logger *slog.Logger) *Services {
	return &Services{
		Catalog:     &CatalogService{store: st, shared: shared, logger: logger},
		Enrollments: &EnrollmentService{store: st, shared: shared, logger: logger},
		Progress:    &ProgressService{store: st, shared: shared, logger: logger},
		Payments:    &PaymentService{store: st, shared: shared, logger: logger},
		Users:       &UserService{store: st, shared: shared, logger: logger},
		Activities:  &ActivityService{store: st, shared: shared, logger: logger},
	}
}

// MutationNames lists every mutation name the module services perform.
// The mutation-table completeness test walks this list; adding a write
// operation without registering its name here defeats that check.
func MutationNames() []string {
	return []string{
		mutation.CreateCourse,
		mutation.UpdateCourse,
		mutation.DeleteCourse,
		mutation.PublishCourse,
		mutation.Enroll,
		mutation.CompleteItem,
		mutation.CompleteCourse,
		mutation.RecordPayment,
		mutation.UpdateUser,
	}
}
