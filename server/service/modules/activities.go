package modules

import (
	"context"
	"log/slog"

	"github.com/learnloop/learnloop/store"
	"github.com/learnloop/learnloop/store/cache"
)

// ActivityService reads the feed. Activities are written by the other
// services as side effects of their mutations, so this one has no writes of
// its own.
type ActivityService struct {
	store  *store.Store
	shared cache.Shared
	logger *slog.Logger
}

// ListRecent returns the newest marketplace-wide feed events.
func (s *ActivityService) ListRecent(ctx context.Context, limit int) ([]*store.Activity, error) {
	return s.store.ListActivities(ctx, &store.FindActivity{Limit: &limit})
}

// ListByActor returns feed events performed by one user.
func (s *ActivityService) ListByActor(ctx context.Context, actorID int32, limit int) ([]*store.Activity, error) {
	return s.store.ListActivities(ctx, &store.FindActivity{ActorID: &actorID, Limit: &limit})
}

// ListByCourseIDs resolves feed events across an arbitrarily large course-ID
// set through the batched store query.
func (s *ActivityService) ListByCourseIDs(ctx context.Context, courseIDs []int32) ([]*store.Activity, error) {
	return s.store.ListActivitiesByCourseIDs(ctx, courseIDs)
}
