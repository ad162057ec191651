package modules

import (
	"context"
	"log/slog"

	"github.com/learnloop/learnloop/server/internal/observability"
	"github.com/learnloop/learnloop/server/mutation"
	"github.com/learnloop/learnloop/store/cache"
)

// applyEffects runs the declared cache invalidations for a completed
// mutation. A shared-tier failure means stale dashboards may survive until
// TTL expiry; that is logged, not propagated, because the write itself
// already succeeded.
func applyEffects(ctx context.Context, name string, local mutation.LocalInvalidator, shared cache.Shared, logger *slog.Logger) {
	var sharedInvalidator mutation.SharedInvalidator
	if shared != nil {
		sharedInvalidator = shared
	}
	if err := mutation.ApplyEffects(ctx, name, local, sharedInvalidator); err != nil {
		logger.Warn("failed to invalidate shared cache after mutation",
			observability.LogFieldMutation, name,
			"error", err,
		)
	}
}
