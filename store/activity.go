package store

import "context"

// ActivityKind enumerates the feed event types.
type ActivityKind string

const (
	// ActivityEnrolled is emitted when a student enrolls in a course.
	ActivityEnrolled ActivityKind = "enrolled"
	// ActivityCompletedItem is emitted when a student completes a course item.
	ActivityCompletedItem ActivityKind = "completed_item"
	// ActivityCompletedCourse is emitted when a student completes a course.
	ActivityCompletedCourse ActivityKind = "completed_course"
	// ActivityPurchased is emitted when a payment settles.
	ActivityPurchased ActivityKind = "purchased"
	// ActivityPublishedCourse is emitted when an instructor publishes a course.
	ActivityPublishedCourse ActivityKind = "published_course"
)

// Activity is one feed event.
type Activity struct {
	ID        int32
	UID       string
	ActorID   int32
	Kind      ActivityKind
	CourseID  int32
	CreatedTs int64
	Message   string
}

// FindActivity is the find condition for activity.
type FindActivity struct {
	ActorID  *int32
	CourseID *int32
	Kind     *ActivityKind

	// CourseIDs filters to activities on any of the listed courses, subject
	// to the per-query ID-list ceiling.
	CourseIDs []int32

	Limit  *int
	Offset *int
}

func (s *Store) CreateActivity(ctx context.Context, create *Activity) (*Activity, error) {
	return s.driver.CreateActivity(ctx, create)
}

func (s *Store) ListActivities(ctx context.Context, find *FindActivity) ([]*Activity, error) {
	return s.driver.ListActivities(ctx, find)
}

// ListActivitiesByCourseIDs resolves activities across an arbitrarily large
// course-ID set through chunked queries.
func (s *Store) ListActivitiesByCourseIDs(ctx context.Context, courseIDs []int32) ([]*Activity, error) {
	return queryInChunks(ctx, courseIDs, s.batchChunkSize, func(ctx context.Context, chunk []int32) ([]*Activity, error) {
		return s.driver.ListActivities(ctx, &FindActivity{CourseIDs: chunk})
	})
}
