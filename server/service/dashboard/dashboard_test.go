package dashboard

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/learnloop/learnloop/internal/profile"
	"github.com/learnloop/learnloop/server/auth"
	apperrors "github.com/learnloop/learnloop/server/internal/errors"
	"github.com/learnloop/learnloop/server/mutation"
	"github.com/learnloop/learnloop/server/service/modules"
	"github.com/learnloop/learnloop/store"
	"github.com/learnloop/learnloop/store/cache"
)

// fakeDriver is an in-memory store.Driver with query counters. The counters
// are what the caching tests assert on: a cache hit must leave them
// untouched.
type fakeDriver struct {
	mu sync.Mutex

	users       []*store.User
	courses     []*store.Course
	enrollments []*store.Enrollment
	progress    []*store.Progress
	payments    []*store.Payment
	activities  []*store.Activity

	// queries counts every read issued against the driver.
	queries atomic.Int32
	// batchedEnrollmentQueries counts only reads carrying a course-ID list,
	// i.e. the chunked fan-out path.
	batchedEnrollmentQueries atomic.Int32

	// failEnrollmentsForCourse makes single-course enrollment reads for this
	// course fail, simulating one row's enrichment blowing up.
	failEnrollmentsForCourse int32
}

func (d *fakeDriver) GetDB() *sql.DB { return nil }
func (d *fakeDriver) Close() error   { return nil }

func (d *fakeDriver) CreateUser(_ context.Context, create *store.User) (*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = int32(len(d.users) + 1)
	d.users = append(d.users, create)
	return create, nil
}

func (d *fakeDriver) UpdateUser(_ context.Context, _ *store.UpdateUser) (*store.User, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeDriver) ListUsers(_ context.Context, find *store.FindUser) ([]*store.User, error) {
	d.queries.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*store.User
	for _, u := range d.users {
		if find.ID != nil && u.ID != *find.ID {
			continue
		}
		if find.UID != nil && u.UID != *find.UID {
			continue
		}
		if find.Email != nil && u.Email != *find.Email {
			continue
		}
		if find.Role != nil && u.Role != *find.Role {
			continue
		}
		if find.RowStatus != nil && u.RowStatus != *find.RowStatus {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (d *fakeDriver) DeleteUser(_ context.Context, _ *store.DeleteUser) error {
	return errors.New("not implemented")
}

func (d *fakeDriver) CreateCourse(_ context.Context, create *store.Course) (*store.Course, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = int32(len(d.courses) + 1)
	d.courses = append(d.courses, create)
	return create, nil
}

func (d *fakeDriver) UpdateCourse(_ context.Context, _ *store.UpdateCourse) (*store.Course, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeDriver) ListCourses(_ context.Context, find *store.FindCourse) ([]*store.Course, error) {
	d.queries.Add(1)
	if len(find.IDs) > store.BatchChunkLimit {
		return nil, errors.Errorf("id list of %d exceeds the per-query ceiling", len(find.IDs))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*store.Course
	for _, c := range d.courses {
		if find.ID != nil && c.ID != *find.ID {
			continue
		}
		if find.UID != nil && c.UID != *find.UID {
			continue
		}
		if find.InstructorID != nil && c.InstructorID != *find.InstructorID {
			continue
		}
		if find.Published != nil && c.Published != *find.Published {
			continue
		}
		if find.Category != nil && c.Category != *find.Category {
			continue
		}
		if len(find.IDs) > 0 && !containsID(find.IDs, c.ID) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (d *fakeDriver) DeleteCourse(_ context.Context, _ *store.DeleteCourse) error {
	return errors.New("not implemented")
}

func (d *fakeDriver) CreateEnrollment(_ context.Context, create *store.Enrollment) (*store.Enrollment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = int32(len(d.enrollments) + 1)
	d.enrollments = append(d.enrollments, create)
	return create, nil
}

func (d *fakeDriver) UpdateEnrollment(_ context.Context, _ *store.UpdateEnrollment) (*store.Enrollment, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeDriver) ListEnrollments(_ context.Context, find *store.FindEnrollment) ([]*store.Enrollment, error) {
	d.queries.Add(1)
	if len(find.CourseIDs) > 0 {
		d.batchedEnrollmentQueries.Add(1)
		if len(find.CourseIDs) > store.BatchChunkLimit {
			return nil, errors.Errorf("id list of %d exceeds the per-query ceiling", len(find.CourseIDs))
		}
	}
	if find.CourseID != nil && d.failEnrollmentsForCourse != 0 && *find.CourseID == d.failEnrollmentsForCourse {
		return nil, errors.New("enrollment read failed")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*store.Enrollment
	for _, e := range d.enrollments {
		if find.CourseID != nil && e.CourseID != *find.CourseID {
			continue
		}
		if find.StudentID != nil && e.StudentID != *find.StudentID {
			continue
		}
		if len(find.CourseIDs) > 0 && !containsID(find.CourseIDs, e.CourseID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *fakeDriver) DeleteEnrollment(_ context.Context, _ *store.DeleteEnrollment) error {
	return errors.New("not implemented")
}

func (d *fakeDriver) UpsertProgress(_ context.Context, upsert *store.UpsertProgress) (*store.Progress, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &store.Progress{
		ID:             int32(len(d.progress) + 1),
		EnrollmentID:   upsert.EnrollmentID,
		StudentID:      upsert.StudentID,
		CourseID:       upsert.CourseID,
		CompletedItems: upsert.CompletedItems,
		TotalItems:     upsert.TotalItems,
		UpdatedTs:      upsert.UpdatedTs,
	}
	d.progress = append(d.progress, p)
	return p, nil
}

func (d *fakeDriver) ListProgress(_ context.Context, find *store.FindProgress) ([]*store.Progress, error) {
	d.queries.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*store.Progress
	for _, p := range d.progress {
		if find.EnrollmentID != nil && p.EnrollmentID != *find.EnrollmentID {
			continue
		}
		if find.StudentID != nil && p.StudentID != *find.StudentID {
			continue
		}
		if find.CourseID != nil && p.CourseID != *find.CourseID {
			continue
		}
		if len(find.CourseIDs) > 0 && !containsID(find.CourseIDs, p.CourseID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (d *fakeDriver) CreatePayment(_ context.Context, create *store.Payment) (*store.Payment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = int32(len(d.payments) + 1)
	d.payments = append(d.payments, create)
	return create, nil
}

func (d *fakeDriver) ListPayments(_ context.Context, find *store.FindPayment) ([]*store.Payment, error) {
	d.queries.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*store.Payment
	for _, p := range d.payments {
		if find.InstructorID != nil && p.InstructorID != *find.InstructorID {
			continue
		}
		if find.StudentID != nil && p.StudentID != *find.StudentID {
			continue
		}
		if find.CourseID != nil && p.CourseID != *find.CourseID {
			continue
		}
		if find.PaidTsAfter != nil && p.PaidTs < *find.PaidTsAfter {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (d *fakeDriver) CreateActivity(_ context.Context, create *store.Activity) (*store.Activity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = int32(len(d.activities) + 1)
	d.activities = append(d.activities, create)
	return create, nil
}

func (d *fakeDriver) ListActivities(_ context.Context, find *store.FindActivity) ([]*store.Activity, error) {
	d.queries.Add(1)
	if len(find.CourseIDs) > store.BatchChunkLimit {
		return nil, errors.Errorf("id list of %d exceeds the per-query ceiling", len(find.CourseIDs))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*store.Activity
	for _, a := range d.activities {
		if find.ActorID != nil && a.ActorID != *find.ActorID {
			continue
		}
		if find.Kind != nil && a.Kind != *find.Kind {
			continue
		}
		if find.CourseID != nil && a.CourseID != *find.CourseID {
			continue
		}
		if len(find.CourseIDs) > 0 && !containsID(find.CourseIDs, a.CourseID) {
			continue
		}
		out = append(out, a)
	}
	if find.Limit != nil && len(out) > *find.Limit {
		out = out[:*find.Limit]
	}
	return out, nil
}

func containsID(ids []int32, id int32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

var _ store.Driver = (*fakeDriver)(nil)

func testProfile() *profile.Profile {
	return &profile.Profile{
		Mode:           "dev",
		Driver:         "sqlite",
		DashboardTTL:   300 * time.Second,
		FanoutTimeout:  10 * time.Second,
		BatchChunkSize: store.BatchChunkLimit,
	}
}

func newFixture(driver *fakeDriver, shared cache.Shared) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := testProfile()
	st := store.New(driver, p)
	mods := modules.NewServices(st, shared, logger)
	return NewService(mods, shared, p, logger)
}

// seedInstructor installs an instructor with two published courses, three
// students, and a handful of enrollments and payments.
func seedInstructor(driver *fakeDriver) auth.Principal {
	driver.users = []*store.User{
		{ID: 1, UID: "u1", Email: "inst@example.com", Role: store.RoleInstructor, RowStatus: store.Normal},
		{ID: 2, UID: "s1", Email: "s1@example.com", Role: store.RoleStudent, RowStatus: store.Normal},
		{ID: 3, UID: "s2", Email: "s2@example.com", Role: store.RoleStudent, RowStatus: store.Normal},
		{ID: 4, UID: "s3", Email: "s3@example.com", Role: store.RoleStudent, RowStatus: store.Normal},
	}
	driver.courses = []*store.Course{
		{ID: 1, UID: "c1", InstructorID: 1, Title: "Go Basics", Category: "dev", Published: true},
		{ID: 2, UID: "c2", InstructorID: 1, Title: "Go Advanced", Category: "dev", Published: true},
	}
	completed := time.Now().Unix()
	driver.enrollments = []*store.Enrollment{
		{ID: 1, CourseID: 1, StudentID: 2},
		{ID: 2, CourseID: 1, StudentID: 3, CompletedTs: &completed},
		{ID: 3, CourseID: 2, StudentID: 3},
		{ID: 4, CourseID: 2, StudentID: 4},
	}
	driver.progress = []*store.Progress{
		{ID: 1, EnrollmentID: 1, StudentID: 2, CourseID: 1, CompletedItems: 5, TotalItems: 10},
		{ID: 2, EnrollmentID: 2, StudentID: 3, CourseID: 1, CompletedItems: 10, TotalItems: 10},
		{ID: 3, EnrollmentID: 3, StudentID: 3, CourseID: 2, CompletedItems: 2, TotalItems: 8},
	}
	driver.payments = []*store.Payment{
		{ID: 1, CourseID: 1, StudentID: 2, InstructorID: 1, AmountCents: 4900, PaidTs: time.Now().Unix()},
		{ID: 2, CourseID: 2, StudentID: 4, InstructorID: 1, AmountCents: 9900, PaidTs: time.Now().Unix()},
	}
	driver.activities = []*store.Activity{
		{ID: 1, UID: "a1", ActorID: 2, Kind: store.ActivityEnrolled, CourseID: 1, CreatedTs: time.Now().Unix() - 120, Message: "enrolled in a course"},
		{ID: 2, UID: "a2", ActorID: 3, Kind: store.ActivityCompletedCourse, CourseID: 1, CreatedTs: time.Now().Unix() - 60, Message: "completed a course"},
	}
	return auth.Principal{UserID: 1, UID: "u1", Role: auth.RoleInstructor}
}

func TestInstructorDashboardAssembly(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{}
	principal := seedInstructor(driver)
	svc := newFixture(driver, cache.NewMock())

	dto, err := svc.InstructorDashboard(ctx, principal)
	require.NoError(t, err)

	require.Equal(t, 2, dto.Stats.TotalCourses)
	require.Equal(t, 2, dto.Stats.PublishedCourses)
	require.Equal(t, 3, dto.Stats.TotalStudents)
	require.Equal(t, int64(14800), dto.Stats.TotalRevenueCents)
	require.Len(t, dto.Courses, 2)
	require.Len(t, dto.CoursePerformance, 2)
	require.Len(t, dto.RecentActivity, 2)
	// Newest first.
	require.Equal(t, "a2", dto.RecentActivity[0].UID)

	c1 := dto.CoursePerformance[0]
	require.Equal(t, "c1", c1.CourseUID)
	require.Equal(t, 2, c1.Stats.TotalStudents)
	require.Equal(t, 1, c1.Stats.CompletedCount)
	require.InDelta(t, 50.0, c1.Stats.CompletionRate, 0.01)
	require.InDelta(t, 75.0, c1.Stats.AverageProgress, 0.01)
}

func TestDashboardCacheHitSkipsModules(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{}
	principal := seedInstructor(driver)
	shared := cache.NewMock()
	svc := newFixture(driver, shared)

	first, err := svc.InstructorDashboard(ctx, principal)
	require.NoError(t, err)
	coldQueries := driver.queries.Load()
	require.Positive(t, coldQueries)

	second, err := svc.InstructorDashboard(ctx, principal)
	require.NoError(t, err)
	require.Equal(t, coldQueries, driver.queries.Load(), "cache hit must not touch any module service")
	require.Equal(t, first.Stats, second.Stats)
	require.Equal(t, first.Courses, second.Courses)
}

func TestDashboardInvalidateThenRebuild(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{}
	principal := seedInstructor(driver)
	shared := cache.NewMock()
	svc := newFixture(driver, shared)

	_, err := svc.InstructorDashboard(ctx, principal)
	require.NoError(t, err)
	_, err = svc.InstructorDashboard(ctx, principal)
	require.NoError(t, err)
	warmQueries := driver.queries.Load()

	// A progress mutation's declared effects cover the instructor view.
	effect := mutation.EffectsOf(mutation.CompleteItem)
	require.False(t, effect.Empty())
	for _, pattern := range effect.SharedPatterns {
		require.NoError(t, shared.Invalidate(ctx, pattern))
	}

	_, err = svc.InstructorDashboard(ctx, principal)
	require.NoError(t, err)
	require.Greater(t, driver.queries.Load(), warmQueries, "invalidation must force a rebuild")
}

func TestInstructorDashboardEnrichmentDegradesPerCourse(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{}
	principal := seedInstructor(driver)
	driver.failEnrollmentsForCourse = 1
	svc := newFixture(driver, cache.NewMock())

	dto, err := svc.InstructorDashboard(ctx, principal)
	require.NoError(t, err)

	var broken, healthy *CoursePerformance
	for i := range dto.CoursePerformance {
		switch dto.CoursePerformance[i].CourseUID {
		case "c1":
			broken = &dto.CoursePerformance[i]
		case "c2":
			healthy = &dto.CoursePerformance[i]
		}
	}
	require.NotNil(t, broken)
	require.NotNil(t, healthy)
	require.Equal(t, CourseStats{}, broken.Stats, "failed enrichment must fall back to the zeroed shape")
	require.Equal(t, 2, healthy.Stats.TotalStudents)
}

func TestDashboardCacheWriteFailureStillReturnsDTO(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{}
	principal := seedInstructor(driver)
	shared := cache.NewMock()
	shared.FailWrites = true
	svc := newFixture(driver, shared)

	dto, err := svc.InstructorDashboard(ctx, principal)
	require.NoError(t, err)
	require.NotNil(t, dto)
	require.Zero(t, shared.Len())
}

func TestDashboardAuthorizationFailureTouchesNothing(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{}
	seedInstructor(driver)
	shared := cache.NewMock()
	svc := newFixture(driver, shared)

	student := auth.Principal{UserID: 2, UID: "s1", Role: auth.RoleStudent}
	_, err := svc.InstructorDashboard(ctx, student)
	require.Error(t, err)
	require.True(t, apperrors.IsUnauthorized(err))
	require.Zero(t, shared.GetCalls, "authorization failure must precede the cache read")
	require.Zero(t, driver.queries.Load())
}

func TestInstructorStudentsAcrossElevenCourses(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{}
	driver.users = []*store.User{
		{ID: 1, UID: "u1", Role: store.RoleInstructor, RowStatus: store.Normal},
	}
	for i := int32(1); i <= 11; i++ {
		driver.courses = append(driver.courses, &store.Course{
			ID: i, UID: "c" + string(rune('0'+i%10)), InstructorID: 1, Title: "Course", Published: true,
		})
	}
	// Student 42 is enrolled in courses landing in both chunks.
	driver.enrollments = []*store.Enrollment{
		{ID: 1, CourseID: 1, StudentID: 42},
		{ID: 2, CourseID: 11, StudentID: 42},
		{ID: 3, CourseID: 5, StudentID: 43},
	}
	svc := newFixture(driver, cache.NewMock())

	dto, err := svc.InstructorDashboard(ctx, auth.Principal{UserID: 1, UID: "u1", Role: auth.RoleInstructor})
	require.NoError(t, err)
	require.Equal(t, 2, dto.Stats.TotalStudents, "a student spanning chunks must be counted once")
	require.Equal(t, int32(2), driver.batchedEnrollmentQueries.Load(), "11 course IDs must split into exactly 2 queries")
}

func TestStudentDashboardAssembly(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{}
	seedInstructor(driver)
	svc := newFixture(driver, cache.NewMock())

	dto, err := svc.StudentDashboard(ctx, auth.Principal{UserID: 3, UID: "s2", Role: auth.RoleStudent})
	require.NoError(t, err)
	require.Equal(t, 2, dto.Stats.EnrolledCourses)
	require.Equal(t, 1, dto.Stats.CompletedCourses)
	require.Len(t, dto.Courses, 2)
}

func TestAdminDashboardAssembly(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{}
	seedInstructor(driver)
	svc := newFixture(driver, cache.NewMock())

	dto, err := svc.AdminDashboard(ctx, auth.Principal{UserID: 99, UID: "admin1", Role: auth.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, 3, dto.Stats.TotalStudents)
	require.Equal(t, 1, dto.Stats.TotalInstructors)
	require.Equal(t, 2, dto.Stats.TotalCourses)
	require.Equal(t, 4, dto.Stats.TotalEnrollments)
	require.Equal(t, int64(14800), dto.Stats.TotalRevenueCents)
	require.Len(t, dto.CoursePerformance, 2)
}

func TestCoursePerformanceDetail(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{}
	principal := seedInstructor(driver)
	svc := newFixture(driver, cache.NewMock())

	detail, err := svc.CoursePerformanceDetail(ctx, principal, "c1")
	require.NoError(t, err)
	require.Equal(t, "c1", detail.Course.CourseUID)
	require.Len(t, detail.Students, 2)

	_, err = svc.CoursePerformanceDetail(ctx, principal, "nope")
	require.Error(t, err)
	require.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestGetDashboardDispatchesByRole(t *testing.T) {
	ctx := context.Background()
	driver := &fakeDriver{}
	principal := seedInstructor(driver)
	svc := newFixture(driver, cache.NewMock())

	dto, err := svc.GetDashboard(ctx, principal)
	require.NoError(t, err)
	require.IsType(t, (*InstructorDTO)(nil), dto)

	_, err = svc.GetDashboard(ctx, auth.Principal{UserID: 1, UID: "u1", Role: auth.Role(0)})
	require.Error(t, err)
	require.Equal(t, apperrors.ErrCodeInvalidArgument, apperrors.CodeOf(err))
}
