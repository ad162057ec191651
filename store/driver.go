package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
//
// List methods taking an ID-list condition accept at most BatchChunkLimit
// values per call; the Store's batched helpers split larger sets.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// Course model related methods.
	CreateCourse(ctx context.Context, create *Course) (*Course, error)
	UpdateCourse(ctx context.Context, update *UpdateCourse) (*Course, error)
	ListCourses(ctx context.Context, find *FindCourse) ([]*Course, error)
	DeleteCourse(ctx context.Context, delete *DeleteCourse) error

	// Enrollment model related methods.
	CreateEnrollment(ctx context.Context, create *Enrollment) (*Enrollment, error)
	UpdateEnrollment(ctx context.Context, update *UpdateEnrollment) (*Enrollment, error)
	ListEnrollments(ctx context.Context, find *FindEnrollment) ([]*Enrollment, error)
	DeleteEnrollment(ctx context.Context, delete *DeleteEnrollment) error

	// Progress model related methods.
	UpsertProgress(ctx context.Context, upsert *UpsertProgress) (*Progress, error)
	ListProgress(ctx context.Context, find *FindProgress) ([]*Progress, error)

	// Payment model related methods.
	CreatePayment(ctx context.Context, create *Payment) (*Payment, error)
	ListPayments(ctx context.Context, find *FindPayment) ([]*Payment, error)

	// Activity model related methods.
	CreateActivity(ctx context.Context, create *Activity) (*Activity, error)
	ListActivities(ctx context.Context, find *FindActivity) ([]*Activity, error)
}
