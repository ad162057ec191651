package store

import (
	"context"

	"github.com/learnloop/learnloop/server/cachekey"
)

// UserRole mirrors the stored role name. The server layer converts it to the
// closed auth.Role enum at the boundary.
type UserRole string

const (
	// RoleStudent is a learner.
	RoleStudent UserRole = "student"
	// RoleInstructor owns courses.
	RoleInstructor UserRole = "instructor"
	// RoleAdmin operates the marketplace.
	RoleAdmin UserRole = "admin"
)

// User is the object representing a marketplace account.
type User struct {
	ID           int32
	UID          string
	RowStatus    RowStatus
	CreatedTs    int64
	UpdatedTs    int64
	Email        string
	Nickname     string
	PasswordHash string
	Role         UserRole
}

// FindUser is the find condition for user.
type FindUser struct {
	ID        *int32
	UID       *string
	Email     *string
	Role      *UserRole
	RowStatus *RowStatus

	Limit  *int
	Offset *int
}

// UpdateUser is the update request for user.
type UpdateUser struct {
	ID           int32
	UpdatedTs    *int64
	RowStatus    *RowStatus
	Email        *string
	Nickname     *string
	PasswordHash *string
	Role         *UserRole
}

// DeleteUser is the delete condition for user.
type DeleteUser struct {
	ID int32
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(cachekey.UserRecord(user.UID), user)
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.userCache.Delete(cachekey.UserRecord(user.UID))
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns a single user matching find, or nil when absent. Lookups by
// UID are served from the local entity cache when possible.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.UID != nil && find.ID == nil && find.Email == nil {
		if user, ok := s.userCache.Get(cachekey.UserRecord(*find.UID)); ok {
			return user.(*User), nil
		}
	}

	list, err := s.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	user := list[0]
	s.userCache.Set(cachekey.UserRecord(user.UID), user)
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	user, err := s.GetUser(ctx, &FindUser{ID: &delete.ID})
	if err != nil {
		return err
	}
	if err := s.driver.DeleteUser(ctx, delete); err != nil {
		return err
	}
	if user != nil {
		s.userCache.Delete(cachekey.UserRecord(user.UID))
	}
	return nil
}
