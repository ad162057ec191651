package modules

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnloop/learnloop/server/mutation"
	"github.com/learnloop/learnloop/store"
	"github.com/learnloop/learnloop/store/cache"
)

// UserService owns marketplace accounts.
type UserService struct {
	store  *store.Store
	shared cache.Shared
	logger *slog.Logger
}

// GetByID returns one user or nil.
func (s *UserService) GetByID(ctx context.Context, id int32) (*store.User, error) {
	return s.store.GetUser(ctx, &store.FindUser{ID: &id})
}

// GetByUID returns one user or nil.
func (s *UserService) GetByUID(ctx context.Context, uid string) (*store.User, error) {
	return s.store.GetUser(ctx, &store.FindUser{UID: &uid})
}

// GetByEmail returns one user or nil.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.store.GetUser(ctx, &store.FindUser{Email: &email})
}

// ListByIDs returns users matching the given IDs.
func (s *UserService) ListByIDs(ctx context.Context, ids []int32) ([]*store.User, error) {
	users := make([]*store.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user != nil {
			users = append(users, user)
		}
	}
	return users, nil
}

// CountByRole returns the number of active users holding the role.
func (s *UserService) CountByRole(ctx context.Context, role store.UserRole) (int, error) {
	status := store.Normal
	users, err := s.store.ListUsers(ctx, &store.FindUser{Role: &role, RowStatus: &status})
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

// CreateUser registers an account with a bcrypt-hashed password.
func (s *UserService) CreateUser(ctx context.Context, email, nickname, password string, role store.UserRole) (*store.User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}
	return s.store.CreateUser(ctx, &store.User{
		UID:          uuid.NewString(),
		RowStatus:    store.Normal,
		Email:        email,
		Nickname:     nickname,
		PasswordHash: string(hash),
		Role:         role,
	})
}

// CheckPassword verifies a login attempt against the stored hash.
func (s *UserService) CheckPassword(user *store.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// UpdateUser updates account fields. A non-empty password is re-hashed.
func (s *UserService) UpdateUser(ctx context.Context, update *store.UpdateUser, password string) (*store.User, error) {
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, "failed to hash password")
		}
		hashStr := string(hash)
		update.PasswordHash = &hashStr
	}
	now := time.Now().Unix()
	update.UpdatedTs = &now

	user, err := s.store.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.applyEffects(ctx, mutation.UpdateUser)
	return user, nil
}

func (s *UserService) applyEffects(ctx context.Context, name string) {
	applyEffects(ctx, name, s.store, s.shared, s.logger)
}
