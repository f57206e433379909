package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/repo"
)

var defaultUsers = []domain.User{
	{ID: "admin", Name: "Quản trị viên", Email: "admin@nhahang.vn", Role: domain.RoleAdmin, Phone: "0901234567"},
	{ID: "user-1", Name: "Nguyễn Văn An", Email: "an.nguyen@example.com", Role: domain.RoleUser, Phone: "0912345678"},
	{ID: "user-2", Name: "Trần Thị Bình", Email: "binh.tran@example.com", Role: domain.RoleUser, Phone: "0987654321"},
}

func DefaultUsers() []domain.User {
	return slices.Clone(defaultUsers)
}

type UserService struct {
	userRepo repo.UserRepository
	logger   *zap.SugaredLogger
}

func NewUserService(userRepo repo.UserRepository, logger *zap.SugaredLogger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// Load returns all accounts, seeding the default ones into an empty store.
func (s *UserService) Load(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if len(users) > 0 {
		return users, nil
	}

	users = DefaultUsers()
	if err := s.userRepo.Save(ctx, users); err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}

	s.logger.Infow("default users seeded", "count", len(users))

	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	users, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(users, func(u domain.User) bool { return u.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return &users[idx], nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	idx := slices.IndexFunc(users, func(u domain.User) bool { return strings.ToLower(u.Email) == email })
	if idx < 0 {
		return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}
	return &users[idx], nil
}

// Delete removes exactly one non-admin account. Admin accounts are refused
// with domain.ErrProtectedUser and the store is left unchanged.
func (s *UserService) Delete(ctx context.Context, id string) error {
	users, err := s.Load(ctx)
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(users, func(u domain.User) bool { return u.ID == id })
	if idx < 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if users[idx].IsAdmin() {
		s.logger.Warnw("refused to delete admin account", "user_id", id)
		return fmt.Errorf("user %s: %w", id, domain.ErrProtectedUser)
	}

	users = slices.Delete(users, idx, idx+1)
	if err := s.userRepo.Save(ctx, users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}

	s.logger.Infow("user deleted", "user_id", id)

	return nil
}
