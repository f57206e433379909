package kvstore

import (
	"context"

	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/store"
)

type UserRepository struct {
	kv     store.KV
	logger *zap.SugaredLogger
}

func NewUserRepository(kv store.KV, logger *zap.SugaredLogger) *UserRepository {
	return &UserRepository{kv: kv, logger: logger}
}

func (r *UserRepository) Load(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	ok, err := readJSON(ctx, r.kv, r.logger, KeyUsers, &users)
	if err != nil || !ok {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Save(ctx context.Context, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}
	return writeJSON(ctx, r.kv, KeyUsers, users)
}
