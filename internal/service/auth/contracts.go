//go:generate mockgen -source=contracts.go -destination=auth_mocks_test.go -package=auth_test

package auth

import (
	"context"

	"parcelbee/internal/domain"
)

type userRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
