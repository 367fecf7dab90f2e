package user

import (
	"context"
)

type UserRepository interface {
	// GetByID returns ErrUserNotFound when no user has this id
	GetByID(ctx context.Context, id string) (User, error)

	// Count returns the number of registered users
	Count(ctx context.Context) (int64, error)
}
