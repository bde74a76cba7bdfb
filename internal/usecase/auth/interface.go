package auth

import (
	"context"

	domain "orb-service/internal/domain/user"
)

// Usecase defines the interface for authentication operations.
type Usecase interface {
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Restore(ctx context.Context, token string) (*domain.User, error)
	LoadUser(ctx context.Context, id string) (*domain.User, error)
	Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error)
}
