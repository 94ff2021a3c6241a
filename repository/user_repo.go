package repository

import (
	"context"

	"transporterp/models"
)

// UserRepository defines the interface for user operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.AppUser) error
	GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error)
	ListUsers(ctx context.Context) ([]*models.AppUser, error)
}
