package userRepo

import (
	"context"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// UserRepository persists accounts. Emails are unique.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}
