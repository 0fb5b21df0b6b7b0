// Package users is the credential store: persisted user identities looked up
// by email during login and by id behind the session gate.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	// Create assigns ID and timestamps. A taken email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id string, url string) (*models.User, error)
	// ListExcluding returns every user except id, oldest first.
	ListExcluding(ctx context.Context, id string) ([]*models.User, error)
}
