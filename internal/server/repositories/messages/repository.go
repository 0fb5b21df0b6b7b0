// Package messages is the conversation store for two-party direct messages.
package messages

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

type Repository interface {
	// Create assigns ID and timestamps. Content is stored as given.
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	// History returns the conversation between a and b in either direction,
	// oldest first. It never returns a nil slice.
	History(ctx context.Context, a, b string) ([]*models.Message, error)
}
