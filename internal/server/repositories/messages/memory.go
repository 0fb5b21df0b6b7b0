package messages

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps messages in insertion order; History sorts stably by
// CreatedAt so equal timestamps keep that order.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []models.Message
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryRepository) Create(_ context.Context, msg *models.Message) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := r.now()
	msg.CreatedAt, msg.UpdatedAt = now, now

	r.items = append(r.items, *msg)

	return msg, nil
}

func (r *MemoryRepository) History(_ context.Context, a, b string) ([]*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Message, 0)
	for i := range r.items {
		m := r.items[i]
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			result = append(result, &m)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}
