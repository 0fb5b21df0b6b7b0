package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out one shared in-memory store per repository
// and ignores the db handles it is given.
type MemoryRepositoryManager struct {
	users    *users.MemoryRepository
	messages *messages.MemoryRepository
}

func NewMemoryRepositoryManager() RepositoryManager {
	return &MemoryRepositoryManager{
		users:    users.NewMemoryRepository(),
		messages: messages.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Messages(dbx.DBTX) messages.Repository {
	return m.messages
}

func (m *MemoryRepositoryManager) RunInTx(ctx context.Context, _ *sql.DB, fn dbx.TxFunc) error {
	return fn(ctx, nil)
}
