// Package repomanager vends repository implementations for the configured
// storage backend and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophchat/internal/dbx"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Messages(db dbx.DBTX) messages.Repository
	// RunInTx runs fn with a transactional handle where the backend has one.
	RunInTx(ctx context.Context, db *sql.DB, fn dbx.TxFunc) error
}
