package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/assistant/internal/dbx"
	"github.com/dmitrijs2005/assistant/internal/server/repositories/chats"
	"github.com/dmitrijs2005/assistant/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/assistant/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Chats(db dbx.DBTX) chats.Repository
}
