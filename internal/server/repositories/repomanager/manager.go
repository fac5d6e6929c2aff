package repomanager

import (
	"context"
	"database/sql"

	"github.com/mkarlsson/boardauth/internal/dbx"
	"github.com/mkarlsson/boardauth/internal/server/repositories/boards"
	"github.com/mkarlsson/boardauth/internal/server/repositories/refreshtokens"
	"github.com/mkarlsson/boardauth/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run several repositories inside one transaction by handing
// them the same *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Boards(db dbx.DBTX) boards.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
