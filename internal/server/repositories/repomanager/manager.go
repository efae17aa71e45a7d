// Package repomanager hands out repositories bound to a DB handle, so a
// service can run the same repository against *sql.DB or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/streamtube/streamtube/internal/dbx"
	"github.com/streamtube/streamtube/internal/server/repositories/accounts"
	"github.com/streamtube/streamtube/internal/server/repositories/comments"
	"github.com/streamtube/streamtube/internal/server/repositories/videos"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Videos(db dbx.DBTX) videos.Repository
	Comments(db dbx.DBTX) comments.Repository
}
