package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vaultacks/internal/server/repositories/overview"
)

// RepositoryManager abstracts the storage engine behind the server: schema
// migrations and repository construction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Overviews(db *sql.DB) overview.Repository
}
