// Package repomanager vends repositories bound to a database handle or an
// open transaction and applies schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/pulsecity/internal/dbx"
	"github.com/dmitrijs2005/pulsecity/internal/server/repositories/identities"
	"github.com/dmitrijs2005/pulsecity/internal/server/repositories/posts"
	"github.com/dmitrijs2005/pulsecity/internal/server/repositories/profiles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Identities(db dbx.DBTX) identities.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Posts(db dbx.DBTX) posts.Repository
}
