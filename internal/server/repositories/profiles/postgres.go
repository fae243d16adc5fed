// Package profiles persists account profile documents in PostgreSQL.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/common"
	"github.com/dmitrijs2005/pulsecity/internal/dbx"
	"github.com/dmitrijs2005/pulsecity/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Set writes the profile of uid, replacing any previous one, and returns the
// store's update time. The password is never written.
func (r *PostgresRepository) Set(ctx context.Context, uid string, account models.Account) (time.Time, error) {
	query :=
		`INSERT INTO profiles (uid, name, email, role, location, verified_reporter)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (uid) DO UPDATE SET
		     name = EXCLUDED.name,
		     email = EXCLUDED.email,
		     role = EXCLUDED.role,
		     location = EXCLUDED.location,
		     verified_reporter = EXCLUDED.verified_reporter,
		     updated_at = now()
		 RETURNING updated_at
		 `

	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query,
		uid, account.Name, account.Email, string(account.Role), account.Location, account.VerifiedReporter).Scan(&updatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}

	return updatedAt, nil
}

func (r *PostgresRepository) Get(ctx context.Context, uid string) (*models.Profile, error) {
	query :=
		`SELECT uid, name, email, role, location, verified_reporter, updated_at FROM profiles
		 WHERE uid = $1
		 `

	p := &models.Profile{}
	var role string
	err := r.db.QueryRowContext(ctx, query, uid).Scan(
		&p.UID, &p.Account.Name, &p.Account.Email, &role, &p.Account.Location, &p.Account.VerifiedReporter, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.Account.Role = models.Role(role)

	return p, nil
}

func (r *PostgresRepository) SetRole(ctx context.Context, uid string, role models.Role) error {
	query :=
		`UPDATE profiles SET role = $2, updated_at = now()
		 WHERE uid = $1
		 `

	res, err := r.db.ExecContext(ctx, query, uid, string(role))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
