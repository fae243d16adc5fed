// Package identities persists identity-provider records (credentials and
// custom claims) in PostgreSQL.
package identities

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

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

// Create inserts a new identity. A duplicate email yields
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	claims, err := marshalClaims(identity.CustomClaims)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO identities (uid, email, password_hash, custom_claims)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		identity.UID, identity.Email, identity.PasswordHash, claims).Scan(&identity.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return identity, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	query :=
		`SELECT uid, email, password_hash, custom_claims, created_at FROM identities
		 WHERE email = $1
		 `
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) GetByUID(ctx context.Context, uid string) (*models.Identity, error) {
	query :=
		`SELECT uid, email, password_hash, custom_claims, created_at FROM identities
		 WHERE uid = $1
		 `
	return r.getOne(ctx, query, uid)
}

// SetCustomClaims replaces the whole claims document of uid.
func (r *PostgresRepository) SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error {
	raw, err := marshalClaims(claims)
	if err != nil {
		return err
	}

	query :=
		`UPDATE identities SET custom_claims = $2
		 WHERE uid = $1
		 `

	res, err := r.db.ExecContext(ctx, query, uid, raw)
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

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.Identity, error) {
	identity := &models.Identity{}
	var claims []byte

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&identity.UID, &identity.Email, &identity.PasswordHash, &claims, &identity.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(claims) > 0 {
		if err := json.Unmarshal(claims, &identity.CustomClaims); err != nil {
			return nil, fmt.Errorf("decode custom claims: %w", err)
		}
	}

	return identity, nil
}

func marshalClaims(claims map[string]any) ([]byte, error) {
	if claims == nil {
		claims = map[string]any{}
	}
	raw, err := json.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("encode custom claims: %w", err)
	}
	return raw, nil
}
