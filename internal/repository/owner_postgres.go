package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minsu-lee/agenda-api/internal/model"
)

type PostgresOwnerRepository struct {
	db *sql.DB
}

func NewPostgresOwner(db *sql.DB) *PostgresOwnerRepository {
	return &PostgresOwnerRepository{db: db}
}

func (r *PostgresOwnerRepository) GetOrCreate(ctx context.Context, cognitoSub, email string) (model.Owner, error) {
	query := `
		INSERT INTO owners (cognito_sub, email)
		VALUES ($1, $2)
		ON CONFLICT (cognito_sub) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, cognito_sub, email, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query, cognitoSub, email)
	return scanOwner(row)
}

func (r *PostgresOwnerRepository) GetByCognitoSub(ctx context.Context, cognitoSub string) (model.Owner, error) {
	query := `
		SELECT id, cognito_sub, email, created_at, updated_at
		FROM owners
		WHERE cognito_sub = $1`

	row := r.db.QueryRowContext(ctx, query, cognitoSub)
	return scanOwner(row)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanOwner(row scannable) (model.Owner, error) {
	var o model.Owner
	err := row.Scan(&o.ID, &o.CognitoSub, &o.Email, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return model.Owner{}, fmt.Errorf("failed to scan owner: %w", err)
	}
	return o, nil
}

var _ OwnerRepository = (*PostgresOwnerRepository)(nil)
