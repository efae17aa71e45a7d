package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/streamtube/streamtube/internal/common"
	"github.com/streamtube/streamtube/internal/dbx"
	"github.com/streamtube/streamtube/internal/server/models"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (username, email, fullname, password_digest, avatar_url, cover_image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		account.Username, account.Email, account.FullName,
		account.PasswordDigest, account.AvatarURL, account.CoverImageURL,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, username, email, fullname, password_digest, avatar_url, cover_image_url, refresh_token, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) FindByLogin(ctx context.Context, username, email string) (*models.Account, error) {
	query := `
		SELECT id, username, email, fullname, password_digest, avatar_url, cover_image_url, refresh_token, created_at, updated_at
		FROM accounts
		WHERE ($1 <> '' AND lower(username) = lower($1))
		   OR ($2 <> '' AND lower(email) = lower($2))
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username, email))
}

func (r *PostgresRepository) ExistsByLogin(ctx context.Context, username, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM accounts
			WHERE ($1 <> '' AND lower(username) = lower($1))
			   OR ($2 <> '' AND lower(email) = lower($2))
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	query := `
		UPDATE accounts
		SET refresh_token = $2, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	var refreshToken sql.NullString

	err := row.Scan(
		&account.ID, &account.Username, &account.Email, &account.FullName,
		&account.PasswordDigest, &account.AvatarURL, &account.CoverImageURL,
		&refreshToken, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if refreshToken.Valid {
		account.RefreshToken = &refreshToken.String
	}

	return account, nil
}
