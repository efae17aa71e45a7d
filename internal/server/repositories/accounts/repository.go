// Package accounts provides the durable credential store for principals:
// point lookups by id/username/email, creation, and the single-field
// refresh-token update the session lifecycle depends on.
package accounts

import (
	"context"

	"github.com/streamtube/streamtube/internal/server/models"
)

type Repository interface {
	// Create inserts the account and fills in its generated fields.
	// A duplicate username or email yields common.ErrConflict.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// FindByID returns the account or common.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Account, error)

	// FindByLogin looks an account up by username OR email; empty arguments
	// are skipped. Username matching is case-insensitive.
	FindByLogin(ctx context.Context, username, email string) (*models.Account, error)

	// ExistsByLogin reports whether any account matches the username or email.
	ExistsByLogin(ctx context.Context, username, email string) (bool, error)

	// UpdateRefreshToken overwrites the stored refresh token (nil clears it).
	// The write is a single atomic statement; clearing an already-clear
	// token is a no-op, not an error.
	UpdateRefreshToken(ctx context.Context, id string, token *string) error
}
