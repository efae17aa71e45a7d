// Package services contains server-side business logic. This file implements
// SessionService, which orchestrates registration, login, logout, and session
// refresh: input validation, password verification, token issuing, and
// persisting the single active refresh token per account.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/streamtube/streamtube/internal/common"
	"github.com/streamtube/streamtube/internal/dbx"
	"github.com/streamtube/streamtube/internal/server/auth"
	"github.com/streamtube/streamtube/internal/server/blob"
	"github.com/streamtube/streamtube/internal/server/models"
	"github.com/streamtube/streamtube/internal/server/repositories/repomanager"
)

// RegisterInput is the explicit request shape for Register. Avatar is
// required; CoverImage is optional.
type RegisterInput struct {
	Username        string
	Email           string
	FullName        string
	Password        string
	Avatar          []byte
	AvatarMediaType string
	CoverImage      []byte
	CoverMediaType  string
}

// LoginInput identifies an account by username or email (at least one must
// be present) plus its password.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult bundles the public account view with the freshly issued
// token pair.
type LoginResult struct {
	Account      *models.PublicAccount
	AccessToken  string
	RefreshToken string
}

// RefreshResult carries a new access token. The refresh token is returned
// unchanged: this server keeps exactly one refresh token per account and
// does not rotate it on refresh.
type RefreshResult struct {
	Account      *models.PublicAccount
	AccessToken  string
	RefreshToken string
}

// SessionService drives the credential and session-token lifecycle.
type SessionService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	issuer   *auth.Issuer
	uploader blob.Uploader
}

func NewSessionService(db *sql.DB, repos repomanager.RepositoryManager, issuer *auth.Issuer, uploader blob.Uploader) *SessionService {
	return &SessionService{
		db:       db,
		repos:    repos,
		issuer:   issuer,
		uploader: uploader,
	}
}

// Register creates an account. The required avatar is uploaded before any
// account row exists, so no account is ever persisted without its asset.
// The returned projection carries no secret fields by construction.
func (s *SessionService) Register(ctx context.Context, in *RegisterInput) (*models.PublicAccount, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.TrimSpace(in.Email)
	fullname := strings.TrimSpace(in.FullName)

	if username == "" || email == "" || fullname == "" || strings.TrimSpace(in.Password) == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrValidation)
	}
	if len(in.Avatar) == 0 {
		return nil, fmt.Errorf("%w: avatar file is required", common.ErrValidation)
	}

	repo := s.repos.Accounts(s.db)

	exists, err := repo.ExistsByLogin(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	if exists {
		return nil, common.ErrConflict
	}

	avatarURL, err := s.uploader.Upload(ctx, blob.RandomStorageKey("avatars"), in.Avatar, in.AvatarMediaType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	var coverURL string
	if len(in.CoverImage) > 0 {
		coverURL, err = s.uploader.Upload(ctx, blob.RandomStorageKey("covers"), in.CoverImage, in.CoverMediaType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
		}
	}

	digest, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	account := &models.Account{
		Username:       username,
		Email:          email,
		FullName:       fullname,
		PasswordDigest: digest,
		AvatarURL:      avatarURL,
		CoverImageURL:  coverURL,
	}

	// The existence check above gives a friendly conflict answer; the unique
	// indexes decide races between concurrent registrations.
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repos.Accounts(tx).Create(ctx, account)
		if err != nil {
			return err
		}
		account = created
		return nil
	}); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	return account.Public(), nil
}

// Login verifies credentials and, on success, issues an access/refresh token
// pair and persists the refresh token, overwriting any previous value. That
// overwrite is the rotation point: one login invalidates every refresh token
// issued by earlier logins.
func (s *SessionService) Login(ctx context.Context, in *LoginInput) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.TrimSpace(in.Email)

	if username == "" && email == "" {
		return nil, fmt.Errorf("%w: username or email is required", common.ErrValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	repo := s.repos.Accounts(s.db)

	account, err := repo.FindByLogin(ctx, username, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	ok, err := auth.VerifyPassword(in.Password, account.PasswordDigest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	accessToken, err := s.issuer.Issue(auth.AccessToken, account.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	refreshToken, err := s.issuer.Issue(auth.RefreshToken, account.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if err := repo.UpdateRefreshToken(ctx, account.ID, &refreshToken); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	return &LoginResult{
		Account:      account.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout clears the account's stored refresh token, ending the session
// system-wide. Clearing an already-clear token is success: the operation
// is idempotent.
func (s *SessionService) Logout(ctx context.Context, accountID string) error {
	if strings.TrimSpace(accountID) == "" {
		return fmt.Errorf("%w: account id is required", common.ErrValidation)
	}

	repo := s.repos.Accounts(s.db)
	if err := repo.UpdateRefreshToken(ctx, accountID, nil); err != nil {
		return fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	return nil
}

// Refresh re-establishes a session from a refresh token. The token must
// signature-verify under the refresh key, be unexpired, and match the value
// currently stored on the account; otherwise the caller gets a uniform
// common.ErrUnauthorized (the precise token failure is for logs only).
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	accountID, err := s.issuer.Verify(auth.RefreshToken, refreshToken)
	if err != nil {
		return nil, err
	}

	repo := s.repos.Accounts(s.db)

	account, err := repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	if account.RefreshToken == nil ||
		subtle.ConstantTimeCompare([]byte(*account.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, common.ErrUnauthorized
	}

	accessToken, err := s.issuer.Issue(auth.AccessToken, account.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	return &RefreshResult{
		Account:      account.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Profile returns the public view of an account.
func (s *SessionService) Profile(ctx context.Context, accountID string) (*models.PublicAccount, error) {
	repo := s.repos.Accounts(s.db)

	account, err := repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	return account.Public(), nil
}
