// Package models contains the persistent entities of the server.
package models

import "time"

// Account is the authenticated principal. PasswordDigest and RefreshToken are
// secret-bearing fields: they never carry JSON tags and never leave the
// service layer except through Public().
//
// RefreshToken holds at most one live value per account. Login overwrites it,
// logout clears it; any earlier refresh token is thereby invalid system-wide.
type Account struct {
	ID             string
	Username       string
	Email          string
	FullName       string
	PasswordDigest string
	AvatarURL      string
	CoverImageURL  string
	RefreshToken   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicAccount is the projection of Account that may cross the trust
// boundary. It is built by construction without the secret fields rather
// than by deleting them from a serialized form.
type PublicAccount struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullname"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Public returns the client-safe projection of the account.
func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:            a.ID,
		Username:      a.Username,
		Email:         a.Email,
		FullName:      a.FullName,
		AvatarURL:     a.AvatarURL,
		CoverImageURL: a.CoverImageURL,
		CreatedAt:     a.CreatedAt,
	}
}
