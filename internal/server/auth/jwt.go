// Package auth provides the authentication primitives of the server:
// signed session tokens and password digests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/streamtube/streamtube/internal/common"
	"github.com/streamtube/streamtube/internal/server/config"
)

// TokenClass selects which signing key and lifetime a token is issued and
// verified under. Access and refresh tokens use independent secrets so that
// compromising one class cannot forge the other.
type TokenClass int

const (
	AccessToken TokenClass = iota
	RefreshToken
)

// Claims carries the standard registered claims plus the account id.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
}

type classConfig struct {
	secret []byte
	ttl    time.Duration
}

// Issuer mints and verifies HS256 tokens for both token classes. It is built
// once at startup from the immutable server config and never re-reads keys.
type Issuer struct {
	access  classConfig
	refresh classConfig
}

// NewIssuer validates the signing configuration and returns an Issuer.
// A missing secret or non-positive lifetime is a startup error, not a
// per-call condition.
func NewIssuer(cfg *config.Config) (*Issuer, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, errors.New("access and refresh token secrets must differ")
	}
	if cfg.AccessTokenValidityDuration <= 0 || cfg.RefreshTokenValidityDuration <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	return &Issuer{
		access:  classConfig{secret: []byte(cfg.AccessTokenSecret), ttl: cfg.AccessTokenValidityDuration},
		refresh: classConfig{secret: []byte(cfg.RefreshTokenSecret), ttl: cfg.RefreshTokenValidityDuration},
	}, nil
}

func (i *Issuer) class(c TokenClass) classConfig {
	if c == RefreshToken {
		return i.refresh
	}
	return i.access
}

// Issue returns a signed token of the given class for accountID, with expiry
// = issue time + the class lifetime.
func (i *Issuer) Issue(c TokenClass, accountID string) (string, error) {
	cc := i.class(c)
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cc.ttl)),
		},
		AccountID: accountID,
	})

	tokenString, err := token.SignedString(cc.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks the token against the class key and returns the account id it
// was issued for. Failures are reported as common.ErrTokenMalformed,
// common.ErrTokenBadSignature or common.ErrTokenExpired; callers outside the
// trust boundary must collapse them into a uniform unauthorized response.
func (i *Issuer) Verify(c TokenClass, tokenString string) (string, error) {
	cc := i.class(c)
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return cc.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", common.ErrTokenBadSignature
		default:
			return "", common.ErrTokenMalformed
		}
	}

	if !token.Valid {
		return "", common.ErrTokenBadSignature
	}

	return claims.AccountID, nil
}
