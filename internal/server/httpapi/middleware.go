package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/streamtube/streamtube/internal/common"
	"github.com/streamtube/streamtube/internal/server/auth"
)

type contextKey int

const accountIDKey contextKey = iota

// TokenVerifier checks a token of the given class and returns the account id
// it was issued for. *auth.Issuer satisfies it.
type TokenVerifier interface {
	Verify(c auth.TokenClass, token string) (string, error)
}

// RequireAuth admits requests carrying a valid access token, either in the
// accessToken cookie or an Authorization: Bearer header. Cookies win when
// both are present. Every rejection is the same 401; the precise token
// failure goes to the debug log only.
func (a *API) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			a.writeMappedError(w, r, common.ErrUnauthorized)
			return
		}

		accountID, err := a.verifier.Verify(auth.AccessToken, token)
		if err != nil {
			a.writeMappedError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// accountIDFromContext returns the authenticated account id stored by
// RequireAuth, or "" on an unauthenticated request.
func accountIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(accountIDKey).(string)
	return id
}
