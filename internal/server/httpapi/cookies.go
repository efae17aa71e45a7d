package httpapi

import (
	"net/http"
	"time"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// setAuthCookies attaches both session tokens as HttpOnly+Secure cookies.
// HttpOnly keeps them away from page scripts; Secure keeps them off
// plaintext links.
func setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, authCookie(accessTokenCookie, accessToken, 0))
	http.SetCookie(w, authCookie(refreshTokenCookie, refreshToken, 0))
}

// clearAuthCookies expires both token cookies.
func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, authCookie(accessTokenCookie, "", -1))
	http.SetCookie(w, authCookie(refreshTokenCookie, "", -1))
}

func authCookie(name, value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
	if maxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}
