package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/streamtube/streamtube/internal/common"
	"github.com/streamtube/streamtube/internal/server/models"
	"github.com/streamtube/streamtube/internal/server/services"
)

const (
	maxJSONBodySize = 1 << 20
	maxUploadSize   = 16 << 20
)

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// sessionResponse is the data payload of login and refresh responses. The
// tokens also travel as cookies; the body copy serves non-browser clients.
type sessionResponse struct {
	User         *models.PublicAccount `json:"user"`
	AccessToken  string                `json:"accessToken"`
	RefreshToken string                `json:"refreshToken"`
}

func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return v, false
	}
	return v, true
}

// formFileBytes reads an optional multipart file. A missing part is not an
// error; the caller decides whether the field is required.
func formFileBytes(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", nil
		}
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, fileContentType(header), nil
}

func fileContentType(h *multipart.FileHeader) string {
	if h == nil {
		return ""
	}
	return h.Header.Get("Content-Type")
}

// handleRegister handles POST /api/v1/users/register (multipart form).
func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	avatar, avatarType, err := formFileBytes(r, "avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid avatar file")
		return
	}
	cover, coverType, err := formFileBytes(r, "coverImage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cover image file")
		return
	}

	account, err := a.sessions.Register(r.Context(), &services.RegisterInput{
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		FullName:        r.FormValue("fullName"),
		Password:        r.FormValue("password"),
		Avatar:          avatar,
		AvatarMediaType: avatarType,
		CoverImage:      cover,
		CoverMediaType:  coverType,
	})
	if err != nil {
		a.writeMappedError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, account, "account registered")
}

// handleLogin handles POST /api/v1/users/login. An unknown identifier and a
// wrong password produce byte-identical responses.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[loginRequest](w, r)
	if !ok {
		return
	}

	res, err := a.sessions.Login(r.Context(), &services.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrInvalidCredentials) {
			a.logger.Debug(r.Context(), "login rejected", "reason", err.Error())
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		a.writeMappedError(w, r, err)
		return
	}

	setAuthCookies(w, res.AccessToken, res.RefreshToken)
	writeData(w, http.StatusOK, sessionResponse{
		User:         res.Account,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, "logged in")
}

// handleLogout handles POST /api/v1/users/logout. The account comes from the
// verified access token, never from the request body.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Logout(r.Context(), accountIDFromContext(r.Context())); err != nil {
		a.writeMappedError(w, r, err)
		return
	}

	clearAuthCookies(w)
	writeData(w, http.StatusOK, nil, "logged out")
}

// handleRefresh handles POST /api/v1/users/refresh-token. The refresh token
// comes from the refreshToken cookie, or from the JSON body for clients that
// do not hold cookies.
func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		if req, ok := decodeJSON[refreshRequest](w, r); ok {
			token = req.RefreshToken
		} else {
			return
		}
	}
	if token == "" {
		a.writeMappedError(w, r, common.ErrUnauthorized)
		return
	}

	res, err := a.sessions.Refresh(r.Context(), token)
	if err != nil {
		a.writeMappedError(w, r, err)
		return
	}

	setAuthCookies(w, res.AccessToken, res.RefreshToken)
	writeData(w, http.StatusOK, sessionResponse{
		User:         res.Account,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, "session refreshed")
}

// handleCurrentUser handles GET /api/v1/users/current-user.
func (a *API) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	account, err := a.sessions.Profile(r.Context(), accountIDFromContext(r.Context()))
	if err != nil {
		a.writeMappedError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, account, "current account")
}
