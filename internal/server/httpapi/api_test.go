package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/streamtube/streamtube/internal/common"
	"github.com/streamtube/streamtube/internal/logging"
	"github.com/streamtube/streamtube/internal/server/auth"
	"github.com/streamtube/streamtube/internal/server/models"
	"github.com/streamtube/streamtube/internal/server/services"
)

// --- fakes ---

type fakeSessions struct {
	registerOut *models.PublicAccount
	registerErr error
	registerIn  *services.RegisterInput

	loginOut *services.LoginResult
	loginErr error

	logoutErr error
	logoutID  string

	refreshOut *services.RefreshResult
	refreshErr error

	profileOut *models.PublicAccount
	profileErr error
}

func (f *fakeSessions) Register(ctx context.Context, in *services.RegisterInput) (*models.PublicAccount, error) {
	f.registerIn = in
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerOut, nil
}

func (f *fakeSessions) Login(ctx context.Context, in *services.LoginInput) (*services.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginOut, nil
}

func (f *fakeSessions) Logout(ctx context.Context, accountID string) error {
	f.logoutID = accountID
	return f.logoutErr
}

func (f *fakeSessions) Refresh(ctx context.Context, token string) (*services.RefreshResult, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshOut, nil
}

func (f *fakeSessions) Profile(ctx context.Context, accountID string) (*models.PublicAccount, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profileOut, nil
}

type fakeComments struct {
	listOut []*models.CommentWithOwner
	listErr error

	addOut *models.Comment
	addErr error

	updateOut *models.Comment
	updateErr error

	deleteErr error

	gotVideoID   string
	gotCommentID string
	gotOwnerID   string
	gotPage      int
	gotLimit     int
}

func (f *fakeComments) ListVideoComments(ctx context.Context, videoID string, page, limit int) ([]*models.CommentWithOwner, error) {
	f.gotVideoID, f.gotPage, f.gotLimit = videoID, page, limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeComments) AddComment(ctx context.Context, videoID, ownerID, content string) (*models.Comment, error) {
	f.gotVideoID, f.gotOwnerID = videoID, ownerID
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.addOut, nil
}

func (f *fakeComments) UpdateComment(ctx context.Context, commentID, ownerID, content string) (*models.Comment, error) {
	f.gotCommentID, f.gotOwnerID = commentID, ownerID
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeComments) DeleteComment(ctx context.Context, commentID, ownerID string) error {
	f.gotCommentID, f.gotOwnerID = commentID, ownerID
	return f.deleteErr
}

// fakeVerifier accepts exactly one token value per class.
type fakeVerifier struct {
	accessToken string
	accountID   string
}

func (f *fakeVerifier) Verify(c auth.TokenClass, token string) (string, error) {
	if c == auth.AccessToken && token == f.accessToken {
		return f.accountID, nil
	}
	return "", common.ErrTokenBadSignature
}

func newTestAPI(s *fakeSessions, c *fakeComments) *API {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(s, c, &fakeVerifier{accessToken: "good-access", accountID: "acc-1"}, logger)
}

func doRequest(t *testing.T, a *API, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return body
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

func multipartRegisterBody(t *testing.T, withAvatar bool) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"fullName": "Alice A",
		"password": "s3cret",
	} {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if withAvatar {
		fw, err := mw.CreateFormFile("avatar", "avatar.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte{0x89, 0x50}); err != nil {
			t.Fatalf("write avatar: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- sessions ---

func TestRegisterEndpoint(t *testing.T) {
	fs := &fakeSessions{registerOut: &models.PublicAccount{ID: "acc-1", Username: "alice"}}
	a := newTestAPI(fs, &fakeComments{})

	body, contentType := multipartRegisterBody(t, true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(t, a, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["statusCode"] != float64(201) || env["message"] == "" {
		t.Fatalf("bad envelope: %v", env)
	}
	data := env["data"].(map[string]any)
	if data["username"] != "alice" {
		t.Fatalf("bad data: %v", data)
	}
	if _, ok := data["passwordDigest"]; ok {
		t.Fatalf("secret leaked into response: %v", data)
	}
	if fs.registerIn == nil || fs.registerIn.Username != "alice" || len(fs.registerIn.Avatar) == 0 {
		t.Fatalf("input not forwarded: %+v", fs.registerIn)
	}
}

func TestRegisterEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", common.ErrValidation, http.StatusBadRequest},
		{"conflict", common.ErrConflict, http.StatusConflict},
		{"upstream", common.ErrUpstreamUnavailable, http.StatusBadGateway},
		{"internal", common.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(&fakeSessions{registerErr: tt.err}, &fakeComments{})
			body, contentType := multipartRegisterBody(t, true)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
			req.Header.Set("Content-Type", contentType)

			rec := doRequest(t, a, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			env := decodeEnvelope(t, rec)
			if _, ok := env["data"]; ok {
				t.Fatalf("failure envelope must not carry data: %v", env)
			}
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	fs := &fakeSessions{loginOut: &services.LoginResult{
		Account:      &models.PublicAccount{ID: "acc-1", Username: "alice"},
		AccessToken:  "at",
		RefreshToken: "rt",
	}}
	a := newTestAPI(fs, &fakeComments{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		jsonBody(t, map[string]string{"username": "alice", "password": "s3cret"}))
	rec := doRequest(t, a, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	for _, name := range []string{"accessToken", "refreshToken"} {
		c := findCookie(t, rec, name)
		if c == nil {
			t.Fatalf("cookie %s missing", name)
		}
		if !c.HttpOnly || !c.Secure {
			t.Fatalf("cookie %s must be HttpOnly and Secure: %+v", name, c)
		}
	}

	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]any)
	if data["accessToken"] != "at" || data["refreshToken"] != "rt" {
		t.Fatalf("tokens missing from body: %v", data)
	}
}

// An unknown identifier and a wrong password must be indistinguishable.
func TestLoginEndpoint_UniformRejection(t *testing.T) {
	bodies := map[string]error{
		"unknown account": common.ErrNotFound,
		"wrong password":  common.ErrInvalidCredentials,
	}
	var responses []string
	for name, svcErr := range bodies {
		a := newTestAPI(&fakeSessions{loginErr: svcErr}, &fakeComments{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
			jsonBody(t, map[string]string{"username": "x", "password": "y"}))
		rec := doRequest(t, a, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
		responses = append(responses, rec.Body.String())
	}
	if responses[0] != responses[1] {
		t.Fatalf("rejection bodies differ: %q vs %q", responses[0], responses[1])
	}
}

func TestLogoutEndpoint(t *testing.T) {
	fs := &fakeSessions{}
	a := newTestAPI(fs, &fakeComments{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "good-access"})
	rec := doRequest(t, a, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if fs.logoutID != "acc-1" {
		t.Fatalf("logout used id %q, want acc-1", fs.logoutID)
	}
	for _, name := range []string{"accessToken", "refreshToken"} {
		c := findCookie(t, rec, name)
		if c == nil || c.MaxAge >= 0 || c.Value != "" {
			t.Fatalf("cookie %s not cleared: %+v", name, c)
		}
	}
}

func TestLogoutEndpoint_RequiresAuth(t *testing.T) {
	a := newTestAPI(&fakeSessions{}, &fakeComments{})

	// no token at all
	rec := doRequest(t, a, httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	// forged token
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "forged"})
	rec = doRequest(t, a, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token: status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddleware_BearerHeader(t *testing.T) {
	a := newTestAPI(&fakeSessions{profileOut: &models.PublicAccount{ID: "acc-1", Username: "alice"}}, &fakeComments{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer good-access")
	rec := doRequest(t, a, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["data"].(map[string]any)["username"] != "alice" {
		t.Fatalf("bad data: %v", env)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	fs := &fakeSessions{refreshOut: &services.RefreshResult{
		Account:      &models.PublicAccount{ID: "acc-1"},
		AccessToken:  "new-at",
		RefreshToken: "rt",
	}}
	a := newTestAPI(fs, &fakeComments{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "rt"})
	rec := doRequest(t, a, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if c := findCookie(t, rec, "accessToken"); c == nil || c.Value != "new-at" {
		t.Fatalf("access cookie not refreshed: %+v", c)
	}
}

func TestRefreshEndpoint_Rejections(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"expired", common.ErrTokenExpired},
		{"revoked", common.ErrUnauthorized},
		{"malformed", common.ErrTokenMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(&fakeSessions{refreshErr: tt.err}, &fakeComments{})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
			req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "rt"})
			rec := doRequest(t, a, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

// --- comments ---

func authed(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "good-access"})
	return req
}

func TestListCommentsEndpoint(t *testing.T) {
	fc := &fakeComments{listOut: []*models.CommentWithOwner{
		{Comment: models.Comment{ID: "c-1", Content: "hi"}, Owner: models.CommentOwner{Username: "alice"}},
	}}
	a := newTestAPI(&fakeSessions{}, fc)

	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/comments/v-1?page=2&limit=5", nil))
	rec := doRequest(t, a, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if fc.gotVideoID != "v-1" || fc.gotPage != 2 || fc.gotLimit != 5 {
		t.Fatalf("params not forwarded: %+v", fc)
	}
	env := decodeEnvelope(t, rec)
	list := env["data"].([]any)
	owner := list[0].(map[string]any)["ownerOfComment"].(map[string]any)
	if owner["username"] != "alice" {
		t.Fatalf("owner join missing: %v", env)
	}
}

func TestAddCommentEndpoint(t *testing.T) {
	fc := &fakeComments{addOut: &models.Comment{ID: "c-1", VideoID: "v-1", OwnerID: "acc-1", Content: "hi"}}
	a := newTestAPI(&fakeSessions{}, fc)

	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/comments/v-1",
		jsonBody(t, map[string]string{"content": "hi"})))
	rec := doRequest(t, a, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if fc.gotOwnerID != "acc-1" {
		t.Fatalf("owner must come from the token, got %q", fc.gotOwnerID)
	}
}

func TestUpdateCommentEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"foreign comment", common.ErrUnauthorized, http.StatusUnauthorized},
		{"missing comment", common.ErrNotFound, http.StatusNotFound},
		{"bad id", common.ErrValidation, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(&fakeSessions{}, &fakeComments{updateErr: tt.err})
			req := authed(httptest.NewRequest(http.MethodPatch, "/api/v1/comments/c/c-1",
				jsonBody(t, map[string]string{"content": "x"})))
			rec := doRequest(t, a, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestDeleteCommentEndpoint(t *testing.T) {
	fc := &fakeComments{}
	a := newTestAPI(&fakeSessions{}, fc)

	req := authed(httptest.NewRequest(http.MethodDelete, "/api/v1/comments/c/c-9", nil))
	rec := doRequest(t, a, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if fc.gotCommentID != "c-9" || fc.gotOwnerID != "acc-1" {
		t.Fatalf("params not forwarded: %+v", fc)
	}
}

func TestCommentRoutes_RequireAuth(t *testing.T) {
	a := newTestAPI(&fakeSessions{}, &fakeComments{})

	rec := doRequest(t, a, httptest.NewRequest(http.MethodGet, "/api/v1/comments/v-1", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
