// Package httpapi is the HTTP transport of the server: a chi router under
// /api/v1, JSON envelopes, token cookies, and the auth middleware. It maps
// the service error taxonomy to conventional status codes and keeps every
// secret-bearing detail out of response bodies.
package httpapi

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/streamtube/streamtube/internal/logging"
	"github.com/streamtube/streamtube/internal/server/models"
	"github.com/streamtube/streamtube/internal/server/services"
)

// Sessions is the session-lifecycle surface the transport depends on.
// *services.SessionService satisfies it.
type Sessions interface {
	Register(ctx context.Context, in *services.RegisterInput) (*models.PublicAccount, error)
	Login(ctx context.Context, in *services.LoginInput) (*services.LoginResult, error)
	Logout(ctx context.Context, accountID string) error
	Refresh(ctx context.Context, refreshToken string) (*services.RefreshResult, error)
	Profile(ctx context.Context, accountID string) (*models.PublicAccount, error)
}

// Comments is the comment surface the transport depends on.
// *services.CommentService satisfies it.
type Comments interface {
	ListVideoComments(ctx context.Context, videoID string, page, limit int) ([]*models.CommentWithOwner, error)
	AddComment(ctx context.Context, videoID, ownerID, content string) (*models.Comment, error)
	UpdateComment(ctx context.Context, commentID, ownerID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID, ownerID string) error
}

// API holds the dependencies of the HTTP handlers.
type API struct {
	sessions Sessions
	comments Comments
	verifier TokenVerifier
	logger   logging.Logger
}

func New(sessions Sessions, comments Comments, verifier TokenVerifier, logger logging.Logger) *API {
	return &API{
		sessions: sessions,
		comments: comments,
		verifier: verifier,
		logger:   logger,
	}
}

// Router mounts all routes under /api/v1.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", a.handleRegister)
			r.Post("/login", a.handleLogin)
			r.Post("/refresh-token", a.handleRefresh)
			r.With(a.RequireAuth).Post("/logout", a.handleLogout)
			r.With(a.RequireAuth).Get("/current-user", a.handleCurrentUser)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Use(a.RequireAuth)
			r.Get("/{videoID}", a.handleListComments)
			r.Post("/{videoID}", a.handleAddComment)
			r.Patch("/c/{commentID}", a.handleUpdateComment)
			r.Delete("/c/{commentID}", a.handleDeleteComment)
		})
	})

	return r
}
