// Package comments provides a PostgreSQL-backed repository for video comments.
package comments

import (
	"context"

	"github.com/streamtube/streamtube/internal/server/models"
)

type Repository interface {
	// ListByVideo returns a page of a video's comments, newest first, each
	// joined with its author's public fields.
	ListByVideo(ctx context.Context, videoID string, page, limit int) ([]*models.CommentWithOwner, error)

	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	FindByID(ctx context.Context, id string) (*models.Comment, error)

	// UpdateContent replaces the comment text; common.ErrNotFound if absent.
	UpdateContent(ctx context.Context, id, content string) (*models.Comment, error)

	// Delete removes the comment; common.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}
