package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/streamtube/streamtube/internal/common"
	"github.com/streamtube/streamtube/internal/server/models"
	"github.com/streamtube/streamtube/internal/server/repositories/repomanager"
)

// CommentService implements the comment operations over videos. Mutations
// other than Create require the caller to own the comment.
type CommentService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewCommentService(db *sql.DB, repos repomanager.RepositoryManager) *CommentService {
	return &CommentService{db: db, repos: repos}
}

// ListVideoComments returns a page of the video's comments, newest first,
// each joined with its author's public fields.
func (s *CommentService) ListVideoComments(ctx context.Context, videoID string, page, limit int) ([]*models.CommentWithOwner, error) {
	if _, err := uuid.Parse(videoID); err != nil {
		return nil, fmt.Errorf("%w: invalid video id", common.ErrValidation)
	}

	if _, err := s.repos.Videos(s.db).FindByID(ctx, videoID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	list, err := s.repos.Comments(s.db).ListByVideo(ctx, videoID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	return list, nil
}

// AddComment creates a comment on the video on behalf of ownerID.
func (s *CommentService) AddComment(ctx context.Context, videoID, ownerID, content string) (*models.Comment, error) {
	if _, err := uuid.Parse(videoID); err != nil {
		return nil, fmt.Errorf("%w: invalid video id", common.ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrValidation)
	}

	if _, err := s.repos.Videos(s.db).FindByID(ctx, videoID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	comment, err := s.repos.Comments(s.db).Create(ctx, &models.Comment{
		VideoID: videoID,
		OwnerID: ownerID,
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	return comment, nil
}

// UpdateComment replaces the comment text. Only the comment's owner may
// update it; anyone else gets common.ErrUnauthorized.
func (s *CommentService) UpdateComment(ctx context.Context, commentID, ownerID, content string) (*models.Comment, error) {
	if _, err := uuid.Parse(commentID); err != nil {
		return nil, fmt.Errorf("%w: invalid comment id", common.ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrValidation)
	}

	repo := s.repos.Comments(s.db)

	comment, err := repo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	if comment.OwnerID != ownerID {
		return nil, common.ErrUnauthorized
	}

	updated, err := repo.UpdateContent(ctx, commentID, content)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	return updated, nil
}

// DeleteComment removes the comment. Only the comment's owner may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, ownerID string) error {
	if _, err := uuid.Parse(commentID); err != nil {
		return fmt.Errorf("%w: invalid comment id", common.ErrValidation)
	}

	repo := s.repos.Comments(s.db)

	comment, err := repo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	if comment.OwnerID != ownerID {
		return common.ErrUnauthorized
	}

	if err := repo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	return nil
}
