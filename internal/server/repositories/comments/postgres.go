package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streamtube/streamtube/internal/common"
	"github.com/streamtube/streamtube/internal/dbx"
	"github.com/streamtube/streamtube/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByVideo(ctx context.Context, videoID string, page, limit int) ([]*models.CommentWithOwner, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := `
		SELECT c.id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
		       a.username, a.fullname, a.avatar_url
		FROM comments c
		JOIN accounts a ON a.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, videoID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.CommentWithOwner, 0, limit)
	for rows.Next() {
		c := &models.CommentWithOwner{}
		err := rows.Scan(
			&c.ID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
			&c.Owner.Username, &c.Owner.FullName, &c.Owner.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (video_id, owner_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, comment.VideoID, comment.OwnerID, comment.Content).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT id, video_id, owner_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	comment := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Content, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id, content string) (*models.Comment, error) {
	query := `
		UPDATE comments
		SET content = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, video_id, owner_id, content, created_at, updated_at
	`
	comment := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id, content).
		Scan(&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Content, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM comments
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
