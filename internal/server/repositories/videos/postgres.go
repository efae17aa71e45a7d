package videos

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

func (r *PostgresRepository) Create(ctx context.Context, video *models.Video) (*models.Video, error) {
	query := `
		INSERT INTO videos (owner_id, title)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, video.OwnerID, video.Title).
		Scan(&video.ID, &video.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return video, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Video, error) {
	query := `
		SELECT id, owner_id, title, created_at
		FROM videos
		WHERE id = $1
	`
	video := &models.Video{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&video.ID, &video.OwnerID, &video.Title, &video.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return video, nil
}
