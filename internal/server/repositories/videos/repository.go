// Package videos provides a PostgreSQL-backed repository for the videos
// comments attach to.
package videos

import (
	"context"

	"github.com/streamtube/streamtube/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, video *models.Video) (*models.Video, error)
	FindByID(ctx context.Context, id string) (*models.Video, error)
}
