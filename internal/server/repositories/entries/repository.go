package entries

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, entry *models.Entry) error
	SelectForUser(ctx context.Context, userID string) ([]*models.Entry, error)
}
