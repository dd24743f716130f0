package prompts

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/server/models"
)

type Repository interface {
	GetForDate(ctx context.Context, date string) (*models.Prompt, error)
}
