// Package prompts provides a PostgreSQL-backed repository for the scheduled
// daily writing prompts.
package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/dbx"
	"github.com/dmitrijs2005/daybook/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetForDate returns the prompt scheduled for the given day (YYYY-MM-DD), or
// common.ErrorNotFound when none is configured. Clients fall back to their
// built-in prompt list in that case.
func (r *PostgresRepository) GetForDate(ctx context.Context, date string) (*models.Prompt, error) {
	query := `
		SELECT id, display_date::text, text
		FROM prompts
		WHERE display_date = $1
	`
	p := &models.Prompt{}
	if err := r.db.QueryRowContext(ctx, query, date).Scan(&p.ID, &p.DisplayDate, &p.Text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
