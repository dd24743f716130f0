// Package entries provides a PostgreSQL-backed repository for server-side
// journal entry persistence.
package entries

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/dbx"
	"github.com/dmitrijs2005/daybook/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts or replaces the entry for (user_id, entry_date). The whole
// row is replaced: the most recent write for a day wins.
func (r *PostgresRepository) Upsert(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (user_id, entry_date, content, word_count, prompt_text, mood, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, entry_date)
		DO UPDATE SET
			content = EXCLUDED.content,
			word_count = EXCLUDED.word_count,
			prompt_text = EXCLUDED.prompt_text,
			mood = EXCLUDED.mood,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.UserID, entry.EntryDate, entry.Content, entry.WordCount, entry.Prompt, entry.Mood, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SelectForUser returns all of the user's entries ordered by entry date
// ascending.
func (r *PostgresRepository) SelectForUser(ctx context.Context, userID string) ([]*models.Entry, error) {
	query := `
		SELECT id, entry_date::text, content, word_count, coalesce(prompt_text, ''), coalesce(mood, ''), updated_at
		FROM entries
		WHERE user_id = $1
		ORDER BY entry_date
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		item := models.Entry{UserID: userID}
		if err := rows.Scan(
			&item.ID, &item.EntryDate, &item.Content, &item.WordCount, &item.Prompt, &item.Mood, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
