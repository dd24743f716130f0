package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/dbx"
)

// SQLiteRepository implements Repository over a kv table using a DBTX
// (either *sql.DB or *sql.Tx). Entries live under common.EntryKeyPrefix
// followed by the date; the locale preference under common.LocaleKey.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ListAll lists every journal entry, ordered by key (and therefore by date,
// since the date format sorts lexicographically).
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Entry, error) {
	query := `SELECT name, value FROM kv WHERE name LIKE ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, common.EntryKeyPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []models.Entry
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		date := strings.TrimPrefix(name, common.EntryKeyPrefix)
		result = append(result, models.Entry{
			Date:      date,
			Content:   value,
			WordCount: models.CountWords(value),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns the entry stored for date, or common.ErrorNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, date string) (*models.Entry, error) {
	query := `SELECT value FROM kv WHERE name = ?`
	row := r.db.QueryRowContext(ctx, query, common.EntryKeyPrefix+date)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return &models.Entry{Date: date, Content: value, WordCount: models.CountWords(value)}, nil
}

// Put upserts the content for date unconditionally.
func (r *SQLiteRepository) Put(ctx context.Context, date string, content string) error {
	query := `INSERT INTO kv (name, value) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET value = excluded.value`
	_, err := r.db.ExecContext(ctx, query, common.EntryKeyPrefix+date, content)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

// ClearAll wipes the whole keyspace, entries and app state alike.
func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}

// GetLocale returns the stored locale preference, or common.ErrorNotFound.
func (r *SQLiteRepository) GetLocale(ctx context.Context) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE name = ?`, common.LocaleKey)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("query row scan failed: %w", err)
	}
	return value, nil
}

// SetLocale stores the locale preference.
func (r *SQLiteRepository) SetLocale(ctx context.Context, locale string) error {
	query := `INSERT INTO kv (name, value) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET value = excluded.value`
	if _, err := r.db.ExecContext(ctx, query, common.LocaleKey, locale); err != nil {
		return fmt.Errorf("failed to save locale: %w", err)
	}
	return nil
}
