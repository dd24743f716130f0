package journal

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/client/models"
)

// Repository is the local store adapter: entries persisted on the device
// under a key/value namespace, one key per calendar day. Implementations are
// backed by a local SQLite database.
//
// Failures are fatal for the single operation that hit them; callers decide
// whether to retry.
type Repository interface {
	// ListAll scans every key in the journal-entry namespace and returns the
	// decoded entries, date taken from the key suffix. No pagination; the
	// set is assumed small (a few thousand days at most).
	ListAll(ctx context.Context) ([]models.Entry, error)

	// Get returns the entry for date, or common.ErrorNotFound.
	Get(ctx context.Context, date string) (*models.Entry, error)

	// Put upserts the content for date, overwriting unconditionally.
	Put(ctx context.Context, date string, content string) error

	// ClearAll irreversibly removes every key the app owns, journal entries
	// and other local state alike.
	ClearAll(ctx context.Context) error

	// GetLocale and SetLocale manage the locale preference key that shares
	// the store with the entries.
	GetLocale(ctx context.Context) (string, error)
	SetLocale(ctx context.Context, locale string) error
}
