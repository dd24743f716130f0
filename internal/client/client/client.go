package client

import (
	"context"

	"github.com/dmitrijs2005/daybook/internal/client/models"
)

// Client is the remote store adapter: everything the reconciler and the CLI
// need from the backend. Implementations map transport failures to the
// sentinel errors in this package and internal/common.
type Client interface {
	Close() error
	Register(ctx context.Context, username string, password string) error
	// Login authenticates and returns the opaque owner id used to scope
	// remote entries.
	Login(ctx context.Context, username string, password string) (string, error)
	Ping(ctx context.Context) error

	// ListEntries returns all entries for the authenticated owner, ordered
	// by date ascending.
	ListEntries(ctx context.Context) ([]models.Entry, error)
	// UpsertEntries pushes a batch in one call. Partial failure is reported
	// as failure of the whole batch.
	UpsertEntries(ctx context.Context, entries []models.Entry) error
	UpsertEntry(ctx context.Context, entry models.Entry) error

	// TodayPrompt returns the server's writing prompt for today, or
	// common.ErrorNotFound when none is configured.
	TodayPrompt(ctx context.Context) (string, error)

	// PresignBackup asks the server for a presigned PUT URL to upload a CSV
	// backup to object storage. Returns the storage key and the URL.
	PresignBackup(ctx context.Context) (string, string, error)
}
