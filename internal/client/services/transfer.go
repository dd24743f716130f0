package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/client"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/journal"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/csvx"
	"github.com/dmitrijs2005/daybook/internal/i18n"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/netx"
)

// ErrNothingImported is returned when no row of an import survived
// validation.
var ErrNothingImported = errors.New("no valid rows in import")

// TransferService covers the explicit export/import/backup actions. It talks
// only to the stores the caller chose: export and import work against the
// local repository, backup additionally uses the remote presign endpoint.
type TransferService interface {
	// Export writes the local entry set as CSV. Extended adds the
	// prompt/mood columns.
	Export(ctx context.Context, w io.Writer, extended bool) error

	// Import parses CSV text and upserts every valid row into the local
	// store, returning how many rows were imported. Invalid rows are
	// dropped silently; ErrNothingImported is returned when none survive.
	Import(ctx context.Context, r io.Reader) (int, error)

	// Backup exports the local set and uploads it to object storage via a
	// server-granted presigned URL. Returns the storage key.
	Backup(ctx context.Context) (string, error)

	// TodayPrompt returns the server's prompt for today, falling back to
	// the built-in locale-specific list when the server has none or is
	// unreachable.
	TodayPrompt(ctx context.Context, locale i18n.Locale) string
}

type transferService struct {
	client client.Client
	repo   journal.Repository
	logger logging.Logger
	now    func() time.Time
}

func NewTransferService(c client.Client, repo journal.Repository, logger logging.Logger) TransferService {
	return &transferService{client: c, repo: repo, logger: logger.With("module", "transfer"), now: time.Now}
}

func (s *transferService) Export(ctx context.Context, w io.Writer, extended bool) error {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("error reading local entries: %w", err)
	}
	return csvx.Marshal(w, entries, extended)
}

func (s *transferService) Import(ctx context.Context, r io.Reader) (int, error) {
	entries, err := csvx.Unmarshal(r)
	if err != nil {
		return 0, fmt.Errorf("import parse error: %w", err)
	}
	if len(entries) == 0 {
		return 0, ErrNothingImported
	}

	for _, e := range entries {
		if err := s.repo.Put(ctx, e.Date, e.Content); err != nil {
			return 0, fmt.Errorf("error storing imported entry %s: %w", e.Date, err)
		}
	}
	return len(entries), nil
}

func (s *transferService) Backup(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	if err := s.Export(ctx, &buf, true); err != nil {
		return "", err
	}

	key, url, err := s.client.PresignBackup(ctx)
	if err != nil {
		return "", fmt.Errorf("presign error: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, url, buf.Bytes()); err != nil {
		return "", fmt.Errorf("backup upload error: %w", err)
	}
	return key, nil
}

func (s *transferService) TodayPrompt(ctx context.Context, locale i18n.Locale) string {
	text, err := s.client.TodayPrompt(ctx)
	if err == nil && text != "" {
		return text
	}
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.logger.Warn(ctx, "prompt fetch failed, using fallback", "error", err)
	}
	return i18n.FallbackPrompt(locale, s.now().Day())
}
