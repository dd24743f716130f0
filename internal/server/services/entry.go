package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/dbx"
	sc "github.com/dmitrijs2005/daybook/internal/server/config"
	"github.com/dmitrijs2005/daybook/internal/server/models"
	"github.com/dmitrijs2005/daybook/internal/server/repositories/repomanager"
)

// EntryService implements the server side of the journal: listing a user's
// entries, single and batch upserts, and the daily prompt lookup.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewEntryService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *EntryService {
	return &EntryService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// List returns all entries owned by userID ordered by entry date.
func (s *EntryService) List(ctx context.Context, userID string) ([]*models.Entry, error) {
	repo := s.repomanager.Entries(s.db)
	entries, err := repo.SelectForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error selecting entries: %v", err)
	}
	return entries, nil
}

// UpsertOne stores a single entry for userID, replacing any existing row for
// the same day.
func (s *EntryService) UpsertOne(ctx context.Context, userID string, entry *models.Entry) error {
	if !common.ValidDate(entry.EntryDate) {
		return fmt.Errorf("invalid entry date: %q", entry.EntryDate)
	}
	entry.UserID = userID
	repo := s.repomanager.Entries(s.db)
	if err := repo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("error upserting entry: %v", err)
	}
	return nil
}

// UpsertBatch stores a batch of entries in one transaction. Either the whole
// batch lands or none of it does, so a partial failure never leaves the
// user's remote set half-updated.
func (s *EntryService) UpsertBatch(ctx context.Context, userID string, batch []*models.Entry) error {
	for _, e := range batch {
		if !common.ValidDate(e.EntryDate) {
			return fmt.Errorf("invalid entry date: %q", e.EntryDate)
		}
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Entries(tx)
		for _, e := range batch {
			e.UserID = userID
			if err := repo.Upsert(ctx, e); err != nil {
				return fmt.Errorf("error upserting entry %s: %v", e.EntryDate, err)
			}
		}
		return nil
	})
}

// PromptForDate returns the prompt scheduled for the given day, or
// common.ErrorNotFound when none is configured.
func (s *EntryService) PromptForDate(ctx context.Context, date string) (*models.Prompt, error) {
	repo := s.repomanager.Prompts(s.db)
	return repo.GetForDate(ctx, date)
}
