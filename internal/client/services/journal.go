// Package services contains application services for the Daybook client.
// This file defines the journal service: the reconciliation engine that keeps
// the device-local store and the remote store in agreement and maintains the
// in-memory merged view.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/client"
	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/client/repositories/journal"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/streak"
)

// ErrEmptyContent is returned when a save would persist an empty entry.
var ErrEmptyContent = errors.New("entry content is empty")

// JournalService reconciles the local and remote entry sets and mediates
// writes so both stores eventually agree.
//
// Contract:
//   - Sync: run one reconciliation pass and return the merged, date-sorted
//     view. With an empty ownerID the pass is local-only and no remote
//     traffic happens. Remote failures degrade to the local view; they never
//     fail the call.
//   - SaveToday: persist today's entry locally first, then best-effort
//     remotely, and update the view optimistically.
//   - View/Streak/Stats: read the current merged view.
//   - ClearLocal: wipe the device store and the view.
//
// All methods honor context cancellation. A mutex serializes Sync and
// SaveToday so an optimistic save cannot interleave with an in-flight sync.
type JournalService interface {
	Sync(ctx context.Context, ownerID string) ([]models.Entry, error)
	SaveToday(ctx context.Context, ownerID, content, mood, prompt string) (models.Entry, error)
	Get(ctx context.Context, date string) (*models.Entry, error)
	View() []models.Entry
	Streak() int
	Stats() (entries int, words int, days int)
	ClearLocal(ctx context.Context) error
}

type journalService struct {
	client client.Client
	repo   journal.Repository
	logger logging.Logger

	// mu is the single-writer discipline: one reconciliation or save at a
	// time, so the remote-wins correction of a sync cannot clobber a
	// concurrent optimistic save.
	mu   sync.Mutex
	view []models.Entry

	now func() time.Time
}

// NewJournalService builds the reconciler on top of the remote client and
// the local repository.
func NewJournalService(c client.Client, repo journal.Repository, logger logging.Logger) *journalService {
	return &journalService{
		client: c,
		repo:   repo,
		logger: logger.With("module", "journal"),
		now:    time.Now,
	}
}

func sortByDate(entries []models.Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
}

func (s *journalService) viewCopy() []models.Entry {
	out := make([]models.Entry, len(s.view))
	copy(out, s.view)
	return out
}

// Sync runs one reconciliation pass:
//
//  1. fetch the local set L and, when a session exists, the remote set R;
//  2. dates only in L are staged for upload, the view takes L;
//  3. dates in both with identical content are a no-op; with differing
//     content the remote wins and the local copy is corrected;
//  4. dates only in R are added locally so offline reads stay complete;
//  5. staged uploads go out as one batch; a failed batch leaves the view and
//     the local corrections standing — the same records stage again on the
//     next pass, so no explicit retry queue is needed.
//
// The merged set, sorted by date ascending, becomes the authoritative view.
func (s *journalService) Sync(ctx context.Context, ownerID string) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading local entries: %w", err)
	}

	if ownerID == "" {
		sortByDate(local)
		s.view = local
		return s.viewCopy(), nil
	}

	remote, err := s.client.ListEntries(ctx)
	if err != nil {
		// Recoverable: present the local-only view and keep going.
		s.logger.Warn(ctx, "remote fetch failed, falling back to local view", "error", err)
		sortByDate(local)
		s.view = local
		return s.viewCopy(), nil
	}

	remoteByDate := make(map[string]models.Entry, len(remote))
	for _, e := range remote {
		e.OwnerID = ownerID
		remoteByDate[e.Date] = e
	}

	merged := make(map[string]models.Entry, len(local)+len(remote))
	localDates := make(map[string]struct{}, len(local))
	var toUpload []models.Entry

	for _, le := range local {
		localDates[le.Date] = struct{}{}

		re, ok := remoteByDate[le.Date]
		if !ok {
			// Present locally, absent remotely: stage for upload.
			le.OwnerID = ownerID
			le.UpdatedAt = s.now()
			toUpload = append(toUpload, le)
			merged[le.Date] = le
			continue
		}

		if re.Content == le.Content {
			merged[le.Date] = re
			continue
		}

		// Conflict: remote wins, local is corrected to match.
		if err := s.repo.Put(ctx, le.Date, re.Content); err != nil {
			return nil, fmt.Errorf("error correcting local entry: %w", err)
		}
		merged[le.Date] = re
	}

	for date, re := range remoteByDate {
		if _, ok := localDates[date]; ok {
			continue
		}
		// Present remotely, absent locally: pull so offline reads stay complete.
		if err := s.repo.Put(ctx, date, re.Content); err != nil {
			return nil, fmt.Errorf("error storing remote entry locally: %w", err)
		}
		merged[date] = re
	}

	if len(toUpload) > 0 {
		if err := s.client.UpsertEntries(ctx, toUpload); err != nil {
			// The staged records are still local, so the same "present
			// locally, absent remotely" condition recurs next pass.
			s.logger.Warn(ctx, "batch upload failed, will retry on next sync",
				"count", len(toUpload), "error", err)
		}
	}

	view := make([]models.Entry, 0, len(merged))
	for _, e := range merged {
		view = append(view, e)
	}
	sortByDate(view)
	s.view = view
	return s.viewCopy(), nil
}

// SaveToday upserts today's entry. The local write always happens first and
// is the floor guarantee; the remote write is attempted only with a session
// and its failure is logged and swallowed (optimistic update).
func (s *journalService) SaveToday(ctx context.Context, ownerID, content, mood, prompt string) (models.Entry, error) {
	if strings.TrimSpace(content) == "" {
		return models.Entry{}, ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	date := models.DayString(s.now())

	if err := s.repo.Put(ctx, date, content); err != nil {
		return models.Entry{}, fmt.Errorf("error saving entry: %w", err)
	}

	e := models.Entry{
		Date:      date,
		Content:   content,
		OwnerID:   ownerID,
		WordCount: models.CountWords(content),
		Mood:      mood,
		Prompt:    prompt,
		UpdatedAt: s.now(),
	}

	if ownerID != "" {
		if err := s.client.UpsertEntry(ctx, e); err != nil {
			s.logger.Warn(ctx, "remote save failed, local copy stands", "date", date, "error", err)
		}
	}

	replaced := false
	for i := range s.view {
		if s.view[i].Date == date {
			s.view[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		s.view = append(s.view, e)
		sortByDate(s.view)
	}

	return e, nil
}

// Get reads one entry from the local store.
func (s *journalService) Get(ctx context.Context, date string) (*models.Entry, error) {
	return s.repo.Get(ctx, date)
}

// View returns a copy of the current merged view.
func (s *journalService) View() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewCopy()
}

// Streak derives the consecutive-day streak from the current view.
func (s *journalService) Streak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return streak.Current(s.view, s.now())
}

// Stats returns totals over the current view: entry count, word count, and
// the current streak.
func (s *journalService) Stats() (int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := 0
	for _, e := range s.view {
		words += e.WordCount
	}
	return len(s.view), words, streak.Current(s.view, s.now())
}

// ClearLocal irreversibly wipes the device store and resets the view.
// Remote data is untouched.
func (s *journalService) ClearLocal(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ClearAll(ctx); err != nil {
		return fmt.Errorf("error clearing local store: %w", err)
	}
	s.view = nil
	return nil
}
