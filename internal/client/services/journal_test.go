package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// fakeRepo is an in-memory journal.Repository.
type fakeRepo struct {
	entries map[string]string
	locale  string
	failPut bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[string]string)}
}

func (r *fakeRepo) ListAll(ctx context.Context) ([]models.Entry, error) {
	dates := make([]string, 0, len(r.entries))
	for d := range r.entries {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	out := make([]models.Entry, 0, len(dates))
	for _, d := range dates {
		out = append(out, models.Entry{Date: d, Content: r.entries[d], WordCount: models.CountWords(r.entries[d])})
	}
	return out, nil
}

func (r *fakeRepo) Get(ctx context.Context, date string) (*models.Entry, error) {
	content, ok := r.entries[date]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Entry{Date: date, Content: content}, nil
}

func (r *fakeRepo) Put(ctx context.Context, date, content string) error {
	if r.failPut {
		return errors.New("disk full")
	}
	r.entries[date] = content
	return nil
}

func (r *fakeRepo) ClearAll(ctx context.Context) error {
	r.entries = make(map[string]string)
	r.locale = ""
	return nil
}

func (r *fakeRepo) GetLocale(ctx context.Context) (string, error) {
	if r.locale == "" {
		return "", common.ErrorNotFound
	}
	return r.locale, nil
}

func (r *fakeRepo) SetLocale(ctx context.Context, locale string) error {
	r.locale = locale
	return nil
}

// fakeClient is an in-memory client.Client.
type fakeClient struct {
	remote map[string]string

	listErr   error
	batchErr  error
	upsertErr error

	batches      [][]models.Entry
	singles      []models.Entry
	listCalls    int
	promptText   string
	promptErr    error
	presignedURL string
}

func newFakeClient() *fakeClient {
	return &fakeClient{remote: make(map[string]string)}
}

func (c *fakeClient) Close() error { return nil }

func (c *fakeClient) Register(ctx context.Context, username, password string) error { return nil }

func (c *fakeClient) Login(ctx context.Context, username, password string) (string, error) {
	return "owner-1", nil
}

func (c *fakeClient) Ping(ctx context.Context) error { return nil }

func (c *fakeClient) ListEntries(ctx context.Context) ([]models.Entry, error) {
	c.listCalls++
	if c.listErr != nil {
		return nil, c.listErr
	}
	dates := make([]string, 0, len(c.remote))
	for d := range c.remote {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	out := make([]models.Entry, 0, len(dates))
	for _, d := range dates {
		out = append(out, models.Entry{Date: d, Content: c.remote[d]})
	}
	return out, nil
}

func (c *fakeClient) UpsertEntries(ctx context.Context, entries []models.Entry) error {
	cp := make([]models.Entry, len(entries))
	copy(cp, entries)
	c.batches = append(c.batches, cp)
	if c.batchErr != nil {
		return c.batchErr
	}
	for _, e := range entries {
		c.remote[e.Date] = e.Content
	}
	return nil
}

func (c *fakeClient) UpsertEntry(ctx context.Context, entry models.Entry) error {
	c.singles = append(c.singles, entry)
	if c.upsertErr != nil {
		return c.upsertErr
	}
	c.remote[entry.Date] = entry.Content
	return nil
}

func (c *fakeClient) TodayPrompt(ctx context.Context) (string, error) {
	return c.promptText, c.promptErr
}

func (c *fakeClient) PresignBackup(ctx context.Context) (string, string, error) {
	return "backup-key", c.presignedURL, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func newTestService(c *fakeClient, r *fakeRepo) *journalService {
	s := NewJournalService(c, r, testLogger())
	s.now = func() time.Time { return testToday }
	return s
}

func dates(entries []models.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Date)
	}
	return out
}

func TestSync_LocalOnlyEntryIsUploaded(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["2024-03-10"] = "A"
	c := newFakeClient()

	s := newTestService(c, repo)
	view, err := s.Sync(context.Background(), "owner-1")
	require.NoError(t, err)

	require.Len(t, view, 1)
	assert.Equal(t, "A", view[0].Content)
	assert.Equal(t, "owner-1", view[0].OwnerID)

	require.Len(t, c.batches, 1)
	require.Len(t, c.batches[0], 1)
	assert.Equal(t, "2024-03-10", c.batches[0][0].Date)
	assert.Equal(t, "A", c.batches[0][0].Content)
	assert.Equal(t, "A", c.remote["2024-03-10"])
}

func TestSync_ConflictRemoteWins(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["2024-03-10"] = "A"
	c := newFakeClient()
	c.remote["2024-03-10"] = "B"

	s := newTestService(c, repo)
	view, err := s.Sync(context.Background(), "owner-1")
	require.NoError(t, err)

	require.Len(t, view, 1)
	assert.Equal(t, "B", view[0].Content)
	assert.Equal(t, "B", repo.entries["2024-03-10"], "local copy corrected to remote")
	assert.Empty(t, c.batches, "no upload for a conflicting date")
}

func TestSync_RemoteOnlyEntryIsPulled(t *testing.T) {
	repo := newFakeRepo()
	c := newFakeClient()
	c.remote["2024-03-10"] = "C"

	s := newTestService(c, repo)
	view, err := s.Sync(context.Background(), "owner-1")
	require.NoError(t, err)

	require.Len(t, view, 1)
	assert.Equal(t, "C", view[0].Content)
	assert.Equal(t, "C", repo.entries["2024-03-10"])
	assert.Empty(t, c.batches)
}

func TestSync_IdenticalContentIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["2024-03-10"] = "same"
	c := newFakeClient()
	c.remote["2024-03-10"] = "same"

	s := newTestService(c, repo)
	view, err := s.Sync(context.Background(), "owner-1")
	require.NoError(t, err)

	require.Len(t, view, 1)
	assert.Empty(t, c.batches)
	assert.Empty(t, c.singles)
}

func TestSync_NoSessionIsLocalOnly(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["2024-03-10"] = "offline"
	c := newFakeClient()

	s := newTestService(c, repo)
	view, err := s.Sync(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, view, 1)
	assert.Equal(t, 0, c.listCalls, "no remote traffic without a session")
}

func TestSync_RemoteFailureDegradesToLocalView(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["2024-03-10"] = "kept"
	c := newFakeClient()
	c.listErr = common.ErrRemoteUnavailable

	s := newTestService(c, repo)
	view, err := s.Sync(context.Background(), "owner-1")
	require.NoError(t, err)

	require.Len(t, view, 1)
	assert.Equal(t, "kept", view[0].Content)
	assert.Equal(t, "kept", repo.entries["2024-03-10"], "local data never lost on remote failure")
}

func TestSync_BatchFailureKeepsViewAndRetriesNextPass(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["2024-03-10"] = "A"
	c := newFakeClient()
	c.batchErr = common.ErrRemoteUnavailable

	s := newTestService(c, repo)
	view, err := s.Sync(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, "A", view[0].Content)

	// Next pass: the same record stages again because it is still absent
	// remotely.
	c.batchErr = nil
	_, err = s.Sync(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, c.batches, 2)
	assert.Equal(t, "A", c.remote["2024-03-10"])
}

func TestSync_MergedViewSortedByDate(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["2024-03-14"] = "local"
	c := newFakeClient()
	c.remote["2024-03-10"] = "old"
	c.remote["2024-03-12"] = "mid"

	s := newTestService(c, repo)
	view, err := s.Sync(context.Background(), "owner-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-03-10", "2024-03-12", "2024-03-14"}, dates(view))
}

func TestSaveToday_OfflineWritesLocalOnly(t *testing.T) {
	repo := newFakeRepo()
	c := newFakeClient()

	s := newTestService(c, repo)
	e, err := s.SaveToday(context.Background(), "", "morning pages", "", "")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-15", e.Date)
	assert.Equal(t, "morning pages", repo.entries["2024-03-15"])
	assert.Empty(t, c.singles, "no remote call without a session")

	view := s.View()
	require.Len(t, view, 1)
	assert.Equal(t, "morning pages", view[0].Content)
}

func TestSaveToday_WithSessionUpsertsRemotely(t *testing.T) {
	repo := newFakeRepo()
	c := newFakeClient()

	s := newTestService(c, repo)
	_, err := s.SaveToday(context.Background(), "owner-1", "wrote a thing", "calm", "prompt text")
	require.NoError(t, err)

	require.Len(t, c.singles, 1)
	assert.Equal(t, "owner-1", c.singles[0].OwnerID)
	assert.Equal(t, "calm", c.singles[0].Mood)
	assert.Equal(t, 3, c.singles[0].WordCount)
	assert.Equal(t, "wrote a thing", c.remote["2024-03-15"])
}

func TestSaveToday_RemoteFailureSwallowed(t *testing.T) {
	repo := newFakeRepo()
	c := newFakeClient()
	c.upsertErr = common.ErrRemoteUnavailable

	s := newTestService(c, repo)
	_, err := s.SaveToday(context.Background(), "owner-1", "still saved", "", "")
	require.NoError(t, err)

	assert.Equal(t, "still saved", repo.entries["2024-03-15"])
	view := s.View()
	require.Len(t, view, 1)
	assert.Equal(t, "still saved", view[0].Content, "optimistic update stands")
}

func TestSaveToday_EmptyContentRejected(t *testing.T) {
	s := newTestService(newFakeClient(), newFakeRepo())
	_, err := s.SaveToday(context.Background(), "", "   \n", "", "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestSaveToday_SecondSaveSameDayOverwrites(t *testing.T) {
	repo := newFakeRepo()
	s := newTestService(newFakeClient(), repo)
	ctx := context.Background()

	_, err := s.SaveToday(ctx, "", "first", "", "")
	require.NoError(t, err)
	_, err = s.SaveToday(ctx, "", "second", "", "")
	require.NoError(t, err)

	assert.Equal(t, "second", repo.entries["2024-03-15"])
	view := s.View()
	require.Len(t, view, 1)
	assert.Equal(t, "second", view[0].Content)
}

func TestStreakAndStats(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["2024-03-15"] = "one two"
	repo.entries["2024-03-14"] = "three"
	repo.entries["2024-03-10"] = "gap before this"

	s := newTestService(newFakeClient(), repo)
	_, err := s.Sync(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, s.Streak())

	entries, words, days := s.Stats()
	assert.Equal(t, 3, entries)
	assert.Equal(t, 6, words)
	assert.Equal(t, 2, days)
}

func TestClearLocal(t *testing.T) {
	repo := newFakeRepo()
	repo.entries["2024-03-15"] = "gone soon"

	s := newTestService(newFakeClient(), repo)
	_, err := s.Sync(context.Background(), "")
	require.NoError(t, err)

	require.NoError(t, s.ClearLocal(context.Background()))
	assert.Empty(t, repo.entries)
	assert.Empty(t, s.View())
}
