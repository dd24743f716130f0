package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/client/services"
	"github.com/dmitrijs2005/daybook/internal/common"
)

// Write captures today's entry. The daily prompt is shown first; whatever
// the user answers is saved locally and, with a session, remotely.
func (a *App) Write(ctx context.Context) error {
	prompt := a.transfer.TodayPrompt(ctx, a.locale.Locale())
	fmt.Println()
	fmt.Println("  " + prompt)
	fmt.Println()

	content, err := a.readMultiline("Today's entry:")
	if err != nil {
		return err
	}

	mood, err := a.readLine("mood (optional): ")
	if err != nil {
		return err
	}

	e, err := a.journal.SaveToday(ctx, a.sessions.Current(), content, mood, prompt)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) {
			fmt.Println("Nothing written, nothing saved.")
			return nil
		}
		fmt.Println("Save failed:", err)
		return err
	}

	t := a.locale.T()
	fmt.Printf("%s (%d %s). Streak: %d\n", t.EditorSaved, e.WordCount, t.StatsWords, a.journal.Streak())
	return nil
}

func (a *App) Show(ctx context.Context) error {
	date, err := a.readLine("date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	if !models.ValidDate(date) {
		fmt.Println("Not a valid date:", date)
		return nil
	}

	e, err := a.journal.Get(ctx, date)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fmt.Println("No entry for", date)
			return nil
		}
		fmt.Println("Error:", err)
		return err
	}

	fmt.Printf("\n%s\n\n%s\n", e.Date, e.Content)
	return nil
}

func (a *App) List(ctx context.Context) error {
	view := a.journal.View()
	if len(view) == 0 {
		fmt.Println("No entries yet. Start writing today.")
		return nil
	}

	for _, e := range view {
		preview := e.Content
		if len(preview) > 60 {
			preview = preview[:57] + "..."
		}
		fmt.Printf("%s  %4dw  %s\n", e.Date, e.WordCount, preview)
	}
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	entries, words, days := a.journal.Stats()
	t := a.locale.T()
	fmt.Printf("%s: %d   %s: %d   %s: %d\n",
		t.StatsStreak, days, t.StatsEntries, entries, t.StatsWords, words)
	return nil
}

func (a *App) Prompt(ctx context.Context) error {
	fmt.Println(a.transfer.TodayPrompt(ctx, a.locale.Locale()))
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	view, err := a.journal.Sync(ctx, a.sessions.Current())
	if err != nil {
		fmt.Println("Sync failed:", err)
		return err
	}
	fmt.Printf("Synced. %d entries in view.\n", len(view))
	return nil
}
