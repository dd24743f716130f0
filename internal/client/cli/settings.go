package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/daybook/internal/i18n"
)

// nowFn is a test seam for the clock.
var nowFn = time.Now

func (a *App) SetLocale(ctx context.Context, arg string) error {
	if arg == "" {
		fmt.Println("Current locale:", a.locale.Locale())
		fmt.Println("Usage: locale en|ru")
		return nil
	}

	if err := a.locale.SetLocale(ctx, i18n.Locale(arg)); err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Println("Locale set to", arg)
	return nil
}

// Clear wipes every locally stored key after an explicit confirmation.
// Remote entries are untouched.
func (a *App) Clear(ctx context.Context) error {
	fmt.Println(a.locale.T().ClearConfirm)
	answer, err := a.readLine("type 'yes' to confirm: ")
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.journal.ClearLocal(ctx); err != nil {
		fmt.Println("Clear failed:", err)
		return err
	}
	fmt.Println("All local data removed.")
	return nil
}
