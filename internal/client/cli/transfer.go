package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/daybook/internal/client/models"
	"github.com/dmitrijs2005/daybook/internal/client/services"
)

func (a *App) Export(ctx context.Context) error {
	name, err := a.readLine("file name (empty for default): ")
	if err != nil {
		return err
	}
	if name == "" {
		name = fmt.Sprintf("journal_export_%s.csv", models.DayString(nowFn()))
	}

	f, err := os.Create(name)
	if err != nil {
		fmt.Println("Cannot create file:", err)
		return err
	}
	defer f.Close()

	if err := a.transfer.Export(ctx, f, true); err != nil {
		fmt.Println("Export failed:", err)
		return err
	}
	fmt.Println("Exported to", name)
	return nil
}

func (a *App) Import(ctx context.Context) error {
	name, err := a.readLine("file name: ")
	if err != nil {
		return err
	}

	f, err := os.Open(name)
	if err != nil {
		fmt.Println("Cannot open file:", err)
		return err
	}
	defer f.Close()

	n, err := a.transfer.Import(ctx, f)
	if err != nil {
		if errors.Is(err, services.ErrNothingImported) {
			fmt.Println("No valid rows found.")
			return nil
		}
		fmt.Println("Import failed:", err)
		return err
	}

	fmt.Printf("Imported %d entries.\n", n)

	// Imported rows are local-only until the next pass pushes them.
	if a.isLoggedIn() {
		return a.Sync(ctx)
	}
	return nil
}

func (a *App) Backup(ctx context.Context) error {
	key, err := a.transfer.Backup(ctx)
	if err != nil {
		fmt.Println("Backup failed:", err)
		return err
	}
	fmt.Println("Backed up as", key)
	return nil
}
