package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// Root prints the banner, starts the online-status watcher, and hands
// control to the REPL.
func (a *App) Root(ctx context.Context) {
	t := a.locale.T()
	fmt.Println(t.AppTitle)
	fmt.Println("Type 'help' for commands.")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	statusFn := func() string {
		status := string(a.Mode)
		if a.isLoggedIn() {
			return fmt.Sprintf("%s, %s", a.userName, status)
		}
		return status
	}

	runREPL(ctx, a, statusFn, bufio.NewScanner(os.Stdin))
}
