package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Write(ctx context.Context) error
	Show(ctx context.Context) error
	List(ctx context.Context) error
	Stats(ctx context.Context) error
	Prompt(ctx context.Context) error
	Sync(ctx context.Context) error
	Export(ctx context.Context) error
	Import(ctx context.Context) error
	Backup(ctx context.Context) error
	SetLocale(ctx context.Context, arg string) error
	Clear(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the Daybook CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("db> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (w)rite, show, (l)ist, stats, streak, prompt, sync, export, import, backup, locale, clear, logout, exit")
			} else {
				printlnFn("Available commands: (w)rite, show, (l)ist, stats, streak, prompt, export, import, locale, clear, register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "w", "write":
			_ = a.Write(ctx)

		case "show":
			_ = a.Show(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "stats", "streak":
			_ = a.Stats(ctx)

		case "prompt":
			_ = a.Prompt(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "export":
			_ = a.Export(ctx)

		case "import":
			_ = a.Import(ctx)

		case "backup":
			_ = a.Backup(ctx)

		case "locale":
			_ = a.SetLocale(ctx, arg)

		case "clear":
			_ = a.Clear(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
