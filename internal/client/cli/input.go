package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// readLine prompts and reads one trimmed line from the app's reader.
func (a *App) readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := a.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword prompts and reads a password without echoing it.
func (a *App) readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readMultiline reads lines until a line containing only "." and joins them
// with newlines. Journal entries are usually more than one line.
func (a *App) readMultiline(prompt string) (string, error) {
	fmt.Println(prompt)
	fmt.Println("(finish with a single \".\" on its own line)")

	var lines []string
	for {
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
