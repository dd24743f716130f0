// Package csvx serializes journal entries to and from CSV text. It is
// storage-independent: callers decide where the entries come from and where
// the parsed records go.
//
// The minimal form uses the header "date,content"; the extended form adds
// "prompt,mood". Fields are RFC-4180 quoted, so content containing commas,
// quotes, or newlines round-trips intact.
package csvx

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/daybook/internal/client/models"
)

// Marshal writes entries to w, one row per entry in the given order.
// When extended is true the prompt and mood columns are included.
// Every field is double-quote-enclosed with embedded quotes doubled.
func Marshal(w io.Writer, entries []models.Entry, extended bool) error {
	header := "date,content"
	if extended {
		header = "date,content,prompt,mood"
	}
	if _, err := io.WriteString(w, header+"\n"); err != nil {
		return fmt.Errorf("csv write failed: %w", err)
	}

	for _, e := range entries {
		fields := []string{e.Date, e.Content}
		if extended {
			fields = append(fields, e.Prompt, e.Mood)
		}
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		if _, err := io.WriteString(w, strings.Join(quoted, ",")+"\n"); err != nil {
			return fmt.Errorf("csv write failed: %w", err)
		}
	}
	return nil
}

// column indices after header mapping
type layout struct {
	date    int
	content int
	prompt  int
	mood    int
}

func mapHeader(fields []string) layout {
	l := layout{date: -1, content: -1, prompt: -1, mood: -1}
	for i, name := range fields {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			l.date = i
		case "content":
			l.content = i
		case "prompt":
			l.prompt = i
		case "mood":
			l.mood = i
		}
	}
	return l
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Unmarshal parses CSV text into entries, preserving file order.
//
// The first line is treated as a header naming the columns; when it does not
// name a "date" column, rows are mapped positionally (date, content, prompt,
// mood). Import is lenient per row: a record whose date is not YYYY-MM-DD or
// whose content is empty is dropped silently and parsing continues.
func Unmarshal(r io.Reader) ([]models.Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv parse failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Positional fallback for headerless files.
	l := layout{date: 0, content: 1, prompt: 2, mood: 3}
	data := rows
	if mapped := mapHeader(rows[0]); mapped.date >= 0 && mapped.content >= 0 {
		l = mapped
		data = rows[1:]
	}

	var entries []models.Entry
	for _, row := range data {
		date := strings.TrimSpace(field(row, l.date))
		content := field(row, l.content)
		if !models.ValidDate(date) || content == "" {
			continue
		}
		entries = append(entries, models.Entry{
			Date:      date,
			Content:   content,
			Prompt:    field(row, l.prompt),
			Mood:      field(row, l.mood),
			WordCount: models.CountWords(content),
		})
	}
	return entries, nil
}
