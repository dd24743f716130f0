package models

import "time"

// Entry is one journal entry as stored on the server. Entries are scoped to
// a user and keyed by (UserID, EntryDate) — one row per user per day.
type Entry struct {
	ID        string
	UserID    string
	EntryDate string
	Content   string
	WordCount int
	Prompt    string
	Mood      string
	UpdatedAt time.Time
}
