// Package models defines client-side data models used by the Daybook CLI.
package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
)

// Entry is one day's journal record. The calendar date is the natural key:
// at most one Entry exists per date locally, and per (owner, date) remotely.
//
// Every code path carries this one type; Prompt and Mood are optional and
// stay empty where a call site has nothing to put in them.
type Entry struct {
	// Date is the canonical YYYY-MM-DD day string. Immutable once created.
	Date string

	// Content is the free-form text body. Never persisted empty.
	Content string

	// OwnerID is the opaque identity of the authenticated user.
	// Empty for device-only (unauthenticated) entries.
	OwnerID string

	// WordCount is derived from Content on save/import.
	WordCount int

	// Prompt is the writing prompt the entry answered, when one was shown.
	Prompt string

	// Mood is an optional free-form mood marker.
	Mood string

	// UpdatedAt is the last write time. Informational metadata only; it is
	// not consulted for conflict resolution.
	UpdatedAt time.Time
}

// Key returns the local store key for the entry's date.
func (e Entry) Key() string {
	return common.EntryKeyPrefix + e.Date
}

// ValidDate reports whether s has the canonical YYYY-MM-DD shape.
func ValidDate(s string) bool {
	return common.ValidDate(s)
}

// DayString formats t as the canonical day key.
func DayString(t time.Time) string {
	return t.Format(common.DateLayout)
}

// CountWords returns the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
