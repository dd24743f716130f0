// Package common contains shared constants and sentinel errors used across
// Daybook components.
package common

// EntryKeyPrefix is the local store namespace for journal entries. The full
// key is the prefix followed by the entry date in DateLayout form.
const EntryKeyPrefix = "journal_entry_"

// LocaleKey is the local store key holding the user's locale preference.
const LocaleKey = "app_locale"

// DateLayout is the canonical calendar-day format used as the entry key.
const DateLayout = "2006-01-02"
