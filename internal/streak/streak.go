// Package streak derives the consecutive-day writing streak from a set of
// journal entries.
package streak

import (
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/models"
)

// Current returns the number of consecutive calendar days with an entry,
// counting backwards from today. If today has no entry yet, the count starts
// at yesterday, so a streak in progress before today's entry is written
// still shows. The result is 0 when neither today nor yesterday is present.
//
// Pure function: the result depends only on the entries and the supplied
// "today", so it is reproducible under a fixed clock.
func Current(entries []models.Entry, today time.Time) int {
	if len(entries) == 0 {
		return 0
	}

	days := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		days[e.Date] = struct{}{}
	}

	cursor := today
	if _, ok := days[models.DayString(cursor)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	n := 0
	for {
		if _, ok := days[models.DayString(cursor)]; !ok {
			return n
		}
		n++
		cursor = cursor.AddDate(0, 0, -1)
	}
}
