package common

import "regexp"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether s has the canonical YYYY-MM-DD shape.
func ValidDate(s string) bool {
	return dateRe.MatchString(s)
}
