// Package timefmt renders timestamps as coarse relative-time strings for
// activity feeds.
package timefmt

import (
	"fmt"
	"time"
)

// Relative converts eventTime into a relative string against now using fixed
// unit thresholds: under 60 minutes, under 24 hours, under 7 days, then an
// absolute date. Boundary values roll up into the next unit: a 60 minute
// difference renders as "1 hours ago", not "60 minutes ago".
//
// The unit word is always plural, including for 1 ("1 hours ago"). Frontend
// snapshots depend on the exact strings, so the phrasing is frozen.
func Relative(now, eventTime time.Time) string {
	diff := now.Sub(eventTime)

	minutes := int(diff.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d minutes ago", minutes)
	}

	hours := int(diff.Hours())
	if hours < 24 {
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%d days ago", days)
	}

	return eventTime.Format("Jan 2, 2006")
}
