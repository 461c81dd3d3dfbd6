package utils

import (
	"fmt"
	"time"
)

// RelativeTime formats an instant the way the feed displays post dates:
// "Just now", "N minutes ago", "N hours ago", "N days ago" up to a week,
// then MM/DD/YYYY.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff > 7*24*time.Hour:
		return t.Format("01/02/2006")
	case diff >= 24*time.Hour:
		return plural(int(diff/(24*time.Hour)), "day")
	case diff >= time.Hour:
		return plural(int(diff/time.Hour), "hour")
	case diff >= time.Minute:
		return plural(int(diff/time.Minute), "minute")
	default:
		return "Just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
