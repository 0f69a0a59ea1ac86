package ui

import (
	"fmt"
	"time"
)

// relativeTime formats a unix-seconds timestamp the way the message
// header shows it.
func relativeTime(ts int64) string {
	if ts == 0 {
		return ""
	}
	diff := time.Since(time.Unix(ts, 0))
	mins := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	default:
		return time.Unix(ts, 0).Format("Jan 2, 2006")
	}
}

// clockTime formats a unix-seconds timestamp as HH:MM:SS.
func clockTime(ts int64) string {
	if ts == 0 {
		return "--:--:--"
	}
	return time.Unix(ts, 0).Format("15:04:05")
}

// truncate shortens a string for single-line display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
