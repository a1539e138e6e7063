package shared

import (
	"fmt"
	"time"
)

const week = 7 * 24 * time.Hour

// TimeAgo renders t relative to now: "Just now", "5 minutes ago", "1 hour ago",
// "3 days ago"; anything a week or older is shown as a date.
func TimeAgo(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < time.Minute {
		return "Just now"
	}
	if minutes := int(elapsed / time.Minute); minutes < 60 {
		return plural(minutes, "minute")
	}
	if hours := int(elapsed / time.Hour); hours < 24 {
		return plural(hours, "hour")
	}
	if days := int(elapsed / (24 * time.Hour)); days < 7 {
		return plural(days, "day")
	}
	return t.Format("02 Jan 2006")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// StartOfDay returns midnight of t's calendar day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsSameDay reports whether t falls on now's calendar day
func IsSameDay(t, now time.Time) bool {
	return StartOfDay(t.In(now.Location())).Equal(StartOfDay(now))
}

// WithinLastWeek reports whether t is in the seven days up to now
func WithinLastWeek(t, now time.Time) bool {
	return !t.Before(now.Add(-week)) && !t.After(now)
}
