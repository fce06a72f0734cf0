package aggregate

import (
	"time"

	"elfkoelsch/internal/models"
)

// Timeframe selects which events the events screen shows.
type Timeframe string

const (
	TimeframeAll       Timeframe = "all"
	TimeframeToday     Timeframe = "today"
	TimeframeThisWeek  Timeframe = "this_week"
	TimeframeThisMonth Timeframe = "this_month"
	TimeframeUpcoming  Timeframe = "upcoming"
)

// ParseTimeframe maps a selector string to a Timeframe, defaulting to all.
func ParseTimeframe(s string) Timeframe {
	switch Timeframe(s) {
	case TimeframeToday, TimeframeThisWeek, TimeframeThisMonth, TimeframeUpcoming:
		return Timeframe(s)
	}
	return TimeframeAll
}

// FilterEvents filters events by their start date relative to now. Calendar
// and ISO-week comparisons use now's location.
func FilterEvents(events []models.Event, timeframe Timeframe, now time.Time) []models.Event {
	// Fresh slice on every branch; callers may reorder the result without
	// touching the snapshot.
	if timeframe == TimeframeAll {
		out := make([]models.Event, len(events))
		copy(out, events)
		return out
	}

	loc := now.Location()
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		start := e.StartDate.In(loc)
		keep := false
		switch timeframe {
		case TimeframeToday:
			keep = sameDay(start, now)
		case TimeframeThisWeek:
			y1, w1 := start.ISOWeek()
			y2, w2 := now.ISOWeek()
			keep = y1 == y2 && w1 == w2
		case TimeframeThisMonth:
			keep = start.Year() == now.Year() && start.Month() == now.Month()
		case TimeframeUpcoming:
			keep = e.StartDate.After(now)
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SessionEnd computes when a session started at start expires. Unrecognized
// durations fall back to two hours.
func SessionEnd(duration models.SessionDuration, start time.Time) time.Time {
	switch duration {
	case models.Duration30Minutes:
		return start.Add(30 * time.Minute)
	case models.Duration1Hour:
		return start.Add(time.Hour)
	case models.Duration2Hours:
		return start.Add(2 * time.Hour)
	case models.Duration3Hours:
		return start.Add(3 * time.Hour)
	default:
		return start.Add(2 * time.Hour)
	}
}
