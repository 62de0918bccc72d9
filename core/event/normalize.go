package event

import (
	"strings"
	"time"
)

// Normalize resolves a Raw event against the reference time now. It never
// fails: when the date or the start time cannot be understood, the result
// falls back to the window [now, now+DefaultDuration) and says so.
//
// Guarantees on the result: Start and End are UTC, End is strictly after
// Start, and the window's year is within YearSanityYears of now's.
func Normalize(raw Raw, now time.Time, opts Options) Normalized {
	opts = opts.defaults()
	now = now.UTC()

	n := Normalized{
		Title:          strings.TrimSpace(raw.Title),
		AttendeeEmails: ExtractAttendees(raw.AttendeesText),
		Location:       strings.TrimSpace(raw.Location),
		Description:    strings.TrimSpace(raw.Description),
	}

	start, end, ok := resolveWindow(raw.DateText, raw.TimeText, now, opts)
	if !ok {
		start = now
		end = now.Add(opts.DefaultDuration)
		n.UsedFallback = true
	}
	if !end.After(start) {
		end = start.Add(opts.DefaultDuration)
	}
	n.Start = start
	n.End = end
	return n
}

func resolveWindow(dateText, timeText string, now time.Time, opts Options) (time.Time, time.Time, bool) {
	day, ok := parseDate(dateText, now)
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	startText, endText := splitTimeRange(timeText)
	startClock, ok := parseTimeLiteral(startText)
	if !ok {
		// no usable start time means the whole window is guesswork
		return time.Time{}, time.Time{}, false
	}

	start := time.Date(day.year, day.month, day.day, startClock.hour, startClock.minute, 0, 0, time.UTC)

	var end time.Time
	if endClock, ok := parseTimeLiteral(endText); ok {
		end = time.Date(day.year, day.month, day.day, endClock.hour, endClock.minute, 0, 0, time.UTC)
		if !end.After(start) {
			// "10pm - 1am" crosses midnight
			end = end.Add(24 * time.Hour)
		}
	} else {
		end = start.Add(opts.DefaultDuration)
	}

	// typo years ("March 5, 2126") get pinned to the current year, keeping
	// the window length intact
	if sane := clampYear(start, now, opts.YearSanityYears); !sane.Equal(start) {
		end = end.Add(sane.Sub(start))
		start = sane
	}
	return start, end, true
}

func clampYear(t, now time.Time, window int) time.Time {
	diff := t.Year() - now.Year()
	if diff > window || diff < -window {
		return time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}
	return t
}
