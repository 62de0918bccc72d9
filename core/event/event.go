// Package event turns loosely formatted, human-entered meeting details into
// normalized calendar data: a concrete UTC window, a clean attendee list, a
// Google Calendar prefill link and an iCalendar document.
package event

import "time"

type (
	// Raw is a meeting exactly as a student typed it into a form. Every
	// field is free text and none is trusted.
	Raw struct {
		Title         string `json:"title"`
		DateText      string `json:"date_text"`
		TimeText      string `json:"time_text"`
		AttendeesText string `json:"attendees_text"`
		Location      string `json:"location"`
		Description   string `json:"description"`
	}

	// Normalized is the machine-usable form of a Raw event. Start and End
	// are always UTC with End strictly after Start; when the date or start
	// time could not be understood, UsedFallback is true and the window is
	// the hour following the reference time.
	Normalized struct {
		Title          string    `json:"title"`
		Start          time.Time `json:"start"`
		End            time.Time `json:"end"`
		AttendeeEmails []string  `json:"attendee_emails"`
		Location       string    `json:"location,omitempty"`
		Description    string    `json:"description,omitempty"`
		UsedFallback   bool      `json:"used_fallback"`
	}

	// Options tunes normalization. Zero values mean the defaults.
	Options struct {
		DefaultDuration time.Duration // window length when no end time given; 1h
		YearSanityYears int           // accepted distance from the current year; 10
	}
)

const (
	defaultEventDuration   = time.Hour
	defaultYearSanityYears = 10
)

func (o Options) defaults() Options {
	if o.DefaultDuration <= 0 {
		o.DefaultDuration = defaultEventDuration
	}
	if o.YearSanityYears <= 0 {
		o.YearSanityYears = defaultYearSanityYears
	}
	return o
}
