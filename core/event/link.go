package event

import (
	"net/url"
	"strings"
)

const (
	calendarRenderURL  = "https://calendar.google.com/calendar/render"
	calendarTimeLayout = "20060102T150405"
)

// GoogleCalendarLink builds a Google Calendar event-prefill URL for the
// event. Parameters are emitted in a fixed order (action, text, dates,
// details, add..., location) so the link for a given event is stable.
func GoogleCalendarLink(n Normalized) string {
	var b strings.Builder
	b.WriteString(calendarRenderURL)
	b.WriteString("?action=TEMPLATE")
	b.WriteString("&text=")
	b.WriteString(url.QueryEscape(n.Title))
	b.WriteString("&dates=")
	b.WriteString(n.Start.UTC().Format(calendarTimeLayout))
	b.WriteString("/")
	b.WriteString(n.End.UTC().Format(calendarTimeLayout))
	b.WriteString("&details=")
	b.WriteString(url.QueryEscape(n.Description))
	for _, a := range n.AttendeeEmails {
		b.WriteString("&add=")
		b.WriteString(url.QueryEscape(a))
	}
	if n.Location != "" {
		b.WriteString("&location=")
		b.WriteString(url.QueryEscape(n.Location))
	}
	return b.String()
}
