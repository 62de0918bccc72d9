package event

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/pkg/errors"
)

// ICS serializes the event as an iCalendar document suitable for an email
// attachment. uid identifies the VEVENT; now becomes its DTSTAMP.
func ICS(n Normalized, uid string, now time.Time) ([]byte, error) {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetText(ical.PropSummary, n.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, n.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, n.End.UTC())
	if n.Description != "" {
		ve.Props.SetText(ical.PropDescription, n.Description)
	}
	if n.Location != "" {
		ve.Props.SetText(ical.PropLocation, n.Location)
	}
	for _, attendee := range n.AttendeeEmails {
		p := ical.NewProp(ical.PropAttendee)
		p.SetText(fmt.Sprintf("mailto:%s", attendee))
		ve.Props.Add(p)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//StudySync//EN")
	cal.Children = append(cal.Children, ve)

	var buff bytes.Buffer
	if err := ical.NewEncoder(&buff).Encode(cal); err != nil {
		return nil, errors.Wrap(err, "encoding ics")
	}
	return buff.Bytes(), nil
}
