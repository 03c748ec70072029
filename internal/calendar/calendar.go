package calendar

import (
	"fmt"
	"io"
	"time"
	_ "time/tzdata"

	"github.com/emersion/go-ical"
	"github.com/gosimple/slug"
	"github.com/pershin-daniil/slotpoll/pkg/models"
)

const (
	productID      = "-//slotpoll//EN"
	floatingLayout = "20060102T150405"
)

// Encode writes event as a single-event iCalendar file. Start and End are
// wall-clock times in timezone; when timezone is not a known IANA zone the
// times are written as floating local times.
func Encode(w io.Writer, event models.Event, timezone string) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, toICal(event, timezone))

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("err encoding calendar: %w", err)
	}
	return nil
}

// FileName derives a download name from the meeting title.
func FileName(title, id string) string {
	name := slug.Make(title)
	if name == "" {
		name = "meeting-" + id
	}
	return name + ".ics"
}

func toICal(event models.Event, timezone string) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, event.UID)
	ve.Props.SetText(ical.PropSummary, event.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, event.Created.UTC())

	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		ve.Props.Set(floating(ical.PropDateTimeStart, event.Start))
		ve.Props.Set(floating(ical.PropDateTimeEnd, event.End))
	} else {
		ve.Props.SetDateTime(ical.PropDateTimeStart, wallClock(event.Start, loc))
		ve.Props.SetDateTime(ical.PropDateTimeEnd, wallClock(event.End, loc))
	}

	if event.Description != "" {
		ve.Props.SetText(ical.PropDescription, event.Description)
	}
	if event.Organizer.Email != "" {
		ve.Props.Add(person(ical.PropOrganizer, event.Organizer))
	}
	for _, attendee := range event.Attendees {
		ve.Props.Add(person(ical.PropAttendee, attendee))
	}
	return ve
}

func floating(name string, t time.Time) *ical.Prop {
	p := ical.NewProp(name)
	p.Value = t.Format(floatingLayout)
	return p
}

func wallClock(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

func person(name string, a models.Attendee) *ical.Prop {
	p := ical.NewProp(name)
	p.Value = "mailto:" + a.Email
	if a.Name != "" {
		p.Params.Set(ical.ParamCommonName, a.Name)
	}
	return p
}
