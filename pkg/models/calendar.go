package models

import "time"

type Event struct {
	UID         string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Created     time.Time
	Organizer   Attendee
	Attendees   []Attendee
}

// CalendarFile is a rendered .ics document and the file name to offer it under.
type CalendarFile struct {
	Name string
	Data []byte
}
