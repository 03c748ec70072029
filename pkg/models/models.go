package models

import "github.com/pershin-daniil/slotpoll/pkg/availability"

// MeetingDetail is everything the organizer dashboard and the respond page need.
type MeetingDetail struct {
	Meeting
	Responses        []Response                      `json:"responses"`
	TimeSlots        []availability.GeneratedSlot    `json:"time_slots"`
	Dates            []string                        `json:"dates"`
	Aggregated       []availability.SlotAvailability `json:"aggregated"`
	TotalRespondents int                             `json:"total_respondents"`
}

type Attendee struct {
	Name  string `json:"name" db:"respondent_name"`
	Email string `json:"email" db:"respondent_email"`
}

type MeetingResults struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Finalized bool       `json:"finalized"`
	SlotStart string     `json:"slot_start,omitempty"`
	SlotEnd   string     `json:"slot_end,omitempty"`
	Date      string     `json:"date,omitempty"`
	Time      string     `json:"time,omitempty"`
	Timezone  string     `json:"timezone"`
	Attendees []Attendee `json:"attendees"`
}
