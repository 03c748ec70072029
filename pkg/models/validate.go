package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/pershin-daniil/slotpoll/pkg/availability"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Validate checks every field and reports all failures at once.
func (r CreateMeetingRequest) Validate() error {
	var v ValidationError
	if strings.TrimSpace(r.CreatorName) == "" {
		v.add("Creator name is required.")
	}
	if !emailRe.MatchString(strings.TrimSpace(r.CreatorEmail)) {
		v.add("A valid creator email is required.")
	}
	if strings.TrimSpace(r.Title) == "" {
		v.add("Meeting title is required.")
	}
	if !validDuration(r.Duration) {
		v.add("Duration must be 15, 30, or 60 minutes.")
	}

	startDate, startDateOK := parseDate(r.DateRangeStart)
	if !startDateOK {
		v.add("Valid start date required (YYYY-MM-DD).")
	}
	endDate, endDateOK := parseDate(r.DateRangeEnd)
	if !endDateOK {
		v.add("Valid end date required (YYYY-MM-DD).")
	}
	if startDateOK && endDateOK && startDate.After(endDate) {
		v.add("Start date must be before or equal to end date.")
	}

	startClock, startClockOK := parseClock(r.TimeRangeStart)
	if !startClockOK {
		v.add("Valid start time required (HH:MM).")
	}
	endClock, endClockOK := parseClock(r.TimeRangeEnd)
	if !endClockOK {
		v.add("Valid end time required (HH:MM).")
	}
	if startClockOK && endClockOK && !startClock.Before(endClock) {
		v.add("Start time must be before end time.")
	}

	if strings.TrimSpace(r.Timezone) == "" {
		v.add("Timezone is required.")
	}
	return v.orNil()
}

// Normalized trims free text and lower-cases the email.
func (r CreateMeetingRequest) Normalized() CreateMeetingRequest {
	r.CreatorName = strings.TrimSpace(r.CreatorName)
	r.CreatorEmail = strings.ToLower(strings.TrimSpace(r.CreatorEmail))
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Timezone = strings.TrimSpace(r.Timezone)
	return r
}

func (r RespondRequest) Validate() error {
	var v ValidationError
	if strings.TrimSpace(r.RespondentName) == "" {
		v.add("Name is required.")
	}
	if strings.TrimSpace(r.RespondentEmail) == "" {
		v.add("Email is required.")
	}
	if len(r.Slots) == 0 {
		v.add("Please select at least one available time slot.")
	}
	return v.orNil()
}

// Normalized trims the respondent fields. Selections are kept exactly as
// submitted; aggregation matches them by parsed value.
func (r RespondRequest) Normalized() RespondRequest {
	r.RespondentName = strings.TrimSpace(r.RespondentName)
	r.RespondentEmail = strings.ToLower(strings.TrimSpace(r.RespondentEmail))
	return r
}

// Validate only checks that both bounds are present. Any pair is accepted,
// whether or not it is on the meeting grid or parses as a timestamp.
func (r FinalizeRequest) Validate() error {
	var v ValidationError
	if strings.TrimSpace(r.SlotStart) == "" || strings.TrimSpace(r.SlotEnd) == "" {
		v.add("slot_start and slot_end are required.")
	}
	return v.orNil()
}

func (r FinalizeRequest) Normalized() FinalizeRequest {
	return FinalizeRequest{SlotStart: strings.TrimSpace(r.SlotStart), SlotEnd: strings.TrimSpace(r.SlotEnd)}
}

func validDuration(d int) bool {
	for _, allowed := range Durations {
		if d == allowed {
			return true
		}
	}
	return false
}

func parseDate(value string) (time.Time, bool) {
	if !dateRe.MatchString(value) {
		return time.Time{}, false
	}
	t, err := time.Parse(availability.DateLayout, value)
	return t, err == nil
}

func parseClock(value string) (time.Time, bool) {
	if !clockRe.MatchString(value) {
		return time.Time{}, false
	}
	t, err := time.Parse(availability.ClockLayout, value)
	return t, err == nil
}
