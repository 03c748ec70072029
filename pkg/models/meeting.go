package models

import (
	"time"

	"github.com/samber/mo"
)

var Durations = []int{15, 30, 60}

type Meeting struct {
	ID                 string    `json:"id" db:"id"`
	CreatorName        string    `json:"creator_name" db:"creator_name"`
	CreatorEmail       string    `json:"creator_email" db:"creator_email"`
	Title              string    `json:"title" db:"title"`
	Description        string    `json:"description" db:"description"`
	Duration           int       `json:"duration" db:"duration"`
	DateRangeStart     string    `json:"date_range_start" db:"date_range_start"`
	DateRangeEnd       string    `json:"date_range_end" db:"date_range_end"`
	TimeRangeStart     string    `json:"time_range_start" db:"time_range_start"`
	TimeRangeEnd       string    `json:"time_range_end" db:"time_range_end"`
	Timezone           string    `json:"timezone" db:"timezone"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	FinalizedSlotStart *string   `json:"finalized_slot_start" db:"finalized_slot_start"`
	FinalizedSlotEnd   *string   `json:"finalized_slot_end" db:"finalized_slot_end"`
}

// FinalizedSlot is Some only when both finalized columns are set.
func (m Meeting) FinalizedSlot() mo.Option[SlotRange] {
	if m.FinalizedSlotStart == nil || m.FinalizedSlotEnd == nil {
		return mo.None[SlotRange]()
	}
	return mo.Some(SlotRange{SlotStart: *m.FinalizedSlotStart, SlotEnd: *m.FinalizedSlotEnd})
}

func (m Meeting) IsFinalized() bool {
	return m.FinalizedSlot().IsPresent()
}

type SlotRange struct {
	SlotStart string `json:"slot_start"`
	SlotEnd   string `json:"slot_end"`
}

type CreateMeetingRequest struct {
	CreatorName    string `json:"creator_name"`
	CreatorEmail   string `json:"creator_email"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Duration       int    `json:"duration"`
	DateRangeStart string `json:"date_range_start"`
	DateRangeEnd   string `json:"date_range_end"`
	TimeRangeStart string `json:"time_range_start"`
	TimeRangeEnd   string `json:"time_range_end"`
	Timezone       string `json:"timezone"`
}

type CreatedMeeting struct {
	ID        string `json:"id"`
	ShareLink string `json:"shareLink"`
}

type FinalizeRequest struct {
	SlotStart string `json:"slot_start"`
	SlotEnd   string `json:"slot_end"`
}
