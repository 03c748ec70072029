package models

import "time"

type Response struct {
	ID              string             `json:"id" db:"id"`
	MeetingID       string             `json:"meeting_id" db:"meeting_id"`
	RespondentName  string             `json:"respondent_name" db:"respondent_name"`
	RespondentEmail string             `json:"respondent_email" db:"respondent_email"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
	Seq             int64              `json:"-" db:"seq"`
	Slots           []AvailabilitySlot `json:"slots" db:"-"`
}

type AvailabilitySlot struct {
	ID         int64  `json:"id" db:"id"`
	ResponseID string `json:"response_id" db:"response_id"`
	SlotStart  string `json:"slot_start" db:"slot_start"`
	SlotEnd    string `json:"slot_end" db:"slot_end"`
}

type RespondRequest struct {
	RespondentName  string      `json:"respondent_name"`
	RespondentEmail string      `json:"respondent_email"`
	Slots           []SlotRange `json:"slots"`
}

type CreatedResponse struct {
	Success    bool   `json:"success"`
	ResponseID string `json:"responseId"`
}
