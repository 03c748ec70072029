package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pershin-daniil/slotpoll/internal/calendar"
	"github.com/pershin-daniil/slotpoll/pkg/availability"
	"github.com/pershin-daniil/slotpoll/pkg/models"
	"github.com/pershin-daniil/slotpoll/pkg/notifier"
	"github.com/sirupsen/logrus"
)

type Dispatcher interface {
	Enqueue(msg notifier.Message)
}

type Store interface {
	CreateMeeting(ctx context.Context, meeting models.Meeting) (models.Meeting, error)
	GetMeeting(ctx context.Context, id string) (models.Meeting, error)
	GetResponses(ctx context.Context, meetingID string) ([]models.Response, error)
	CreateResponse(ctx context.Context, response models.Response) (models.Response, error)
	FinalizeMeeting(ctx context.Context, id string, slot models.SlotRange) error
	GetRespondents(ctx context.Context, meetingID string) ([]models.Attendee, error)
}

type MeetingService struct {
	log        *logrus.Entry
	store      Store
	dispatcher Dispatcher
	templates  *notifier.Templates
}

func NewMeetingService(log *logrus.Logger, store Store, dispatcher Dispatcher, baseURL string) *MeetingService {
	s := MeetingService{
		log:        log.WithField("component", "service"),
		store:      store,
		dispatcher: dispatcher,
		templates:  notifier.NewTemplates(baseURL),
	}
	return &s
}

func (s *MeetingService) CreateMeeting(ctx context.Context, req models.CreateMeetingRequest) (models.CreatedMeeting, error) {
	if err := req.Validate(); err != nil {
		return models.CreatedMeeting{}, err
	}
	req = req.Normalized()
	id, err := gonanoid.New()
	if err != nil {
		return models.CreatedMeeting{}, fmt.Errorf("err generating meeting id: %w", err)
	}
	meeting, err := s.store.CreateMeeting(ctx, models.Meeting{
		ID:             id,
		CreatorName:    req.CreatorName,
		CreatorEmail:   req.CreatorEmail,
		Title:          req.Title,
		Description:    req.Description,
		Duration:       req.Duration,
		DateRangeStart: req.DateRangeStart,
		DateRangeEnd:   req.DateRangeEnd,
		TimeRangeStart: req.TimeRangeStart,
		TimeRangeEnd:   req.TimeRangeEnd,
		Timezone:       req.Timezone,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return models.CreatedMeeting{}, fmt.Errorf("err creating meeting: %w", err)
	}
	s.enqueue(s.templates.MeetingCreated(meeting))
	return models.CreatedMeeting{ID: meeting.ID, ShareLink: notifier.ShareLink(meeting.ID)}, nil
}

// GetMeeting loads a meeting with its responses and recomputes the slot grid
// and per-slot availability.
func (s *MeetingService) GetMeeting(ctx context.Context, id string) (models.MeetingDetail, error) {
	meeting, err := s.store.GetMeeting(ctx, id)
	if err != nil {
		return models.MeetingDetail{}, fmt.Errorf("err getting meeting: %w", err)
	}
	responses, err := s.store.GetResponses(ctx, id)
	if err != nil {
		return models.MeetingDetail{}, fmt.Errorf("err getting responses: %w", err)
	}
	slots, err := availability.Generate(meeting.DateRangeStart, meeting.DateRangeEnd,
		meeting.TimeRangeStart, meeting.TimeRangeEnd, meeting.Duration)
	if err != nil {
		return models.MeetingDetail{}, fmt.Errorf("err generating slots of meeting %s: %w", id, err)
	}
	dates, err := availability.Dates(meeting.DateRangeStart, meeting.DateRangeEnd)
	if err != nil {
		return models.MeetingDetail{}, fmt.Errorf("err listing dates of meeting %s: %w", id, err)
	}

	respondents := make([]availability.Respondent, 0, len(responses))
	for _, r := range responses {
		selections := make([]availability.Selection, 0, len(r.Slots))
		for _, slot := range r.Slots {
			selections = append(selections, availability.Selection{Start: slot.SlotStart, End: slot.SlotEnd})
		}
		respondents = append(respondents, availability.Respondent{Name: r.RespondentName, Selections: selections})
	}

	return models.MeetingDetail{
		Meeting:          meeting,
		Responses:        responses,
		TimeSlots:        slots,
		Dates:            dates,
		Aggregated:       availability.Aggregate(slots, respondents),
		TotalRespondents: len(responses),
	}, nil
}

func (s *MeetingService) Respond(ctx context.Context, meetingID string, req models.RespondRequest) (models.CreatedResponse, error) {
	if err := req.Validate(); err != nil {
		return models.CreatedResponse{}, err
	}
	req = req.Normalized()
	response := models.Response{
		ID:              uuid.NewString(),
		MeetingID:       meetingID,
		RespondentName:  req.RespondentName,
		RespondentEmail: req.RespondentEmail,
		CreatedAt:       time.Now().UTC(),
	}
	for _, slot := range req.Slots {
		response.Slots = append(response.Slots, models.AvailabilitySlot{SlotStart: slot.SlotStart, SlotEnd: slot.SlotEnd})
	}
	created, err := s.store.CreateResponse(ctx, response)
	if err != nil {
		return models.CreatedResponse{}, fmt.Errorf("err creating response: %w", err)
	}

	meeting, err := s.store.GetMeeting(ctx, meetingID)
	if err != nil {
		s.log.Warnf("err loading meeting %s for response notification: %v", meetingID, err)
	} else {
		s.enqueue(s.templates.NewResponse(meeting, created.RespondentName))
	}
	return models.CreatedResponse{Success: true, ResponseID: created.ID}, nil
}

// Finalize locks in the chosen slot. Any pair of bounds is accepted and stored
// as given. The creator and everyone who responded are notified once per
// email address; the creator is always greeted as the organizer.
func (s *MeetingService) Finalize(ctx context.Context, meetingID string, req models.FinalizeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	req = req.Normalized()
	meeting, err := s.store.GetMeeting(ctx, meetingID)
	if err != nil {
		return fmt.Errorf("err getting meeting: %w", err)
	}
	if meeting.IsFinalized() {
		return models.ErrAlreadyFinalized
	}
	slot := models.SlotRange{SlotStart: req.SlotStart, SlotEnd: req.SlotEnd}
	if err = s.store.FinalizeMeeting(ctx, meetingID, slot); err != nil {
		return fmt.Errorf("err finalizing meeting: %w", err)
	}

	respondents, err := s.store.GetRespondents(ctx, meetingID)
	if err != nil {
		s.log.Warnf("err loading respondents of meeting %s, finalized emails not sent: %v", meetingID, err)
		return nil
	}
	finalTime, err := availability.Display(slot.SlotStart, slot.SlotEnd)
	if err != nil {
		finalTime = slot.SlotStart + " - " + slot.SlotEnd
	}
	creator := models.Attendee{Name: meeting.CreatorName, Email: meeting.CreatorEmail}
	for _, to := range distinct(append([]models.Attendee{creator}, respondents...)) {
		s.enqueue(s.templates.Finalized(meeting, to, finalTime))
	}
	return nil
}

func (s *MeetingService) Results(ctx context.Context, meetingID string) (models.MeetingResults, error) {
	meeting, err := s.store.GetMeeting(ctx, meetingID)
	if err != nil {
		return models.MeetingResults{}, fmt.Errorf("err getting meeting: %w", err)
	}
	respondents, err := s.store.GetRespondents(ctx, meetingID)
	if err != nil {
		return models.MeetingResults{}, fmt.Errorf("err getting respondents: %w", err)
	}
	results := models.MeetingResults{
		ID:        meeting.ID,
		Title:     meeting.Title,
		Timezone:  meeting.Timezone,
		Attendees: distinct(respondents),
	}
	if slot, ok := meeting.FinalizedSlot().Get(); ok {
		results.Finalized = true
		results.SlotStart = slot.SlotStart
		results.SlotEnd = slot.SlotEnd
		if results.Date, results.Time, err = availability.LongDisplay(slot.SlotStart, slot.SlotEnd); err != nil {
			s.log.Warnf("err formatting finalized slot of meeting %s: %v", meetingID, err)
		}
	}
	return results, nil
}

// CalendarFile renders the finalized meeting as an iCalendar file.
func (s *MeetingService) CalendarFile(ctx context.Context, meetingID string) (models.CalendarFile, error) {
	meeting, err := s.store.GetMeeting(ctx, meetingID)
	if err != nil {
		return models.CalendarFile{}, fmt.Errorf("err getting meeting: %w", err)
	}
	slot, ok := meeting.FinalizedSlot().Get()
	if !ok {
		return models.CalendarFile{}, models.ErrNotFinalized
	}
	start, err := availability.ParseTimestamp(slot.SlotStart)
	if err != nil {
		return models.CalendarFile{}, fmt.Errorf("err parsing finalized start: %w", err)
	}
	end, err := availability.ParseTimestamp(slot.SlotEnd)
	if err != nil {
		return models.CalendarFile{}, fmt.Errorf("err parsing finalized end: %w", err)
	}
	respondents, err := s.store.GetRespondents(ctx, meetingID)
	if err != nil {
		return models.CalendarFile{}, fmt.Errorf("err getting respondents: %w", err)
	}

	var buf bytes.Buffer
	event := models.Event{
		UID:         meeting.ID + "@slotpoll",
		Title:       meeting.Title,
		Description: meeting.Description,
		Start:       start,
		End:         end,
		Created:     meeting.CreatedAt,
		Organizer:   models.Attendee{Name: meeting.CreatorName, Email: meeting.CreatorEmail},
		Attendees:   distinct(respondents),
	}
	if err = calendar.Encode(&buf, event, meeting.Timezone); err != nil {
		return models.CalendarFile{}, err
	}
	return models.CalendarFile{Name: calendar.FileName(meeting.Title, meeting.ID), Data: buf.Bytes()}, nil
}

func (s *MeetingService) enqueue(msg notifier.Message, err error) {
	if err != nil {
		s.log.Errorf("err preparing notification: %v", err)
		return
	}
	s.dispatcher.Enqueue(msg)
}

// distinct keeps the first attendee for every email address.
func distinct(attendees []models.Attendee) []models.Attendee {
	seen := make(map[string]struct{}, len(attendees))
	result := make([]models.Attendee, 0, len(attendees))
	for _, a := range attendees {
		if _, ok := seen[a.Email]; ok {
			continue
		}
		seen[a.Email] = struct{}{}
		result = append(result, a)
	}
	return result
}
