package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pershin-daniil/slotpoll/pkg/metrics"
	"github.com/pershin-daniil/slotpoll/pkg/models"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrations embed.FS

const retries = 3

const (
	driverPostgres = "pgx"
	driverSQLite   = "sqlite3"
)

var ErrMeetingNotFound = fmt.Errorf("meeting not found")

type Store struct {
	log    *logrus.Entry
	db     *sqlx.DB
	driver string
}

// New connects to Postgres (driver "pgx") or SQLite (driver "sqlite3").
// The caller must import the matching database/sql driver.
func New(ctx context.Context, log *logrus.Logger, driver, dsn string) (*Store, error) {
	if driver != driverPostgres && driver != driverSQLite {
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("err connecting to %s: %w", driver, err)
	}
	if driver == driverSQLite {
		db.SetMaxOpenConns(1)
		if _, err = db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("err enabling foreign keys: %w", err)
		}
	}
	return &Store{
		log:    log.WithField("component", "pgstore"),
		db:     db,
		driver: driver,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Migrate(direction migrate.MigrationDirection) error {
	dialect, dir := "postgres", "migrations/postgres"
	if s.driver == driverSQLite {
		dialect, dir = "sqlite3", "migrations/sqlite3"
	}
	assetDir := func() func(string) ([]string, error) {
		return func(path string) ([]string, error) {
			dirEntry, er := migrations.ReadDir(path)
			if er != nil {
				return nil, er
			}
			entries := make([]string, 0)
			for _, e := range dirEntry {
				entries = append(entries, e.Name())
			}

			return entries, nil
		}
	}()
	asset := migrate.AssetMigrationSource{
		Asset:    migrations.ReadFile,
		AssetDir: assetDir,
		Dir:      dir,
	}
	n, err := migrate.Exec(s.db.DB, dialect, asset, direction)
	if err != nil {
		return fmt.Errorf("err applying migrations: %w", err)
	}
	s.log.Infof("applied %d migrations", n)
	return nil
}

func (s *Store) CreateMeeting(ctx context.Context, meeting models.Meeting) (_ models.Meeting, err error) {
	defer observe("CreateMeeting", time.Now(), &err)
	query := s.db.Rebind(`
INSERT INTO meetings (id, creator_name, creator_email, title, description, duration,
	date_range_start, date_range_end, time_range_start, time_range_end, timezone, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	for i := 0; i < retries; i++ {
		if _, err = s.db.ExecContext(ctx, query,
			meeting.ID, meeting.CreatorName, meeting.CreatorEmail, meeting.Title, meeting.Description, meeting.Duration,
			meeting.DateRangeStart, meeting.DateRangeEnd, meeting.TimeRangeStart, meeting.TimeRangeEnd,
			meeting.Timezone, meeting.CreatedAt); err != nil {
			continue
		}
		return meeting, nil
	}
	return models.Meeting{}, fmt.Errorf("err creating meeting: %w", err)
}

func (s *Store) GetMeeting(ctx context.Context, id string) (_ models.Meeting, err error) {
	defer observe("GetMeeting", time.Now(), &err)
	var meeting models.Meeting
	query := s.db.Rebind(`
SELECT id, creator_name, creator_email, title, description, duration,
	date_range_start, date_range_end, time_range_start, time_range_end, timezone, created_at,
	finalized_slot_start, finalized_slot_end
FROM meetings
WHERE id = ?;`)
	for i := 0; i < retries; i++ {
		err = s.db.GetContext(ctx, &meeting, query, id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return models.Meeting{}, ErrMeetingNotFound
		case err != nil:
			continue
		}
		return meeting, nil
	}
	return models.Meeting{}, fmt.Errorf("err getting meeting %s: %w", id, err)
}

// GetResponses returns the meeting's responses in submission order, each with
// its selected slots.
func (s *Store) GetResponses(ctx context.Context, meetingID string) (_ []models.Response, err error) {
	defer observe("GetResponses", time.Now(), &err)
	responses := make([]models.Response, 0)
	query := s.db.Rebind(`
SELECT seq, id, meeting_id, respondent_name, respondent_email, created_at
FROM responses
WHERE meeting_id = ?
ORDER BY seq;`)
	for i := 0; i < retries; i++ {
		responses = responses[:0]
		if err = s.db.SelectContext(ctx, &responses, query, meetingID); err != nil {
			continue
		}
		break
	}
	if err != nil {
		return nil, fmt.Errorf("err getting responses of meeting %s: %w", meetingID, err)
	}

	slots, err := s.getSlots(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	for i := range responses {
		responses[i].Slots = slots[responses[i].ID]
		if responses[i].Slots == nil {
			responses[i].Slots = []models.AvailabilitySlot{}
		}
	}
	return responses, nil
}

func (s *Store) getSlots(ctx context.Context, meetingID string) (map[string][]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	query := s.db.Rebind(`
SELECT a.id, a.response_id, a.slot_start, a.slot_end
FROM availability_slots a
JOIN responses r ON r.id = a.response_id
WHERE r.meeting_id = ?
ORDER BY a.id;`)
	var err error
	for i := 0; i < retries; i++ {
		slots = slots[:0]
		if err = s.db.SelectContext(ctx, &slots, query, meetingID); err != nil {
			continue
		}
		byResponse := make(map[string][]models.AvailabilitySlot)
		for _, slot := range slots {
			byResponse[slot.ResponseID] = append(byResponse[slot.ResponseID], slot)
		}
		return byResponse, nil
	}
	return nil, fmt.Errorf("err getting slots of meeting %s: %w", meetingID, err)
}

// CreateResponse stores a response together with all of its slots in one
// transaction: either everything is visible afterwards or nothing is.
func (s *Store) CreateResponse(ctx context.Context, response models.Response) (_ models.Response, err error) {
	defer observe("CreateResponse", time.Now(), &err)
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Response{}, fmt.Errorf("err starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.log.Warnf("err during rollback: %v", rbErr)
			}
		}
	}()

	var exists bool
	if err = tx.GetContext(ctx, &exists, tx.Rebind(`SELECT EXISTS (SELECT 1 FROM meetings WHERE id = ?);`), response.MeetingID); err != nil {
		return models.Response{}, fmt.Errorf("err checking meeting %s: %w", response.MeetingID, err)
	}
	if !exists {
		err = ErrMeetingNotFound
		return models.Response{}, err
	}

	if _, err = tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO responses (id, meeting_id, respondent_name, respondent_email, created_at)
VALUES (?, ?, ?, ?, ?);`),
		response.ID, response.MeetingID, response.RespondentName, response.RespondentEmail, response.CreatedAt); err != nil {
		return models.Response{}, fmt.Errorf("err inserting response: %w", err)
	}

	insertSlot := tx.Rebind(`INSERT INTO availability_slots (response_id, slot_start, slot_end) VALUES (?, ?, ?);`)
	for i := range response.Slots {
		response.Slots[i].ResponseID = response.ID
		if _, err = tx.ExecContext(ctx, insertSlot, response.ID, response.Slots[i].SlotStart, response.Slots[i].SlotEnd); err != nil {
			return models.Response{}, fmt.Errorf("err inserting slot: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Response{}, fmt.Errorf("err committing response: %w", err)
	}
	return response, nil
}

// FinalizeMeeting sets both finalized columns in a single conditional update.
// A meeting that is already finalized is left untouched and
// models.ErrAlreadyFinalized is returned.
func (s *Store) FinalizeMeeting(ctx context.Context, id string, slot models.SlotRange) (err error) {
	defer observe("FinalizeMeeting", time.Now(), &err)
	query := s.db.Rebind(`
UPDATE meetings
SET finalized_slot_start = ?,
	finalized_slot_end = ?
WHERE id = ? AND finalized_slot_start IS NULL;`)
	res, err := s.db.ExecContext(ctx, query, slot.SlotStart, slot.SlotEnd, id)
	if err != nil {
		return fmt.Errorf("err finalizing meeting %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("err finalizing meeting %s: %w", id, err)
	}
	if affected > 0 {
		return nil
	}
	if _, err = s.GetMeeting(ctx, id); err != nil {
		return err
	}
	return models.ErrAlreadyFinalized
}

// GetRespondents lists name and email of every response in submission order.
// Duplicates are kept; callers decide how to collapse them.
func (s *Store) GetRespondents(ctx context.Context, meetingID string) (_ []models.Attendee, err error) {
	defer observe("GetRespondents", time.Now(), &err)
	attendees := make([]models.Attendee, 0)
	query := s.db.Rebind(`
SELECT respondent_name, respondent_email
FROM responses
WHERE meeting_id = ?
ORDER BY seq;`)
	for i := 0; i < retries; i++ {
		attendees = attendees[:0]
		if err = s.db.SelectContext(ctx, &attendees, query, meetingID); err != nil {
			continue
		}
		return attendees, nil
	}
	return nil, fmt.Errorf("err getting respondents of meeting %s: %w", meetingID, err)
}

// DeleteMeeting removes a meeting; responses and their slots go with it.
func (s *Store) DeleteMeeting(ctx context.Context, id string) (err error) {
	defer observe("DeleteMeeting", time.Now(), &err)
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM meetings WHERE id = ?;`), id)
	if err != nil {
		return fmt.Errorf("err deleting meeting %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("err deleting meeting %s: %w", id, err)
	}
	if affected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func observe(method string, start time.Time, err *error) {
	metrics.StoreDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if *err != nil && !errors.Is(*err, ErrMeetingNotFound) && !errors.Is(*err, models.ErrAlreadyFinalized) {
		metrics.StoreErrCount.WithLabelValues(method).Inc()
	}
}
