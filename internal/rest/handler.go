package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pershin-daniil/slotpoll/pkg/models"
	"github.com/pershin-daniil/slotpoll/pkg/pgstore"
)

const maxBodyBytes = 1 << 20

var (
	errInternal   = errors.New("internal server error")
	errBadRequest = errors.New("invalid request body")
)

type App interface {
	CreateMeeting(ctx context.Context, req models.CreateMeetingRequest) (models.CreatedMeeting, error)
	GetMeeting(ctx context.Context, id string) (models.MeetingDetail, error)
	Respond(ctx context.Context, meetingID string, req models.RespondRequest) (models.CreatedResponse, error)
	Finalize(ctx context.Context, meetingID string, req models.FinalizeRequest) error
	Results(ctx context.Context, meetingID string) (models.MeetingResults, error)
	CalendarFile(ctx context.Context, meetingID string) (models.CalendarFile, error)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationResponse struct {
	Errors []string `json:"errors"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func (s *Server) versionHandler(w http.ResponseWriter, _ *http.Request) {
	_, err := fmt.Fprintf(w, "%s\n", s.version)
	if err != nil {
		s.log.Warnf("err during writing to connection: %v", err)
	}
}

func (s *Server) createMeetingHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMeetingRequest
	if err := decode(w, r, &req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, ValidationResponse{Errors: []string{"Invalid request body."}})
		return
	}
	created, err := s.app.CreateMeeting(r.Context(), req)
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeResponse(w, http.StatusBadRequest, ValidationResponse{Errors: verr.Errors})
		return
	case err != nil:
		s.log.Warnf("err during creating meeting: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, errInternal)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) getMeetingHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := s.app.GetMeeting(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "getting meeting", err)
		return
	}
	s.writeResponse(w, http.StatusOK, detail)
}

func (s *Server) respondHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RespondRequest
	if err := decode(w, r, &req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, errBadRequest)
		return
	}
	created, err := s.app.Respond(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.writeError(w, "submitting response", err)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) finalizeHandler(w http.ResponseWriter, r *http.Request) {
	var req models.FinalizeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, errBadRequest)
		return
	}
	if err := s.app.Finalize(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		s.writeError(w, "finalizing meeting", err)
		return
	}
	s.writeResponse(w, http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) resultsHandler(w http.ResponseWriter, r *http.Request) {
	results, err := s.app.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "getting results", err)
		return
	}
	s.writeResponse(w, http.StatusOK, results)
}

func (s *Server) calendarHandler(w http.ResponseWriter, r *http.Request) {
	file, err := s.app.CalendarFile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "exporting calendar", err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(file.Data); err != nil {
		s.log.Warnf("err during writing to connection: %v", err)
	}
}

// writeError maps service errors to statuses. Validation failures report the
// first message only; unexpected errors are logged and hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, action string, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeResponse(w, http.StatusBadRequest, ErrorResponse{Error: verr.Errors[0]})
	case errors.Is(err, pgstore.ErrMeetingNotFound):
		s.writeResponse(w, http.StatusNotFound, pgstore.ErrMeetingNotFound)
	case errors.Is(err, models.ErrAlreadyFinalized):
		s.writeResponse(w, http.StatusBadRequest, models.ErrAlreadyFinalized)
	case errors.Is(err, models.ErrNotFinalized):
		s.writeResponse(w, http.StatusConflict, models.ErrNotFinalized)
	default:
		s.log.Warnf("err during %s: %v", action, err)
		s.writeResponse(w, http.StatusInternalServerError, errInternal)
	}
}

func (s *Server) writeResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if x, ok := data.(error); ok {
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: x.Error()}); err != nil {
			s.log.Warnf("err during encoding error: %v", err)
		}
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warnf("err during encoding response: %v", err)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
