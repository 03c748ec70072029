package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	log     *logrus.Entry
	app     App
	address string
	version string
}

func New(log *logrus.Logger, app App, address, version string) *Server {
	s := Server{
		log:     log.WithField("component", "rest"),
		app:     app,
		address: address,
		version: version,
	}
	return &s
}

// Handler builds the router. Meeting routes are served under /api/v1 and,
// for older clients, without the prefix.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(s.observeRequests)
	r.Use(middleware.Recoverer)

	r.Get("/version", s.versionHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", s.meetingRoutes)
	})
	r.Group(s.meetingRoutes)
	return r
}

func (s *Server) meetingRoutes(r chi.Router) {
	r.Route("/meetings", func(r chi.Router) {
		r.Post("/", s.createMeetingHandler)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getMeetingHandler)
			r.Post("/respond", s.respondHandler)
			r.Post("/finalize", s.finalizeHandler)
			r.Get("/results", s.resultsHandler)
			r.Get("/calendar.ics", s.calendarHandler)
		})
	})
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("err during shutdown: %v", err)
		}
	}()

	s.log.Infof("listening on %s", s.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
