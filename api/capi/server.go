// Package capi is the dashboard's HTTP API. Every route is a thin adapter over dashboard.Service.
package capi

import (
	"cndash/dashboard"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const REQUEST_ID_HEADER = "X-Request-ID"

type Server struct {
	svc      *dashboard.Service
	limiters *limiterPool
}

func NewMux(svc *dashboard.Service) http.Handler {
	s := &Server{svc: svc, limiters: newLimiterPool()}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", serveBase)
	mux.HandleFunc("GET /alliances/{id}/aid/recommendations", s.limiters.limit("aid", AID_RPM, s.aidRecommendations))
	mux.HandleFunc("GET /alliances/{id}/aid/expiring", s.limiters.limit("aid", AID_RPM, s.expiringOffers))
	mux.HandleFunc("GET /alliances/{id}/nations", s.limiters.limit("nations", NATIONS_RPM, s.categorizedNations))
	mux.HandleFunc("PUT /nations/{id}/slots", s.limiters.limit("slots", SLOTS_RPM, s.saveSlotConfig))
	mux.HandleFunc("GET /stagger", s.limiters.limit("stagger", STAGGER_RPM, s.staggerEligibility))

	return withRequestLogging(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Tags every request with an ID (reusing the caller's if sent) and logs it once it completes.
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(REQUEST_ID_HEADER)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(REQUEST_ID_HEADER, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"took":       time.Since(start),
		}).Debug("handled request")
	})
}

// Serves the API on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Dashboard API listening on %s", addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.Shutdown(shutdownCtx)
}
