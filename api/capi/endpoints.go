package capi

import (
	"bytes"
	"cndash/dashboard"
	"cndash/database"
	"cndash/structs"
	"compress/gzip"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const MAX_BODY_BYTES = 1 << 16

var errTooManyRequests = errors.New("too many requests")

const BASE_WELCOME_STR = `
Welcome to the coalition dashboard API!

The following endpoints are available:
- GET /alliances/{id}/aid/recommendations?crossAlliance=true
- GET /alliances/{id}/aid/expiring
- GET /alliances/{id}/nations
- PUT /nations/{id}/slots
- GET /stagger?friendly={id}&target={id}&hideAnarchy=&hidePeaceMode=&includeFullTargets=&assignOnlyPositive=&max=
`

func serveBase(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(strings.TrimPrefix(BASE_WELCOME_STR, "\n")))
}

func (s *Server) aidRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	cross, err := queryBool(r, "crossAlliance")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	res, err := s.svc.AidRecommendations(r.Context(), id, cross)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) expiringOffers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	res, err := s.svc.ExpiringOffers(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) categorizedNations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	res, err := s.svc.CategorizedNations(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) saveSlotConfig(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	var cfg structs.AidSlotConfig
	dec := json.NewDecoder(io.LimitReader(r.Body, MAX_BODY_BYTES))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("malformed slot config: %w", err))
		return
	}

	// The path is authoritative for which nation is being configured.
	cfg.NationID = id

	res, err := s.svc.SaveSlotConfig(r.Context(), cfg)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) staggerEligibility(w http.ResponseWriter, r *http.Request) {
	req, err := parseStaggerRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	res, err := s.svc.StaggerEligibility(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func parseStaggerRequest(r *http.Request) (req dashboard.StaggerRequest, err error) {
	q := r.URL.Query()
	if req.FriendlyAllianceID, err = parseID(q.Get("friendly")); err != nil {
		return req, fmt.Errorf("friendly: %w", err)
	}
	if req.TargetAllianceID, err = parseID(q.Get("target")); err != nil {
		return req, fmt.Errorf("target: %w", err)
	}

	// Checked in order so the first bad flag is always the one reported.
	flags := []struct {
		name string
		dst  *bool
	}{
		{"hideAnarchy", &req.HideAnarchy},
		{"hidePeaceMode", &req.HidePeaceMode},
		{"includeFullTargets", &req.IncludeFullTargets},
		{"assignOnlyPositive", &req.AssignOnlyPositive},
	}
	for _, f := range flags {
		if *f.dst, err = queryBool(r, f.name); err != nil {
			return req, err
		}
	}

	if raw := q.Get("max"); raw != "" {
		if req.Max, err = strconv.Atoi(raw); err != nil || req.Max < 0 {
			return req, fmt.Errorf("max must be a non-negative integer, got %q", raw)
		}
	}

	return req, nil
}

func pathID(r *http.Request) (int, error) {
	return parseID(r.PathValue("id"))
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q: %w", raw, dashboard.ErrInvalidID)
	}

	return id, nil
}

// Absent means false.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", name, raw)
	}

	return v, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrInvalidID),
		errors.Is(err, structs.ErrSlotsOverLimit),
		errors.Is(err, structs.ErrNegativeSlots),
		errors.Is(err, structs.ErrInvalidPriority):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrUnknownAlliance),
		errors.Is(err, dashboard.ErrUnknownNation),
		errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, statusFor(err), err)
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.WithField("request_id", w.Header().Get(REQUEST_ID_HEADER)).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		msg = http.StatusText(status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: msg, RequestID: w.Header().Get(REQUEST_ID_HEADER)})
}

// Writes v as JSON, compressed when the client accepts gzip.
// GET responses also carry an ETag, and a matching If-None-Match gets a 304 with no body.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Vary", "Accept-Encoding")

	if r.Method == http.MethodGet {
		etag := fmt.Sprintf(`"%x"`, sha1.Sum(data))
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "private, max-age=30")

		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}

	w.Header().Set("Content-Type", "application/json")
	if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		w.WriteHeader(status)
		w.Write(data)
		return
	}

	compressed, err := gzipBytes(data, 2)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Encoding", "gzip")
	w.WriteHeader(status)
	w.Write(compressed)
}

func gzipBytes(data []byte, level int) ([]byte, error) {
	buf := bytes.Buffer{}
	gz, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
