// Package api exposes signbridge over HTTP.
//
// All request and response bodies are JSON. Routes live under /v1:
//
//	POST /v1/simplify            {text} -> simplified tokens
//	POST /v1/translate           {text} -> tokens and signs
//	GET  /v1/dictionary          load statistics of the current dictionary
//	POST /v1/dictionary/reload   reload the dictionary from its source
//	GET  /v1/gestures            gesture state
//	POST /v1/gestures/source     {active} -> start or stop the gesture source
//	POST /v1/gestures/events     {label, confidence, timestamp_ms} -> state
//	GET  /v1/gestures/stream     websocket push source
//
// Lookups before the first dictionary load answer 503. Gesture events sent
// while no source is active answer 409.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/dictionary"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/gesture"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/observe"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/simplify"
	"github.com/HiteshKholwal/Sign-Language-Project/internal/translate"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server holds the components behind the HTTP routes. It is safe for
// concurrent use.
type Server struct {
	simplifier *simplify.Simplifier
	pipeline   *translate.Pipeline
	loader     *dictionary.Loader
	gestures   *gesture.Session
}

// New returns a Server.
func New(s *simplify.Simplifier, p *translate.Pipeline, l *dictionary.Loader, g *gesture.Session) *Server {
	return &Server{simplifier: s, pipeline: p, loader: l, gestures: g}
}

// Register adds the /v1 routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/simplify", s.handleSimplify)
	mux.HandleFunc("POST /v1/translate", s.handleTranslate)
	mux.HandleFunc("GET /v1/dictionary", s.handleDictionaryStats)
	mux.HandleFunc("POST /v1/dictionary/reload", s.handleDictionaryReload)
	mux.HandleFunc("GET /v1/gestures", s.handleGestureState)
	mux.HandleFunc("POST /v1/gestures/source", s.handleGestureSource)
	mux.HandleFunc("POST /v1/gestures/events", s.handleGestureEvent)
	mux.Handle("GET /v1/gestures/stream", gesture.StreamHandler(s.gestures))
}

type textRequest struct {
	Text string `json:"text"`
}

type sourceRequest struct {
	Active bool `json:"active"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSimplify(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.simplifier.Analyze(req.Text))
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decode(w, r, &req) {
		return
	}
	tr, err := s.pipeline.Translate(r.Context(), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

func (s *Server) handleDictionaryStats(w http.ResponseWriter, r *http.Request) {
	stats, ok := s.loader.Store().Stats()
	if !ok {
		writeError(w, r, dictionary.ErrNotReady)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleDictionaryReload(w http.ResponseWriter, r *http.Request) {
	stats, err := s.loader.Load(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGestureState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.gestures.State())
}

func (s *Server) handleGestureSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Active {
		s.gestures.Start(r.Context())
	} else {
		s.gestures.Stop(r.Context())
	}
	writeJSON(w, http.StatusOK, s.gestures.State())
}

func (s *Server) handleGestureEvent(w http.ResponseWriter, r *http.Request) {
	var ev sign.GestureEvent
	if !decode(w, r, &ev) {
		return
	}
	st, err := s.gestures.Observe(r.Context(), ev)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

// writeError maps err to a status code and writes it as JSON.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dictionary.ErrNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, gesture.ErrInactive):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		observe.Logger(r.Context()).Error("api: request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("api: encode response", "err", err)
	}
}
