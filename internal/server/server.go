// Package server exposes the parsed corpus and its validation findings over
// a read-only HTTP API for the human review step.
package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/insurdata/clausekb/internal/audit"
	"github.com/insurdata/clausekb/internal/model"
)

// Server serves a loaded corpus snapshot. The corpus is immutable for the
// server's lifetime; edits go through the CLI and a restart.
type Server struct {
	cases   []model.Case
	bySeq   map[int]model.Case
	raws    map[int]model.RawClause
	limiter *rate.Limiter
}

// New indexes the corpus for serving. raws may be nil; findings then cover
// schema checks only.
func New(cases []model.Case, raws []model.RawClause, requestsPerSecond float64) *Server {
	// Fractional rates truncate to a zero burst, which would reject every
	// request before the bucket ever fills.
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	s := &Server{
		cases:   append([]model.Case(nil), cases...),
		bySeq:   make(map[int]model.Case, len(cases)),
		raws:    make(map[int]model.RawClause, len(raws)),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
	sort.Slice(s.cases, func(i, j int) bool { return s.cases[i].SequenceID < s.cases[j].SequenceID })
	for _, c := range s.cases {
		s.bySeq[c.SequenceID] = c
	}
	for _, r := range raws {
		s.raws[r.SequenceID] = r
	}
	return s
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))
	r.Use(s.throttle)

	r.Get("/health", s.handleHealth)
	r.Get("/cases", s.handleCases)
	r.Get("/cases/{sequenceId}", s.handleCase)
	r.Get("/findings", s.handleFindings)
	return r
}

// throttle sheds load once the token bucket empties. Review traffic is
// bursty; a hard 429 beats queueing.
func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"totalCases": len(s.cases),
	})
}

func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cases)
}

func (s *Server) handleCase(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.Atoi(chi.URLParam(r, "sequenceId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "sequenceId must be numeric")
		return
	}
	c, ok := s.bySeq[seq]
	if !ok {
		writeError(w, http.StatusNotFound, "no case with that sequenceId")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleFindings validates the snapshot on the fly. The corpus is small
// enough that recomputing beats caching an invalidation story.
func (s *Server) handleFindings(w http.ResponseWriter, r *http.Request) {
	var findings []model.Finding
	for _, c := range s.cases {
		findings = append(findings, audit.Check(c, s.raws[c.SequenceID])...)
	}
	writeJSON(w, http.StatusOK, model.NewReport(len(s.cases), findings))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
