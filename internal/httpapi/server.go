package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kanchNaik/AiMockInterviewer/internal/config"
	"github.com/kanchNaik/AiMockInterviewer/internal/interview"
	"github.com/kanchNaik/AiMockInterviewer/internal/llm"
	"github.com/kanchNaik/AiMockInterviewer/internal/observability"
	"github.com/kanchNaik/AiMockInterviewer/internal/slots"
	"github.com/kanchNaik/AiMockInterviewer/internal/transcript"
)

// Server exposes the interview protocol over HTTP.
type Server struct {
	cfg        config.Config
	controller *interview.Controller
	extractor  *slots.Extractor
	store      transcript.Store
	metrics    *observability.Metrics
}

func New(cfg config.Config, controller *interview.Controller, extractor *slots.Extractor, store transcript.Store, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:        cfg,
		controller: controller,
		extractor:  extractor,
		store:      store,
		metrics:    metrics,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/interview/start", s.handleStart)
	r.Post("/interview/answer", s.handleAnswer)
	r.Get("/interview/{sid}/transcript", s.handleTranscript)
	r.Delete("/interview/{sid}", s.handleDelete)

	r.Post("/session", s.handleCreateSession)
	r.Patch("/session/{sid}", s.handleResetSession)

	return r
}

type startRequest struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Seniority string `json:"seniority"`
}

type startResponse struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type answerRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type sessionRequest struct {
	UserText  string `json:"user_text"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"llm_mode":   s.cfg.LLMMode,
		"store_mode": s.storeMode(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ready",
		"llm_mode":   s.cfg.LLMMode,
		"store_mode": s.storeMode(),
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Role) == "" {
		req.Role = s.cfg.DefaultRole
	}
	if strings.TrimSpace(req.Seniority) == "" {
		req.Seniority = s.cfg.DefaultSeniority
	}

	id, question, err := s.controller.Start(r.Context(), req.SessionID, req.Role, req.Seniority)
	if err != nil {
		s.metrics.Turns.WithLabelValues("start", "error").Inc()
		s.respondControllerError(w, err, req.SessionID)
		return
	}
	s.metrics.Turns.WithLabelValues("start", "ok").Inc()
	s.metrics.SessionEvents.WithLabelValues("created").Inc()
	s.syncActiveSessions()

	respondJSON(w, http.StatusOK, startResponse{SessionID: id, Question: question})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "session_id is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}

	turn, err := s.controller.Answer(r.Context(), req.SessionID, req.Text)
	if err != nil {
		s.metrics.Turns.WithLabelValues("answer", "error").Inc()
		s.respondControllerError(w, err, req.SessionID)
		return
	}
	s.metrics.Turns.WithLabelValues("answer", "ok").Inc()

	respondJSON(w, http.StatusOK, turn)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	msgs, err := s.controller.Transcript(r.Context(), sid)
	if err != nil {
		s.respondControllerError(w, err, sid)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sid,
		"messages":   msgs,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if err := s.controller.Delete(r.Context(), sid); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	s.metrics.SessionEvents.WithLabelValues("deleted").Inc()
	s.syncActiveSessions()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	extracted, err := s.extractor.Extract(req.UserText)
	if err != nil {
		s.respondSlotError(w, err)
		return
	}

	id, question, err := s.controller.Start(r.Context(), req.SessionID, extracted.Role, extracted.Seniority)
	if err != nil {
		s.metrics.Turns.WithLabelValues("start", "error").Inc()
		s.respondControllerError(w, err, req.SessionID)
		return
	}
	s.metrics.Turns.WithLabelValues("start", "ok").Inc()
	s.metrics.SessionEvents.WithLabelValues("created").Inc()
	s.syncActiveSessions()

	respondJSON(w, http.StatusCreated, startResponse{SessionID: id, Question: question})
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	// Reset deletes the old transcript first and then re-runs the creation
	// flow under the same id, so the old conversation is unreachable even
	// when slot extraction rejects the new text.
	if err := s.controller.Reset(r.Context(), sid); err != nil {
		s.respondControllerError(w, err, sid)
		return
	}
	s.metrics.SessionEvents.WithLabelValues("reset").Inc()

	extracted, err := s.extractor.Extract(req.UserText)
	if err != nil {
		s.syncActiveSessions()
		s.respondSlotError(w, err)
		return
	}

	id, question, err := s.controller.Start(r.Context(), sid, extracted.Role, extracted.Seniority)
	if err != nil {
		s.metrics.Turns.WithLabelValues("start", "error").Inc()
		s.respondControllerError(w, err, sid)
		return
	}
	s.metrics.Turns.WithLabelValues("start", "ok").Inc()
	s.syncActiveSessions()

	respondJSON(w, http.StatusOK, startResponse{SessionID: id, Question: question})
}

func (s *Server) respondControllerError(w http.ResponseWriter, err error, sessionID string) {
	switch {
	case errors.Is(err, transcript.ErrNotFound):
		respondError(w, http.StatusNotFound, "session_not_found",
			fmt.Sprintf("unknown session_id %q; call /interview/start first", sessionID))
	case errors.Is(err, llm.ErrGateway):
		respondError(w, http.StatusBadGateway, "gateway_error", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (s *Server) respondSlotError(w http.ResponseWriter, err error) {
	var missing *slots.MissingSlotsError
	if errors.As(err, &missing) {
		respondError(w, http.StatusUnprocessableEntity, "missing_slots",
			fmt.Sprintf("need: %s", strings.Join(missing.Missing, ", ")))
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func (s *Server) storeMode() string {
	if strings.TrimSpace(s.cfg.DatabaseURL) != "" {
		return "postgres"
	}
	return "in-memory"
}

func (s *Server) syncActiveSessions() {
	if counter, ok := s.store.(interface{ ActiveCount() int }); ok {
		s.metrics.ActiveSessions.Set(float64(counter.ActiveCount()))
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
