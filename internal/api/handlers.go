// Package api exposes the visit workflow over HTTP: consent and visit
// lifecycle, scenario selection, recording control, the live transcript
// stream, case editing, insights, safety checks, note drafting, and the
// summary download.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/fixtures"
	"github.com/medscribe/clinical-copilot/internal/server"
	"github.com/medscribe/clinical-copilot/internal/session"
)

type Handler struct {
	logger *slog.Logger
	ctrl   *session.Controller
}

func New(logger *slog.Logger, ctrl *session.Controller) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, ctrl: ctrl}
}

// Mount attaches all routes to the router.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/healthz", h.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/visits", h.handleStartVisit)
		r.Get("/scenarios", h.handleScenarios)
		r.Get("/guidelines", h.handleGuidelines)
		r.Get("/guidelines/{key}", h.handleGuideline)

		r.Route("/visits/current", func(r chi.Router) {
			r.Get("/", h.handleSession)
			r.Delete("/", h.handleResetVisit)
			r.Put("/scenario", h.handleSetScenario)
			r.Post("/recording", h.handleStartRecording)
			r.Delete("/recording", h.handleStopRecording)
			r.Get("/transcript/stream", h.handleTranscriptStream)
			r.Patch("/case", h.handleUpdateCase)
			r.Get("/insights", h.handleInsights)
			r.Post("/insights/accept", h.handleAcceptInsight)
			r.Post("/safety-check", h.handleSafetyCheck)
			r.Post("/note", h.handleGenerateNote)
			r.Patch("/note", h.handleUpdateNote)
			r.Get("/summary", h.handleSummary)
		})
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type startVisitRequest struct {
	Consented bool   `json:"consented"`
	Locale    string `json:"locale,omitempty"`
}

func (h *Handler) handleStartVisit(w http.ResponseWriter, r *http.Request) {
	var req startVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.ctrl.StartVisit(r.Context(), req.Consented, req.Locale)
	if err != nil {
		server.AddError(r.Context(), err)
		if errors.Is(err, domain.ErrConsentRequired) {
			writeError(w, http.StatusBadRequest, "consent is required to start a visit")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to start visit")
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handler) handleSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Session())
}

func (h *Handler) handleResetVisit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.ResetVisit(r.Context()))
}

func (h *Handler) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": fixtures.Scenarios()})
}

type setScenarioRequest struct {
	ScenarioID domain.ScenarioID `json:"scenarioId"`
}

func (h *Handler) handleSetScenario(w http.ResponseWriter, r *http.Request) {
	var req setScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.ctrl.SetScenario(r.Context(), req.ScenarioID)
	if err != nil {
		server.AddError(r.Context(), err)
		if errors.Is(err, domain.ErrUnknownScenario) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown scenario: %s", req.ScenarioID))
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to set scenario")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleStartRecording(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.StartRecording(r.Context()); err != nil {
		server.AddError(r.Context(), err)
		switch {
		case errors.Is(err, domain.ErrNoActiveVisit):
			writeError(w, http.StatusConflict, "no active visit")
		case errors.Is(err, domain.ErrRecordingActive):
			writeError(w, http.StatusConflict, "recording already in progress")
		case errors.Is(err, domain.ErrUnknownScenario):
			writeError(w, http.StatusNotFound, "selected scenario has no fixture")
		default:
			writeError(w, http.StatusInternalServerError, "failed to start recording")
		}
		return
	}
	writeJSON(w, http.StatusAccepted, h.ctrl.Session())
}

func (h *Handler) handleStopRecording(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.StopRecording(); err != nil {
		server.AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "failed to stop recording")
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Session())
}

// handleTranscriptStream serves the transcript as server-sent events:
// entries already delivered replay first, live entries follow, and an "end"
// event closes the stream when playback finishes.
func (h *Handler) handleTranscriptStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	replay, events, cancel := h.ctrl.Subscribe()
	defer cancel()

	for i := range replay {
		writeSSE(w, "transcript", replay[i])
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			switch ev.Type {
			case session.EventEnd:
				writeSSE(w, "end", struct{}{})
				flusher.Flush()
				return
			case session.EventTranscript:
				if ev.Entry != nil {
					writeSSE(w, "transcript", *ev.Entry)
					flusher.Flush()
				}
			}
		}
	}
}

func (h *Handler) handleUpdateCase(w http.ResponseWriter, r *http.Request) {
	var incoming domain.CaseData
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "invalid case payload")
		return
	}

	sess, err := h.ctrl.UpdateCaseData(r.Context(), incoming)
	if err != nil {
		server.AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "failed to update case")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

type insightsResponse struct {
	Differentials []domain.Differential         `json:"differentials"`
	Workup        []domain.WorkupSuggestion     `json:"workupSuggestions"`
	Medications   []domain.MedicationSuggestion `json:"medicationSuggestions"`
	RedFlags      []domain.RedFlag              `json:"redFlags"`
	Accepted      domain.AcceptedSuggestions    `json:"accepted"`
}

func (h *Handler) handleInsights(w http.ResponseWriter, _ *http.Request) {
	sess := h.ctrl.Session()
	writeJSON(w, http.StatusOK, insightsResponse{
		Differentials: sess.Differentials,
		Workup:        sess.Workup,
		Medications:   sess.Medications,
		RedFlags:      sess.RedFlags,
		Accepted:      sess.Accepted,
	})
}

type acceptInsightRequest struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Accepted bool   `json:"accepted"`
}

func (h *Handler) handleAcceptInsight(w http.ResponseWriter, r *http.Request) {
	var req acceptInsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accepted, err := h.ctrl.SetAccepted(req.Kind, req.ID, req.Accepted)
	if err != nil {
		server.AddError(r.Context(), err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accepted": accepted})
}

type safetyCheckRequest struct {
	MedicationClass string `json:"medicationClass"`
}

func (h *Handler) handleSafetyCheck(w http.ResponseWriter, r *http.Request) {
	var req safetyCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MedicationClass == "" {
		writeError(w, http.StatusBadRequest, "medicationClass is required")
		return
	}

	res, err := h.ctrl.CheckSafety(r.Context(), req.MedicationClass)
	if err != nil {
		server.AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "safety check failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleGenerateNote(w http.ResponseWriter, r *http.Request) {
	sess, err := h.ctrl.GenerateNote(r.Context())
	if err != nil {
		server.AddError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "failed to generate note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"soapNote":       sess.SoapNote,
		"patientSummary": sess.PatientSummary,
	})
}

type updateNoteRequest struct {
	Section string `json:"section"`
	Content string `json:"content"`
}

func (h *Handler) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.ctrl.UpdateSoapNote(r.Context(), req.Section, req.Content)
	if err != nil {
		server.AddError(r.Context(), err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleSummary(w http.ResponseWriter, _ *http.Request) {
	doc, filename := h.ctrl.BuildSummary()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func (h *Handler) handleGuidelines(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"guidelines": fixtures.Guidelines()})
}

func (h *Handler) handleGuideline(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	g, ok := fixtures.GuidelineFor(key)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown guideline: %s", key))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeSSE(w http.ResponseWriter, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
