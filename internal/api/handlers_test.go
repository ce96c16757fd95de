package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/fixtures"
	"github.com/medscribe/clinical-copilot/internal/reasoner"
	"github.com/medscribe/clinical-copilot/internal/scripted"
	"github.com/medscribe/clinical-copilot/internal/session"
	"github.com/medscribe/clinical-copilot/internal/storage/memory"
)

func newTestRouter(t *testing.T, speed float64) (*chi.Mux, *session.Controller) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	eng := scripted.New(scripted.WithPlaybackSpeed(speed))
	ctrl, err := session.New(context.Background(), session.Config{
		Logger:   logger,
		Speech:   eng,
		Reasoner: reasoner.New(logger),
		Store:    memory.New(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctrl.StopRecording() })

	r := chi.NewRouter()
	New(logger, ctrl).Mount(r)
	return r, ctrl
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func startVisit(t *testing.T, router http.Handler) domain.VisitSession {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/v1/visits", `{"consented":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess domain.VisitSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	return sess
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, 10)
	rec := doJSON(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestStartVisitConsentGate(t *testing.T) {
	router, _ := newTestRouter(t, 10)

	rec := doJSON(t, router, http.MethodPost, "/v1/visits", `{"consented":false}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "consent")

	sess := startVisit(t, router)
	assert.NotEmpty(t, sess.VisitID)
	assert.True(t, sess.Consented)
}

func TestScenarioCatalog(t *testing.T) {
	router, _ := newTestRouter(t, 10)
	rec := doJSON(t, router, http.MethodGet, "/v1/scenarios", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Scenarios []fixtures.ScenarioMeta `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Scenarios, 3)
	assert.Equal(t, fixtures.SoreThroat, payload.Scenarios[0].ID)
}

func TestSetScenarioUnknown(t *testing.T) {
	router, _ := newTestRouter(t, 10)
	startVisit(t, router)

	rec := doJSON(t, router, http.MethodPut, "/v1/visits/current/scenario", `{"scenarioId":"appendicitis"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/v1/visits/current/scenario", `{"scenarioId":"uti-dysuria"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var sess domain.VisitSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, fixtures.UTIDysuria, sess.Scenario)
}

func TestRecordingLifecycle(t *testing.T) {
	// Speed 10 stretches playback so the session stays active for the test.
	router, _ := newTestRouter(t, 10)

	rec := doJSON(t, router, http.MethodPost, "/v1/visits/current/recording", "")
	assert.Equal(t, http.StatusConflict, rec.Code, "recording requires an active visit")

	startVisit(t, router)

	rec = doJSON(t, router, http.MethodPost, "/v1/visits/current/recording", "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/visits/current/recording", "")
	assert.Equal(t, http.StatusConflict, rec.Code, "second start while recording")

	rec = doJSON(t, router, http.MethodDelete, "/v1/visits/current/recording", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sess domain.VisitSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.False(t, sess.Recording)
}

func TestCasePatchRefreshesInsights(t *testing.T) {
	router, _ := newTestRouter(t, 10)
	startVisit(t, router)

	caseFix, err := fixtures.CaseFor(fixtures.SoreThroat)
	require.NoError(t, err)
	body, err := json.Marshal(caseFix.CaseData)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPatch, "/v1/visits/current/case", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/visits/current/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var insights struct {
		Differentials []domain.Differential `json:"differentials"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insights))
	require.NotEmpty(t, insights.Differentials)
	assert.Equal(t, "diff_0", insights.Differentials[0].ID)
}

func TestAcceptInsightValidation(t *testing.T) {
	router, _ := newTestRouter(t, 10)
	startVisit(t, router)

	rec := doJSON(t, router, http.MethodPost, "/v1/visits/current/insights/accept",
		`{"kind":"prescription","id":"x","accepted":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSafetyCheckRequiresClass(t *testing.T) {
	router, _ := newTestRouter(t, 10)
	startVisit(t, router)

	rec := doJSON(t, router, http.MethodPost, "/v1/visits/current/safety-check", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/visits/current/safety-check",
		`{"medicationClass":"Penicillin VK"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res domain.SafetyCheckResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
}

func TestNoteGenerateAndPatch(t *testing.T) {
	router, _ := newTestRouter(t, 10)
	startVisit(t, router)

	caseFix, err := fixtures.CaseFor(fixtures.SoreThroat)
	require.NoError(t, err)
	body, err := json.Marshal(caseFix.CaseData)
	require.NoError(t, err)
	doJSON(t, router, http.MethodPatch, "/v1/visits/current/case", string(body))

	rec := doJSON(t, router, http.MethodPost, "/v1/visits/current/note", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var note struct {
		SoapNote       domain.SoapNoteDraft `json:"soapNote"`
		PatientSummary string               `json:"patientSummary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &note))
	assert.Contains(t, note.SoapNote.Subjective, "sore throat")
	assert.NotEmpty(t, note.PatientSummary)

	rec = doJSON(t, router, http.MethodPatch, "/v1/visits/current/note",
		`{"section":"plan","content":"Edited plan"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/v1/visits/current/note",
		`{"section":"impression","content":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryDownloadHeaders(t *testing.T) {
	router, _ := newTestRouter(t, 10)
	sess := startVisit(t, router)

	rec := doJSON(t, router, http.MethodGet, "/v1/visits/current/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "visit-summary-"+sess.VisitID+".txt")
	assert.Contains(t, rec.Body.String(), "CLINICAL VISIT SUMMARY")
}

func TestGuidelines(t *testing.T) {
	router, _ := newTestRouter(t, 10)

	rec := doJSON(t, router, http.MethodGet, "/v1/guidelines", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sore_throat")

	rec = doJSON(t, router, http.MethodGet, "/v1/guidelines/sore_throat", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/guidelines/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTranscriptStream(t *testing.T) {
	// Fast playback so the whole scripted conversation finishes during the
	// streamed request.
	router, ctrl := newTestRouter(t, 0.0005)
	startVisit(t, router)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/visits/current/transcript/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		router.ServeHTTP(rec, req)
	}()

	// Let the stream subscribe before playback begins so the end event is
	// observed live rather than lost to a pre-subscription finish.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, ctrl.StartRecording(context.Background()))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not terminate")
	}

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, 14, strings.Count(body, "event: transcript"), "sore-throat delivers 14 entries")
	assert.Contains(t, body, "event: end")
}

func TestResetVisit(t *testing.T) {
	router, _ := newTestRouter(t, 10)
	startVisit(t, router)

	rec := doJSON(t, router, http.MethodDelete, "/v1/visits/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sess domain.VisitSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Empty(t, sess.VisitID)
}
