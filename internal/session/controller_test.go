package session

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/fixtures"
	"github.com/medscribe/clinical-copilot/internal/reasoner"
	"github.com/medscribe/clinical-copilot/internal/storage"
	"github.com/medscribe/clinical-copilot/internal/storage/memory"
)

// fakeSpeech is a hand-driven speech provider: tests push entries through
// Emit instead of waiting on timers.
type fakeSpeech struct {
	mu           sync.Mutex
	scenario     domain.ScenarioID
	recording    bool
	onTranscript func(domain.TranscriptEvent)
	onEnd        func()
}

func newFakeSpeech() *fakeSpeech {
	return &fakeSpeech{scenario: fixtures.DefaultScenario}
}

func (f *fakeSpeech) Name() string { return "fake" }

func (f *fakeSpeech) Start(_ context.Context, id domain.ScenarioID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recording {
		return domain.ErrRecordingActive
	}
	if id != "" {
		if !fixtures.Known(id) {
			return domain.ErrUnknownScenario
		}
		f.scenario = id
	}
	f.recording = true
	return nil
}

func (f *fakeSpeech) Stop() error {
	f.mu.Lock()
	wasRecording := f.recording
	f.recording = false
	end := f.onEnd
	f.mu.Unlock()
	if wasRecording && end != nil {
		end()
	}
	return nil
}

func (f *fakeSpeech) OnTranscript(fn func(domain.TranscriptEvent)) {
	f.mu.Lock()
	f.onTranscript = fn
	f.mu.Unlock()
}

func (f *fakeSpeech) OnEnd(fn func()) {
	f.mu.Lock()
	f.onEnd = fn
	f.mu.Unlock()
}

func (f *fakeSpeech) SetScenario(id domain.ScenarioID) error {
	if !fixtures.Known(id) {
		return domain.ErrUnknownScenario
	}
	f.mu.Lock()
	f.scenario = id
	f.mu.Unlock()
	return nil
}

func (f *fakeSpeech) Scenario() domain.ScenarioID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scenario
}

func (f *fakeSpeech) Emit(ev domain.TranscriptEvent) {
	f.mu.Lock()
	cb := f.onTranscript
	f.mu.Unlock()
	if cb != nil {
		cb(ev)
	}
}

func newTestController(t *testing.T) (*Controller, *fakeSpeech, *memory.Store) {
	t.Helper()
	speech := newFakeSpeech()
	store := memory.New()
	ctrl, err := New(context.Background(), Config{
		Speech:   speech,
		Reasoner: reasoner.New(nil),
		Store:    store,
	})
	require.NoError(t, err)
	return ctrl, speech, store
}

func startedController(t *testing.T) (*Controller, *fakeSpeech) {
	t.Helper()
	ctrl, speech, _ := newTestController(t)
	_, err := ctrl.StartVisit(context.Background(), true, "")
	require.NoError(t, err)
	return ctrl, speech
}

func TestStartVisitRequiresConsent(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	_, err := ctrl.StartVisit(context.Background(), false, "")
	require.ErrorIs(t, err, domain.ErrConsentRequired)

	sess := ctrl.Session()
	assert.Empty(t, sess.VisitID)
	assert.False(t, sess.Consented)
}

func TestStartVisitIssuesVisitID(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	sess, err := ctrl.StartVisit(context.Background(), true, "es-MX")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.VisitID)
	assert.True(t, sess.Consented)
	assert.Equal(t, "es-MX", sess.Locale)

	second, err := ctrl.StartVisit(context.Background(), true, "")
	require.NoError(t, err)
	assert.NotEqual(t, sess.VisitID, second.VisitID)
	assert.Equal(t, "es-MX", second.Locale, "locale survives restart")
}

func TestStartRecordingRequiresVisit(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	require.ErrorIs(t, ctrl.StartRecording(context.Background()), domain.ErrNoActiveVisit)
}

func TestTranscriptPipeline(t *testing.T) {
	ctrl, speech := startedController(t)
	require.NoError(t, ctrl.StartRecording(context.Background()))

	speech.Emit(domain.TranscriptEvent{
		Speaker:   domain.SpeakerPatient,
		Text:      "I've had a really sore throat for about three days now.",
		Timestamp: 1000,
	})
	speech.Emit(domain.TranscriptEvent{
		Speaker:   domain.SpeakerDoctor,
		Text:      "Let's do a rapid strep test. Your temperature was 101.5.",
		Timestamp: 2000,
	})

	sess := ctrl.Session()
	require.Len(t, sess.Transcript, 2)
	assert.Equal(t, "1000-0", sess.Transcript[0].ID)
	assert.Equal(t, "2000-1", sess.Transcript[1].ID)

	// Extraction resolved the sore-throat fixture and populated the case.
	assert.Equal(t, "sore throat", sess.CaseData.ChiefComplaint())

	// Insights regenerated off the extracted case.
	require.NotEmpty(t, sess.Differentials)
	assert.Equal(t, "diff_0", sess.Differentials[0].ID)
	assert.Equal(t, "Viral pharyngitis", sess.Differentials[0].Diagnosis)
}

func TestUserEditsSurviveExtraction(t *testing.T) {
	ctrl, speech := startedController(t)
	require.NoError(t, ctrl.StartRecording(context.Background()))

	edited := domain.CaseData{Allergies: []string{"Sulfa drugs"}}
	_, err := ctrl.UpdateCaseData(context.Background(), edited)
	require.NoError(t, err)

	speech.Emit(domain.TranscriptEvent{
		Speaker:   domain.SpeakerPatient,
		Text:      "I've had a really sore throat.",
		Timestamp: 1000,
	})

	sess := ctrl.Session()
	assert.Contains(t, sess.CaseData.Allergies, "Sulfa drugs", "user edit survives extraction merge")
}

func TestSetScenarioResetsTransientState(t *testing.T) {
	ctrl, speech := startedController(t)
	require.NoError(t, ctrl.StartRecording(context.Background()))
	speech.Emit(domain.TranscriptEvent{
		Speaker:   domain.SpeakerPatient,
		Text:      "I've had a really sore throat.",
		Timestamp: 1000,
	})

	before := ctrl.Session()
	require.NotEmpty(t, before.Transcript)
	visitID := before.VisitID

	sess, err := ctrl.SetScenario(context.Background(), fixtures.UTIDysuria)
	require.NoError(t, err)
	assert.Equal(t, fixtures.UTIDysuria, sess.Scenario)
	assert.Empty(t, sess.Transcript)
	assert.Empty(t, sess.Differentials)
	assert.Equal(t, domain.CaseData{}, sess.CaseData)
	assert.True(t, sess.SoapNote.Empty())
	assert.Equal(t, visitID, sess.VisitID, "visit identity survives scenario switch")
	assert.True(t, sess.Consented)
}

func TestSetScenarioUnknown(t *testing.T) {
	ctrl, _ := startedController(t)
	_, err := ctrl.SetScenario(context.Background(), "appendicitis")
	require.ErrorIs(t, err, domain.ErrUnknownScenario)
}

func TestAcceptanceCarryoverAcrossRegeneration(t *testing.T) {
	ctrl, _ := startedController(t)

	caseData, err := fixtures.CaseFor(fixtures.SoreThroat)
	require.NoError(t, err)
	_, err = ctrl.UpdateCaseData(context.Background(), caseData.CaseData)
	require.NoError(t, err)

	sess := ctrl.Session()
	require.NotEmpty(t, sess.Differentials)
	top := sess.Differentials[0]

	accepted, err := ctrl.SetAccepted(KindDifferential, top.ID, true)
	require.NoError(t, err)
	assert.Contains(t, accepted.Differentials, top.ID)

	// Change the case so the signature moves and a new cycle runs.
	_, err = ctrl.UpdateCaseData(context.Background(), domain.CaseData{Exam: []string{"no rash"}})
	require.NoError(t, err)

	after := ctrl.Session()
	require.NotEmpty(t, after.Accepted.Differentials)
	var diagnosis string
	for _, d := range after.Differentials {
		if d.ID == after.Accepted.Differentials[0] {
			diagnosis = d.Diagnosis
		}
	}
	assert.Equal(t, top.Diagnosis, diagnosis, "acceptance follows content across cycles")
}

func TestSetAcceptedUnknownID(t *testing.T) {
	ctrl, _ := startedController(t)
	_, err := ctrl.SetAccepted(KindDifferential, "diff_99", true)
	require.Error(t, err)

	_, err = ctrl.SetAccepted("prescription", "diff_0", true)
	require.Error(t, err)
}

func TestRefreshInsightsNoChiefComplaint(t *testing.T) {
	ctrl, _ := startedController(t)
	require.NoError(t, ctrl.RefreshInsights(context.Background()))

	sess := ctrl.Session()
	assert.Empty(t, sess.Differentials)
	assert.Empty(t, sess.Workup)
}

func TestCheckSafetyUsesCase(t *testing.T) {
	ctrl, _ := startedController(t)

	caseData, err := fixtures.CaseFor(fixtures.SoreThroat)
	require.NoError(t, err)
	_, err = ctrl.UpdateCaseData(context.Background(), caseData.CaseData)
	require.NoError(t, err)

	res, err := ctrl.CheckSafety(context.Background(), "Penicillin VK")
	require.NoError(t, err)
	require.NotNil(t, res)
	found := false
	for _, w := range res.Warnings {
		if strings.HasPrefix(w, "Documented allergies:") {
			found = true
		}
	}
	assert.True(t, found, "allergy warning appended from case data")
}

func TestGenerateNoteAndUpdate(t *testing.T) {
	ctrl, _ := startedController(t)

	caseData, err := fixtures.CaseFor(fixtures.SoreThroat)
	require.NoError(t, err)
	_, err = ctrl.UpdateCaseData(context.Background(), caseData.CaseData)
	require.NoError(t, err)

	sess, err := ctrl.GenerateNote(context.Background())
	require.NoError(t, err)
	assert.Contains(t, sess.SoapNote.Subjective, "sore throat")
	assert.NotEmpty(t, sess.PatientSummary)

	sess, err = ctrl.UpdateSoapNote(context.Background(), "plan", "Custom plan text.")
	require.NoError(t, err)
	assert.Equal(t, "Custom plan text.", sess.SoapNote.Plan)

	_, err = ctrl.UpdateSoapNote(context.Background(), "impression", "x")
	require.Error(t, err)
}

func TestBuildSummary(t *testing.T) {
	ctrl, _ := startedController(t)

	caseData, err := fixtures.CaseFor(fixtures.SoreThroat)
	require.NoError(t, err)
	_, err = ctrl.UpdateCaseData(context.Background(), caseData.CaseData)
	require.NoError(t, err)

	doc, filename := ctrl.BuildSummary()
	sess := ctrl.Session()
	assert.Contains(t, doc, "CLINICAL VISIT SUMMARY")
	assert.Contains(t, doc, sess.VisitID)
	assert.Equal(t, "visit-summary-"+sess.VisitID+".txt", filename)
}

func TestResetVisitKeepsLocale(t *testing.T) {
	ctrl, _, _ := newTestController(t)
	_, err := ctrl.StartVisit(context.Background(), true, "fr-FR")
	require.NoError(t, err)

	sess := ctrl.ResetVisit(context.Background())
	assert.Empty(t, sess.VisitID)
	assert.False(t, sess.Consented)
	assert.Equal(t, "fr-FR", sess.Locale)
}

func TestSnapshotPersistenceRoundTrip(t *testing.T) {
	speech := newFakeSpeech()
	store := memory.New()
	ctrl, err := New(context.Background(), Config{
		Speech:   speech,
		Reasoner: reasoner.New(nil),
		Store:    store,
	})
	require.NoError(t, err)

	_, err = ctrl.StartVisit(context.Background(), true, "en-GB")
	require.NoError(t, err)
	caseData, err := fixtures.CaseFor(fixtures.SoreThroat)
	require.NoError(t, err)
	_, err = ctrl.UpdateCaseData(context.Background(), caseData.CaseData)
	require.NoError(t, err)

	// A new controller over the same store restores the persisted subset.
	restored, err := New(context.Background(), Config{
		Speech:   newFakeSpeech(),
		Reasoner: reasoner.New(nil),
		Store:    store,
	})
	require.NoError(t, err)

	sess := restored.Session()
	assert.Equal(t, "en-GB", sess.Locale)
	assert.Equal(t, "sore throat", sess.CaseData.ChiefComplaint())
	assert.Empty(t, sess.Transcript, "transcript is session-transient")
	assert.Empty(t, sess.VisitID, "visit identity is session-transient")
}

// legacyStore hands back a fixed snapshot, standing in for a database
// written by an older build.
type legacyStore struct {
	memory.Store
	snap storage.Snapshot
}

func (s *legacyStore) Load(context.Context) (*storage.Snapshot, error) {
	copied := s.snap
	return &copied, nil
}

func TestMigratedSnapshotDropsOldCase(t *testing.T) {
	store := &legacyStore{snap: storage.Snapshot{
		Version: 1,
		Locale:  "de-DE",
		CaseData: domain.CaseData{
			Allergies: []string{"Latex"},
		},
	}}

	ctrl, err := New(context.Background(), Config{
		Speech:   newFakeSpeech(),
		Reasoner: reasoner.New(nil),
		Store:    store,
	})
	require.NoError(t, err)

	sess := ctrl.Session()
	assert.Equal(t, "de-DE", sess.Locale)
	assert.Empty(t, sess.CaseData.Allergies)
}

func TestSubscribeReplayAndLive(t *testing.T) {
	ctrl, speech := startedController(t)
	require.NoError(t, ctrl.StartRecording(context.Background()))

	speech.Emit(domain.TranscriptEvent{
		Speaker:   domain.SpeakerPatient,
		Text:      "I've had a really sore throat.",
		Timestamp: 1000,
	})

	replay, events, cancel := ctrl.Subscribe()
	defer cancel()
	require.Len(t, replay, 1)
	assert.Equal(t, "1000-0", replay[0].ID)

	speech.Emit(domain.TranscriptEvent{
		Speaker:   domain.SpeakerDoctor,
		Text:      "Let me take a look.",
		Timestamp: 2000,
	})

	ev := <-events
	require.Equal(t, EventTranscript, ev.Type)
	require.NotNil(t, ev.Entry)
	assert.Equal(t, "2000-1", ev.Entry.ID)

	require.NoError(t, speech.Stop())
	ev = <-events
	assert.Equal(t, EventEnd, ev.Type)
}
