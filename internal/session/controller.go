// Package session owns the single active visit. The Controller serializes
// every mutation behind one mutex, feeds transcript entries through the
// extraction and reasoning pipeline, and persists the reload-safe subset of
// state after each change.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/twmb/murmur3"

	"github.com/medscribe/clinical-copilot/internal/casedata"
	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/export"
	"github.com/medscribe/clinical-copilot/internal/fixtures"
	"github.com/medscribe/clinical-copilot/internal/storage"
	"github.com/medscribe/clinical-copilot/internal/suggest"
)

// Suggestion kinds accepted by SetAccepted.
const (
	KindDifferential = "differential"
	KindWorkup       = "workup"
	KindMedication   = "medication"
)

const defaultLocale = "en-US"

// subscriberBuffer bounds the per-subscriber event queue. A consumer that
// falls this far behind starts losing events rather than blocking delivery.
const subscriberBuffer = 64

// StreamEventType discriminates transcript stream events.
type StreamEventType string

const (
	EventTranscript StreamEventType = "transcript"
	EventEnd        StreamEventType = "end"
)

// StreamEvent is one item on a transcript subscription.
type StreamEvent struct {
	Type  StreamEventType
	Entry *domain.TranscriptEntry
}

// Config wires a Controller's collaborators.
type Config struct {
	Logger   *slog.Logger
	Speech   domain.SpeechProvider
	Reasoner domain.Reasoner
	Store    storage.SnapshotStore
	Locale   string
}

// Controller owns the visit session. All access to the session goes through
// its methods; snapshots handed out are deep copies.
type Controller struct {
	log      *slog.Logger
	speech   domain.SpeechProvider
	reasoner domain.Reasoner
	store    storage.SnapshotStore

	mu           sync.Mutex
	sess         domain.VisitSession
	seq          int
	appliedSig   uint64
	acceptedKeys map[string]struct{}
	subscribers  map[int]chan StreamEvent
	nextSub      int
}

// New builds a Controller, restoring the persisted snapshot if one exists.
// It registers itself as the speech provider's transcript consumer.
func New(ctx context.Context, cfg Config) (*Controller, error) {
	if cfg.Speech == nil {
		return nil, fmt.Errorf("session: speech provider is required")
	}
	if cfg.Reasoner == nil {
		return nil, fmt.Errorf("session: reasoner is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session: snapshot store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	locale := cfg.Locale
	if locale == "" {
		locale = defaultLocale
	}

	c := &Controller{
		log:          logger,
		speech:       cfg.Speech,
		reasoner:     cfg.Reasoner,
		store:        cfg.Store,
		acceptedKeys: make(map[string]struct{}),
		subscribers:  make(map[int]chan StreamEvent),
	}
	c.sess = freshSession(locale, cfg.Speech.Scenario())

	snap, err := cfg.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: load snapshot: %w", err)
	}
	if snap = storage.Migrate(snap); snap != nil {
		c.sess.Locale = snap.Locale
		c.sess.CaseData = fixtures.CloneCaseData(snap.CaseData)
		c.sess.SoapNote = snap.SoapNote
	}

	cfg.Speech.OnTranscript(c.handleTranscript)
	cfg.Speech.OnEnd(c.handleEnd)
	return c, nil
}

// Session returns a deep copy of the current visit state.
func (c *Controller) Session() domain.VisitSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSession(c.sess)
}

// StartVisit begins a new visit. Consent is a hard precondition; without it
// no visit id is issued and no state changes. The locale survives from the
// previous session unless the caller supplies one.
func (c *Controller) StartVisit(ctx context.Context, consented bool, locale string) (domain.VisitSession, error) {
	if !consented {
		return domain.VisitSession{}, domain.ErrConsentRequired
	}
	_ = c.speech.Stop()

	c.mu.Lock()
	if locale == "" {
		locale = c.sess.Locale
	}
	c.sess = freshSession(locale, c.speech.Scenario())
	c.sess.VisitID = uuid.NewString()
	c.sess.Consented = true
	c.seq = 0
	c.appliedSig = 0
	c.acceptedKeys = make(map[string]struct{})
	out := cloneSession(c.sess)
	c.saveLocked(ctx)
	c.mu.Unlock()
	return out, nil
}

// ResetVisit drops all visit state except the locale.
func (c *Controller) ResetVisit(ctx context.Context) domain.VisitSession {
	_ = c.speech.Stop()

	c.mu.Lock()
	c.sess = freshSession(c.sess.Locale, c.speech.Scenario())
	c.seq = 0
	c.appliedSig = 0
	c.acceptedKeys = make(map[string]struct{})
	out := cloneSession(c.sess)
	c.saveLocked(ctx)
	c.mu.Unlock()
	return out
}

// SetScenario switches the scripted scenario. Transcript, case data,
// suggestions, and the note reset; visit identity and consent survive.
func (c *Controller) SetScenario(ctx context.Context, id domain.ScenarioID) (domain.VisitSession, error) {
	if err := c.speech.SetScenario(id); err != nil {
		return domain.VisitSession{}, err
	}
	_ = c.speech.Stop()

	c.mu.Lock()
	visitID, consented, locale := c.sess.VisitID, c.sess.Consented, c.sess.Locale
	c.sess = freshSession(locale, id)
	c.sess.VisitID = visitID
	c.sess.Consented = consented
	c.seq = 0
	c.appliedSig = 0
	c.acceptedKeys = make(map[string]struct{})
	out := cloneSession(c.sess)
	c.saveLocked(ctx)
	c.mu.Unlock()
	return out, nil
}

// StartRecording begins scripted playback for the selected scenario.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.sess.VisitID == "" {
		c.mu.Unlock()
		return domain.ErrNoActiveVisit
	}
	scenario := c.sess.Scenario
	c.mu.Unlock()

	if err := c.speech.Start(ctx, scenario); err != nil {
		return err
	}

	c.mu.Lock()
	c.sess.Recording = true
	c.mu.Unlock()
	return nil
}

// StopRecording halts playback. Safe to call when idle.
func (c *Controller) StopRecording() error {
	return c.speech.Stop()
}

// handleTranscript is the speech provider's delivery callback. It appends
// the entry, fans it out to stream subscribers, then runs the extraction and
// reasoning pipeline. Pipeline failures never roll back accumulated case
// data.
func (c *Controller) handleTranscript(ev domain.TranscriptEvent) {
	ctx := context.Background()

	c.mu.Lock()
	entry := domain.TranscriptEntry{
		ID:         fmt.Sprintf("%d-%d", ev.Timestamp, c.seq),
		Speaker:    ev.Speaker,
		Text:       ev.Text,
		Timestamp:  ev.Timestamp,
		Confidence: ev.Confidence,
	}
	c.seq++
	c.sess.Transcript = append(c.sess.Transcript, entry)
	c.broadcastLocked(StreamEvent{Type: EventTranscript, Entry: &entry})

	req := domain.ExtractionRequest{
		Transcript:   transcriptText(c.sess.Transcript),
		ExistingCase: ptrCase(fixtures.CloneCaseData(c.sess.CaseData)),
		ScenarioID:   c.sess.Scenario,
	}
	c.mu.Unlock()

	res, err := c.reasoner.ExtractCase(ctx, req)
	if err != nil {
		c.log.Error("case extraction failed", slog.String("error", err.Error()))
		return
	}

	c.mu.Lock()
	c.sess.CaseData = casedata.Merge(c.sess.CaseData, res.CaseData)
	c.saveLocked(ctx)
	c.mu.Unlock()

	if err := c.RefreshInsights(ctx); err != nil {
		c.log.Warn("insight refresh failed", slog.String("error", err.Error()))
	}
}

// handleEnd marks the recording finished and tells stream subscribers.
func (c *Controller) handleEnd() {
	c.mu.Lock()
	c.sess.Recording = false
	c.broadcastLocked(StreamEvent{Type: EventEnd})
	c.mu.Unlock()
}

// UpdateCaseData merges clinician edits into the case record and refreshes
// insights. Edits follow merge semantics: set fields overwrite, absent
// fields never erase.
func (c *Controller) UpdateCaseData(ctx context.Context, incoming domain.CaseData) (domain.VisitSession, error) {
	c.mu.Lock()
	c.sess.CaseData = casedata.Merge(c.sess.CaseData, incoming)
	c.saveLocked(ctx)
	c.mu.Unlock()

	if err := c.RefreshInsights(ctx); err != nil {
		c.log.Warn("insight refresh failed", slog.String("error", err.Error()))
	}
	return c.Session(), nil
}

// RefreshInsights regenerates the suggestion lists when the reasoning inputs
// changed since the last applied cycle. The reasoner runs outside the lock;
// a result whose inputs moved on in the meantime is discarded with
// ErrStaleInsights rather than applied over newer state.
func (c *Controller) RefreshInsights(ctx context.Context) error {
	c.mu.Lock()
	if c.sess.CaseData.ChiefComplaint() == "" {
		c.clearInsightsLocked()
		c.mu.Unlock()
		return nil
	}
	sig := c.insightSignatureLocked()
	if sig == c.appliedSig {
		c.mu.Unlock()
		return nil
	}
	req := domain.ReasoningRequest{
		CaseData:   fixtures.CloneCaseData(c.sess.CaseData),
		ScenarioID: c.sess.Scenario,
	}
	c.mu.Unlock()

	res, err := c.reasoner.GenerateReasoning(ctx, req)
	if err != nil {
		return err
	}
	if res.Warning != "" {
		c.log.Warn("reasoning fell back", slog.String("warning", res.Warning))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess.CaseData.ChiefComplaint() == "" || c.insightSignatureLocked() != sig {
		return domain.ErrStaleInsights
	}
	c.applyInsightsLocked(res, sig)
	return nil
}

// SetAccepted toggles acceptance for a suggestion by kind and id.
func (c *Controller) SetAccepted(kind, id string, accepted bool) (domain.AcceptedSuggestions, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var label string
	var ids *[]string
	switch kind {
	case KindDifferential:
		for _, d := range c.sess.Differentials {
			if d.ID == id {
				label = d.Diagnosis
			}
		}
		ids = &c.sess.Accepted.Differentials
	case KindWorkup:
		for _, w := range c.sess.Workup {
			if w.ID == id {
				label = w.Test
			}
		}
		ids = &c.sess.Accepted.Workup
	case KindMedication:
		for _, m := range c.sess.Medications {
			if m.ID == id {
				label = m.DrugClass
			}
		}
		ids = &c.sess.Accepted.Medications
	default:
		return domain.AcceptedSuggestions{}, fmt.Errorf("unknown suggestion kind: %s", kind)
	}
	if label == "" {
		return domain.AcceptedSuggestions{}, fmt.Errorf("unknown suggestion id: %s", id)
	}

	key := suggest.ContentKey(kind, label)
	if accepted {
		if !containsString(*ids, id) {
			*ids = append(*ids, id)
		}
		c.acceptedKeys[key] = struct{}{}
	} else {
		*ids = removeString(*ids, id)
		delete(c.acceptedKeys, key)
	}
	return cloneAccepted(c.sess.Accepted), nil
}

// CheckSafety runs a medication safety check against the current case.
func (c *Controller) CheckSafety(ctx context.Context, medicationClass string) (*domain.SafetyCheckResult, error) {
	c.mu.Lock()
	req := domain.SafetyCheckRequest{
		CaseData:        fixtures.CloneCaseData(c.sess.CaseData),
		MedicationClass: medicationClass,
		ScenarioID:      c.sess.Scenario,
	}
	c.mu.Unlock()
	return c.reasoner.CheckSafety(ctx, req)
}

// GenerateNote drafts the SOAP note and patient summary from the case and
// the accepted suggestion labels, replacing any existing draft.
func (c *Controller) GenerateNote(ctx context.Context) (domain.VisitSession, error) {
	c.mu.Lock()
	req := domain.NoteRequest{
		CaseData:            fixtures.CloneCaseData(c.sess.CaseData),
		ScenarioID:          c.sess.Scenario,
		AcceptedSuggestions: c.acceptedLabelsLocked(),
	}
	c.mu.Unlock()

	res, err := c.reasoner.GenerateNote(ctx, req)
	if err != nil {
		return domain.VisitSession{}, err
	}

	c.mu.Lock()
	c.sess.SoapNote = domain.SoapNoteDraft{
		Subjective: res.SoapNote.Subjective,
		Objective:  res.SoapNote.Objective,
		Assessment: res.SoapNote.Assessment,
		Plan:       res.SoapNote.Plan,
	}
	c.sess.PatientSummary = res.PatientSummary
	out := cloneSession(c.sess)
	c.saveLocked(ctx)
	c.mu.Unlock()
	return out, nil
}

// UpdateSoapNote replaces one note section with clinician-edited content.
func (c *Controller) UpdateSoapNote(ctx context.Context, section, content string) (domain.VisitSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch strings.ToLower(section) {
	case "subjective":
		c.sess.SoapNote.Subjective = content
	case "objective":
		c.sess.SoapNote.Objective = content
	case "assessment":
		c.sess.SoapNote.Assessment = content
	case "plan":
		c.sess.SoapNote.Plan = content
	default:
		return domain.VisitSession{}, fmt.Errorf("unknown note section: %s", section)
	}
	c.saveLocked(ctx)
	return cloneSession(c.sess), nil
}

// BuildSummary renders the exportable visit document and its filename.
func (c *Controller) BuildSummary() (doc, filename string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var note *domain.SoapNoteDraft
	if !c.sess.SoapNote.Empty() {
		n := c.sess.SoapNote
		note = &n
	}
	doc = export.BuildDocument(export.Params{
		VisitID:       c.sess.VisitID,
		CaseData:      c.sess.CaseData,
		Differentials: c.sess.Differentials,
		Workup:        c.sess.Workup,
		Medications:   c.sess.Medications,
		RedFlags:      c.sess.RedFlags,
		SoapNote:      note,
	})
	return doc, export.Filename(c.sess.VisitID)
}

// Subscribe attaches a transcript stream consumer. Entries already delivered
// in this session are returned for replay; subsequent events arrive on the
// channel. The replay snapshot and the subscription are taken atomically so
// no entry is lost or duplicated between them.
func (c *Controller) Subscribe() (replay []domain.TranscriptEntry, events <-chan StreamEvent, cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	replay = append([]domain.TranscriptEntry(nil), c.sess.Transcript...)
	ch := make(chan StreamEvent, subscriberBuffer)
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = ch

	cancel = func() {
		c.mu.Lock()
		if existing, ok := c.subscribers[id]; ok {
			delete(c.subscribers, id)
			close(existing)
		}
		c.mu.Unlock()
	}
	return replay, ch, cancel
}

// Close stops playback and releases the snapshot store.
func (c *Controller) Close() error {
	_ = c.speech.Stop()

	c.mu.Lock()
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
	c.mu.Unlock()
	return c.store.Close()
}

func (c *Controller) broadcastLocked(ev StreamEvent) {
	for _, ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
			// Consumer stalled; it will miss this event.
		}
	}
}

func (c *Controller) clearInsightsLocked() {
	empty := suggest.Empty()
	c.sess.Differentials = empty.Differentials
	c.sess.Workup = empty.Workup
	c.sess.Medications = empty.Medications
	c.sess.RedFlags = empty.RedFlags
	c.sess.Accepted = domain.AcceptedSuggestions{}
	c.acceptedKeys = make(map[string]struct{})
	c.appliedSig = 0
}

// applyInsightsLocked installs a ranked cycle and carries acceptance forward
// by content: positional ids shift between cycles, so prior acceptances are
// re-keyed onto whichever new ids carry the same suggestion text.
func (c *Controller) applyInsightsLocked(res *domain.ReasoningResult, sig uint64) {
	ranked := suggest.Rank(*res)

	accepted := domain.AcceptedSuggestions{}
	keys := make(map[string]struct{})
	for _, d := range ranked.Differentials {
		key := suggest.ContentKey(KindDifferential, d.Diagnosis)
		if _, ok := c.acceptedKeys[key]; ok {
			accepted.Differentials = append(accepted.Differentials, d.ID)
			keys[key] = struct{}{}
		}
	}
	for _, w := range ranked.Workup {
		key := suggest.ContentKey(KindWorkup, w.Test)
		if _, ok := c.acceptedKeys[key]; ok {
			accepted.Workup = append(accepted.Workup, w.ID)
			keys[key] = struct{}{}
		}
	}
	for _, m := range ranked.Medications {
		key := suggest.ContentKey(KindMedication, m.DrugClass)
		if _, ok := c.acceptedKeys[key]; ok {
			accepted.Medications = append(accepted.Medications, m.ID)
			keys[key] = struct{}{}
		}
	}

	c.sess.Differentials = ranked.Differentials
	c.sess.Workup = ranked.Workup
	c.sess.Medications = ranked.Medications
	c.sess.RedFlags = ranked.RedFlags
	c.sess.Accepted = suggest.Reconcile(accepted, ranked)
	c.acceptedKeys = keys
	c.appliedSig = sig
}

// insightSignatureLocked hashes the reasoning inputs so an unchanged case
// never triggers a redundant regeneration and a changed case invalidates
// in-flight results.
func (c *Controller) insightSignatureLocked() uint64 {
	payload, err := json.Marshal(struct {
		Scenario    domain.ScenarioID    `json:"scenario"`
		HPI         *domain.HPI          `json:"hpi"`
		Vitals      *domain.Vitals       `json:"vitals"`
		Allergies   []string             `json:"allergies"`
		Medications []string             `json:"medications"`
		Exam        []string             `json:"exam"`
		Labs        map[string]string    `json:"labs"`
		ROS         []string             `json:"ros"`
		Demo        *domain.Demographics `json:"demographics"`
	}{
		Scenario:    c.sess.Scenario,
		HPI:         c.sess.CaseData.HPI,
		Vitals:      c.sess.CaseData.Vitals,
		Allergies:   c.sess.CaseData.Allergies,
		Medications: c.sess.CaseData.Medications,
		Exam:        c.sess.CaseData.Exam,
		Labs:        c.sess.CaseData.Labs,
		ROS:         c.sess.CaseData.ROS,
		Demo:        c.sess.CaseData.Demographics,
	})
	if err != nil {
		return 0
	}
	return murmur3.Sum64(payload)
}

// acceptedLabelsLocked maps accepted positional ids back to display labels
// for note generation.
func (c *Controller) acceptedLabelsLocked() domain.AcceptedSuggestions {
	out := domain.AcceptedSuggestions{}
	for _, id := range c.sess.Accepted.Differentials {
		for _, d := range c.sess.Differentials {
			if d.ID == id {
				out.Differentials = append(out.Differentials, d.Diagnosis)
			}
		}
	}
	for _, id := range c.sess.Accepted.Workup {
		for _, w := range c.sess.Workup {
			if w.ID == id {
				out.Workup = append(out.Workup, w.Test)
			}
		}
	}
	for _, id := range c.sess.Accepted.Medications {
		for _, m := range c.sess.Medications {
			if m.ID == id {
				out.Medications = append(out.Medications, m.DrugClass)
			}
		}
	}
	return out
}

// saveLocked persists the reload-safe subset. Persistence is best effort:
// a failed save is logged and the in-memory session stays authoritative.
func (c *Controller) saveLocked(ctx context.Context) {
	snap := &storage.Snapshot{
		Version:  storage.SchemaVersion,
		Locale:   c.sess.Locale,
		CaseData: fixtures.CloneCaseData(c.sess.CaseData),
		SoapNote: c.sess.SoapNote,
	}
	if err := c.store.Save(ctx, snap); err != nil {
		c.log.Warn("snapshot save failed", slog.String("error", err.Error()))
	}
}

func freshSession(locale string, scenario domain.ScenarioID) domain.VisitSession {
	if scenario == "" {
		scenario = fixtures.DefaultScenario
	}
	empty := suggest.Empty()
	return domain.VisitSession{
		Locale:        locale,
		Scenario:      scenario,
		Transcript:    []domain.TranscriptEntry{},
		Differentials: empty.Differentials,
		Workup:        empty.Workup,
		Medications:   empty.Medications,
		RedFlags:      empty.RedFlags,
	}
}

// cloneSession deep-copies the session. Slices stay non-nil so the JSON view
// renders empty arrays rather than null.
func cloneSession(s domain.VisitSession) domain.VisitSession {
	out := s
	out.Transcript = append([]domain.TranscriptEntry{}, s.Transcript...)
	out.CaseData = fixtures.CloneCaseData(s.CaseData)
	out.Differentials = append([]domain.Differential{}, s.Differentials...)
	out.Workup = append([]domain.WorkupSuggestion{}, s.Workup...)
	out.Medications = append([]domain.MedicationSuggestion{}, s.Medications...)
	out.RedFlags = append([]domain.RedFlag{}, s.RedFlags...)
	out.Accepted = cloneAccepted(s.Accepted)
	return out
}

func cloneAccepted(a domain.AcceptedSuggestions) domain.AcceptedSuggestions {
	return domain.AcceptedSuggestions{
		Differentials: append([]string{}, a.Differentials...),
		Workup:        append([]string{}, a.Workup...),
		Medications:   append([]string{}, a.Medications...),
	}
}

func transcriptText(entries []domain.TranscriptEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Speaker, e.Text))
	}
	return strings.Join(lines, "\n")
}

func ptrCase(c domain.CaseData) *domain.CaseData { return &c }

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
