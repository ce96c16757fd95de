// Package scripted implements the built-in speech provider: it replays a
// scenario's scripted conversation on a compressed timeline, delivering one
// entry at a time to the registered transcript callback.
package scripted

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/fixtures"
)

const (
	// defaultPlaybackSpeed compresses the nominal real-time offsets so a
	// full scripted conversation plays back in a few seconds.
	defaultPlaybackSpeed = 0.1

	// defaultConfidence is used for entries whose fixture carries none.
	defaultConfidence = 0.92
)

// Option configures an Engine.
type Option func(*Engine)

// WithPlaybackSpeed sets the timeline compression factor. Values below 1
// play faster than real time.
func WithPlaybackSpeed(speed float64) Option {
	return func(e *Engine) {
		if speed > 0 {
			e.speed = speed
		}
	}
}

// WithScenario sets the initially selected scenario.
func WithScenario(id domain.ScenarioID) Option {
	return func(e *Engine) {
		if fixtures.Known(id) {
			e.scenario = id
		}
	}
}

// Engine is the scripted speech provider. It is a two-state machine (idle or
// recording); at most one playback session is active at a time. Entry
// delivery is chained: each delivery schedules the next from the remaining
// offset against a monotonic start reference, so scheduling jitter never
// accumulates and entries always arrive in fixture order.
type Engine struct {
	mu           sync.Mutex
	scenario     domain.ScenarioID
	speed        float64
	recording    bool
	active       *playback
	onTranscript func(domain.TranscriptEvent)
	onEnd        func()
}

// playback tracks one session so a superseded session can never deliver or
// fire callbacks after it has been stopped.
type playback struct {
	start   time.Time
	baseMs  int64
	entries []fixtures.ConversationEntry
	timer   *time.Timer
}

var _ domain.SpeechProvider = (*Engine)(nil)

// New creates an idle engine selecting the default scenario.
func New(opts ...Option) *Engine {
	e := &Engine{
		scenario: fixtures.DefaultScenario,
		speed:    defaultPlaybackSpeed,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string { return "scripted" }

// Scenario returns the currently selected scenario.
func (e *Engine) Scenario() domain.ScenarioID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenario
}

// SetScenario selects the scenario used by the next Start.
func (e *Engine) SetScenario(id domain.ScenarioID) error {
	if !fixtures.Known(id) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownScenario, id)
	}
	e.mu.Lock()
	e.scenario = id
	e.mu.Unlock()
	return nil
}

// OnTranscript registers the delivery callback.
func (e *Engine) OnTranscript(fn func(domain.TranscriptEvent)) {
	e.mu.Lock()
	e.onTranscript = fn
	e.mu.Unlock()
}

// OnEnd registers the end-of-session callback.
func (e *Engine) OnEnd(fn func()) {
	e.mu.Lock()
	e.onEnd = fn
	e.mu.Unlock()
}

// Start begins playback for scenarioID (or the selected scenario when
// empty). It fails when a session is already recording or the scenario has
// no conversation fixture.
func (e *Engine) Start(_ context.Context, scenarioID domain.ScenarioID) error {
	e.mu.Lock()
	if e.recording {
		e.mu.Unlock()
		return domain.ErrRecordingActive
	}
	if scenarioID != "" {
		if !fixtures.Known(scenarioID) {
			e.mu.Unlock()
			return fmt.Errorf("%w: %s", domain.ErrUnknownScenario, scenarioID)
		}
		e.scenario = scenarioID
	}
	conv, err := fixtures.ConversationFor(e.scenario)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	session := &playback{
		start:   time.Now(),
		baseMs:  conv.StartTimestamp.UnixMilli(),
		entries: conv.Entries,
	}
	e.recording = true
	e.active = session
	if len(session.entries) == 0 {
		e.mu.Unlock()
		return e.stopSession(session)
	}
	e.scheduleLocked(session, 0)
	e.mu.Unlock()
	return nil
}

// Stop cancels the active session. Idempotent: redundant calls are no-ops
// and the end callback fires exactly once per session.
func (e *Engine) Stop() error {
	e.mu.Lock()
	session := e.active
	e.mu.Unlock()
	return e.stopSession(session)
}

func (e *Engine) stopSession(session *playback) error {
	e.mu.Lock()
	if session == nil || e.active != session {
		e.mu.Unlock()
		return nil
	}
	e.recording = false
	e.active = nil
	if session.timer != nil {
		session.timer.Stop()
	}
	end := e.onEnd
	e.mu.Unlock()

	if end != nil {
		end()
	}
	return nil
}

// scheduleLocked arms the timer for entry idx. Caller holds e.mu. The delay
// is computed from the remaining compressed offset rather than a fixed
// interval, compensating for elapsed wall-clock time.
func (e *Engine) scheduleLocked(session *playback, idx int) {
	entry := session.entries[idx]
	target := time.Duration(float64(entry.OffsetMs)*e.speed) * time.Millisecond
	delay := target - time.Since(session.start)
	if delay < 0 {
		delay = 0
	}
	session.timer = time.AfterFunc(delay, func() {
		e.deliver(session, idx)
	})
}

func (e *Engine) deliver(session *playback, idx int) {
	e.mu.Lock()
	if !e.recording || e.active != session {
		e.mu.Unlock()
		return
	}
	entry := session.entries[idx]
	cb := e.onTranscript
	e.mu.Unlock()

	if cb != nil {
		confidence := entry.Confidence
		if confidence == 0 {
			confidence = defaultConfidence
		}
		cb(domain.TranscriptEvent{
			Speaker:    entry.Speaker,
			Text:       entry.Text,
			Timestamp:  session.baseMs + entry.OffsetMs,
			Confidence: confidence,
		})
	}

	if idx+1 >= len(session.entries) {
		// Last entry delivered: the session stops itself.
		_ = e.stopSession(session)
		return
	}

	e.mu.Lock()
	if e.recording && e.active == session {
		e.scheduleLocked(session, idx+1)
	}
	e.mu.Unlock()
}
