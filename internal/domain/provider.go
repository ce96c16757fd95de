package domain

import "context"

// SpeechProvider streams transcript entries for a visit. The scripted engine
// is the built-in implementation; a real speech-to-text backend can
// substitute without changing consumers.
type SpeechProvider interface {
	// Name identifies the provider implementation.
	Name() string

	// Start begins a playback/recording session. It fails with
	// ErrUnknownScenario when the scenario has no fixture and with
	// ErrRecordingActive when a session is already running. A non-empty
	// scenarioID selects the scenario for this session.
	Start(ctx context.Context, scenarioID ScenarioID) error

	// Stop cancels any pending deliveries and returns the provider to idle.
	// Idempotent; the end callback fires exactly once per active session.
	Stop() error

	// OnTranscript registers the delivery callback. Entries arrive in
	// fixture order, never after Stop has returned.
	OnTranscript(fn func(TranscriptEvent))

	// OnEnd registers the end-of-session callback.
	OnEnd(fn func())

	// SetScenario selects the scenario used by the next Start.
	SetScenario(id ScenarioID) error

	// Scenario returns the currently selected scenario.
	Scenario() ScenarioID
}

// ExtractionRequest asks a reasoner to turn transcript text into structured
// case data.
type ExtractionRequest struct {
	Transcript   string     `json:"transcript"`
	ExistingCase *CaseData  `json:"existingCase,omitempty"`
	ScenarioID   ScenarioID `json:"scenarioId,omitempty"`
}

// ExtractionResult is the structured case record a reasoner produced.
type ExtractionResult struct {
	ScenarioID ScenarioID `json:"scenarioId"`
	CaseData   CaseData   `json:"caseData"`
	Confidence float64    `json:"confidence"`
}

// ReasoningRequest asks a reasoner for diagnostic suggestions.
type ReasoningRequest struct {
	CaseData   CaseData   `json:"caseData"`
	ScenarioID ScenarioID `json:"scenarioId,omitempty"`
	Guidelines []string   `json:"guidelines,omitempty"`
}

// ReasoningResult carries unranked suggestion lists. IDs are assigned by the
// suggestion generator, not the provider.
type ReasoningResult struct {
	ScenarioID    ScenarioID             `json:"scenarioId"`
	Differentials []Differential         `json:"differentials"`
	Workup        []WorkupSuggestion     `json:"workup"`
	Medications   []MedicationSuggestion `json:"medications"`
	RedFlags      []RedFlag              `json:"redFlags"`

	// Warning is set when the result was recovered from a fallback scenario.
	Warning string `json:"warning,omitempty"`
}

// SafetyCheckRequest asks whether a medication class is safe for the case.
type SafetyCheckRequest struct {
	CaseData        CaseData   `json:"caseData"`
	MedicationClass string     `json:"medicationClass"`
	ScenarioID      ScenarioID `json:"scenarioId,omitempty"`
}

// SafetyCheckResult reports contraindications and confirmations for a
// medication class. Safe is true only when no contraindication applies.
type SafetyCheckResult struct {
	Safe                  bool     `json:"safe"`
	Contraindications     []string `json:"contraindications"`
	RequiredConfirmations []string `json:"requiredConfirmations"`
	Warnings              []string `json:"warnings"`
}

// AcceptedSuggestions tracks the suggestion labels a clinician accepted,
// grouped by kind.
type AcceptedSuggestions struct {
	Differentials []string `json:"differentials"`
	Workup        []string `json:"workup"`
	Medications   []string `json:"medications"`
}

// NoteRequest asks a reasoner to draft documentation for the visit.
type NoteRequest struct {
	CaseData            CaseData            `json:"caseData"`
	ScenarioID          ScenarioID          `json:"scenarioId,omitempty"`
	AcceptedSuggestions AcceptedSuggestions `json:"acceptedSuggestions"`
}

// NoteResult is a drafted SOAP note plus a patient-facing summary.
type NoteResult struct {
	SoapNote       SoapNote `json:"soapNote"`
	PatientSummary string   `json:"patientSummary"`
}

// Reasoner produces case extractions, diagnostic suggestions, safety checks,
// and visit documentation. The fixture reasoner is the built-in
// implementation; a real LLM backend can substitute.
type Reasoner interface {
	Name() string
	ExtractCase(ctx context.Context, req ExtractionRequest) (*ExtractionResult, error)
	GenerateReasoning(ctx context.Context, req ReasoningRequest) (*ReasoningResult, error)
	CheckSafety(ctx context.Context, req SafetyCheckRequest) (*SafetyCheckResult, error)
	GenerateNote(ctx context.Context, req NoteRequest) (*NoteResult, error)
}
