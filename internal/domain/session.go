package domain

// VisitSession is the aggregate for one patient visit. It is owned by a
// single-writer controller; copies handed to callers are snapshots.
type VisitSession struct {
	VisitID   string     `json:"visitId,omitempty"`
	Consented bool       `json:"consented"`
	Locale    string     `json:"locale"`
	Scenario  ScenarioID `json:"scenarioId"`
	Recording bool       `json:"isRecording"`

	Transcript []TranscriptEntry `json:"transcript"`
	CaseData   CaseData          `json:"caseData"`

	Differentials []Differential         `json:"differentials"`
	Workup        []WorkupSuggestion     `json:"workupSuggestions"`
	Medications   []MedicationSuggestion `json:"medicationSuggestions"`
	RedFlags      []RedFlag              `json:"redFlags"`
	Accepted      AcceptedSuggestions    `json:"accepted"`

	SoapNote       SoapNoteDraft `json:"soapNote"`
	PatientSummary string        `json:"patientSummary,omitempty"`
}
