// Package domain defines the canonical types shared across the clinical
// copilot: scenario identifiers, transcript entries, the structured case
// record, and the suggestion shapes produced by reasoning providers.
package domain

// ScenarioID identifies one of the fixed clinical vignettes that drive the
// demo deterministically. Membership is fixed at build time; the fixtures
// package owns the registered set.
type ScenarioID string

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerDoctor  Speaker = "doctor"
	SpeakerPatient Speaker = "patient"
)

// TranscriptEntry is a single delivered utterance. Entries are append-only;
// the ID is derived from the delivery timestamp plus sequence position, so it
// is unique within a session but not across sessions.
type TranscriptEntry struct {
	ID         string  `json:"id"`
	Speaker    Speaker `json:"speaker"`
	Text       string  `json:"text"`
	Timestamp  int64   `json:"timestamp"` // epoch milliseconds
	Confidence float64 `json:"confidence,omitempty"`
}

// TranscriptEvent is what a speech provider delivers before the session
// assigns an entry ID.
type TranscriptEvent struct {
	Speaker    Speaker `json:"speaker"`
	Text       string  `json:"text"`
	Timestamp  int64   `json:"timestamp"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Demographics describes the patient. Every field is optional: a nil pointer
// means "not documented", which is distinct from a zero value.
type Demographics struct {
	Age       *int    `json:"age,omitempty"`
	Sex       *string `json:"sex,omitempty"` // "M", "F", "Other"
	Pregnant  *bool   `json:"pregnant,omitempty"`
	Lactating *bool   `json:"lactating,omitempty"`
}

// Vitals holds point-in-time vital signs.
type Vitals struct {
	Temp   *float64 `json:"temp,omitempty"` // Fahrenheit
	HR     *int     `json:"hr,omitempty"`
	BP     *string  `json:"bp,omitempty"`
	RR     *int     `json:"rr,omitempty"`
	SpO2   *int     `json:"spo2,omitempty"`
	Weight *float64 `json:"weight,omitempty"` // kilograms
}

// HPI is the history of present illness.
type HPI struct {
	ChiefComplaint *string  `json:"chiefComplaint,omitempty"`
	OnsetDays      *int     `json:"onsetDays,omitempty"`
	Features       []string `json:"features,omitempty"`
	Severity       *int     `json:"severity,omitempty"` // 0-10
}

// CaseData is the partially-populated structured case record. Array-valued
// fields behave as sets after merge (no duplicates, insertion-order stable).
type CaseData struct {
	Demographics   *Demographics     `json:"demographics,omitempty"`
	Vitals         *Vitals           `json:"vitals,omitempty"`
	Allergies      []string          `json:"allergies,omitempty"`
	Medications    []string          `json:"medications,omitempty"`
	MedicalHistory []string          `json:"medicalHistory,omitempty"`
	Labs           map[string]string `json:"labs,omitempty"`
	HPI            *HPI              `json:"hpi,omitempty"`
	ROS            []string          `json:"ros,omitempty"`
	Exam           []string          `json:"exam,omitempty"`
}

// ChiefComplaint returns the chief complaint, or "" when not documented.
func (c CaseData) ChiefComplaint() string {
	if c.HPI == nil || c.HPI.ChiefComplaint == nil {
		return ""
	}
	return *c.HPI.ChiefComplaint
}

// Differential is a candidate diagnosis. IDs are positional tokens assigned
// at generation time (diff_0, diff_1, ...) and are not stable across
// regenerations; acceptance tracking must reconcile after each cycle.
type Differential struct {
	ID         string   `json:"id"`
	Diagnosis  string   `json:"diagnosis"`
	Confidence float64  `json:"confidence"` // 0..1
	Rationale  string   `json:"rationale"`
	Guidelines []string `json:"guidelines,omitempty"`
}

// WorkupCategory classifies a workup suggestion.
type WorkupCategory string

const (
	WorkupLab      WorkupCategory = "lab"
	WorkupImaging  WorkupCategory = "imaging"
	WorkupReferral WorkupCategory = "referral"
)

// WorkupPriority orders workup suggestions.
type WorkupPriority string

const (
	PriorityUrgent  WorkupPriority = "urgent"
	PriorityRoutine WorkupPriority = "routine"
)

// WorkupSuggestion is a suggested diagnostic test or referral.
type WorkupSuggestion struct {
	ID         string         `json:"id"`
	Test       string         `json:"test"`
	Category   WorkupCategory `json:"category"`
	Indication string         `json:"indication"`
	Priority   WorkupPriority `json:"priority"`
	Guidelines []string       `json:"guidelines,omitempty"`
}

// MedicationSuggestion is a drug-class recommendation.
type MedicationSuggestion struct {
	ID                   string   `json:"id"`
	DrugClass            string   `json:"drugClass"`
	Indication           string   `json:"indication"`
	Contraindications    []string `json:"contraindications,omitempty"`
	RequiresConfirmation bool     `json:"requiresConfirmation"`
	Guidelines           []string `json:"guidelines,omitempty"`
}

// FlagSeverity grades a red flag.
type FlagSeverity string

const (
	SeverityCritical FlagSeverity = "critical"
	SeverityUrgent   FlagSeverity = "urgent"
	SeverityModerate FlagSeverity = "moderate"
)

// RedFlag is a clinical warning indicating escalation may be warranted.
type RedFlag struct {
	ID          string       `json:"id"`
	Trigger     string       `json:"trigger"`
	Description string       `json:"description"`
	Severity    FlagSeverity `json:"severity"`
	Active      bool         `json:"active"`
}

// SoapNote is a structured clinical note.
type SoapNote struct {
	Subjective string `json:"subjective"`
	Objective  string `json:"objective"`
	Assessment string `json:"assessment"`
	Plan       string `json:"plan"`
}

// SoapNoteDraft is a partially-populated SOAP note; empty sections have not
// been drafted yet.
type SoapNoteDraft struct {
	Subjective string `json:"subjective,omitempty"`
	Objective  string `json:"objective,omitempty"`
	Assessment string `json:"assessment,omitempty"`
	Plan       string `json:"plan,omitempty"`
}

// Empty reports whether no section has content.
func (d SoapNoteDraft) Empty() bool {
	return d.Subjective == "" && d.Objective == "" && d.Assessment == "" && d.Plan == ""
}
