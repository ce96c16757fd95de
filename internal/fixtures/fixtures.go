// Package fixtures holds the static scenario tables that substitute for real
// speech-to-text and reasoning services: scripted conversations, extracted
// case records, diagnostic suggestions, and guideline text. The tables are
// immutable; accessors return deep copies so callers can never mutate them.
package fixtures

import (
	"fmt"
	"time"

	"github.com/medscribe/clinical-copilot/internal/domain"
)

// Scenario identifiers, in declaration order. The first entry is the default
// used when resolution finds nothing better.
const (
	SoreThroat          domain.ScenarioID = "sore-throat"
	ThunderclapHeadache domain.ScenarioID = "thunderclap-headache"
	UTIDysuria          domain.ScenarioID = "uti-dysuria"
)

// scenarioOrder fixes declaration order for resolution and listings.
var scenarioOrder = []domain.ScenarioID{SoreThroat, ThunderclapHeadache, UTIDysuria}

// DefaultScenario is the scenario used when nothing else resolves.
const DefaultScenario = SoreThroat

// ScenarioMeta describes a scenario for catalog listings.
type ScenarioMeta struct {
	ID          domain.ScenarioID `json:"id"`
	Label       string            `json:"label"`
	Description string            `json:"description"`
}

// ConversationEntry is one scripted utterance with its nominal real-time
// offset from the start of the conversation.
type ConversationEntry struct {
	Speaker    domain.Speaker
	Text       string
	OffsetMs   int64
	Confidence float64 // 0 means "use the engine default"
}

// Conversation is a scripted visit transcript.
type Conversation struct {
	ID             domain.ScenarioID
	Label          string
	Summary        string
	StartTimestamp time.Time
	Keywords       []string
	Entries        []ConversationEntry
}

// Case is the structured record a reasoner "extracts" for a scenario.
type Case struct {
	ID         domain.ScenarioID
	Confidence float64
	CaseData   domain.CaseData
}

// SafetyProfile lists the safety facts for one medication class.
type SafetyProfile struct {
	Contraindications     []string
	RequiredConfirmations []string
	Warnings              []string
}

// Suggestions is the fixed reasoning output for a scenario. Entries carry no
// IDs; the suggestion generator assigns positional tokens.
type Suggestions struct {
	ID            domain.ScenarioID
	Differentials []domain.Differential
	Workup        []domain.WorkupSuggestion
	Medications   []domain.MedicationSuggestion
	RedFlags      []domain.RedFlag
	SafetyChecks  map[string]SafetyProfile
}

// Guideline is a canned clinical pathway document.
type Guideline struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Version  string `json:"version"`
	Active   bool   `json:"active"`
}

// Known reports whether id has registered fixtures.
func Known(id domain.ScenarioID) bool {
	_, ok := conversations[id]
	return ok
}

// Scenarios lists scenario metadata in declaration order.
func Scenarios() []ScenarioMeta {
	out := make([]ScenarioMeta, 0, len(scenarioOrder))
	for _, id := range scenarioOrder {
		out = append(out, scenarioMetadata[id])
	}
	return out
}

// ConversationFor returns a copy of the scripted conversation for id.
func ConversationFor(id domain.ScenarioID) (*Conversation, error) {
	fix, ok := conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownScenario, id)
	}
	c := fix
	c.Keywords = append([]string(nil), fix.Keywords...)
	c.Entries = append([]ConversationEntry(nil), fix.Entries...)
	return &c, nil
}

// CaseFor returns a copy of the extracted-case fixture for id.
func CaseFor(id domain.ScenarioID) (*Case, error) {
	fix, ok := cases[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownScenario, id)
	}
	c := fix
	c.CaseData = CloneCaseData(fix.CaseData)
	return &c, nil
}

// SuggestionsFor returns a copy of the suggestion fixture for id.
func SuggestionsFor(id domain.ScenarioID) (*Suggestions, error) {
	fix, ok := suggestions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownScenario, id)
	}
	s := Suggestions{ID: fix.ID}
	s.Differentials = append([]domain.Differential(nil), fix.Differentials...)
	for i := range s.Differentials {
		s.Differentials[i].Guidelines = append([]string(nil), fix.Differentials[i].Guidelines...)
	}
	s.Workup = append([]domain.WorkupSuggestion(nil), fix.Workup...)
	for i := range s.Workup {
		s.Workup[i].Guidelines = append([]string(nil), fix.Workup[i].Guidelines...)
	}
	s.Medications = append([]domain.MedicationSuggestion(nil), fix.Medications...)
	for i := range s.Medications {
		s.Medications[i].Contraindications = append([]string(nil), fix.Medications[i].Contraindications...)
		s.Medications[i].Guidelines = append([]string(nil), fix.Medications[i].Guidelines...)
	}
	s.RedFlags = append([]domain.RedFlag(nil), fix.RedFlags...)
	s.SafetyChecks = make(map[string]SafetyProfile, len(fix.SafetyChecks))
	for name, profile := range fix.SafetyChecks {
		s.SafetyChecks[name] = SafetyProfile{
			Contraindications:     append([]string(nil), profile.Contraindications...),
			RequiredConfirmations: append([]string(nil), profile.RequiredConfirmations...),
			Warnings:              append([]string(nil), profile.Warnings...),
		}
	}
	return &s, nil
}

// GuidelineFor returns the guideline registered under key.
func GuidelineFor(key string) (*Guideline, bool) {
	g, ok := guidelines[key]
	if !ok {
		return nil, false
	}
	copied := g
	return &copied, true
}

// Guidelines lists all registered guidelines in declaration order.
func Guidelines() []Guideline {
	out := make([]Guideline, 0, len(guidelineOrder))
	for _, key := range guidelineOrder {
		out = append(out, guidelines[key])
	}
	return out
}

// CloneCaseData returns a deep copy of a case record.
func CloneCaseData(c domain.CaseData) domain.CaseData {
	out := domain.CaseData{}
	if c.Demographics != nil {
		d := *c.Demographics
		d.Age = clonePtr(c.Demographics.Age)
		d.Sex = clonePtr(c.Demographics.Sex)
		d.Pregnant = clonePtr(c.Demographics.Pregnant)
		d.Lactating = clonePtr(c.Demographics.Lactating)
		out.Demographics = &d
	}
	if c.Vitals != nil {
		v := *c.Vitals
		v.Temp = clonePtr(c.Vitals.Temp)
		v.HR = clonePtr(c.Vitals.HR)
		v.BP = clonePtr(c.Vitals.BP)
		v.RR = clonePtr(c.Vitals.RR)
		v.SpO2 = clonePtr(c.Vitals.SpO2)
		v.Weight = clonePtr(c.Vitals.Weight)
		out.Vitals = &v
	}
	if c.HPI != nil {
		h := *c.HPI
		h.ChiefComplaint = clonePtr(c.HPI.ChiefComplaint)
		h.OnsetDays = clonePtr(c.HPI.OnsetDays)
		h.Severity = clonePtr(c.HPI.Severity)
		h.Features = append([]string(nil), c.HPI.Features...)
		out.HPI = &h
	}
	out.Allergies = append([]string(nil), c.Allergies...)
	out.Medications = append([]string(nil), c.Medications...)
	out.MedicalHistory = append([]string(nil), c.MedicalHistory...)
	out.ROS = append([]string(nil), c.ROS...)
	out.Exam = append([]string(nil), c.Exam...)
	if c.Labs != nil {
		out.Labs = make(map[string]string, len(c.Labs))
		for k, v := range c.Labs {
			out.Labs[k] = v
		}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptr[T any](v T) *T { return &v }

func mustTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}
