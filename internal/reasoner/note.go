package reasoner

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/fixtures"
)

// GenerateNote drafts a SOAP note and a patient-facing summary from the case
// record and the suggestion labels the clinician accepted. Output is
// deterministic for a given input.
func (f *Fixture) GenerateNote(_ context.Context, req domain.NoteRequest) (*domain.NoteResult, error) {
	scenarioID := fixtures.Resolve("", req.ScenarioID)
	fix, _, err := f.suggestionsWithFallback(scenarioID)
	if err != nil {
		return nil, err
	}

	caseData := req.CaseData
	accepted := req.AcceptedSuggestions
	chiefComplaint := caseData.ChiefComplaint()
	if chiefComplaint == "" {
		chiefComplaint = "today's visit"
	}

	return &domain.NoteResult{
		SoapNote: domain.SoapNote{
			Subjective: buildSubjective(caseData, chiefComplaint),
			Objective:  buildObjective(caseData),
			Assessment: buildAssessment(fix, accepted),
			Plan:       buildPlan(accepted),
		},
		PatientSummary: buildPatientSummary(chiefComplaint, accepted),
	}, nil
}

func buildSubjective(caseData domain.CaseData, chiefComplaint string) string {
	var parts []string
	if d := caseData.Demographics; d != nil && d.Age != nil && d.Sex != nil {
		sex := "patient"
		switch *d.Sex {
		case "M":
			sex = "male"
		case "F":
			sex = "female"
		}
		parts = append(parts, fmt.Sprintf("%d-year-old %s", *d.Age, sex))
	} else {
		parts = append(parts, "Patient")
	}
	parts = append(parts, fmt.Sprintf("presents with %s", chiefComplaint))
	if h := caseData.HPI; h != nil && h.OnsetDays != nil {
		unit := "days"
		if *h.OnsetDays == 1 {
			unit = "day"
		}
		parts = append(parts, fmt.Sprintf("for %d %s", *h.OnsetDays, unit))
	}
	if h := caseData.HPI; h != nil && len(h.Features) > 0 {
		parts = append(parts, fmt.Sprintf("Associated symptoms: %s", strings.Join(h.Features, ", ")))
	}
	if len(caseData.ROS) > 0 {
		parts = append(parts, fmt.Sprintf("ROS notable for %s", strings.Join(caseData.ROS, ", ")))
	}
	if len(caseData.Allergies) > 0 {
		parts = append(parts, fmt.Sprintf("Allergies: %s", strings.Join(caseData.Allergies, ", ")))
	}
	return strings.Join(parts, ". ")
}

func buildObjective(caseData domain.CaseData) string {
	var parts []string
	if v := caseData.Vitals; v != nil {
		var segments []string
		if v.Temp != nil {
			segments = append(segments, fmt.Sprintf("T %s°F", trimFloat(*v.Temp)))
		}
		if v.HR != nil {
			segments = append(segments, fmt.Sprintf("HR %d bpm", *v.HR))
		}
		if v.BP != nil {
			segments = append(segments, fmt.Sprintf("BP %s", *v.BP))
		}
		if v.RR != nil {
			segments = append(segments, fmt.Sprintf("RR %d", *v.RR))
		}
		if v.SpO2 != nil {
			segments = append(segments, fmt.Sprintf("SpO2 %d%%", *v.SpO2))
		}
		if len(segments) > 0 {
			parts = append(parts, fmt.Sprintf("Vital signs: %s", strings.Join(segments, ", ")))
		}
	}
	if len(caseData.Exam) > 0 {
		parts = append(parts, fmt.Sprintf("Exam: %s", strings.Join(caseData.Exam, ", ")))
	}
	if len(caseData.Labs) > 0 {
		parts = append(parts, fmt.Sprintf("Point-of-care data: %s", formatLabs(caseData.Labs)))
	}
	return strings.Join(parts, "\n")
}

func buildAssessment(fix *fixtures.Suggestions, accepted domain.AcceptedSuggestions) string {
	var parts []string
	if len(accepted.Differentials) > 0 {
		parts = append(parts, fmt.Sprintf("Leading considerations: %s.", strings.Join(accepted.Differentials, ", ")))
	} else {
		parts = append(parts, "Assessment aligns with presenting symptoms in context of available data.")
	}

	var titles []string
	seen := make(map[string]struct{})
	for _, diff := range fix.Differentials {
		for _, key := range diff.Guidelines {
			g, ok := fixtures.GuidelineFor(key)
			if !ok {
				continue
			}
			if _, dup := seen[g.Title]; dup {
				continue
			}
			seen[g.Title] = struct{}{}
			titles = append(titles, g.Title)
		}
	}
	if len(titles) > 0 {
		parts = append(parts, fmt.Sprintf("Reviewed pathways: %s.", strings.Join(titles, ", ")))
	}
	return strings.Join(parts, " ")
}

func buildPlan(accepted domain.AcceptedSuggestions) string {
	var parts []string
	if len(accepted.Workup) > 0 {
		parts = append(parts, "Diagnostics:")
		for i, item := range accepted.Workup {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, item))
		}
	}
	if len(accepted.Medications) > 0 {
		label := "Medications:"
		if len(parts) > 0 {
			label = "\nMedications:"
		}
		parts = append(parts, label)
		for i, med := range accepted.Medications {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, med))
		}
	}
	parts = append(parts, "Follow-up: Return if symptoms worsen, new red flags emerge, or no improvement within 48 hours.")
	return strings.Join(parts, "\n")
}

func buildPatientSummary(chiefComplaint string, accepted domain.AcceptedSuggestions) string {
	lines := []string{fmt.Sprintf("Today we addressed %s.", chiefComplaint)}
	if len(accepted.Differentials) > 0 {
		lines = append(lines, fmt.Sprintf("Your care team is prioritizing: %s.", accepted.Differentials[0]))
	}
	if len(accepted.Medications) > 0 {
		lines = append(lines, "Medication instructions were discussed - please follow the dosing guidance provided.")
	}
	if len(accepted.Workup) > 0 {
		lines = append(lines, "We ordered tests to confirm the plan; the clinic will contact you with results.")
	}
	lines = append(lines, "Call immediately if symptoms escalate or new concerns appear.")
	return strings.Join(lines, " ")
}

func formatLabs(labs map[string]string) string {
	keys := make([]string, 0, len(labs))
	for k := range labs {
		keys = append(keys, k)
	}
	// Map iteration order is random; keep the note deterministic.
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %s", k, labs[k]))
	}
	return strings.Join(pairs, "; ")
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
