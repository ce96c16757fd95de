// Package export flattens accumulated visit state into the downloadable
// plain-text visit summary.
package export

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/medscribe/clinical-copilot/internal/domain"
)

// Placeholder renders instead of an empty list so every section header is
// always followed by content.
const Placeholder = "None recorded"

const (
	defaultVisitID   = "draft"
	notDocumented    = "Not documented"
	maxListedEntries = 5
)

// Params carries everything the document needs.
type Params struct {
	VisitID       string
	CaseData      domain.CaseData
	Differentials []domain.Differential
	Workup        []domain.WorkupSuggestion
	Medications   []domain.MedicationSuggestion
	RedFlags      []domain.RedFlag
	SoapNote      *domain.SoapNoteDraft
}

// BuildDocument produces the line-oriented visit summary. Section order is
// fixed; list sections cap at five entries; displayed confidence rounds to
// the nearest whole percent while stored values keep full precision.
func BuildDocument(p Params) string {
	visitID := p.VisitID
	if visitID == "" {
		visitID = defaultVisitID
	}

	lines := []string{
		"CLINICAL VISIT SUMMARY",
		fmt.Sprintf("Visit ID: %s", visitID),
	}

	lines = append(lines, "", "DEMOGRAPHICS")
	lines = append(lines, demographicLines(p.CaseData)...)

	lines = append(lines, "", "CHIEF COMPLAINT")
	lines = append(lines, chiefComplaintLines(p.CaseData)...)

	lines = append(lines, "", "KEY FINDINGS")
	lines = append(lines, keyFindingLines(p.CaseData)...)

	lines = append(lines, "", "DIFFERENTIAL DIAGNOSES")
	lines = append(lines, differentialLines(p.Differentials)...)

	lines = append(lines, "", "RECOMMENDED WORKUP")
	lines = append(lines, workupLines(p.Workup)...)

	lines = append(lines, "", "MEDICATION CONSIDERATIONS")
	lines = append(lines, medicationLines(p.Medications)...)

	lines = append(lines, "", "RED FLAGS")
	lines = append(lines, redFlagLines(p.RedFlags)...)

	if p.SoapNote != nil {
		lines = append(lines, soapLines(*p.SoapNote)...)
	}

	return strings.Join(lines, "\n")
}

// Filename derives the download filename from the visit id.
func Filename(visitID string) string {
	if visitID == "" {
		visitID = defaultVisitID
	}
	return fmt.Sprintf("visit-summary-%s.txt", visitID)
}

func demographicLines(c domain.CaseData) []string {
	age, sex := notDocumented, notDocumented
	pregnancy := "Unknown"
	if d := c.Demographics; d != nil {
		if d.Age != nil {
			age = strconv.Itoa(*d.Age)
		}
		if d.Sex != nil {
			sex = *d.Sex
		}
		if d.Pregnant != nil {
			if *d.Pregnant {
				pregnancy = "Yes"
			} else {
				pregnancy = "No"
			}
		}
	}
	return []string{
		fmt.Sprintf("Age: %s", age),
		fmt.Sprintf("Sex: %s", sex),
		fmt.Sprintf("Pregnancy status: %s", pregnancy),
	}
}

func chiefComplaintLines(c domain.CaseData) []string {
	complaint := notDocumented
	duration := notDocumented
	if h := c.HPI; h != nil {
		if h.ChiefComplaint != nil {
			complaint = *h.ChiefComplaint
		}
		if h.OnsetDays != nil {
			unit := "days"
			if *h.OnsetDays == 1 {
				unit = "day"
			}
			duration = fmt.Sprintf("%d %s", *h.OnsetDays, unit)
		}
	}
	return []string{
		fmt.Sprintf("Complaint: %s", complaint),
		fmt.Sprintf("Duration: %s", duration),
	}
}

func keyFindingLines(c domain.CaseData) []string {
	return []string{
		fmt.Sprintf("Allergies: %s", joinOr(c.Allergies, Placeholder)),
		fmt.Sprintf("Exam: %s", joinOr(c.Exam, Placeholder)),
		fmt.Sprintf("Labs: %s", labsOr(c.Labs, Placeholder)),
	}
}

func differentialLines(items []domain.Differential) []string {
	if len(items) == 0 {
		return []string{Placeholder}
	}
	out := make([]string, 0, maxListedEntries)
	for i, item := range items {
		if i == maxListedEntries {
			break
		}
		out = append(out, fmt.Sprintf("%d. %s (%d%%)", i+1, item.Diagnosis, roundPercent(item.Confidence)))
	}
	return out
}

func workupLines(items []domain.WorkupSuggestion) []string {
	if len(items) == 0 {
		return []string{Placeholder}
	}
	out := make([]string, 0, maxListedEntries)
	for i, item := range items {
		if i == maxListedEntries {
			break
		}
		out = append(out, fmt.Sprintf("%d. %s [%s]", i+1, item.Test, item.Priority))
	}
	return out
}

func medicationLines(items []domain.MedicationSuggestion) []string {
	if len(items) == 0 {
		return []string{Placeholder}
	}
	out := make([]string, 0, maxListedEntries)
	for i, item := range items {
		if i == maxListedEntries {
			break
		}
		label := item.DrugClass
		if item.Indication != "" {
			label = fmt.Sprintf("%s - %s", item.DrugClass, item.Indication)
		}
		out = append(out, fmt.Sprintf("%d. %s", i+1, label))
	}
	return out
}

func redFlagLines(flags []domain.RedFlag) []string {
	var out []string
	for _, flag := range flags {
		if !flag.Active {
			continue
		}
		out = append(out, fmt.Sprintf("- %s", flag.Description))
	}
	if len(out) == 0 {
		return []string{Placeholder}
	}
	return out
}

func soapLines(note domain.SoapNoteDraft) []string {
	section := func(label, content string) []string {
		if content == "" {
			return []string{fmt.Sprintf("%s (not drafted)", label)}
		}
		return []string{fmt.Sprintf("%s:", label), content}
	}
	lines := []string{"", "SOAP NOTE"}
	lines = append(lines, section("Subjective", note.Subjective)...)
	lines = append(lines, "")
	lines = append(lines, section("Objective", note.Objective)...)
	lines = append(lines, "")
	lines = append(lines, section("Assessment", note.Assessment)...)
	lines = append(lines, "")
	lines = append(lines, section("Plan", note.Plan)...)
	return lines
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func labsOr(labs map[string]string, fallback string) string {
	if len(labs) == 0 {
		return fallback
	}
	keys := make([]string, 0, len(labs))
	for k := range labs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %s", k, labs[k]))
	}
	return strings.Join(pairs, "; ")
}

func roundPercent(confidence float64) int {
	return int(math.Round(confidence * 100))
}
