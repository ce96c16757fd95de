// Package suggest ranks the diagnostic suggestions for a visit: positional
// id assignment, deterministic sort/tie-break rules, and reconciliation of
// accepted ids across regenerations.
package suggest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/twmb/murmur3"

	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/fixtures"
)

// Result is one ranked suggestion cycle. Slices are never nil.
type Result struct {
	Differentials []domain.Differential         `json:"differentials"`
	Workup        []domain.WorkupSuggestion     `json:"workup"`
	Medications   []domain.MedicationSuggestion `json:"medications"`
	RedFlags      []domain.RedFlag              `json:"redFlags"`
}

// Empty returns a result with no suggestions in any list.
func Empty() Result {
	return Result{
		Differentials: []domain.Differential{},
		Workup:        []domain.WorkupSuggestion{},
		Medications:   []domain.MedicationSuggestion{},
		RedFlags:      []domain.RedFlag{},
	}
}

// Generate produces the ranked suggestion lists for the case. A case without
// a chief complaint yields an empty result so the caller's idle state stays
// well-defined. Unknown scenarios surface domain.ErrUnknownScenario.
func Generate(caseData domain.CaseData, scenarioID domain.ScenarioID) (Result, error) {
	if caseData.ChiefComplaint() == "" {
		return Empty(), nil
	}
	fix, err := fixtures.SuggestionsFor(scenarioID)
	if err != nil {
		return Empty(), err
	}
	return Rank(domain.ReasoningResult{
		ScenarioID:    scenarioID,
		Differentials: fix.Differentials,
		Workup:        fix.Workup,
		Medications:   fix.Medications,
		RedFlags:      fix.RedFlags,
	}), nil
}

// Rank sorts provider output and assigns positional ids:
//
//   - differentials descending by confidence, ties keep given order;
//   - workup urgent before routine, ties keep given order;
//   - medications ascending by drug-class name;
//   - red flags in given order, unmodified.
//
// Ids (diff_0, workup_0, med_0, flag_0, ...) reflect the ranked position and
// are not stable identity across cycles.
func Rank(raw domain.ReasoningResult) Result {
	out := Empty()

	out.Differentials = append(out.Differentials, raw.Differentials...)
	sort.SliceStable(out.Differentials, func(i, j int) bool {
		return out.Differentials[i].Confidence > out.Differentials[j].Confidence
	})
	for i := range out.Differentials {
		out.Differentials[i].ID = fmt.Sprintf("diff_%d", i)
	}

	out.Workup = append(out.Workup, raw.Workup...)
	sort.SliceStable(out.Workup, func(i, j int) bool {
		return out.Workup[i].Priority == domain.PriorityUrgent && out.Workup[j].Priority != domain.PriorityUrgent
	})
	for i := range out.Workup {
		out.Workup[i].ID = fmt.Sprintf("workup_%d", i)
	}

	out.Medications = append(out.Medications, raw.Medications...)
	sort.SliceStable(out.Medications, func(i, j int) bool {
		return out.Medications[i].DrugClass < out.Medications[j].DrugClass
	})
	for i := range out.Medications {
		out.Medications[i].ID = fmt.Sprintf("med_%d", i)
	}

	out.RedFlags = append(out.RedFlags, raw.RedFlags...)
	for i := range out.RedFlags {
		out.RedFlags[i].ID = fmt.Sprintf("flag_%d", i)
	}

	return out
}

// Reconcile prunes accepted ids that no longer exist in the current result,
// preventing acceptance state from referencing regenerated-away items.
func Reconcile(accepted domain.AcceptedSuggestions, current Result) domain.AcceptedSuggestions {
	diffIDs := make(map[string]struct{}, len(current.Differentials))
	for _, d := range current.Differentials {
		diffIDs[d.ID] = struct{}{}
	}
	workupIDs := make(map[string]struct{}, len(current.Workup))
	for _, w := range current.Workup {
		workupIDs[w.ID] = struct{}{}
	}
	medIDs := make(map[string]struct{}, len(current.Medications))
	for _, m := range current.Medications {
		medIDs[m.ID] = struct{}{}
	}
	return domain.AcceptedSuggestions{
		Differentials: keep(accepted.Differentials, diffIDs),
		Workup:        keep(accepted.Workup, workupIDs),
		Medications:   keep(accepted.Medications, medIDs),
	}
}

func keep(ids []string, known map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// ContentKey derives a stable identity token from suggestion content so
// acceptance can be carried across cycles whose positional ids shifted.
func ContentKey(kind, text string) string {
	h := murmur3.StringSum64(kind + "\x00" + strings.ToLower(strings.TrimSpace(text)))
	return fmt.Sprintf("%s:%016x", kind, h)
}
