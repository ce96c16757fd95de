// Package reasoner implements the fixture-backed reasoning provider. It
// replays canned extractions, suggestions, safety checks, and note drafts
// keyed by scenario, standing in for a real LLM backend behind the same
// interface.
package reasoner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medscribe/clinical-copilot/internal/casedata"
	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/fixtures"
)

// Fixture is the built-in Reasoner.
type Fixture struct {
	logger *slog.Logger
}

var _ domain.Reasoner = (*Fixture)(nil)

// New creates a fixture reasoner. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Fixture {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fixture{logger: logger}
}

func (f *Fixture) Name() string { return "fixture" }

// ExtractCase resolves the scenario from the request and returns its case
// fixture, merged so that any existing (user-edited) case data wins over
// fixture values.
func (f *Fixture) ExtractCase(_ context.Context, req domain.ExtractionRequest) (*domain.ExtractionResult, error) {
	scenarioID := fixtures.Resolve(req.Transcript, req.ScenarioID)
	fix, err := f.caseWithFallback(scenarioID)
	if err != nil {
		return nil, err
	}

	merged := fix.CaseData
	if req.ExistingCase != nil {
		merged = casedata.Merge(fix.CaseData, *req.ExistingCase)
	}
	return &domain.ExtractionResult{
		ScenarioID: scenarioID,
		CaseData:   merged,
		Confidence: fix.Confidence,
	}, nil
}

// GenerateReasoning returns the scenario's suggestion fixture unranked; the
// suggestion generator assigns ids and ordering.
func (f *Fixture) GenerateReasoning(_ context.Context, req domain.ReasoningRequest) (*domain.ReasoningResult, error) {
	scenarioID := fixtures.Resolve("", req.ScenarioID)
	fix, warning, err := f.suggestionsWithFallback(scenarioID)
	if err != nil {
		return nil, err
	}
	return &domain.ReasoningResult{
		ScenarioID:    fix.ID,
		Differentials: fix.Differentials,
		Workup:        fix.Workup,
		Medications:   fix.Medications,
		RedFlags:      fix.RedFlags,
		Warning:       warning,
	}, nil
}

// CheckSafety looks up the medication class in the scenario's safety table
// (case-insensitive) and appends a documented-allergies warning when the case
// lists any. The result is safe only when no contraindication applies.
func (f *Fixture) CheckSafety(_ context.Context, req domain.SafetyCheckRequest) (*domain.SafetyCheckResult, error) {
	scenarioID := fixtures.Resolve("", req.ScenarioID)
	fix, _, err := f.suggestionsWithFallback(scenarioID)
	if err != nil {
		return nil, err
	}

	var profile fixtures.SafetyProfile
	want := normalizeMedKey(req.MedicationClass)
	for name, p := range fix.SafetyChecks {
		if normalizeMedKey(name) == want {
			profile = p
			break
		}
	}

	result := &domain.SafetyCheckResult{
		Contraindications:     append([]string{}, profile.Contraindications...),
		RequiredConfirmations: append([]string{}, profile.RequiredConfirmations...),
		Warnings:              append([]string{}, profile.Warnings...),
	}
	if len(req.CaseData.Allergies) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Documented allergies: %s", strings.Join(req.CaseData.Allergies, ", ")))
	}
	result.Safe = len(result.Contraindications) == 0
	return result, nil
}

// caseWithFallback resolves the case fixture for id, recovering to the
// default scenario's fixture when the lookup fails.
func (f *Fixture) caseWithFallback(id domain.ScenarioID) (*fixtures.Case, error) {
	fix, err := fixtures.CaseFor(id)
	if err == nil {
		return fix, nil
	}
	f.logger.Warn("case fixture missing, falling back to default scenario",
		slog.String("scenario", string(id)))
	fix, fallbackErr := fixtures.CaseFor(fixtures.DefaultScenario)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrFixtureUnavailable, id)
	}
	return fix, nil
}

// suggestionsWithFallback resolves the suggestion fixture for id, recovering
// to the default scenario with a user-visible warning when possible.
func (f *Fixture) suggestionsWithFallback(id domain.ScenarioID) (*fixtures.Suggestions, string, error) {
	fix, err := fixtures.SuggestionsFor(id)
	if err == nil {
		return fix, "", nil
	}
	f.logger.Warn("suggestion fixture missing, falling back to default scenario",
		slog.String("scenario", string(id)))
	fix, fallbackErr := fixtures.SuggestionsFor(fixtures.DefaultScenario)
	if fallbackErr != nil {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrFixtureUnavailable, id)
	}
	warning := fmt.Sprintf("no suggestion fixture for %q; showing %s instead", id, fixtures.DefaultScenario)
	return fix, warning, nil
}

func normalizeMedKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
