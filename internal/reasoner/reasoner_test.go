package reasoner

import (
	"context"
	"strings"
	"testing"

	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/fixtures"
)

func ptr[T any](v T) *T { return &v }

func TestExtractCase_ResolvesFromTranscript(t *testing.T) {
	r := New(nil)
	res, err := r.ExtractCase(context.Background(), domain.ExtractionRequest{
		Transcript: "burning when I urinate, urinalysis ordered, the urine looks a bit cloudy",
	})
	if err != nil {
		t.Fatalf("ExtractCase() error = %v", err)
	}
	if res.ScenarioID != fixtures.UTIDysuria {
		t.Errorf("ScenarioID = %v, want %v", res.ScenarioID, fixtures.UTIDysuria)
	}
	if res.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95", res.Confidence)
	}
	if got := res.CaseData.ChiefComplaint(); got != "dysuria" {
		t.Errorf("chief complaint = %q, want dysuria", got)
	}
}

func TestExtractCase_ExistingCaseWinsOverFixture(t *testing.T) {
	r := New(nil)
	existing := domain.CaseData{
		Vitals:    &domain.Vitals{Temp: ptr(103.0)},
		Allergies: []string{"sulfa"},
	}
	res, err := r.ExtractCase(context.Background(), domain.ExtractionRequest{
		ScenarioID:   fixtures.SoreThroat,
		ExistingCase: &existing,
	})
	if err != nil {
		t.Fatalf("ExtractCase() error = %v", err)
	}
	if *res.CaseData.Vitals.Temp != 103.0 {
		t.Errorf("temp = %v, want user-edited 103.0", *res.CaseData.Vitals.Temp)
	}
	// Fixture HR retained, user allergy unioned with fixture's.
	if *res.CaseData.Vitals.HR != 102 {
		t.Errorf("hr = %v, want fixture 102", *res.CaseData.Vitals.HR)
	}
	want := []string{"NKDA", "sulfa"}
	if len(res.CaseData.Allergies) != 2 || res.CaseData.Allergies[0] != want[0] || res.CaseData.Allergies[1] != want[1] {
		t.Errorf("allergies = %v, want %v", res.CaseData.Allergies, want)
	}
}

func TestGenerateReasoning_FixtureLists(t *testing.T) {
	r := New(nil)
	res, err := r.GenerateReasoning(context.Background(), domain.ReasoningRequest{
		ScenarioID: fixtures.ThunderclapHeadache,
	})
	if err != nil {
		t.Fatalf("GenerateReasoning() error = %v", err)
	}
	if len(res.Differentials) != 3 || len(res.Workup) != 3 || len(res.Medications) != 1 || len(res.RedFlags) != 2 {
		t.Errorf("unexpected list sizes: %d/%d/%d/%d",
			len(res.Differentials), len(res.Workup), len(res.Medications), len(res.RedFlags))
	}
	if res.Warning != "" {
		t.Errorf("Warning = %q, want empty", res.Warning)
	}
}

func TestCheckSafety(t *testing.T) {
	r := New(nil)

	t.Run("contraindicated class is unsafe", func(t *testing.T) {
		res, err := r.CheckSafety(context.Background(), domain.SafetyCheckRequest{
			ScenarioID:      fixtures.SoreThroat,
			MedicationClass: "  penicillin vk 500 MG po bid X10D ",
		})
		if err != nil {
			t.Fatalf("CheckSafety() error = %v", err)
		}
		if res.Safe {
			t.Error("Safe = true, want false when contraindications exist")
		}
		if len(res.Contraindications) != 1 {
			t.Errorf("contraindications = %v", res.Contraindications)
		}
	})

	t.Run("unknown class is safe with no entries", func(t *testing.T) {
		res, err := r.CheckSafety(context.Background(), domain.SafetyCheckRequest{
			ScenarioID:      fixtures.SoreThroat,
			MedicationClass: "unknown drug",
		})
		if err != nil {
			t.Fatalf("CheckSafety() error = %v", err)
		}
		if !res.Safe {
			t.Error("Safe = false, want true for unknown class")
		}
	})

	t.Run("documented allergies appended to warnings", func(t *testing.T) {
		res, err := r.CheckSafety(context.Background(), domain.SafetyCheckRequest{
			ScenarioID:      fixtures.UTIDysuria,
			MedicationClass: "Phenazopyridine 200 mg PO TID with meals",
			CaseData:        domain.CaseData{Allergies: []string{"NKDA", "latex"}},
		})
		if err != nil {
			t.Fatalf("CheckSafety() error = %v", err)
		}
		last := res.Warnings[len(res.Warnings)-1]
		if last != "Documented allergies: NKDA, latex" {
			t.Errorf("last warning = %q", last)
		}
	})
}

func TestGenerateNote(t *testing.T) {
	r := New(nil)
	fix, err := fixtures.CaseFor(fixtures.SoreThroat)
	if err != nil {
		t.Fatalf("CaseFor() error = %v", err)
	}

	res, err := r.GenerateNote(context.Background(), domain.NoteRequest{
		CaseData:   fix.CaseData,
		ScenarioID: fixtures.SoreThroat,
		AcceptedSuggestions: domain.AcceptedSuggestions{
			Differentials: []string{"Viral pharyngitis"},
			Workup:        []string{"Rapid antigen detection (RADT) for Group A strep"},
			Medications:   []string{"Acetaminophen or ibuprofen"},
		},
	})
	if err != nil {
		t.Fatalf("GenerateNote() error = %v", err)
	}

	if !strings.HasPrefix(res.SoapNote.Subjective, "27-year-old female. presents with sore throat. for 3 days") {
		t.Errorf("Subjective = %q", res.SoapNote.Subjective)
	}
	if !strings.Contains(res.SoapNote.Objective, "T 101.5°F") || !strings.Contains(res.SoapNote.Objective, "HR 102 bpm") {
		t.Errorf("Objective missing vitals: %q", res.SoapNote.Objective)
	}
	if !strings.Contains(res.SoapNote.Assessment, "Leading considerations: Viral pharyngitis.") {
		t.Errorf("Assessment = %q", res.SoapNote.Assessment)
	}
	if !strings.Contains(res.SoapNote.Assessment, "Acute Pharyngitis Pathway") {
		t.Errorf("Assessment missing reviewed pathway: %q", res.SoapNote.Assessment)
	}
	if !strings.Contains(res.SoapNote.Plan, "Diagnostics:\n1. Rapid antigen detection") {
		t.Errorf("Plan = %q", res.SoapNote.Plan)
	}
	if !strings.Contains(res.SoapNote.Plan, "Follow-up: Return if symptoms worsen") {
		t.Errorf("Plan missing follow-up: %q", res.SoapNote.Plan)
	}
	if !strings.Contains(res.PatientSummary, "Today we addressed sore throat.") {
		t.Errorf("PatientSummary = %q", res.PatientSummary)
	}
}

func TestGenerateNote_EmptyAcceptance(t *testing.T) {
	r := New(nil)
	res, err := r.GenerateNote(context.Background(), domain.NoteRequest{
		ScenarioID: fixtures.UTIDysuria,
	})
	if err != nil {
		t.Fatalf("GenerateNote() error = %v", err)
	}
	if res.SoapNote.Subjective != "Patient. presents with today's visit" {
		t.Errorf("Subjective = %q", res.SoapNote.Subjective)
	}
	if !strings.Contains(res.SoapNote.Assessment, "Assessment aligns with presenting symptoms") {
		t.Errorf("Assessment = %q", res.SoapNote.Assessment)
	}
}
