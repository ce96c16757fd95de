package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/fixtures"
	"github.com/medscribe/clinical-copilot/internal/suggest"
)

func soreThroatParams(t *testing.T) Params {
	t.Helper()
	caseData, err := fixtures.CaseFor(fixtures.SoreThroat)
	require.NoError(t, err)
	res, err := suggest.Generate(caseData.CaseData, fixtures.SoreThroat)
	require.NoError(t, err)
	return Params{
		VisitID:       "abc-123",
		CaseData:      caseData.CaseData,
		Differentials: res.Differentials,
		Workup:        res.Workup,
		Medications:   res.Medications,
		RedFlags:      res.RedFlags,
	}
}

func TestBuildDocumentSectionOrder(t *testing.T) {
	doc := BuildDocument(soreThroatParams(t))

	sections := []string{
		"CLINICAL VISIT SUMMARY",
		"DEMOGRAPHICS",
		"CHIEF COMPLAINT",
		"KEY FINDINGS",
		"DIFFERENTIAL DIAGNOSES",
		"RECOMMENDED WORKUP",
		"MEDICATION CONSIDERATIONS",
		"RED FLAGS",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(doc, section)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", section)
		assert.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}
}

func TestBuildDocumentContent(t *testing.T) {
	doc := BuildDocument(soreThroatParams(t))

	assert.Contains(t, doc, "Visit ID: abc-123")
	assert.Contains(t, doc, "Age: 27")
	assert.Contains(t, doc, "Complaint: sore throat")
	assert.Contains(t, doc, "Duration: 3 days")
	assert.Contains(t, doc, "Allergies: NKDA")
	// Confidence renders as a whole percent.
	assert.Contains(t, doc, "1. Viral pharyngitis (68%)")
	assert.Contains(t, doc, "(62%)")
	assert.Contains(t, doc, "[routine]")
	assert.NotContains(t, doc, "SOAP NOTE")
}

func TestBuildDocumentEmptySections(t *testing.T) {
	doc := BuildDocument(Params{})

	assert.Contains(t, doc, "Visit ID: draft")
	assert.Contains(t, doc, "Age: Not documented")
	assert.Contains(t, doc, "Pregnancy status: Unknown")
	// Four list sections plus the three key-findings fields fall back.
	assert.Equal(t, 7, strings.Count(doc, Placeholder))
}

func TestBuildDocumentTruncatesLists(t *testing.T) {
	diffs := make([]domain.Differential, 7)
	for i := range diffs {
		diffs[i] = domain.Differential{Diagnosis: "Dx", Confidence: 0.5}
	}
	doc := BuildDocument(Params{Differentials: diffs})

	assert.Contains(t, doc, "5. Dx (50%)")
	assert.NotContains(t, doc, "6. Dx")
}

func TestBuildDocumentRedFlagsActiveOnly(t *testing.T) {
	doc := BuildDocument(Params{
		RedFlags: []domain.RedFlag{
			{Description: "Thunderclap onset", Active: true},
			{Description: "Fever with neck stiffness", Active: false},
		},
	})

	assert.Contains(t, doc, "- Thunderclap onset")
	assert.NotContains(t, doc, "Fever with neck stiffness")
}

func TestBuildDocumentSoapNote(t *testing.T) {
	doc := BuildDocument(Params{
		SoapNote: &domain.SoapNoteDraft{
			Subjective: "Patient reports sore throat.",
			Plan:       "Rapid strep test.",
		},
	})

	assert.Contains(t, doc, "SOAP NOTE")
	assert.Contains(t, doc, "Subjective:\nPatient reports sore throat.")
	assert.Contains(t, doc, "Objective (not drafted)")
	assert.Contains(t, doc, "Plan:\nRapid strep test.")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "visit-summary-abc.txt", Filename("abc"))
	assert.Equal(t, "visit-summary-draft.txt", Filename(""))
}
