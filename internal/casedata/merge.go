// Package casedata implements the merge semantics for structured case
// records: list fields union without duplicates, nested objects shallow-merge,
// scalars overwrite, and absent incoming fields never erase existing data.
package casedata

import (
	"github.com/medscribe/clinical-copilot/internal/domain"
	"github.com/medscribe/clinical-copilot/internal/fixtures"
)

// Merge combines base with incoming and returns a new record. Neither input
// is mutated. Per top-level field of incoming that is set:
//
//   - list fields become the deduplicated union, preserving base order and
//     appending unseen incoming items in their given order;
//   - nested objects (demographics, vitals, hpi) shallow-merge, with set
//     incoming sub-fields overwriting base sub-fields;
//   - the labs map merges by key, incoming values overwriting.
//
// Merge is idempotent: merging the same incoming twice equals merging once.
func Merge(base, incoming domain.CaseData) domain.CaseData {
	out := fixtures.CloneCaseData(base)

	if incoming.Demographics != nil {
		if out.Demographics == nil {
			out.Demographics = &domain.Demographics{}
		}
		mergeDemographics(out.Demographics, incoming.Demographics)
	}
	if incoming.Vitals != nil {
		if out.Vitals == nil {
			out.Vitals = &domain.Vitals{}
		}
		mergeVitals(out.Vitals, incoming.Vitals)
	}
	if incoming.HPI != nil {
		if out.HPI == nil {
			out.HPI = &domain.HPI{}
		}
		mergeHPI(out.HPI, incoming.HPI)
	}
	if incoming.Allergies != nil {
		out.Allergies = unionStrings(out.Allergies, incoming.Allergies)
	}
	if incoming.Medications != nil {
		out.Medications = unionStrings(out.Medications, incoming.Medications)
	}
	if incoming.MedicalHistory != nil {
		out.MedicalHistory = unionStrings(out.MedicalHistory, incoming.MedicalHistory)
	}
	if incoming.ROS != nil {
		out.ROS = unionStrings(out.ROS, incoming.ROS)
	}
	if incoming.Exam != nil {
		out.Exam = unionStrings(out.Exam, incoming.Exam)
	}
	if incoming.Labs != nil {
		if out.Labs == nil {
			out.Labs = make(map[string]string, len(incoming.Labs))
		}
		for k, v := range incoming.Labs {
			out.Labs[k] = v
		}
	}
	return out
}

func mergeDemographics(dst, src *domain.Demographics) {
	overwrite(&dst.Age, src.Age)
	overwrite(&dst.Sex, src.Sex)
	overwrite(&dst.Pregnant, src.Pregnant)
	overwrite(&dst.Lactating, src.Lactating)
}

func mergeVitals(dst, src *domain.Vitals) {
	overwrite(&dst.Temp, src.Temp)
	overwrite(&dst.HR, src.HR)
	overwrite(&dst.BP, src.BP)
	overwrite(&dst.RR, src.RR)
	overwrite(&dst.SpO2, src.SpO2)
	overwrite(&dst.Weight, src.Weight)
}

func mergeHPI(dst, src *domain.HPI) {
	overwrite(&dst.ChiefComplaint, src.ChiefComplaint)
	overwrite(&dst.OnsetDays, src.OnsetDays)
	overwrite(&dst.Severity, src.Severity)
	// Features is a sub-field of a shallow-merged object: a set incoming
	// value replaces the base value wholesale.
	if src.Features != nil {
		dst.Features = append([]string(nil), src.Features...)
	}
}

// overwrite replaces *dst with a copy of src when src is set.
func overwrite[T any](dst **T, src *T) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
}

// unionStrings produces the order-stable deduplicated union of base and
// incoming; first occurrence wins.
func unionStrings(base, incoming []string) []string {
	out := make([]string, 0, len(base)+len(incoming))
	seen := make(map[string]struct{}, len(base)+len(incoming))
	for _, lists := range [][]string{base, incoming} {
		for _, v := range lists {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
