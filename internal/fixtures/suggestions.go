package fixtures

import "github.com/medscribe/clinical-copilot/internal/domain"

var suggestions = map[domain.ScenarioID]Suggestions{
	SoreThroat: {
		ID: SoreThroat,
		Differentials: []domain.Differential{
			{
				Diagnosis:  "Viral pharyngitis",
				Confidence: 0.68,
				Rationale:  "Centor score of 2 with rhinorrhea favors viral etiology despite fever.",
				Guidelines: []string{"sore_throat"},
			},
			{
				Diagnosis:  "Group A streptococcal pharyngitis",
				Confidence: 0.62,
				Rationale:  "Tender nodes, fever, and lack of cough raise probability of strep infection.",
				Guidelines: []string{"sore_throat"},
			},
			{
				Diagnosis:  "Infectious mononucleosis",
				Confidence: 0.24,
				Rationale:  "Consider in young adult with fatigue and lymphadenopathy if strep testing negative.",
				Guidelines: []string{"sore_throat"},
			},
		},
		Workup: []domain.WorkupSuggestion{
			{
				Test:       "Rapid antigen detection (RADT) for Group A strep",
				Category:   domain.WorkupLab,
				Indication: "Centor score ≥ 2 warrants confirmatory testing before antibiotics.",
				Priority:   domain.PriorityRoutine,
				Guidelines: []string{"sore_throat"},
			},
			{
				Test:       "Throat culture if RADT negative",
				Category:   domain.WorkupLab,
				Indication: "Rule out false-negative RADT in high-pretest probability case.",
				Priority:   domain.PriorityRoutine,
				Guidelines: []string{"sore_throat"},
			},
		},
		Medications: []domain.MedicationSuggestion{
			{
				DrugClass:            "Penicillin VK 500 mg PO BID x10d",
				Indication:           "First-line treatment for confirmed Group A strep pharyngitis.",
				Contraindications:    []string{"Penicillin allergy"},
				RequiresConfirmation: true,
				Guidelines:           []string{"sore_throat"},
			},
			{
				DrugClass:            "Acetaminophen or ibuprofen",
				Indication:           "Symptomatic relief of throat pain and fever.",
				Contraindications:    []string{"NSAID use limited if kidney disease"},
				RequiresConfirmation: false,
				Guidelines:           []string{"sore_throat"},
			},
		},
		RedFlags: []domain.RedFlag{},
		SafetyChecks: map[string]SafetyProfile{
			"Penicillin VK 500 mg PO BID x10d": {
				Contraindications:     []string{"Documented severe penicillin allergy"},
				RequiredConfirmations: []string{"No history of anaphylaxis to beta-lactams"},
				Warnings:              []string{"Educate about completing full antibiotic course"},
			},
			"Acetaminophen or ibuprofen": {
				Contraindications:     []string{"Chronic liver disease (acetaminophen)", "Renal insufficiency (NSAIDs)"},
				RequiredConfirmations: []string{"Recent kidney function if chronic NSAID use"},
				Warnings:              []string{"Avoid exceeding max acetaminophen daily dose"},
			},
		},
	},
	ThunderclapHeadache: {
		ID: ThunderclapHeadache,
		Differentials: []domain.Differential{
			{
				Diagnosis:  "Subarachnoid hemorrhage",
				Confidence: 0.82,
				Rationale:  "Sudden onset 'worst headache of life' with vomiting requires emergent exclusion.",
				Guidelines: []string{"headache_thunderclap"},
			},
			{
				Diagnosis:  "Reversible cerebral vasoconstriction syndrome",
				Confidence: 0.38,
				Rationale:  "Consider in thunderclap presentation especially in middle-aged female.",
				Guidelines: []string{"headache_thunderclap"},
			},
			{
				Diagnosis:  "Migraine with aura",
				Confidence: 0.18,
				Rationale:  "Prior history and normal exam would support migraine; current red flags lower confidence.",
				Guidelines: []string{"headache_thunderclap"},
			},
		},
		Workup: []domain.WorkupSuggestion{
			{
				Test:       "Non-contrast head CT",
				Category:   domain.WorkupImaging,
				Indication: "First-line to evaluate for intracranial hemorrhage in thunderclap headache.",
				Priority:   domain.PriorityUrgent,
				Guidelines: []string{"headache_thunderclap"},
			},
			{
				Test:       "CTA head and neck",
				Category:   domain.WorkupImaging,
				Indication: "Assess for aneurysm or vascular malformation if CT equivocal.",
				Priority:   domain.PriorityUrgent,
				Guidelines: []string{"headache_thunderclap"},
			},
			{
				Test:       "Emergency neurology consult",
				Category:   domain.WorkupReferral,
				Indication: "Coordinate acute management for possible subarachnoid hemorrhage.",
				Priority:   domain.PriorityUrgent,
				Guidelines: []string{"headache_thunderclap"},
			},
		},
		Medications: []domain.MedicationSuggestion{
			{
				DrugClass:            "IV labetalol PRN",
				Indication:           "Titrate systolic BP <140 mmHg prior to definitive diagnosis.",
				Contraindications:    []string{"Asthma", "Bradycardia"},
				RequiresConfirmation: true,
				Guidelines:           []string{"headache_thunderclap"},
			},
		},
		RedFlags: []domain.RedFlag{
			{
				Trigger:     "severe_headache_thunderclap",
				Description: "Sudden-onset maximal headache with vomiting and visual changes.",
				Severity:    domain.SeverityCritical,
				Active:      true,
			},
			{
				Trigger:     "new_neuro_deficits",
				Description: "Blurred vision and neck stiffness require emergent neuro evaluation.",
				Severity:    domain.SeverityCritical,
				Active:      true,
			},
		},
		SafetyChecks: map[string]SafetyProfile{
			"IV labetalol PRN": {
				Contraindications:     []string{"Second-degree or third-degree heart block", "Asthma exacerbation"},
				RequiredConfirmations: []string{"Baseline ECG reviewed"},
				Warnings:              []string{"Monitor blood pressure and heart rate continuously"},
			},
		},
	},
	UTIDysuria: {
		ID: UTIDysuria,
		Differentials: []domain.Differential{
			{
				Diagnosis:  "Acute uncomplicated cystitis",
				Confidence: 0.78,
				Rationale:  "Classic dysuria with urgency and absence of systemic symptoms.",
				Guidelines: []string{"uti_dysuria"},
			},
			{
				Diagnosis:  "Urethritis",
				Confidence: 0.34,
				Rationale:  "Consider STI-related urethritis if sexual history supports.",
				Guidelines: []string{"uti_dysuria"},
			},
			{
				Diagnosis:  "Vaginitis",
				Confidence: 0.18,
				Rationale:  "Rule out if discharge or irritation emerges; current symptoms less supportive.",
				Guidelines: []string{"uti_dysuria"},
			},
		},
		Workup: []domain.WorkupSuggestion{
			{
				Test:       "Urinalysis with microscopy",
				Category:   domain.WorkupLab,
				Indication: "Confirm leukocyte esterase and nitrite positivity.",
				Priority:   domain.PriorityRoutine,
				Guidelines: []string{"uti_dysuria"},
			},
			{
				Test:       "Urine culture",
				Category:   domain.WorkupLab,
				Indication: "Identify organism and sensitivities before prescribing antibiotics.",
				Priority:   domain.PriorityRoutine,
				Guidelines: []string{"uti_dysuria"},
			},
		},
		Medications: []domain.MedicationSuggestion{
			{
				DrugClass:            "Nitrofurantoin monohydrate/macrocrystals 100 mg PO BID x5d",
				Indication:           "First-line agent for uncomplicated cystitis if creatinine clearance ≥30 mL/min.",
				Contraindications:    []string{"CrCl <30 mL/min", "Late third-trimester pregnancy"},
				RequiresConfirmation: true,
				Guidelines:           []string{"uti_dysuria"},
			},
			{
				DrugClass:            "Phenazopyridine 200 mg PO TID with meals",
				Indication:           "Short-term bladder analgesia for severe dysuria.",
				Contraindications:    []string{"Renal impairment"},
				RequiresConfirmation: false,
				Guidelines:           []string{"uti_dysuria"},
			},
		},
		RedFlags: []domain.RedFlag{},
		SafetyChecks: map[string]SafetyProfile{
			"Nitrofurantoin monohydrate/macrocrystals 100 mg PO BID x5d": {
				Contraindications:     []string{"Creatinine clearance <30", "G6PD deficiency", "Late-term pregnancy"},
				RequiredConfirmations: []string{"Pregnancy status", "Recent renal function"},
				Warnings:              []string{"Take with food and counsel on darkened urine"},
			},
			"Phenazopyridine 200 mg PO TID with meals": {
				Contraindications:     []string{"Severe hepatic impairment", "Renal insufficiency"},
				RequiredConfirmations: []string{"Renal function adequate"},
				Warnings:              []string{"Limit therapy to 48 hours once antibiotics started"},
			},
		},
	},
}
