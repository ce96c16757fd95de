package fixtures

import "github.com/medscribe/clinical-copilot/internal/domain"

var cases = map[domain.ScenarioID]Case{
	SoreThroat: {
		ID:         SoreThroat,
		Confidence: 0.97,
		CaseData: domain.CaseData{
			Demographics: &domain.Demographics{Age: ptr(27), Sex: ptr("F")},
			Vitals: &domain.Vitals{
				Temp:   ptr(101.5),
				HR:     ptr(102),
				BP:     ptr("118/76"),
				RR:     ptr(18),
				SpO2:   ptr(98),
				Weight: ptr(64.0),
			},
			Allergies:      []string{"NKDA"},
			Medications:    []string{},
			MedicalHistory: []string{"Seasonal allergies"},
			HPI: &domain.HPI{
				ChiefComplaint: ptr("sore throat"),
				OnsetDays:      ptr(3),
				Features:       []string{"fever", "pain with swallowing", "fatigue"},
				Severity:       ptr(6),
			},
			ROS:  []string{"no cough", "nasal congestion"},
			Exam: []string{"tonsillar swelling", "tender cervical lymphadenopathy"},
			Labs: map[string]string{"rapid strep": "pending"},
		},
	},
	ThunderclapHeadache: {
		ID:         ThunderclapHeadache,
		Confidence: 0.99,
		CaseData: domain.CaseData{
			Demographics: &domain.Demographics{Age: ptr(54), Sex: ptr("F")},
			Vitals: &domain.Vitals{
				Temp:   ptr(99.1),
				HR:     ptr(110),
				BP:     ptr("158/92"),
				RR:     ptr(22),
				SpO2:   ptr(96),
				Weight: ptr(71.0),
			},
			Allergies:      []string{"NKDA"},
			Medications:    []string{"Hydrochlorothiazide 12.5mg daily"},
			MedicalHistory: []string{"Hypertension"},
			HPI: &domain.HPI{
				ChiefComplaint: ptr("sudden severe headache"),
				OnsetDays:      ptr(0),
				Features:       []string{"worst headache ever", "sudden onset", "vomiting", "vision changes"},
				Severity:       ptr(9),
			},
			ROS:  []string{"vomiting", "blurred vision"},
			Exam: []string{"photophobia noted", "mild neck stiffness"},
			Labs: map[string]string{"point-of-care glucose": "98"},
		},
	},
	UTIDysuria: {
		ID:         UTIDysuria,
		Confidence: 0.95,
		CaseData: domain.CaseData{
			Demographics: &domain.Demographics{Age: ptr(32), Sex: ptr("F"), Pregnant: ptr(false)},
			Vitals: &domain.Vitals{
				Temp:   ptr(98.8),
				HR:     ptr(88),
				BP:     ptr("112/70"),
				RR:     ptr(16),
				SpO2:   ptr(99),
				Weight: ptr(60.0),
			},
			Allergies:      []string{"NKDA"},
			Medications:    []string{"Combined oral contraceptive"},
			MedicalHistory: []string{"History of prior UTI"},
			HPI: &domain.HPI{
				ChiefComplaint: ptr("dysuria"),
				OnsetDays:      ptr(2),
				Features:       []string{"urinary urgency", "urinary frequency", "burning with urination"},
				Severity:       ptr(5),
			},
			ROS:  []string{"no flank pain", "no fever"},
			Exam: []string{"no costovertebral angle tenderness", "abdomen soft, non-tender"},
			Labs: map[string]string{"urinalysis": "pending"},
		},
	},
}
