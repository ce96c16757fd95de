package fixtures

var guidelineOrder = []string{"sore_throat", "headache_thunderclap", "uti_dysuria"}

var guidelines = map[string]Guideline{
	"sore_throat": {
		ID:       "guideline-sore-throat",
		Key:      "sore_throat",
		Title:    "Acute Pharyngitis Pathway",
		Category: "Infectious Disease",
		Summary:  "Risk-stratify sore throat presentations using Centor/McIsaac criteria.",
		Content: "1. Apply Centor score to determine pre-test probability.\n" +
			"2. Perform RADT when score ≥2; follow with culture if negative but suspicion remains.\n" +
			"3. Treat confirmed strep with first-line penicillin-class antibiotic unless contraindicated.\n" +
			"4. Provide supportive care: hydration, analgesics, voice rest.\n" +
			"5. Educate on red flags requiring re-evaluation (respiratory distress, progressive swelling).",
		Version: "2024.1",
		Active:  true,
	},
	"headache_thunderclap": {
		ID:       "guideline-thunderclap",
		Key:      "headache_thunderclap",
		Title:    "Thunderclap Headache Escalation Guide",
		Category: "Neurology",
		Summary:  "Immediate imaging-first algorithm for sudden-onset severe headache.",
		Content: "1. Activate emergency protocol and obtain vitals while preparing CT.\n" +
			"2. Non-contrast head CT within minutes of arrival; if negative and suspicion persists, pursue CTA or LP.\n" +
			"3. Tight blood pressure control (target SBP <140) to prevent re-bleed.\n" +
			"4. Consult neurology/neurosurgery early for definitive management.\n" +
			"5. Document neurologic exam serially and monitor for deterioration.",
		Version: "2024.1",
		Active:  true,
	},
	"uti_dysuria": {
		ID:       "guideline-uti-dysuria",
		Key:      "uti_dysuria",
		Title:    "Uncomplicated Cystitis Checklist",
		Category: "Primary Care",
		Summary:  "Evidence-based approach to outpatient dysuria without systemic signs.",
		Content: "1. Confirm absence of flank pain, fever, or pregnancy complications.\n" +
			"2. Obtain urinalysis; culture recommended prior to antibiotics.\n" +
			"3. Nitrofurantoin or TMP-SMX as first-line therapy, aligned with local resistance data.\n" +
			"4. Provide bladder analgesia for symptomatic relief as needed.\n" +
			"5. Counsel on hydration, warning signs (fever, flank pain), and 48-hour follow-up if no improvement.",
		Version: "2024.1",
		Active:  true,
	},
}
