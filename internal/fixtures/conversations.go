package fixtures

import "github.com/medscribe/clinical-copilot/internal/domain"

var scenarioMetadata = map[domain.ScenarioID]ScenarioMeta{
	SoreThroat: {
		ID:          SoreThroat,
		Label:       "Pharyngitis (Sore Throat)",
		Description: "Classic Centor score evaluation for acute pharyngitis in urgent care.",
	},
	ThunderclapHeadache: {
		ID:          ThunderclapHeadache,
		Label:       "Thunderclap Headache",
		Description: "Red flag neurological presentation requiring emergent escalation.",
	},
	UTIDysuria: {
		ID:          UTIDysuria,
		Label:       "Uncomplicated UTI",
		Description: "Routine dysuria visit workflow with lab confirmation and antibiotic draft.",
	},
}

var conversations = map[domain.ScenarioID]Conversation{
	SoreThroat: {
		ID:             SoreThroat,
		Label:          "Acute Pharyngitis Intake",
		Summary:        "Patient with 3-day history of sore throat and Centor-positive features.",
		StartTimestamp: mustTime("2024-02-20T09:05:00Z"),
		Keywords:       []string{"sore throat", "rapid strep test", "temperature was 101.5"},
		Entries: []ConversationEntry{
			{Speaker: domain.SpeakerPatient, Text: "Hi doctor, I've been having a really sore throat for about 3 days now.", OffsetMs: 0},
			{Speaker: domain.SpeakerDoctor, Text: "I see. Can you tell me more about the sore throat? Is it worse when you swallow?", OffsetMs: 9000},
			{Speaker: domain.SpeakerPatient, Text: "Yes, it hurts a lot when I swallow. I also have a fever and feel really tired.", OffsetMs: 18000},
			{Speaker: domain.SpeakerDoctor, Text: "Have you had any cough or runny nose with this?", OffsetMs: 27000},
			{Speaker: domain.SpeakerPatient, Text: "No cough, but my nose is a bit stuffy. Oh, and my neck feels swollen on both sides.", OffsetMs: 36000},
			{Speaker: domain.SpeakerDoctor, Text: "Any nausea or vomiting? And what's your temperature been?", OffsetMs: 45000},
			{Speaker: domain.SpeakerPatient, Text: "No throwing up, but I don't feel like eating. My temperature was 101.5 this morning.", OffsetMs: 54000},
			{Speaker: domain.SpeakerDoctor, Text: "Are you allergic to any medications, particularly penicillin or amoxicillin?", OffsetMs: 63000},
			{Speaker: domain.SpeakerPatient, Text: "No, no allergies that I know of. I don't take any regular medications either.", OffsetMs: 72000},
			{Speaker: domain.SpeakerDoctor, Text: "Let me examine your throat and feel your neck glands. Open wide for me.", OffsetMs: 81000},
			{Speaker: domain.SpeakerDoctor, Text: "I see some tonsillar swelling and tender lymph nodes in your neck.", OffsetMs: 90000},
			{Speaker: domain.SpeakerPatient, Text: "That explains why it hurts so much.", OffsetMs: 99000},
			{Speaker: domain.SpeakerDoctor, Text: "We'll do a rapid strep test and manage pain while we wait for results.", OffsetMs: 108000},
			{Speaker: domain.SpeakerPatient, Text: "Okay, sounds good.", OffsetMs: 117000},
		},
	},
	ThunderclapHeadache: {
		ID:             ThunderclapHeadache,
		Label:          "Thunderclap Headache Emergency",
		Summary:        "Sudden-onset severe headache with neurologic red flags requiring escalation.",
		StartTimestamp: mustTime("2024-04-02T14:20:00Z"),
		Keywords:       []string{"worst headache", "exploded in my head", "immediate head CT"},
		Entries: []ConversationEntry{
			{Speaker: domain.SpeakerPatient, Text: "Doctor, I have this terrible headache that came on suddenly about an hour ago.", OffsetMs: 0},
			{Speaker: domain.SpeakerDoctor, Text: "Can you describe the headache? Is it the worst headache you've ever had?", OffsetMs: 8000},
			{Speaker: domain.SpeakerPatient, Text: "Yes, it's like nothing I've experienced. It felt like something exploded in my head.", OffsetMs: 16000},
			{Speaker: domain.SpeakerDoctor, Text: "Any nausea, vomiting, or vision changes with this headache?", OffsetMs: 24000},
			{Speaker: domain.SpeakerPatient, Text: "Yes, I threw up twice and my vision seems a bit blurry.", OffsetMs: 32000},
			{Speaker: domain.SpeakerDoctor, Text: "These are concerning symptoms. I need to check your neurologic exam right away.", OffsetMs: 40000},
			{Speaker: domain.SpeakerDoctor, Text: "Given the sudden onset and severity, we need urgent imaging to rule out bleeding.", OffsetMs: 48000},
			{Speaker: domain.SpeakerPatient, Text: "Okay, I understand.", OffsetMs: 56000},
			{Speaker: domain.SpeakerDoctor, Text: "I'll arrange an immediate head CT and a neurology consult now.", OffsetMs: 64000},
		},
	},
	UTIDysuria: {
		ID:             UTIDysuria,
		Label:          "Uncomplicated UTI Visit",
		Summary:        "Classic dysuria presentation without systemic involvement, planning outpatient care.",
		StartTimestamp: mustTime("2024-06-18T10:15:00Z"),
		Keywords:       []string{"burning when I urinate", "urinalysis", "urine looks a bit cloudy"},
		Entries: []ConversationEntry{
			{Speaker: domain.SpeakerPatient, Text: "I've been having burning when I urinate for the past two days.", OffsetMs: 0},
			{Speaker: domain.SpeakerDoctor, Text: "How often are you urinating? Any urgency or frequency?", OffsetMs: 9000},
			{Speaker: domain.SpeakerPatient, Text: "I feel like I need to go constantly, but only small amounts come out.", OffsetMs: 18000},
			{Speaker: domain.SpeakerDoctor, Text: "Any fever, back pain, or blood in the urine?", OffsetMs: 27000},
			{Speaker: domain.SpeakerPatient, Text: "No fever or back pain, but the urine looks a bit cloudy.", OffsetMs: 36000},
			{Speaker: domain.SpeakerDoctor, Text: "That can happen with infection. We'll check a urinalysis today.", OffsetMs: 45000},
			{Speaker: domain.SpeakerPatient, Text: "Okay.", OffsetMs: 54000},
			{Speaker: domain.SpeakerDoctor, Text: "If it confirms UTI, we can start antibiotics and send a culture.", OffsetMs: 63000},
			{Speaker: domain.SpeakerPatient, Text: "Thanks, I'd like to get started.", OffsetMs: 72000},
		},
	},
}
