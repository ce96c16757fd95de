package fixtures

import (
	"strings"

	"github.com/medscribe/clinical-copilot/internal/domain"
)

// Resolve deterministically selects a scenario. Precedence: a known explicit
// id wins; otherwise the transcript is matched against each scenario's
// keyword set in declaration order (a scenario matches only when every one of
// its keywords appears as a substring of the lowercased transcript); when
// nothing matches, the default scenario is returned. Resolution never fails.
//
// If several keyword sets are satisfied at once the first declared scenario
// wins. The shipped keyword sets are authored to be mutually exclusive, so
// the tie-break is a stable fallback rather than a real ranking.
func Resolve(transcript string, explicit domain.ScenarioID) domain.ScenarioID {
	if explicit != "" && Known(explicit) {
		return explicit
	}
	if strings.TrimSpace(transcript) != "" {
		normalized := strings.ToLower(transcript)
		for _, id := range scenarioOrder {
			if matchesKeywords(normalized, conversations[id].Keywords) {
				return id
			}
		}
	}
	return DefaultScenario
}

func matchesKeywords(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(normalized, strings.ToLower(kw)) {
			return false
		}
	}
	return len(keywords) > 0
}
