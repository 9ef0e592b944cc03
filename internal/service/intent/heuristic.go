package intent

import (
	"regexp"
	"strings"

	"github.com/sandevgo/kpigpt/internal/core"
)

// Heuristic confidence is fixed low so downstream consumers can see the
// classifier was bypassed.
const (
	heuristicTokenConfidence   = 0.7
	heuristicNameConfidence    = 0.6
	heuristicGeneralConfidence = 0.3
)

var (
	greetingPattern = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|assalamu|salam)\b`)
	thanksPattern   = regexp.MustCompile(`(?i)\b(thanks|thank you|dhonnobad)\b`)
)

// HeuristicClassify is the deterministic second stage of classification.
// It runs only after the generator-backed classifier has failed.
func HeuristicClassify(utterance string) core.Classification {
	if greetingPattern.MatchString(utterance) {
		return core.Classification{
			Intent:       core.IntentGreeting,
			Confidence:   heuristicTokenConfidence,
			NaturalQuery: utterance,
		}
	}

	if thanksPattern.MatchString(utterance) {
		return core.Classification{
			Intent:       core.IntentThanks,
			Confidence:   heuristicTokenConfidence,
			NaturalQuery: utterance,
		}
	}

	// A run of two or more capitalized tokens reads like a personal name.
	if name := capitalizedRun(utterance); name != "" {
		info := "general"
		return core.Classification{
			Intent: core.IntentPersonInfo,
			Entities: core.EntitySet{
				PersonName: &name,
				InfoType:   &info,
			},
			Confidence:   heuristicNameConfidence,
			NaturalQuery: name + " teacher instructor information",
		}
	}

	info := "general"
	return core.Classification{
		Intent:       core.IntentGeneralInfo,
		Entities:     core.EntitySet{InfoType: &info},
		Confidence:   heuristicGeneralConfidence,
		NaturalQuery: utterance,
	}
}

// Capitalized question openers that must not be mistaken for name parts.
var capitalizedStopwords = map[string]struct{}{
	"Who": {}, "What": {}, "Where": {}, "When": {}, "Why": {}, "How": {},
	"Tell": {}, "Give": {}, "Did": {}, "Do": {}, "Does": {}, "Is": {},
	"Are": {}, "Can": {}, "The": {}, "I": {}, "KPI": {},
}

func capitalizedRun(utterance string) string {
	var capitalized []string
	for _, word := range strings.Fields(utterance) {
		trimmed := strings.Trim(word, "?!.,\"'")
		if trimmed == "" {
			continue
		}
		if _, stop := capitalizedStopwords[trimmed]; stop {
			continue
		}
		first := rune(trimmed[0])
		if first >= 'A' && first <= 'Z' {
			capitalized = append(capitalized, trimmed)
		}
	}
	if len(capitalized) >= 2 {
		return strings.Join(capitalized, " ")
	}
	return ""
}
