package convctx

import (
	"regexp"
	"sort"
	"strings"
)

// Name patterns tuned for the KPI staff roster: honorific-prefixed
// names, initialed names like "S.M. Kamruzzaman", and plain full
// names. More specific patterns come first so "Md. Rafiqul Islam" is
// not also reported as "Rafiqul Islam".
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:Md\.|Mr\.|Mrs\.|Ms\.|Dr\.)\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]*)*`),
	regexp.MustCompile(`\b[A-Z]\.[A-Z]\.\s*[A-Z][a-z]+\b`),
	regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]*)*\s+[A-Z][a-z]+\b`),
}

// Capitalized phrases that look like names but are roles or places.
var nameFalsePositives = map[string]struct{}{
	"Khulna Polytechnic":    {},
	"Polytechnic Institute": {},
	"Chief Instructor":      {},
	"Junior Instructor":     {},
	"Non Tech":              {},
}

// ExtractPersonNames returns the distinct person names found in text,
// in order of appearance. A span already claimed by a more specific
// pattern is not reported again by a looser one.
func ExtractPersonNames(text string) []string {
	type span struct{ start, end int }
	var claimed []span
	overlaps := func(start, end int) bool {
		for _, s := range claimed {
			if start < s.end && end > s.start {
				return true
			}
		}
		return false
	}

	type found struct {
		name  string
		start int
	}
	var matches []found
	seen := make(map[string]struct{})

	for _, pattern := range namePatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			if overlaps(loc[0], loc[1]) {
				continue
			}
			match := text[loc[0]:loc[1]]
			if _, bad := nameFalsePositives[match]; bad {
				continue
			}
			if len(strings.Fields(match)) > 4 {
				continue
			}
			claimed = append(claimed, span{loc[0], loc[1]})
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			matches = append(matches, found{name: match, start: loc[0]})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.name)
	}
	if len(names) == 0 {
		return nil
	}
	return names
}

var pronounPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bhim\b`),
	regexp.MustCompile(`(?i)\bher\b`),
	regexp.MustCompile(`(?i)\bhe\b`),
	regexp.MustCompile(`(?i)\bshe\b`),
	regexp.MustCompile(`(?i)\bthey\b`),
	regexp.MustCompile(`(?i)\bthem\b`),
	regexp.MustCompile(`(?i)\b(?:this|that)\s+person\b`),
	regexp.MustCompile(`(?i)\b(?:this|that)\s+teacher\b`),
	regexp.MustCompile(`(?i)\b(?:this|that)\s+instructor\b`),
}

// Openers that depend on prior context even without an explicit pronoun.
var vaguePattern = regexp.MustCompile(`(?i)^(what about|how about|tell me more|more info|details)`)

func containsPronoun(text string) bool {
	for _, pattern := range pronounPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
