package chat

import "github.com/sandevgo/kpigpt/internal/core"

const maxFollowups = 3

// suggestFollowups derives up to three follow-up questions from the
// intent and the entities the turn resolved. No retrieval is involved;
// the templates only reference what the user already asked about.
func suggestFollowups(cls core.Classification) []string {
	var suggestions []string

	switch cls.Intent {
	case core.IntentPersonInfo:
		if cls.Entities.PersonName != nil {
			name := *cls.Entities.PersonName
			suggestions = append(suggestions,
				"What department does "+name+" work in?",
				"What's "+name+"'s contact information?",
				"What's "+name+"'s email address?",
			)
		}
	case core.IntentContactInfo:
		if cls.Entities.PersonName != nil {
			name := *cls.Entities.PersonName
			suggestions = append(suggestions,
				"Tell me more about "+name,
				"What department does "+name+" work in?",
			)
		}
	case core.IntentDepartmentInfo:
		suggestions = append(suggestions,
			"Who are the other teachers in this department?",
			"What courses does this department offer?",
		)
	}

	if len(suggestions) > maxFollowups {
		suggestions = suggestions[:maxFollowups]
	}
	return suggestions
}
