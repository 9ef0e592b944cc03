// Package expand turns one classified utterance into an ordered list of
// retrieval queries. Short proper-noun queries rank poorly in embedding
// similarity search; the role- and section-augmented variants recover
// the recall the literal query loses.
package expand

import (
	"strings"

	"github.com/sandevgo/kpigpt/internal/core"
)

// Role terms appended to bare person names. Staff passages in the
// knowledge base carry these words, which drags name queries back up
// the similarity ranking.
var personRoleTerms = []string{"teacher", "instructor", "staff"}

// Knowledge-base sections addressed by intent-templated queries.
var intentSections = map[core.Intent]string{
	core.IntentDepartmentInfo: "departments faculty teachers",
	core.IntentContactInfo:    "contact phone email address",
	core.IntentGeneralInfo:    "Khulna Polytechnic Institute information",
}

type Expander struct {
	maxExpansions int
}

func NewExpander(maxExpansions int) *Expander {
	if maxExpansions <= 0 {
		maxExpansions = 4
	}
	return &Expander{maxExpansions: maxExpansions}
}

// Expand produces candidate queries in the fixed order literal, entity,
// combined, intent_template. The order doubles as the ranking tie-break
// during retrieval.
func (e *Expander) Expand(cls core.Classification) []core.RetrievalQuery {
	queries := []core.RetrievalQuery{
		{Text: cls.NaturalQuery, Strategy: core.StrategyLiteral},
	}

	if cls.Entities.PersonName != nil {
		name := *cls.Entities.PersonName

		queries = append(queries, core.RetrievalQuery{
			Text:     name,
			Strategy: core.StrategyEntity,
		})

		combined := name + " " + strings.Join(personRoleTerms, " ")
		if cls.Entities.Department != nil {
			combined += " " + *cls.Entities.Department + " department"
		}
		queries = append(queries, core.RetrievalQuery{
			Text:     combined,
			Strategy: core.StrategyCombined,
		})
	} else if cls.Entities.Department != nil {
		queries = append(queries, core.RetrievalQuery{
			Text:     *cls.Entities.Department + " department teachers instructors",
			Strategy: core.StrategyCombined,
		})
	}

	if section, ok := intentSections[cls.Intent]; ok {
		templated := section
		if cls.Entities.PersonName != nil && cls.Intent == core.IntentContactInfo {
			templated = *cls.Entities.PersonName + " " + section
		}
		if templated != cls.NaturalQuery {
			queries = append(queries, core.RetrievalQuery{
				Text:     templated,
				Strategy: core.StrategyIntentTemplate,
			})
		}
	}

	if len(queries) > e.maxExpansions {
		queries = queries[:e.maxExpansions]
	}
	return queries
}
