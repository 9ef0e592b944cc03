package core

import "time"

const (
	AppName    = "KPI GPT"
	AppVersion = "1.0.0"
	Institute  = "Khulna Polytechnic Institute"
)

// Intent is the classified purpose of a user utterance.
type Intent string

const (
	IntentPersonInfo     Intent = "PERSON_INFO"
	IntentContactInfo    Intent = "CONTACT_INFO"
	IntentDepartmentInfo Intent = "DEPARTMENT_INFO"
	IntentGeneralInfo    Intent = "GENERAL_INFO"
	IntentGreeting       Intent = "GREETING"
	IntentThanks         Intent = "THANKS"
	IntentUnknown        Intent = "UNKNOWN"
)

func (i Intent) Valid() bool {
	switch i {
	case IntentPersonInfo, IntentContactInfo, IntentDepartmentInfo,
		IntentGeneralInfo, IntentGreeting, IntentThanks, IntentUnknown:
		return true
	}
	return false
}

// EntitySet holds the named slots extracted from an utterance.
// Absent slots are nil, never the empty string.
type EntitySet struct {
	PersonName *string `json:"person_name"`
	Department *string `json:"department"`
	InfoType   *string `json:"info_type"`
}

// Classification is the result of intent recognition for one utterance.
type Classification struct {
	Intent       Intent    `json:"intent"`
	Entities     EntitySet `json:"entities"`
	Confidence   float64   `json:"confidence"`
	NaturalQuery string    `json:"natural_query"`
}

// Strategy tags a retrieval query with the expansion that produced it.
// Lower values rank higher when breaking score ties.
type Strategy int

const (
	StrategyLiteral Strategy = iota
	StrategyEntity
	StrategyCombined
	StrategyIntentTemplate
)

func (s Strategy) String() string {
	switch s {
	case StrategyLiteral:
		return "literal"
	case StrategyEntity:
		return "entity"
	case StrategyCombined:
		return "combined"
	case StrategyIntentTemplate:
		return "intent_template"
	}
	return "unknown"
}

// RetrievalQuery is one candidate query produced by expansion.
type RetrievalQuery struct {
	Text     string   `json:"text"`
	Strategy Strategy `json:"strategy"`
}

// Passage is a chunk of knowledge-base text returned by the vector store.
type Passage struct {
	ID      string  `json:"id"`
	Text    string  `json:"text"`
	Section string  `json:"section"`
	Score   float64 `json:"score"`
}

// RankedPassage is a passage annotated with the highest-priority
// strategy that retrieved it.
type RankedPassage struct {
	Passage
	Strategy Strategy `json:"strategy"`
}

// RankedResult is the deduplicated, ranked output of retrieval.
type RankedResult struct {
	Passages []RankedPassage `json:"passages"`
}

func (r RankedResult) Empty() bool {
	return len(r.Passages) == 0
}

// Turn records one completed exchange of a session.
type Turn struct {
	ID              string          `json:"id"`
	Utterance       string          `json:"utterance"`
	Resolved        string          `json:"resolved"`
	Intent          Intent          `json:"intent"`
	Entities        EntitySet       `json:"entities"`
	Confidence      float64         `json:"confidence"`
	Passages        []RankedPassage `json:"passages,omitempty"`
	Answer          string          `json:"answer"`
	MentionedEntity string          `json:"mentioned_entity,omitempty"`
	Degraded        bool            `json:"degraded"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ConversationState is the per-session discourse memory.
// Focus is the entity currently in discussion; empty means none.
type ConversationState struct {
	SessionID string    `json:"session_id"`
	Focus     string    `json:"focus"`
	History   []Turn    `json:"history"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Source is the caller-facing attribution for one supporting passage.
type Source struct {
	Section         string  `json:"section"`
	SimilarityScore float64 `json:"similarity_score"`
}

// ContextInfo summarizes the session state after a turn.
type ContextInfo struct {
	SessionID string `json:"session_id"`
	TurnCount int    `json:"turn_count"`
	Focus     string `json:"focus,omitempty"`
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	Answer             string      `json:"answer"`
	Sources            []Source    `json:"sources"`
	SuggestedFollowups []string    `json:"suggested_followups,omitempty"`
	ModelUsed          string      `json:"model_used"`
	Context            ContextInfo `json:"context_info"`
}

// SystemStatus is the read-only introspection surface.
type SystemStatus struct {
	Ready           bool   `json:"ready"`
	DocumentCount   int    `json:"document_count"`
	GenerationModel string `json:"generation_model"`
}
