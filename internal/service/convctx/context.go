// Package convctx resolves referring expressions against per-session
// discourse state and maintains that state across turns.
package convctx

import (
	"time"

	"github.com/sandevgo/kpigpt/internal/core"
)

// Resolved is the normalized utterance handed to classification. The
// original text is preserved for logging and history.
type Resolved struct {
	Original        string
	Text            string
	PronounDetected bool
	FocusApplied    bool
}

type Service struct {
	window int
}

func NewService(historyWindow int) *Service {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &Service{window: historyWindow}
}

// Resolve substitutes the session's focus entity for referring pronouns.
// With no focus the ambiguity passes through unchanged and the
// classifier sees the raw text.
func (s *Service) Resolve(utterance string, state core.ConversationState) Resolved {
	resolved := Resolved{
		Original:        utterance,
		Text:            utterance,
		PronounDetected: containsPronoun(utterance),
	}

	if state.Focus == "" {
		return resolved
	}

	if resolved.PronounDetected {
		for _, pattern := range pronounPatterns {
			if pattern.MatchString(resolved.Text) {
				resolved.Text = pattern.ReplaceAllString(resolved.Text, state.Focus)
				resolved.FocusApplied = true
				break
			}
		}
	}

	// Vague follow-ups ("tell me more") lean on the focus even though
	// no pronoun is present.
	if !resolved.FocusApplied && vaguePattern.MatchString(utterance) {
		resolved.Text = resolved.Text + " " + state.Focus
		resolved.FocusApplied = true
	}

	return resolved
}

// Update returns the state after a completed turn. An explicit
// person_name always wins the focus; failing that, a single
// recognizable name in the generated answer is adopted. Pronouns alone
// never move the focus.
func (s *Service) Update(state core.ConversationState, turn core.Turn) core.ConversationState {
	if turn.Entities.PersonName != nil {
		state.Focus = *turn.Entities.PersonName
		turn.MentionedEntity = state.Focus
	} else if names := ExtractPersonNames(turn.Answer); len(names) == 1 {
		state.Focus = names[0]
		turn.MentionedEntity = names[0]
	}

	state.History = append(state.History, turn)
	if len(state.History) > s.window {
		state.History = state.History[len(state.History)-s.window:]
	}

	state.UpdatedAt = turn.CreatedAt
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}
	return state
}

// Clear resets focus and history, keeping the session identifier alive.
func (s *Service) Clear(state core.ConversationState) core.ConversationState {
	state.Focus = ""
	state.History = nil
	state.UpdatedAt = time.Now()
	return state
}
