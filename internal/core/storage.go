package core

import "context"

// TurnStore persists conversation state between process restarts.
// The context manager owns the in-memory state; the store only has to
// replay it faithfully.
type TurnStore interface {
	// LoadState returns the stored state for a session, or nil when
	// the session has never been seen.
	LoadState(ctx context.Context, sessionID string) (*ConversationState, error)
	// SaveTurn appends a completed turn and records the new focus.
	SaveTurn(ctx context.Context, state ConversationState, turn Turn) error
	// ClearSession drops focus and history but keeps the session row.
	ClearSession(ctx context.Context, sessionID string) error
}
