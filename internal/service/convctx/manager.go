package convctx

import (
	"context"
	"fmt"
	"sync"

	"github.com/sandevgo/kpigpt/internal/core"
	"github.com/sandevgo/kpigpt/pkg/log"
)

// Manager keys conversation state by session and serializes turns
// within a session. The per-session mutex is held for the whole turn,
// external calls included: simpler than bracketing just the context
// read/update, at the cost of per-session throughput. Distinct
// sessions never contend.
type Manager struct {
	svc   *Service
	store core.TurnStore // optional durability; nil keeps state in memory only

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu    sync.Mutex
	state core.ConversationState
}

func NewManager(svc *Service, store core.TurnStore) *Manager {
	return &Manager{
		svc:      svc,
		store:    store,
		sessions: make(map[string]*session),
	}
}

// RunTurn executes fn with a snapshot of the session state and, when fn
// completes a turn, applies the context update and persists it before
// the next turn of the same session may begin. fn returning an error
// leaves the state untouched.
func (m *Manager) RunTurn(ctx context.Context, sessionID string, fn func(state core.ConversationState) (core.Turn, error)) (core.ConversationState, error) {
	sess, err := m.acquire(ctx, sessionID)
	if err != nil {
		return core.ConversationState{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	turn, err := fn(sess.state)
	if err != nil {
		return core.ConversationState{}, err
	}

	sess.state = m.svc.Update(sess.state, turn)

	// Persist the history copy of the turn: Update may have annotated
	// it with the adopted focus entity.
	if n := len(sess.state.History); n > 0 {
		turn = sess.state.History[n-1]
	}

	if m.store != nil {
		if err := m.store.SaveTurn(ctx, sess.state, turn); err != nil {
			// State already advanced in memory; a persistence miss
			// must not fail the turn.
			log.FromCtx(ctx).Error().Err(err).Str("session", sessionID).Msg("failed to persist turn")
		}
	}

	return sess.state, nil
}

// Reset clears focus and history for a session, keeping it alive.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	sess, err := m.acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.state = m.svc.Clear(sess.state)

	if m.store != nil {
		if err := m.store.ClearSession(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
		}
	}
	return nil
}

// State returns a copy of the current session state.
func (m *Manager) State(ctx context.Context, sessionID string) (core.ConversationState, error) {
	sess, err := m.acquire(ctx, sessionID)
	if err != nil {
		return core.ConversationState{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state, nil
}

func (m *Manager) acquire(ctx context.Context, sessionID string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[sessionID]; ok {
		return sess, nil
	}

	state := core.ConversationState{SessionID: sessionID}
	if m.store != nil {
		stored, err := m.store.LoadState(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
		}
		if stored != nil {
			state = *stored
		}
	}

	sess := &session{state: state}
	m.sessions[sessionID] = sess
	return sess, nil
}
