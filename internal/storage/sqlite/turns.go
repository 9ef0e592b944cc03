package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/kpigpt/internal/core"
	"github.com/sandevgo/kpigpt/pkg/log"
)

// Turns persists session state and completed turns. Retrieval passages
// are not stored; reloaded history carries text, intent and entities,
// which is all pronoun resolution needs.
type Turns struct {
	db     *sql.DB
	window int
}

func NewTurns(db *sql.DB, historyWindow int) *Turns {
	return &Turns{db: db, window: historyWindow}
}

func (t *Turns) LoadState(ctx context.Context, sessionID string) (*core.ConversationState, error) {
	state := core.ConversationState{SessionID: sessionID}

	row := t.db.QueryRowContext(ctx,
		`SELECT focus, updated_at FROM sessions WHERE session_id = ?`, sessionID)
	if err := row.Scan(&state.Focus, &state.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	// Fetch the LAST 'window' turns by ordering DESC
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, utterance, resolved, intent, entities, confidence, answer, mentioned_entity, degraded, created_at
		 FROM turns WHERE session_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		sessionID, t.window)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var turn core.Turn
		var entities sql.NullString
		if err := rows.Scan(&turn.ID, &turn.Utterance, &turn.Resolved, &turn.Intent,
			&entities, &turn.Confidence, &turn.Answer, &turn.MentionedEntity,
			&turn.Degraded, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		if entities.Valid && entities.String != "" {
			if err := json.Unmarshal([]byte(entities.String), &turn.Entities); err != nil {
				return nil, fmt.Errorf("failed to unmarshal entities: %w", err)
			}
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query returned turns newest first; the history is kept in
	// chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	state.History = turns

	log.FromCtx(ctx).Debug().Str("session", sessionID).Int("turns", len(turns)).Msg("loaded session state")
	return &state, nil
}

func (t *Turns) SaveTurn(ctx context.Context, state core.ConversationState, turn core.Turn) error {
	entitiesJSON, err := json.Marshal(turn.Entities)
	if err != nil {
		return fmt.Errorf("failed to marshal entities: %w", err)
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (session_id, focus, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (session_id) DO UPDATE SET focus = excluded.focus, updated_at = excluded.updated_at`,
		state.SessionID, state.Focus, state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO turns (id, session_id, utterance, resolved, intent, entities, confidence, answer, mentioned_entity, degraded, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		turn.ID, state.SessionID, turn.Utterance, turn.Resolved, string(turn.Intent),
		string(entitiesJSON), turn.Confidence, turn.Answer, turn.MentionedEntity,
		turn.Degraded, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}

	return tx.Commit()
}

func (t *Turns) ClearSession(ctx context.Context, sessionID string) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM turns WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete turns: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET focus = '' WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to reset session focus: %w", err)
	}

	return tx.Commit()
}
