// Package chat orchestrates a full conversational turn: reference
// resolution, classification, query expansion, retrieval, generation,
// and the context update that makes the next turn's pronouns work.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/kpigpt/internal/core"
	"github.com/sandevgo/kpigpt/internal/service/convctx"
	"github.com/sandevgo/kpigpt/internal/service/expand"
	"github.com/sandevgo/kpigpt/internal/service/intent"
	"github.com/sandevgo/kpigpt/internal/service/retrieve"
	"github.com/sandevgo/kpigpt/pkg/log"
)

// Turn stages, for diagnostics. Every stage can fall into "degraded"
// instead; the turn still completes with a user-visible answer. Only a
// vector store outage aborts without one.
const (
	stageReceived   = "received"
	stageResolved   = "resolved"
	stageClassified = "classified"
	stageExpanded   = "expanded"
	stageRetrieved  = "retrieved"
	stageGenerated  = "generated"
	stageDegraded   = "degraded"
)

type Generator interface {
	core.Generator
	Model() string
}

type Orchestrator struct {
	recognizer *intent.Recognizer
	expander   *expand.Expander
	retriever  *retrieve.Retriever
	gen        Generator
	resolver   *convctx.Service
	sessions   *convctx.Manager
	store      core.VectorStore

	temperature float64
	maxTokens   int
}

func NewOrchestrator(
	recognizer *intent.Recognizer,
	expander *expand.Expander,
	retriever *retrieve.Retriever,
	gen Generator,
	resolver *convctx.Service,
	sessions *convctx.Manager,
	store core.VectorStore,
	temperature float64,
	maxTokens int,
) *Orchestrator {
	return &Orchestrator{
		recognizer:  recognizer,
		expander:    expander,
		retriever:   retriever,
		gen:         gen,
		resolver:    resolver,
		sessions:    sessions,
		store:       store,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// HandleChatTurn processes one utterance and returns the completed
// answer with sources and follow-up suggestions.
func (o *Orchestrator) HandleChatTurn(ctx context.Context, sessionID, message string) (core.ChatResult, error) {
	return o.runTurn(ctx, sessionID, message, nil)
}

// HandleChatTurnStream is HandleChatTurn with the generator's chunks
// forwarded to onChunk as they arrive. The returned result carries the
// final post-processed answer.
func (o *Orchestrator) HandleChatTurnStream(ctx context.Context, sessionID, message string, onChunk func(string)) (core.ChatResult, error) {
	return o.runTurn(ctx, sessionID, message, onChunk)
}

// ResetSession clears focus and history, keeping the session alive.
func (o *Orchestrator) ResetSession(ctx context.Context, sessionID string) error {
	return o.sessions.Reset(ctx, sessionID)
}

// SystemStatus reports readiness without mutating anything.
func (o *Orchestrator) SystemStatus(ctx context.Context) core.SystemStatus {
	status := core.SystemStatus{GenerationModel: o.gen.Model()}
	count, err := o.store.Count(ctx)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("vector store count failed")
		return status
	}
	status.Ready = true
	status.DocumentCount = count
	return status
}

func (o *Orchestrator) runTurn(ctx context.Context, sessionID, message string, onChunk func(string)) (core.ChatResult, error) {
	logger := log.FromCtx(ctx).With().Str("session", sessionID).Logger()
	var result core.ChatResult

	state, err := o.sessions.RunTurn(ctx, sessionID, func(state core.ConversationState) (core.Turn, error) {
		logger.Debug().Str("stage", stageReceived).Str("utterance", message).Msg("turn")

		resolved := o.resolver.Resolve(message, state)
		if resolved.FocusApplied {
			logger.Debug().Str("stage", stageResolved).Str("resolved", resolved.Text).Msg("turn")
		}

		cls := o.recognizer.Recognize(ctx, resolved.Text, historyExcerpt(state))
		logger.Info().
			Str("stage", stageClassified).
			Str("intent", string(cls.Intent)).
			Float64("confidence", cls.Confidence).
			Msg("turn")

		turn := core.Turn{
			ID:         uuid.NewString(),
			Utterance:  message,
			Resolved:   resolved.Text,
			Intent:     cls.Intent,
			Entities:   cls.Entities,
			Confidence: cls.Confidence,
			CreatedAt:  time.Now(),
		}

		// Greetings and thanks never touch the vector store.
		switch cls.Intent {
		case core.IntentGreeting:
			turn.Answer = pickResponse(greetingResponses, message)
			result = core.ChatResult{Answer: turn.Answer, Sources: []core.Source{}, ModelUsed: o.gen.Model()}
			return turn, nil
		case core.IntentThanks:
			turn.Answer = pickResponse(thanksResponses, message)
			result = core.ChatResult{Answer: turn.Answer, Sources: []core.Source{}, ModelUsed: o.gen.Model()}
			return turn, nil
		}

		queries := o.expander.Expand(cls)
		logger.Debug().Str("stage", stageExpanded).Int("queries", len(queries)).Msg("turn")

		ranked, err := o.retriever.Retrieve(ctx, queries)
		if err != nil {
			// Backend gone: nothing to degrade onto, propagate.
			return core.Turn{}, err
		}
		logger.Debug().Str("stage", stageRetrieved).Int("passages", len(ranked.Passages)).Msg("turn")

		if ranked.Empty() {
			turn.Answer = noInfoAnswer(cls)
			result = core.ChatResult{Answer: turn.Answer, Sources: []core.Source{}, ModelUsed: o.gen.Model()}
			return turn, nil
		}

		answer, genErr := o.generate(ctx, resolved.Text, ranked, state, onChunk)
		if genErr != nil {
			logger.Warn().Err(genErr).Str("stage", stageDegraded).Msg("turn")
			turn.Answer = degradedAnswer
			turn.Degraded = true
			result = core.ChatResult{Answer: degradedAnswer, Sources: []core.Source{}, ModelUsed: o.gen.Model()}
			return turn, nil
		}

		answer = naturalizeAnswer(answer, cls)
		logger.Debug().Str("stage", stageGenerated).Msg("turn")

		turn.Answer = answer
		turn.Passages = ranked.Passages
		result = core.ChatResult{
			Answer:             answer,
			Sources:            sourcesOf(ranked),
			SuggestedFollowups: suggestFollowups(cls),
			ModelUsed:          o.gen.Model(),
		}
		return turn, nil
	})
	if err != nil {
		return core.ChatResult{}, err
	}

	result.Context = core.ContextInfo{
		SessionID: state.SessionID,
		TurnCount: len(state.History),
		Focus:     state.Focus,
	}
	return result, nil
}

func (o *Orchestrator) generate(ctx context.Context, resolved string, ranked core.RankedResult, state core.ConversationState, onChunk func(string)) (string, error) {
	prompt := buildGenerationPrompt(resolved, ranked, state)

	if onChunk == nil {
		return o.gen.Complete(ctx, prompt, o.temperature, o.maxTokens)
	}

	chunks, err := o.gen.CompleteStream(ctx, prompt, o.temperature, o.maxTokens)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			return "", chunk.Err
		}
		sb.WriteString(chunk.Content)
		onChunk(chunk.Content)
	}
	return sb.String(), nil
}

func sourcesOf(ranked core.RankedResult) []core.Source {
	sources := make([]core.Source, 0, len(ranked.Passages))
	for _, p := range ranked.Passages {
		sources = append(sources, core.Source{Section: p.Section, SimilarityScore: p.Score})
	}
	return sources
}

// naturalizeAnswer prefixes person answers with the person's name when
// the model forgot to lead with it.
func naturalizeAnswer(answer string, cls core.Classification) string {
	if cls.Intent != core.IntentPersonInfo || cls.Entities.PersonName == nil {
		return answer
	}
	name := *cls.Entities.PersonName
	head := truncateToRune(answer, 50)
	if strings.Contains(strings.ToLower(head), strings.ToLower(name)) {
		return answer
	}
	return "Here's what I can tell you about " + name + ": " + answer
}
