package chat

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/kpigpt/internal/core"
)

const systemPrompt = `You are KPI GPT, a specialized AI assistant for Khulna Polytechnic Institute (KPI). You answer questions about teachers, instructors, staff and officials, departments, contact information, facilities, and general institute information.

Response guidelines:
- Answer directly and comprehensively using the context information
- Include specific details like phone numbers, emails, and designations when available
- If information is incomplete, say what you know and acknowledge the limitation
- Be helpful, friendly, and professional`

const (
	// Passages are dropped from the tail once the prompt exceeds this
	// budget; the best-ranked ones always survive.
	passageTokenBudget = 3000
	historyExcerptLen  = 200
	historyTurns       = 3
)

var tokenEncoder *tiktoken.Tiktoken

func init() {
	// cl100k_base over-counts slightly for Llama-family tokenizers,
	// which errs on the safe side for the budget.
	tokenEncoder, _ = tiktoken.GetEncoding("cl100k_base")
}

func countTokens(text string) int {
	if tokenEncoder == nil {
		return len(text) / 4
	}
	return len(tokenEncoder.Encode(text, nil, nil))
}

// buildGenerationPrompt assembles the single completion request:
// conversation excerpt, ranked passages best-first, then the resolved
// utterance.
func buildGenerationPrompt(resolved string, ranked core.RankedResult, state core.ConversationState) string {
	var sb strings.Builder
	sb.WriteString(systemPrompt)

	if excerpt := historyExcerpt(state); excerpt != "" {
		sb.WriteString("\n\n=== CONVERSATION CONTEXT ===\n")
		sb.WriteString(excerpt)
	}

	sb.WriteString("\n\n=== RELEVANT CONTEXT INFORMATION ===\n")
	used := 0
	for i, p := range ranked.Passages {
		section := fmt.Sprintf("--- CONTEXT %d (Section: %s, Relevance: %.3f) ---\n%s\n\n",
			i+1, p.Section, p.Score, strings.TrimSpace(p.Text))
		cost := countTokens(section)
		if used+cost > passageTokenBudget && i > 0 {
			break
		}
		sb.WriteString(section)
		used += cost
	}

	sb.WriteString("=== USER QUESTION ===\n")
	sb.WriteString(resolved)
	sb.WriteString("\n\n=== INSTRUCTIONS ===\nUsing the context information above, provide a detailed and accurate answer about Khulna Polytechnic Institute. Extract all relevant information from the context to answer the user's question completely.")

	return sb.String()
}

// historyExcerpt mirrors what the classifier sees as conversation
// context: the last few turns plus the current focus.
func historyExcerpt(state core.ConversationState) string {
	if len(state.History) == 0 && state.Focus == "" {
		return ""
	}

	var lines []string
	start := len(state.History) - historyTurns
	if start < 0 {
		start = 0
	}
	for _, turn := range state.History[start:] {
		answer := turn.Answer
		if len(answer) > historyExcerptLen {
			answer = truncateToRune(answer, historyExcerptLen) + "..."
		}
		lines = append(lines, "User: "+turn.Utterance, "AI: "+answer)
	}
	if state.Focus != "" {
		lines = append(lines, "Currently discussing: "+state.Focus)
	}
	return strings.Join(lines, "\n")
}

// truncateToRune cuts s to at most n bytes, backing off so a
// multi-byte rune is never split. Bangla answers are common here.
func truncateToRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
