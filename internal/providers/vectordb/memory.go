package vectordb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sandevgo/kpigpt/internal/core"
)

// Memory is an in-process index scoring by lexical overlap. It stands
// in for the remote service in tests and demos; scores land in [0,1]
// like real similarities.
type Memory struct {
	mu       sync.RWMutex
	passages []core.Passage
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Add(passages ...core.Passage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passages = append(m.passages, passages...)
}

func (m *Memory) Query(ctx context.Context, text string, topK int) ([]core.Passage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	queryTokens := tokenize(text)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	type scored struct {
		passage core.Passage
		score   float64
	}

	var results []scored
	for _, p := range m.passages {
		score := overlap(queryTokens, tokenize(p.Text))
		if score == 0 {
			continue
		}
		p.Score = score
		results = append(results, scored{passage: p, score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	passages := make([]core.Passage, len(results))
	for i, r := range results {
		passages[i] = r.passage
	}
	return passages, nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.passages), nil
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		token := strings.Trim(field, ".,!?\"'()[]:;")
		if len(token) > 1 {
			tokens[token] = struct{}{}
		}
	}
	return tokens
}

// overlap is the share of query tokens found in the passage.
func overlap(query, passage map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}
	matched := 0
	for token := range query {
		if _, ok := passage[token]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(query))
}
