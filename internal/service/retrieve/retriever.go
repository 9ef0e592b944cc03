// Package retrieve executes expansion queries against the vector store
// and folds the results into one ranked, deduplicated set of passages.
package retrieve

import (
	"context"
	"fmt"
	"sort"

	"github.com/sandevgo/kpigpt/internal/core"
	"github.com/sandevgo/kpigpt/pkg/log"
	"github.com/sandevgo/kpigpt/pkg/retry"
)

type Retriever struct {
	store     core.VectorStore
	retrier   *retry.Retrier
	topK      int
	threshold float64
}

func NewRetriever(store core.VectorStore, topK int, threshold float64) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		store:     store,
		retrier:   retry.NewTransientRetrier(),
		topK:      topK,
		threshold: threshold,
	}
}

// candidate tracks merge state for one passage identifier.
type candidate struct {
	passage   core.Passage
	strategy  core.Strategy
	firstSeen int
}

// Retrieve runs every expansion query, merges passages by identifier
// (max score wins, highest-priority strategy recorded) and ranks by
// score desc, then strategy priority, then first-seen order. A literal
// result below the threshold falls back to the best result across all
// strategies; the result is empty only when every candidate everywhere
// is below the threshold.
func (r *Retriever) Retrieve(ctx context.Context, queries []core.RetrievalQuery) (core.RankedResult, error) {
	logger := log.FromCtx(ctx)

	merged := make(map[string]*candidate)
	order := 0

	for _, query := range queries {
		var passages []core.Passage
		err := r.retrier.Do(ctx, func() error {
			var qerr error
			passages, qerr = r.store.Query(ctx, query.Text, r.topK)
			return qerr
		})
		if err != nil {
			// No fallback passages are possible without the backend.
			return core.RankedResult{}, fmt.Errorf("%w: query %q: %v", core.ErrVectorStoreUnavailable, query.Text, err)
		}

		logger.Debug().
			Str("strategy", query.Strategy.String()).
			Str("query", query.Text).
			Int("hits", len(passages)).
			Msg("vector store query")

		for _, p := range passages {
			c, ok := merged[p.ID]
			if !ok {
				merged[p.ID] = &candidate{passage: p, strategy: query.Strategy, firstSeen: order}
				order++
				continue
			}
			if p.Score > c.passage.Score {
				c.passage.Score = p.Score
			}
			if query.Strategy < c.strategy {
				c.strategy = query.Strategy
			}
		}
	}

	candidates := make([]*candidate, 0, len(merged))
	for _, c := range merged {
		if c.passage.Score >= r.threshold {
			candidates = append(candidates, c)
		}
	}

	// The literal-query fallback is implicit: candidates from every
	// strategy are ranked together, so a weak literal hit simply loses
	// to a stronger expanded hit instead of failing the turn.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].passage.Score != candidates[j].passage.Score {
			return candidates[i].passage.Score > candidates[j].passage.Score
		}
		if candidates[i].strategy != candidates[j].strategy {
			return candidates[i].strategy < candidates[j].strategy
		}
		return candidates[i].firstSeen < candidates[j].firstSeen
	})

	if len(candidates) > r.topK {
		candidates = candidates[:r.topK]
	}

	result := core.RankedResult{Passages: make([]core.RankedPassage, 0, len(candidates))}
	for _, c := range candidates {
		result.Passages = append(result.Passages, core.RankedPassage{
			Passage:  c.passage,
			Strategy: c.strategy,
		})
	}

	logger.Debug().Int("merged", len(merged)).Int("ranked", len(result.Passages)).Msg("retrieval complete")
	return result, nil
}
