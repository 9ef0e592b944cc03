// Package intent classifies utterances into the fixed KPI taxonomy,
// using the generator as a classifier with a deterministic heuristic
// fallback.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/kpigpt/internal/core"
	"github.com/sandevgo/kpigpt/pkg/log"
)

const (
	classifyTemperature = 0.1
	classifyMaxTokens   = 500
)

type Recognizer struct {
	gen core.Generator
}

func NewRecognizer(gen core.Generator) *Recognizer {
	return &Recognizer{gen: gen}
}

// Recognize never fails: a classification error is absorbed by the
// heuristic fallback before crossing the component boundary.
func (r *Recognizer) Recognize(ctx context.Context, utterance, contextSummary string) core.Classification {
	cls, err := r.Classify(ctx, utterance, contextSummary)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("classification failed, using heuristic fallback")
		return HeuristicClassify(utterance)
	}
	return cls
}

// Classify issues a single classification request to the generator and
// rejects anything that does not conform to the taxonomy.
func (r *Recognizer) Classify(ctx context.Context, utterance, contextSummary string) (core.Classification, error) {
	prompt := buildClassificationPrompt(utterance, contextSummary)

	raw, err := r.gen.Complete(ctx, prompt, classifyTemperature, classifyMaxTokens)
	if err != nil {
		return core.Classification{}, fmt.Errorf("%w: %v", core.ErrClassification, err)
	}

	cls, err := decodeClassification(raw)
	if err != nil {
		// The model sometimes wraps the JSON in prose; salvage the
		// outermost object before giving up.
		if salvaged, ok := extractJSON(raw); ok {
			if cls, err = decodeClassification(salvaged); err == nil {
				return normalize(cls, utterance)
			}
		}
		return core.Classification{}, fmt.Errorf("%w: %v", core.ErrClassification, err)
	}

	return normalize(cls, utterance)
}

func decodeClassification(raw string) (core.Classification, error) {
	var cls core.Classification
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &cls); err != nil {
		return core.Classification{}, fmt.Errorf("decode classification: %w", err)
	}
	return cls, nil
}

func extractJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// normalize rejects non-conforming records and cleans up the slots:
// confidence clamped to [0,1], empty-string entities become nil. The
// reported confidence is never raised.
func normalize(cls core.Classification, utterance string) (core.Classification, error) {
	if !cls.Intent.Valid() {
		return core.Classification{}, fmt.Errorf("%w: unknown intent %q", core.ErrClassification, cls.Intent)
	}

	if cls.Confidence < 0 {
		cls.Confidence = 0
	}
	if cls.Confidence > 1 {
		cls.Confidence = 1
	}

	cls.Entities.PersonName = dropEmpty(cls.Entities.PersonName)
	cls.Entities.Department = dropEmpty(cls.Entities.Department)
	cls.Entities.InfoType = dropEmpty(cls.Entities.InfoType)

	if strings.TrimSpace(cls.NaturalQuery) == "" {
		cls.NaturalQuery = utterance
	}

	return cls, nil
}

func dropEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	return &trimmed
}
