package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/kpigpt/pkg/log"
)

// RetrievalConfig carries the tunables of query expansion and ranking.
// The threshold and expansion cap are deliberately configuration, not
// contract: validate changes against conversation scenarios, not the
// literal values.
type RetrievalConfig struct {
	VectorStoreURL      string        `env:"VECTOR_STORE_URL,required,notEmpty"`
	SimilarityThreshold float64       `env:"SIMILARITY_THRESHOLD" envDefault:"0.4"`
	MaxResults          int           `env:"MAX_RETRIEVAL_RESULTS" envDefault:"5"`
	MaxExpansions       int           `env:"MAX_QUERY_EXPANSIONS" envDefault:"4"`
	Timeout             time.Duration `env:"VECTOR_STORE_TIMEOUT" envDefault:"10s"`
}

func NewRetrievalConfig(ctx context.Context) *RetrievalConfig {
	c := &RetrievalConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Retrieval config")
	}
	return c
}
