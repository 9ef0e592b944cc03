package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/kpigpt/pkg/log"
)

type GroqConfig struct {
	APIKey      string        `env:"GROQ_API_KEY,required,notEmpty"`
	Model       string        `env:"GROQ_MODEL" envDefault:"llama3-8b-8192"`
	BaseURL     string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai"`
	Temperature float64       `env:"TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int           `env:"MAX_TOKENS" envDefault:"1024"`
	Timeout     time.Duration `env:"GROQ_TIMEOUT" envDefault:"30s"`
}

func NewGroqConfig(ctx context.Context) *GroqConfig {
	c := &GroqConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Groq config")
	}
	return c
}
