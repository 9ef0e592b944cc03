//go:build integration

package integration

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/kpigpt/internal/config"
	"github.com/sandevgo/kpigpt/internal/providers/llm"
	"github.com/sandevgo/kpigpt/test"
)

func TestGroqComplete(t *testing.T) {
	apiKey := test.RequireEnv(t, "GROQ_API_KEY")

	cfg := &config.GroqConfig{
		APIKey:      apiKey,
		Model:       "llama3-8b-8192",
		BaseURL:     "https://api.groq.com/openai",
		Temperature: 0.1,
		MaxTokens:   64,
		Timeout:     30 * time.Second,
	}
	gen := llm.NewGroq(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	answer, err := gen.Complete(ctx, "Reply with exactly one word: pong", 0.1, 16)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if strings.TrimSpace(answer) == "" {
		t.Fatal("empty completion")
	}
	t.Logf("completion: %s", answer)
}

func TestGroqCompleteStream(t *testing.T) {
	apiKey := test.RequireEnv(t, "GROQ_API_KEY")

	cfg := &config.GroqConfig{
		APIKey:      apiKey,
		Model:       "llama3-8b-8192",
		BaseURL:     "https://api.groq.com/openai",
		Temperature: 0.1,
		MaxTokens:   64,
		Timeout:     30 * time.Second,
	}
	gen := llm.NewGroq(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	chunks, err := gen.CompleteStream(ctx, "Count from 1 to 5, one number per line.", 0.1, 64)
	if err != nil {
		t.Fatalf("CompleteStream failed: %v", err)
	}

	var sb strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			t.Fatalf("stream error: %v", chunk.Err)
		}
		sb.WriteString(chunk.Content)
	}
	if sb.Len() == 0 {
		t.Fatal("no streamed content")
	}
	t.Logf("streamed: %s", sb.String())
}
