// Package llm provides the Groq-backed generator. The API is
// OpenAI-compatible chat completions, so the wire shapes below work
// against any compatible endpoint.
package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/kpigpt/internal/config"
	"github.com/sandevgo/kpigpt/internal/core"
	"github.com/sandevgo/kpigpt/pkg/log"
	"github.com/sandevgo/kpigpt/pkg/retry"
)

type Groq struct {
	baseProvider
	retrier *retry.Retrier
	timeout time.Duration
}

func NewGroq(cfg *config.GroqConfig) *Groq {
	return &Groq{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
		retrier:      retry.NewTransientRetrier(),
		timeout:      cfg.Timeout,
	}
}

func (g *Groq) Model() string {
	return g.model
}

type chatPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (g *Groq) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	payload := chatPayload{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var answer string
	err := g.retrier.Do(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		resp, err := g.doRequest(callCtx, http.MethodPost, "/v1/chat/completions", payload)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		answer, err = parseChatResponse(resp)
		return err
	})
	if err != nil {
		return "", classifyGeneratorError(err)
	}
	return answer, nil
}

// CompleteStream retries only the connection attempt; a stream that
// dies midway surfaces its error as the final chunk.
func (g *Groq) CompleteStream(ctx context.Context, prompt string, temperature float64, maxTokens int) (<-chan core.StreamChunk, error) {
	payload := chatPayload{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      true,
	}

	var resp *http.Response
	err := g.retrier.Do(ctx, func() error {
		var reqErr error
		resp, reqErr = g.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload)
		if reqErr != nil {
			return reqErr
		}
		if resp.StatusCode != http.StatusOK {
			data, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
		}
		return nil
	})
	if err != nil {
		return nil, classifyGeneratorError(err)
	}

	out := make(chan core.StreamChunk)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var event struct {
				Choices []struct {
					Delta struct {
						Content string `json:"content"`
					} `json:"delta"`
				} `json:"choices"`
			}
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				log.FromCtx(ctx).Warn().Err(err).Msg("skipping malformed stream event")
				continue
			}
			if len(event.Choices) == 0 || event.Choices[0].Delta.Content == "" {
				continue
			}

			select {
			case out <- core.StreamChunk{Content: event.Choices[0].Delta.Content}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case out <- core.StreamChunk{Err: classifyGeneratorError(err)}:
			case <-ctx.Done():
			}
		}
	}()

	return out, nil
}

func parseChatResponse(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices: %s", string(data))
	}
	return result.Choices[0].Message.Content, nil
}

func classifyGeneratorError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", core.ErrGeneratorTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", core.ErrGeneratorUnavailable, err)
}
