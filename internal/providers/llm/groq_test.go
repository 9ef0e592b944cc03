package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/kpigpt/internal/config"
	"github.com/sandevgo/kpigpt/internal/core"
)

func newGroqAgainst(url string) *Groq {
	return NewGroq(&config.GroqConfig{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: url,
		Timeout: 5 * time.Second,
	})
}

func TestComplete_ParsesChoice(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"choices": [{"message": {"role": "assistant", "content": "pong"}}]}`)
	}))
	defer ts.Close()

	g := newGroqAgainst(ts.URL)
	answer, err := g.Complete(context.Background(), "ping", 0.1, 16)
	require.NoError(t, err)
	assert.Equal(t, "pong", answer)
}

func TestComplete_RetriesTransientFailure(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"choices": [{"message": {"role": "assistant", "content": "recovered"}}]}`)
	}))
	defer ts.Close()

	g := newGroqAgainst(ts.URL)
	answer, err := g.Complete(context.Background(), "ping", 0.1, 16)
	require.NoError(t, err)
	assert.Equal(t, "recovered", answer)
	assert.Equal(t, 2, calls)
}

func TestComplete_PersistentFailureIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	g := newGroqAgainst(ts.URL)
	_, err := g.Complete(context.Background(), "ping", 0.1, 16)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrGeneratorUnavailable)
}

func TestCompleteStream_ParsesSSE(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, `data: {"choices": [{"delta": {"content": "Hel"}}]}`+"\n\n")
		fmt.Fprint(w, `data: {"choices": [{"delta": {"content": "lo"}}]}`+"\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer ts.Close()

	g := newGroqAgainst(ts.URL)
	chunks, err := g.CompleteStream(context.Background(), "hi", 0.1, 16)
	require.NoError(t, err)

	var sb strings.Builder
	for chunk := range chunks {
		require.NoError(t, chunk.Err)
		sb.WriteString(chunk.Content)
	}
	assert.Equal(t, "Hello", sb.String())
}

func TestCompleteStream_BadStatusDoesNotStream(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	g := newGroqAgainst(ts.URL)
	_, err := g.CompleteStream(context.Background(), "hi", 0.1, 16)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrGeneratorUnavailable)
}
