package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Query(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/query", r.URL.Path)
		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "civil department", req.Text)
		assert.Equal(t, 5, req.TopK)
		fmt.Fprint(w, `{"results": [{"id": "p1", "text": "Civil dept", "section": "departments", "score": 0.81}]}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 5*time.Second)
	passages, err := c.Query(context.Background(), "civil department", 5)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "p1", passages[0].ID)
	assert.Equal(t, 0.81, passages[0].Score)
}

func TestClient_QueryEmptyIndex(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 5*time.Second)
	passages, err := c.Query(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestClient_QueryErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index rebuilding", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 5*time.Second)
	_, err := c.Query(context.Background(), "anything", 5)
	require.Error(t, err)
}

func TestClient_Count(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/count", r.URL.Path)
		fmt.Fprint(w, `{"count": 42}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 5*time.Second)
	n, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}
