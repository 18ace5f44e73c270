package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, calls *int32, handler func(w http.ResponseWriter, req chatRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		require.Equal(t, "/chat/completions", r.URL.Path)
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req)
	}))
}

func writeChoice(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{"message": map[string]any{"content": content}}},
	})
}

func TestOpenAICompatComplete(t *testing.T) {
	var calls int32
	srv := chatServer(t, &calls, func(w http.ResponseWriter, req chatRequest) {
		assert.Equal(t, "small", req.Model)
		assert.Equal(t, 0.3, req.Temperature)
		assert.Equal(t, 200, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, RoleSystem, req.Messages[0].Role)
		writeChoice(w, "Bonjour")
	})
	defer srv.Close()

	c := &OpenAICompatCapability{BaseURL: srv.URL + "/", Model: "small", CacheTTL: time.Minute}
	msgs := []Message{System("sys"), User("hello")}

	out, err := c.Complete(context.Background(), msgs, 0.3, 200)
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)

	out, err = c.Complete(context.Background(), msgs, 0.3, 200)
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second identical call is served from cache")
}

func TestOpenAICompatRateLimited(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	c := &OpenAICompatCapability{BaseURL: srv.URL, Model: "m"}
	_, err := c.Complete(context.Background(), []Message{User("x")}, 0, 0)
	var rl RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 2*time.Second, rl.RetryAfter)
}

func TestOpenAICompatEmptyChoice(t *testing.T) {
	var calls int32
	srv := chatServer(t, &calls, func(w http.ResponseWriter, req chatRequest) {
		writeChoice(w, "   ")
	})
	defer srv.Close()

	c := &OpenAICompatCapability{BaseURL: srv.URL, Model: "m"}
	_, err := c.Complete(context.Background(), []Message{User("x")}, 0, 0)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAICompatRequiresSettings(t *testing.T) {
	_, err := (&OpenAICompatCapability{Model: "m"}).Complete(context.Background(), nil, 0, 0)
	assert.Error(t, err)
	_, err = (&OpenAICompatCapability{BaseURL: "http://x"}).Complete(context.Background(), nil, 0, 0)
	assert.Error(t, err)
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: ` [1,2] `, want: `[1,2]`},
		{name: "json fence", in: "```json\n[{\"a\":1}]\n```", want: `[{"a":1}]`},
		{name: "bare fence", in: "```\n[]\n```", want: `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.in))
		})
	}
}

func TestOpenAICompatCacheStaysBounded(t *testing.T) {
	c := &OpenAICompatCapability{CacheTTL: time.Millisecond}
	for i := 0; i < maxCacheEntries; i++ {
		c.cacheSet(fmt.Sprintf("old-%d", i), "v")
	}
	time.Sleep(5 * time.Millisecond)

	c.CacheTTL = time.Hour
	c.cacheSet("fresh", "v")
	assert.Len(t, c.cache, 1, "expired entries are swept")

	for i := 0; i < 3*maxCacheEntries; i++ {
		c.cacheSet(fmt.Sprintf("live-%d", i), "v")
	}
	assert.LessOrEqual(t, len(c.cache), maxCacheEntries)
	_, ok := c.cacheGet(fmt.Sprintf("live-%d", 3*maxCacheEntries-1))
	assert.True(t, ok, "most recent entry survives eviction")
}
