package ai

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// OpenAICompatCapability talks to any /chat/completions endpoint.
type OpenAICompatCapability struct {
	BaseURL  string
	Model    string
	APIKey   string
	CacheTTL time.Duration
	Client   *http.Client

	mu    sync.Mutex
	cache map[string]cacheEntry
}

const maxCacheEntries = 1024

type cacheEntry struct {
	value string
	exp   time.Time
}

type RateLimitError struct {
	RetryAfter time.Duration
}

func (r RateLimitError) Error() string {
	if r.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", r.RetryAfter)
	}
	return "rate limited"
}

type chatRequest struct {
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Messages    []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *OpenAICompatCapability) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	if strings.TrimSpace(a.BaseURL) == "" {
		return "", fmt.Errorf("GENERATIVE_BASE_URL is not set")
	}
	if strings.TrimSpace(a.Model) == "" {
		return "", fmt.Errorf("GENERATIVE_MODEL is not set")
	}

	payload := chatRequest{
		Model:       a.Model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages:    messages,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	key := cacheKey(b)
	if v, ok := a.cacheGet(key); ok {
		return v, nil
	}

	url := strings.TrimRight(a.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(a.APIKey) != "" {
		req.Header.Set("Authorization", "Bearer "+a.APIKey)
	}

	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: 45 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("generative request aborted: %w", err)
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", fmt.Errorf("generative request timed out: %w", err)
		}
		return "", fmt.Errorf("generative request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", RateLimitError{RetryAfter: retryAfter(resp.Header.Get("Retry-After"), errBody)}
		}
		return "", fmt.Errorf("generative http error: %s: %v", resp.Status, errBody)
	}

	var res chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", err
	}
	if len(res.Choices) == 0 || strings.TrimSpace(res.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	answer := res.Choices[0].Message.Content
	a.cacheSet(key, answer)
	return answer, nil
}

func cacheKey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func (a *OpenAICompatCapability) cacheGet(key string) (string, bool) {
	if a.CacheTTL <= 0 {
		return "", false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.cache[key]; ok {
		if time.Now().Before(e.exp) {
			return e.value, true
		}
		delete(a.cache, key)
	}
	return "", false
}

func (a *OpenAICompatCapability) cacheSet(key, value string) {
	if a.CacheTTL <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cache == nil {
		a.cache = map[string]cacheEntry{}
	}
	now := time.Now()
	if len(a.cache) >= maxCacheEntries {
		a.evict(now)
	}
	a.cache[key] = cacheEntry{
		value: value,
		exp:   now.Add(a.CacheTTL),
	}
}

// evict drops expired entries, then the entry closest to expiry if the cache
// is still full. Callers hold a.mu.
func (a *OpenAICompatCapability) evict(now time.Time) {
	for k, e := range a.cache {
		if !now.Before(e.exp) {
			delete(a.cache, k)
		}
	}
	for len(a.cache) >= maxCacheEntries {
		var (
			oldest    string
			oldestExp time.Time
		)
		for k, e := range a.cache {
			if oldest == "" || e.exp.Before(oldestExp) {
				oldest, oldestExp = k, e.exp
			}
		}
		delete(a.cache, oldest)
	}
}

func retryAfter(header string, errBody map[string]any) time.Duration {
	if header != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(header) + "s"); err == nil {
			return d
		}
	}
	errObj, ok := errBody["error"].(map[string]any)
	if !ok {
		return 0
	}
	details, ok := errObj["details"].([]any)
	if !ok {
		return 0
	}
	for _, d := range details {
		m, ok := d.(map[string]any)
		if !ok {
			continue
		}
		if t, ok := m["@type"].(string); ok && strings.Contains(t, "RetryInfo") {
			if s, ok := m["retryDelay"].(string); ok {
				if dur, err := time.ParseDuration(s); err == nil {
					return dur
				}
			}
		}
	}
	return 0
}
