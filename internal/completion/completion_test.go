package completion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/meeting-assistant/internal/config"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/pkg/openai"
)

func TestNewProviders(t *testing.T) {
	_, err := New(config.CompletionConfig{Provider: "openai", APIKey: "k"}, logger.NewNop(), nil)
	assert.NoError(t, err)

	_, err = New(config.CompletionConfig{Provider: "gemini"}, logger.NewNop(), nil)
	assert.Error(t, err, "gemini needs keys")

	_, err = New(config.CompletionConfig{Provider: "llama"}, logger.NewNop(), nil)
	assert.Error(t, err)
}

func TestOpenAICompleteMessages(t *testing.T) {
	var got []openai.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got = append(got, req)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"結果"}}]}`))
	}))
	defer srv.Close()

	c, err := New(config.CompletionConfig{Provider: "openai", BaseURL: srv.URL, APIKey: "k", Model: "gpt-4o"}, logger.NewNop(), nil)
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "要約して", "")
	require.NoError(t, err)
	assert.Equal(t, "結果", out)

	_, err = c.Complete(context.Background(), "提案して", "あなたはパートナーです")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "gpt-4o", got[0].Model)
	require.Len(t, got[0].Messages, 1)
	assert.Equal(t, "user", got[0].Messages[0].Role)
	assert.Nil(t, got[0].Temperature)

	require.Len(t, got[1].Messages, 2)
	assert.Equal(t, openai.Message{Role: "system", Content: "あなたはパートナーです"}, got[1].Messages[0])
	assert.Equal(t, openai.Message{Role: "user", Content: "提案して"}, got[1].Messages[1])
}

func TestOpenAICompleteFailsOnce(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	c, err := New(config.CompletionConfig{BaseURL: srv.URL, APIKey: "k", Model: "gpt-4o"}, logger.NewNop(), nil)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "p", "")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestGeminiKeyRotation(t *testing.T) {
	g := &implGemini{apiKeys: []string{"k1", "k2", "k3"}}

	var keys []string
	for range 4 {
		_, k := g.nextKey()
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"k1", "k2", "k3", "k1"}, keys)
}

func TestGeminiComplete(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"提案"},{"text":"です"}]}}]}`))
	}))
	defer srv.Close()

	c, err := New(config.CompletionConfig{
		Provider:   "gemini",
		Model:      "gemini-2.5-flash",
		BaseURL:    srv.URL,
		GeminiKeys: []string{"k1", "k2"},
	}, logger.NewNop(), nil)
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "要約して", "")
	require.NoError(t, err)
	assert.Equal(t, "提案です", out)

	_, err = c.Complete(context.Background(), "提案して", "ペルソナ本文")
	require.NoError(t, err)

	require.Len(t, bodies, 2)
	assert.NotContains(t, bodies[0], "ペルソナ本文")
	assert.Contains(t, bodies[1], "ペルソナ本文")
	assert.Contains(t, bodies[1], "提案して")
}
