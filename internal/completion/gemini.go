package completion

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/metrics"
)

type implGemini struct {
	apiKeys     []string
	model       string
	baseURL     string
	temperature float64

	mu         sync.Mutex
	currentKey int

	logger  logger.Logger
	metrics *metrics.Metrics
}

// Complete sends the prompt with the next key in rotation. Each call uses
// one key and one attempt; a rate-limited key fails the call.
func (g *implGemini) Complete(ctx context.Context, userPrompt, systemPrompt string) (string, error) {
	keyIndex, key := g.nextKey()

	clientCfg := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	var genCfg *genai.GenerateContentConfig
	if systemPrompt != "" || g.temperature != 0 {
		genCfg = &genai.GenerateContentConfig{}
		if systemPrompt != "" {
			genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
		}
		if g.temperature != 0 {
			genCfg.Temperature = genai.Ptr(float32(g.temperature))
		}
	}

	g.logger.Debug(ctx, "Requesting completion from %s with key %d", g.model, keyIndex+1)

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt), genCfg)
	g.metrics.RecordExternalCall("gemini", err)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

func (g *implGemini) nextKey() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.currentKey
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	return i, g.apiKeys[i]
}
