package completion

import (
	"context"

	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/metrics"
	"github.com/nguyentantai21042004/meeting-assistant/pkg/openai"
)

type implOpenAI struct {
	client      *openai.Client
	model       string
	temperature float64
	logger      logger.Logger
	metrics     *metrics.Metrics
}

func (c *implOpenAI) Complete(ctx context.Context, userPrompt, systemPrompt string) (string, error) {
	req := openai.ChatRequest{Model: c.model}
	if systemPrompt != "" {
		req.Messages = append(req.Messages, openai.Message{Role: "system", Content: systemPrompt})
	}
	req.Messages = append(req.Messages, openai.Message{Role: "user", Content: userPrompt})
	if c.temperature != 0 {
		t := c.temperature
		req.Temperature = &t
	}

	c.logger.Debug(ctx, "Requesting completion from %s (%d prompt chars, system=%t)", c.model, len([]rune(userPrompt)), systemPrompt != "")

	text, err := c.client.ChatComplete(ctx, req)
	c.metrics.RecordExternalCall("openai_chat", err)
	if err != nil {
		return "", err
	}
	return text, nil
}
