package transcriber

import (
	"context"
	"errors"
	"strings"

	"github.com/nguyentantai21042004/meeting-assistant/internal/apperr"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/metrics"
	"github.com/nguyentantai21042004/meeting-assistant/pkg/openai"
)

type implOpenAI struct {
	client  *openai.Client
	model   string
	logger  logger.Logger
	metrics *metrics.Metrics
}

// Transcribe streams the audio bytes to the OpenAI transcription endpoint.
func (t *implOpenAI) Transcribe(ctx context.Context, audio domain.UploadedFile, languageHint string) (string, error) {
	if len(audio.Bytes) == 0 {
		return "", apperr.Transcription(errors.New("audio is empty"))
	}
	if !IsSupportedAudio(audio) {
		return "", apperr.Transcription(apperr.UnsupportedAudio(audio.Ext()))
	}

	t.logger.Info(ctx, "Transcribing %s with %s (%d bytes, lang=%s)", audio.Name, t.model, len(audio.Bytes), languageHint)

	text, err := t.client.Transcribe(ctx, t.model, languageHint, audio.Name, audio.Bytes)
	t.metrics.RecordExternalCall("openai_transcription", err)
	if err != nil {
		return "", apperr.Transcription(err)
	}

	return strings.TrimSpace(text), nil
}
