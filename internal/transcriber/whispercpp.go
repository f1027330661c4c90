package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/meeting-assistant/internal/apperr"
	"github.com/nguyentantai21042004/meeting-assistant/internal/config"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/metrics"
	"github.com/nguyentantai21042004/meeting-assistant/pkg/executor"
)

type implWhisperCPP struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// Transcribe stages the audio, normalises it with ffmpeg and runs whisper.cpp.
// All staged files are removed before returning.
func (t *implWhisperCPP) Transcribe(ctx context.Context, audio domain.UploadedFile, languageHint string) (string, error) {
	if len(audio.Bytes) == 0 {
		return "", apperr.Transcription(errors.New("audio is empty"))
	}
	if !IsSupportedAudio(audio) {
		return "", apperr.Transcription(apperr.UnsupportedAudio(audio.Ext()))
	}

	if err := os.MkdirAll(t.cfg.TempDir, 0755); err != nil {
		return "", apperr.Transcription(fmt.Errorf("create temp dir: %w", err))
	}
	workDir, err := os.MkdirTemp(t.cfg.TempDir, "whisper-*")
	if err != nil {
		return "", apperr.Transcription(fmt.Errorf("create work dir: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			t.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", workDir, err)
		}
	}()

	inputPath := filepath.Join(workDir, "input."+audio.Ext())
	if err := os.WriteFile(inputPath, audio.Bytes, 0600); err != nil {
		return "", apperr.Transcription(fmt.Errorf("stage audio: %w", err))
	}

	wavPath, err := t.normalize(ctx, inputPath, workDir)
	if err != nil {
		return "", apperr.Transcription(err)
	}

	text, err := t.run(ctx, wavPath, workDir, languageHint)
	t.metrics.RecordExternalCall("whispercpp", err)
	if err != nil {
		return "", apperr.Transcription(err)
	}
	return text, nil
}

// normalize converts the input to 16kHz mono PCM WAV, the format whisper.cpp expects.
func (t *implWhisperCPP) normalize(ctx context.Context, inputPath, workDir string) (string, error) {
	wavPath := filepath.Join(workDir, "audio.wav")

	// -vn: drop any video stream (mp4 recordings)
	// -ar 16000 -ac 1: 16kHz mono
	// -c:a pcm_s16le: 16-bit PCM
	args := []string{
		"-i", inputPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		wavPath,
	}

	t.logger.Debug(ctx, "Normalizing audio: %s", inputPath)
	if _, err := t.executor.Execute(ctx, t.cfg.FFmpegPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg normalize audio: %w", err)
	}
	return wavPath, nil
}

func (t *implWhisperCPP) run(ctx context.Context, wavPath, workDir, lang string) (string, error) {
	outputPrefix := filepath.Join(workDir, "transcript")
	if lang == "" {
		lang = "auto"
	}

	// -otxt: plain text output written to <prefix>.txt
	// -l: force language
	args := []string{
		"-m", t.cfg.ModelPath,
		"-f", wavPath,
		"-otxt",
		"-l", lang,
		"-t", strconv.Itoa(t.cfg.Threads),
		"--output-file", outputPrefix,
	}
	if !t.cfg.UseGPU {
		args = append(args, "-ng")
	}

	t.logger.Info(ctx, "Starting transcription with %d threads: %s", t.cfg.Threads, wavPath)
	if _, err := t.executor.Execute(ctx, t.cfg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	data, err := os.ReadFile(outputPrefix + ".txt")
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
