package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "whispercpp without model",
			config: Config{
				Transcription: TranscriptionConfig{
					Backend: "whispercpp",
					Whisper: WhisperConfig{BinaryPath: "./whisper-cli"},
				},
			},
			wantErr: true,
		},
		{
			name: "whispercpp complete",
			config: Config{
				Transcription: TranscriptionConfig{
					Backend: "whispercpp",
					Whisper: WhisperConfig{BinaryPath: "./whisper-cli", ModelPath: "models/ggml-large-v3.bin"},
				},
			},
			wantErr: false,
		},
		{
			name:    "unknown completion provider",
			config:  Config{Completion: CompletionConfig{Provider: "claude"}},
			wantErr: true,
		},
		{
			name:    "redis store without addr",
			config:  Config{Session: SessionConfig{Store: "redis"}},
			wantErr: true,
		},
		{
			name:    "negative agenda cap",
			config:  Config{Agenda: AgendaConfig{MaxFiles: -1}},
			wantErr: true,
		},
		{
			name:    "agenda cap above ten",
			config:  Config{Agenda: AgendaConfig{MaxFiles: 11}},
			wantErr: true,
		},
		{
			name:    "agenda cap of exactly ten",
			config:  Config{Agenda: AgendaConfig{MaxFiles: 10}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "openai", cfg.Transcription.Backend)
	assert.Equal(t, "whisper-1", cfg.Transcription.Model)
	assert.Equal(t, "ja", cfg.Transcription.Language)
	assert.Equal(t, "gpt-4o", cfg.Completion.Model)
	assert.Equal(t, "jpn", cfg.Extraction.OCRLanguage)
	assert.Equal(t, 4, cfg.Extraction.Workers)
	assert.Equal(t, 10, cfg.Agenda.MaxFiles)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, int64(200), cfg.Server.MaxUploadMB)
	assert.Equal(t, "pdftotext", cfg.Extraction.Tools.PDFToText)
}

func TestValidateGeminiModelDefault(t *testing.T) {
	cfg := Config{Completion: CompletionConfig{Provider: "gemini"}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini-2.5-flash", cfg.Completion.Model)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := `
transcription:
  backend: "openai"
  language: "ja"

completion:
  provider: "openai"
  model: "gpt-4o-mini"
  timeout: 90s

agenda:
  max_files: 5

session:
  store: "redis"
  ttl: 2h
  redis:
    addr: "localhost:6379"
    db: 1

logging:
  level: "debug"
  format: "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEYS", "k1, k2,,k3")
	t.Setenv("REDIS_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Completion.Model)
	assert.Equal(t, 90*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, 5, cfg.Agenda.MaxFiles)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 1, cfg.Session.Redis.DB)
	assert.Equal(t, "secret", cfg.Session.Redis.Password)
	assert.Equal(t, "sk-test", cfg.Transcription.APIKey)
	assert.Equal(t, "sk-test", cfg.Completion.APIKey)
	assert.Equal(t, []string{"k1", "k2", "k3"}, cfg.Completion.GeminiKeys)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agenda: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
