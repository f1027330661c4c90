package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Transcription TranscriptionConfig `yaml:"transcription"`
	Completion    CompletionConfig    `yaml:"completion"`
	Extraction    ExtractionConfig    `yaml:"extraction"`
	Agenda        AgendaConfig        `yaml:"agenda"`
	Session       SessionConfig       `yaml:"session"`
	Server        ServerConfig        `yaml:"server"`
	Watcher       WatcherConfig       `yaml:"watcher"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type TranscriptionConfig struct {
	Backend  string        `yaml:"backend"` // openai | whispercpp
	Model    string        `yaml:"model"`
	Language string        `yaml:"language"`
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"-"`
	Timeout  time.Duration `yaml:"timeout"`
	Whisper  WhisperConfig `yaml:"whisper"`
}

// WhisperConfig configures the local whisper.cpp backend.
type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	FFmpegPath string `yaml:"ffmpeg_path"`
	Threads    int    `yaml:"threads"`
	UseGPU     bool   `yaml:"use_gpu"`
	TempDir    string `yaml:"temp_dir"`
}

type CompletionConfig struct {
	Provider    string        `yaml:"provider"` // openai | gemini
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	APIKey      string        `yaml:"-"`
	GeminiKeys  []string      `yaml:"-"`
}

type ExtractionConfig struct {
	OCRLanguage string `yaml:"ocr_language"`
	Workers     int    `yaml:"workers"`
	TempDir     string `yaml:"temp_dir"`
	Tools       Tools  `yaml:"tools"`
}

// Tools names the external binaries used for formats without a Go parser.
type Tools struct {
	PDFToText string `yaml:"pdftotext"`
	Tesseract string `yaml:"tesseract"`
	Antiword  string `yaml:"antiword"`
	XLS2CSV   string `yaml:"xls2csv"`
	CatPPT    string `yaml:"catppt"`
}

// MaxAgendaFiles is the hard upper bound on agenda documents read per run.
const MaxAgendaFiles = 10

type AgendaConfig struct {
	MaxFiles int `yaml:"max_files"`
}

type SessionConfig struct {
	Store string        `yaml:"store"` // memory | redis
	TTL   time.Duration `yaml:"ttl"`
	Redis RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	DB       int    `yaml:"db"`
	Password string `yaml:"-"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	MaxUploadMB    int64    `yaml:"max_upload_mb"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type WatcherConfig struct {
	Input         string `yaml:"input"`
	Output        string `yaml:"output"`
	Archived      string `yaml:"archived"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file, applies secrets from the environment and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns a validated config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyEnv()
	_ = cfg.Validate()
	return cfg
}

// ApplyEnv copies secrets from the environment. Secrets are never read from the YAML file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Transcription.APIKey = v
		c.Completion.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEYS"); v != "" {
		c.Completion.GeminiKeys = splitKeys(v)
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Session.Redis.Password = v
	}
}

func splitKeys(v string) []string {
	var keys []string
	for _, k := range strings.Split(v, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c *Config) Validate() error {
	switch c.Transcription.Backend {
	case "":
		c.Transcription.Backend = "openai"
	case "openai", "whispercpp":
	default:
		return fmt.Errorf("transcription.backend must be openai or whispercpp, got %q", c.Transcription.Backend)
	}
	if c.Transcription.Backend == "whispercpp" {
		if c.Transcription.Whisper.BinaryPath == "" {
			return fmt.Errorf("transcription.whisper.binary_path is required")
		}
		if c.Transcription.Whisper.ModelPath == "" {
			return fmt.Errorf("transcription.whisper.model_path is required")
		}
	}

	switch c.Completion.Provider {
	case "":
		c.Completion.Provider = "openai"
	case "openai", "gemini":
	default:
		return fmt.Errorf("completion.provider must be openai or gemini, got %q", c.Completion.Provider)
	}

	switch c.Session.Store {
	case "":
		c.Session.Store = "memory"
	case "memory", "redis":
	default:
		return fmt.Errorf("session.store must be memory or redis, got %q", c.Session.Store)
	}
	if c.Session.Store == "redis" && c.Session.Redis.Addr == "" {
		return fmt.Errorf("session.redis.addr is required")
	}

	if c.Agenda.MaxFiles < 0 || c.Agenda.MaxFiles > MaxAgendaFiles {
		return fmt.Errorf("agenda.max_files must be between 0 and %d, got %d", MaxAgendaFiles, c.Agenda.MaxFiles)
	}

	if c.Transcription.Model == "" {
		c.Transcription.Model = "whisper-1"
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "ja"
	}
	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = "https://api.openai.com/v1"
	}
	if c.Transcription.Timeout == 0 {
		c.Transcription.Timeout = 10 * time.Minute
	}
	if c.Transcription.Whisper.FFmpegPath == "" {
		c.Transcription.Whisper.FFmpegPath = "ffmpeg"
	}
	if c.Transcription.Whisper.Threads == 0 {
		c.Transcription.Whisper.Threads = 8
	}
	if c.Transcription.Whisper.TempDir == "" {
		c.Transcription.Whisper.TempDir = "data/temp"
	}

	if c.Completion.Model == "" {
		if c.Completion.Provider == "gemini" {
			c.Completion.Model = "gemini-2.5-flash"
		} else {
			c.Completion.Model = "gpt-4o"
		}
	}
	if c.Completion.BaseURL == "" && c.Completion.Provider == "openai" {
		c.Completion.BaseURL = "https://api.openai.com/v1"
	}
	if c.Completion.Timeout == 0 {
		c.Completion.Timeout = 3 * time.Minute
	}

	if c.Extraction.OCRLanguage == "" {
		c.Extraction.OCRLanguage = "jpn"
	}
	if c.Extraction.Workers == 0 {
		c.Extraction.Workers = 4
	}
	if c.Extraction.TempDir == "" {
		c.Extraction.TempDir = os.TempDir()
	}
	t := &c.Extraction.Tools
	if t.PDFToText == "" {
		t.PDFToText = "pdftotext"
	}
	if t.Tesseract == "" {
		t.Tesseract = "tesseract"
	}
	if t.Antiword == "" {
		t.Antiword = "antiword"
	}
	if t.XLS2CSV == "" {
		t.XLS2CSV = "xls2csv"
	}
	if t.CatPPT == "" {
		t.CatPPT = "catppt"
	}

	if c.Agenda.MaxFiles == 0 {
		c.Agenda.MaxFiles = MaxAgendaFiles
	}

	if c.Session.TTL == 0 {
		c.Session.TTL = 24 * time.Hour
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 200
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}

	if c.Watcher.Input == "" {
		c.Watcher.Input = "data/input"
	}
	if c.Watcher.Output == "" {
		c.Watcher.Output = "data/output"
	}
	if c.Watcher.Archived == "" {
		c.Watcher.Archived = "data/archived"
	}
	if c.Watcher.MaxConcurrent == 0 {
		c.Watcher.MaxConcurrent = 2
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}
