package transcriber

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/meeting-assistant/internal/apperr"
	"github.com/nguyentantai21042004/meeting-assistant/internal/config"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
)

type fakeExecutor struct {
	calls     []string
	whisperFn func(args []string) error
	ffmpegErr error
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, name)
	switch name {
	case "ffmpeg":
		return "", f.ffmpegErr
	default:
		if f.whisperFn != nil {
			return "", f.whisperFn(args)
		}
		return "", nil
	}
}

func argValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestIsSupportedAudio(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"meeting.wav", true},
		{"meeting.MP3", true},
		{"meeting.m4a", true},
		{"meeting.mp4", true},
		{"meeting.ogg", false},
		{"meeting", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupportedAudio(domain.UploadedFile{Name: tt.name}), tt.name)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(config.TranscriptionConfig{Backend: "vosk"}, &fakeExecutor{}, logger.NewNop(), nil)
	assert.Error(t, err)
}

func TestOpenAITranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "ja", r.FormValue("language"))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		_ = json.NewEncoder(w).Encode(map[string]string{"text": " 会議では予算について議論した。\n"})
	}))
	defer srv.Close()

	tr, err := New(config.TranscriptionConfig{Backend: "openai", BaseURL: srv.URL, APIKey: "k", Model: "whisper-1"}, nil, logger.NewNop(), nil)
	require.NoError(t, err)

	text, err := tr.Transcribe(context.Background(), domain.UploadedFile{Name: "m.wav", Bytes: []byte("RIFF")}, "ja")
	require.NoError(t, err)
	assert.Equal(t, "会議では予算について議論した。", text)
}

func TestOpenAIFailureIsTranscriptionError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr, err := New(config.TranscriptionConfig{BaseURL: srv.URL, APIKey: "k", Model: "whisper-1"}, nil, logger.NewNop(), nil)
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), domain.UploadedFile{Name: "m.mp3", Bytes: []byte("ID3")}, "ja")
	assert.True(t, apperr.IsTranscription(err))
	assert.Equal(t, 1, calls, "no retries")
}

func TestBackendsRejectUnsupportedAudioAlike(t *testing.T) {
	openaiTr, err := New(config.TranscriptionConfig{APIKey: "k"}, nil, logger.NewNop(), nil)
	require.NoError(t, err)
	whisperTr, err := New(config.TranscriptionConfig{Backend: "whispercpp"}, &fakeExecutor{}, logger.NewNop(), nil)
	require.NoError(t, err)

	audio := domain.UploadedFile{Name: "m.ogg", Bytes: []byte("OggS")}
	for _, tr := range []Transcriber{openaiTr, whisperTr} {
		_, err := tr.Transcribe(context.Background(), audio, "ja")
		assert.True(t, apperr.IsTranscription(err))
		assert.ErrorIs(t, err, apperr.ErrUnsupportedAudio)
	}
}

func TestWhisperCPPTranscribe(t *testing.T) {
	tmp := t.TempDir()
	exec := &fakeExecutor{
		whisperFn: func(args []string) error {
			assert.Equal(t, "ja", argValue(args, "-l"))
			assert.Equal(t, "models/ggml.bin", argValue(args, "-m"))
			return os.WriteFile(argValue(args, "--output-file")+".txt", []byte(" 会議では\n\n予算について議論した。\n"), 0644)
		},
	}
	tr, err := New(config.TranscriptionConfig{
		Backend: "whispercpp",
		Whisper: config.WhisperConfig{
			BinaryPath: "whisper-cli",
			ModelPath:  "models/ggml.bin",
			FFmpegPath: "ffmpeg",
			Threads:    4,
			TempDir:    tmp,
		},
	}, exec, logger.NewNop(), nil)
	require.NoError(t, err)

	text, err := tr.Transcribe(context.Background(), domain.UploadedFile{Name: "m.m4a", Bytes: []byte("audio")}, "ja")
	require.NoError(t, err)
	assert.Equal(t, "会議では\n予算について議論した。", text)
	assert.Equal(t, []string{"ffmpeg", "whisper-cli"}, exec.calls)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "work dir must be removed")
}

func TestWhisperCPPFailureCleansUp(t *testing.T) {
	tmp := t.TempDir()
	exec := &fakeExecutor{ffmpegErr: errors.New("invalid data found when processing input")}
	tr, err := New(config.TranscriptionConfig{
		Backend: "whispercpp",
		Whisper: config.WhisperConfig{BinaryPath: "whisper-cli", ModelPath: "m", FFmpegPath: "ffmpeg", TempDir: tmp},
	}, exec, logger.NewNop(), nil)
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), domain.UploadedFile{Name: "m.wav", Bytes: []byte("junk")}, "ja")
	assert.True(t, apperr.IsTranscription(err))
	assert.Equal(t, []string{"ffmpeg"}, exec.calls)

	entries, _ := os.ReadDir(tmp)
	assert.Empty(t, entries)
}
