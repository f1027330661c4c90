package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// Transcriber converts a meeting recording to text.
//
// Every backend accepts the same audio formats, makes exactly one attempt,
// and reports failures as apperr.ErrTranscription.
type Transcriber interface {
	Transcribe(ctx context.Context, audio domain.UploadedFile, languageHint string) (string, error)
}

// SupportedAudioExts are the accepted recording formats.
var SupportedAudioExts = []string{"wav", "mp3", "m4a", "mp4"}

// IsSupportedAudio reports whether the file name has an accepted audio extension.
func IsSupportedAudio(file domain.UploadedFile) bool {
	ext := file.Ext()
	for _, s := range SupportedAudioExts {
		if ext == s {
			return true
		}
	}
	return false
}
