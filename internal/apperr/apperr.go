// Package apperr defines the error taxonomy of an analysis run.
//
// Extraction errors are per-file and never abort a run; validation,
// transcription and completion errors abort the run they occur in.
// Callers check kinds with errors.Is or the Is* helpers:
//
//	if apperr.IsValidation(err) {
//	    // report to user, nothing was started
//	}
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrValidation indicates a required input is missing or malformed.
	ErrValidation = errors.New("validation error")

	// ErrExtraction indicates a single agenda document could not be parsed.
	ErrExtraction = errors.New("extraction error")

	// ErrTranscription indicates the speech-to-text backend failed.
	ErrTranscription = errors.New("transcription error")

	// ErrCompletion indicates the language-model backend failed.
	ErrCompletion = errors.New("completion error")

	// ErrRunInProgress indicates an analysis run is already active for the session.
	ErrRunInProgress = errors.New("analysis already running")

	// ErrSessionNotFound indicates the session id is unknown or has ended.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnsupportedAudio is a validation error for audio in a format the transcriber does not accept.
	ErrUnsupportedAudio = fmt.Errorf("unsupported audio format: %w", ErrValidation)
)

// Error carries the kind of failure together with the stage it happened in.
type Error struct {
	Kind    error
	Stage   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Stage != "" {
		msg += ": " + e.Stage
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the error's kind so errors.Is(err, ErrCompletion) works on wrapped values.
func (e *Error) Is(target error) bool {
	return e.Kind == target || errors.Is(e.Kind, target)
}

// Validation builds a validation error.
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Stage: "validating", Message: fmt.Sprintf(format, args...)}
}

// UnsupportedAudio builds a validation error naming the rejected extension.
func UnsupportedAudio(ext string) error {
	return &Error{
		Kind:    ErrUnsupportedAudio,
		Stage:   "validating",
		Message: fmt.Sprintf("対応していない音声形式です: %s", ext),
	}
}

// Extraction builds a per-file extraction error.
func Extraction(fileName string, cause error) error {
	return &Error{Kind: ErrExtraction, Stage: "extracting", Message: fileName, Cause: cause}
}

// Transcription wraps a speech-to-text failure.
func Transcription(cause error) error {
	return &Error{Kind: ErrTranscription, Stage: "transcribing", Cause: cause}
}

// Completion wraps a language-model failure for the given stage (summarizing or suggesting).
func Completion(stage string, cause error) error {
	return &Error{Kind: ErrCompletion, Stage: stage, Cause: cause}
}

// IsValidation reports whether any error in err's chain is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsExtraction reports whether any error in err's chain is an extraction error.
func IsExtraction(err error) bool {
	return errors.Is(err, ErrExtraction)
}

// IsTranscription reports whether any error in err's chain is a transcription error.
func IsTranscription(err error) bool {
	return errors.Is(err, ErrTranscription)
}

// IsCompletion reports whether any error in err's chain is a completion error.
func IsCompletion(err error) bool {
	return errors.Is(err, ErrCompletion)
}

// IsRunInProgress reports whether err signals a concurrent run on the same session.
func IsRunInProgress(err error) bool {
	return errors.Is(err, ErrRunInProgress)
}

// IsSessionNotFound reports whether err signals an unknown session.
func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

// UserMessage returns the message shown to the person who triggered the run.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidation(err):
		var ae *Error
		if errors.As(err, &ae) && ae.Message != "" {
			return ae.Message
		}
		return "入力内容を確認してください。"
	case IsRunInProgress(err):
		return "分析は既に実行中です。完了までお待ちください。"
	case IsSessionNotFound(err):
		return "セッションが見つかりません。"
	case IsTranscription(err):
		return "文字起こしに失敗しました。音声ファイルを確認して再度お試しください。"
	case IsCompletion(err):
		return "ChatGPT への依頼に失敗しました。時間をおいて再度お試しください。"
	default:
		return "予期しないエラーが発生しました。"
	}
}
