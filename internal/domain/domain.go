// Package domain holds the value types shared by the analysis pipeline.
package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// UploadedFile is an uploaded payload. It is consumed once and never retained.
type UploadedFile struct {
	Name         string
	DeclaredType string // MIME type or file extension
	Bytes        []byte
}

// Ext returns the lowercased extension of the file name without the leading dot.
func (f UploadedFile) Ext() string {
	return NormalizeExt(filepath.Ext(f.Name))
}

// NormalizeExt lowercases an extension and strips the leading dot.
func NormalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// ExtractionResult is either extracted text or a per-file failure.
type ExtractionResult struct {
	FileName string
	Text     string
	Failed   bool
	Reason   string
	Err      error
}

// Text builds a successful extraction result.
func Text(fileName, content string) ExtractionResult {
	return ExtractionResult{FileName: fileName, Text: content}
}

// Failure builds a failed extraction result from err.
func Failure(fileName string, err error) ExtractionResult {
	return ExtractionResult{FileName: fileName, Failed: true, Reason: err.Error(), Err: err}
}

// Rendered returns the text that represents this result in the combined agenda.
func (r ExtractionResult) Rendered() string {
	if r.Failed {
		return FailurePlaceholder(r.FileName)
	}
	return r.Text
}

// FailurePlaceholder is the line that stands in for a document that could not be read.
func FailurePlaceholder(fileName string) string {
	return "(読み込みエラー: " + fileName + ")"
}

// AgendaBundle is the ordered outcome of one aggregation. It is immutable once built.
type AgendaBundle struct {
	results  []ExtractionResult
	combined string
}

// NewAgendaBundle joins rendered results with a blank line, in input order.
func NewAgendaBundle(results []ExtractionResult) AgendaBundle {
	owned := make([]ExtractionResult, len(results))
	copy(owned, results)

	parts := make([]string, 0, len(owned))
	for _, r := range owned {
		parts = append(parts, r.Rendered())
	}

	return AgendaBundle{
		results:  owned,
		combined: strings.Join(parts, "\n\n"),
	}
}

// Results returns a copy of the per-file results.
func (b AgendaBundle) Results() []ExtractionResult {
	out := make([]ExtractionResult, len(b.results))
	copy(out, b.results)
	return out
}

// CombinedText is the text passed to the prompt builder.
func (b AgendaBundle) CombinedText() string {
	return b.combined
}

// Len returns the number of files in the bundle.
func (b AgendaBundle) Len() int {
	return len(b.results)
}

// AnalysisRequest fully determines both prompts.
type AnalysisRequest struct {
	Transcript string
	AgendaText string
	Persona    string
}

// AnalysisResult is the pair published by a completed run. Both fields are set together.
type AnalysisResult struct {
	Summary    string    `json:"summary"`
	Suggestion string    `json:"suggestion"`
	Transcript string    `json:"transcript,omitempty"`
	AgendaText string    `json:"agenda_text,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// IsEmpty reports whether no run has completed yet.
func (r AnalysisResult) IsEmpty() bool {
	return r.Summary == "" && r.Suggestion == ""
}

// Stage is a state of the analysis state machine.
type Stage string

const (
	StageIdle         Stage = "idle"
	StageValidating   Stage = "validating"
	StageTranscribing Stage = "transcribing"
	StageAggregating  Stage = "aggregating"
	StageSummarizing  Stage = "summarizing"
	StageSuggesting   Stage = "suggesting"
	StageDone         Stage = "done"
	StageError        Stage = "error"
)

// ProgressEvent is a user-facing progress notification.
type ProgressEvent struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// ProgressFunc receives progress events. Implementations must not block for long.
type ProgressFunc func(ProgressEvent)

// Session is the per-session state kept between runs.
type Session struct {
	ID        string          `json:"id"`
	Stage     Stage           `json:"stage"`
	Result    *AnalysisResult `json:"result,omitempty"`
	LastError string          `json:"last_error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
