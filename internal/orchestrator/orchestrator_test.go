package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/meeting-assistant/internal/apperr"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/prompt"
	"github.com/nguyentantai21042004/meeting-assistant/internal/session"
)

type fakeTranscriber struct {
	mu      sync.Mutex
	text    string
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, _ domain.UploadedFile, lang string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
		<-f.release
	}
	return f.text, f.err
}

type fakeAggregator struct {
	calls int
}

func (f *fakeAggregator) Aggregate(_ context.Context, files []domain.UploadedFile, _ string, progress domain.ProgressFunc) domain.AgendaBundle {
	f.calls++
	var results []domain.ExtractionResult
	for _, file := range files {
		results = append(results, domain.Text(file.Name, string(file.Bytes)))
	}
	return domain.NewAgendaBundle(results)
}

type completionCall struct {
	user   string
	system string
}

type fakeCompleter struct {
	responses []string
	failOn    int // 1-based call index that fails, 0 = never
	calls     []completionCall
}

func (f *fakeCompleter) Complete(_ context.Context, user, system string) (string, error) {
	f.calls = append(f.calls, completionCall{user: user, system: system})
	n := len(f.calls)
	if n == f.failOn {
		return "", errors.New("model overloaded")
	}
	return f.responses[(n-1)%len(f.responses)], nil
}

type fixture struct {
	store session.Store
	tr    *fakeTranscriber
	agg   *fakeAggregator
	comp  *fakeCompleter
	orch  Orchestrator
	id    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: session.NewMemory(0),
		tr:    &fakeTranscriber{text: "会議では予算について議論した。"},
		agg:   &fakeAggregator{},
		comp:  &fakeCompleter{responses: []string{"要約結果", "提案結果"}},
	}
	f.orch = New(f.store, f.tr, f.agg, f.comp, logger.NewNop(), nil, "ja")

	s, err := f.store.Create(context.Background())
	require.NoError(t, err)
	f.id = s.ID
	return f
}

func audio(name string) *domain.UploadedFile {
	return &domain.UploadedFile{Name: name, Bytes: []byte("audio")}
}

func TestRunSuccess(t *testing.T) {
	f := newFixture(t)

	var events []domain.ProgressEvent
	res, err := f.orch.Run(context.Background(), Input{
		SessionID: f.id,
		Audio:     audio("meeting.m4a"),
		Agenda:    []domain.UploadedFile{{Name: "a.txt", Bytes: []byte("議題: 予算")}},
	}, func(ev domain.ProgressEvent) { events = append(events, ev) })
	require.NoError(t, err)

	assert.Equal(t, "要約結果", res.Summary)
	assert.Equal(t, "提案結果", res.Suggestion)
	assert.Equal(t, "会議では予算について議論した。", res.Transcript)

	require.Len(t, f.comp.calls, 2)
	assert.Empty(t, f.comp.calls[0].system, "summary is sent without a system prompt")
	assert.Contains(t, f.comp.calls[0].user, "議題: 予算")
	assert.Contains(t, f.comp.calls[0].user, "会議では予算について議論した。")
	assert.Equal(t, prompt.DefaultPersona, f.comp.calls[1].system)

	var stages []domain.Stage
	for _, ev := range events {
		stages = append(stages, ev.Stage)
	}
	assert.Equal(t, []domain.Stage{
		domain.StageValidating,
		domain.StageTranscribing,
		domain.StageAggregating,
		domain.StageSummarizing,
		domain.StageSuggesting,
		domain.StageDone,
	}, stages)

	s, err := f.store.Get(context.Background(), f.id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageDone, s.Stage)
	require.NotNil(t, s.Result)
	assert.Equal(t, "要約結果", s.Result.Summary)
	assert.Equal(t, "提案結果", s.Result.Suggestion)
}

func TestRunPersonaOverrideIsTrimmed(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Run(context.Background(), Input{
		SessionID: f.id,
		Audio:     audio("meeting.wav"),
		Persona:   "  あなたは厳しい監査役です。 \n",
	}, nil)
	require.NoError(t, err)

	require.Len(t, f.comp.calls, 2)
	assert.Equal(t, "あなたは厳しい監査役です。", f.comp.calls[1].system)
}

func TestRunWithoutAudioIsValidationError(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Run(context.Background(), Input{
		SessionID: f.id,
		Agenda:    []domain.UploadedFile{{Name: "a.txt", Bytes: []byte("x")}},
	}, nil)

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, 0, f.tr.calls)
	assert.Equal(t, 0, f.agg.calls)
	assert.Empty(t, f.comp.calls)

	s, err := f.store.Get(context.Background(), f.id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageError, s.Stage)
	assert.Equal(t, "音声ファイルをアップロードしてください。", s.LastError)
	assert.Nil(t, s.Result)
}

func TestRunRejectsUnsupportedAudio(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Run(context.Background(), Input{SessionID: f.id, Audio: audio("meeting.flac")}, nil)

	assert.ErrorIs(t, err, apperr.ErrUnsupportedAudio)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, 0, f.tr.calls)
}

func TestTranscriptionFailureAbortsRun(t *testing.T) {
	f := newFixture(t)
	f.tr.err = errors.New("quota exceeded")

	_, err := f.orch.Run(context.Background(), Input{SessionID: f.id, Audio: audio("meeting.mp3")}, nil)

	assert.True(t, apperr.IsTranscription(err))
	assert.Equal(t, 1, f.tr.calls)
	assert.Equal(t, 0, f.agg.calls)
	assert.Empty(t, f.comp.calls)
}

func TestSuggestionFailureKeepsPriorResult(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Run(context.Background(), Input{SessionID: f.id, Audio: audio("first.wav")}, nil)
	require.NoError(t, err)

	// second run: summary succeeds, suggestion fails
	f.comp.responses = []string{"新しい要約"}
	f.comp.calls = nil
	f.comp.failOn = 2

	_, err = f.orch.Run(context.Background(), Input{SessionID: f.id, Audio: audio("second.wav")}, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsCompletion(err))

	s, err := f.store.Get(context.Background(), f.id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageError, s.Stage)
	require.NotNil(t, s.Result)
	assert.Equal(t, "要約結果", s.Result.Summary, "prior summary must stay visible")
	assert.Equal(t, "提案結果", s.Result.Suggestion)
}

func TestSummaryFailureSkipsSuggestion(t *testing.T) {
	f := newFixture(t)
	f.comp.failOn = 1

	_, err := f.orch.Run(context.Background(), Input{SessionID: f.id, Audio: audio("m.wav")}, nil)

	assert.True(t, apperr.IsCompletion(err))
	assert.Len(t, f.comp.calls, 1)
}

func TestConcurrentRunIsRejected(t *testing.T) {
	f := newFixture(t)
	f.tr.started = make(chan struct{})
	f.tr.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.orch.Run(context.Background(), Input{SessionID: f.id, Audio: audio("m.wav")}, nil)
		done <- err
	}()

	select {
	case <-f.tr.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first run did not start")
	}

	_, err := f.orch.Run(context.Background(), Input{SessionID: f.id, Audio: audio("m.wav")}, nil)
	assert.True(t, apperr.IsRunInProgress(err))

	close(f.tr.release)
	require.NoError(t, <-done)

	f.tr.mu.Lock()
	assert.Equal(t, 1, f.tr.calls)
	f.tr.mu.Unlock()
	assert.Len(t, f.comp.calls, 2)

	// the session is free again
	f.tr.started = nil
	_, err = f.orch.Run(context.Background(), Input{SessionID: f.id, Audio: audio("m.wav")}, nil)
	assert.NoError(t, err)
}

func TestRunUnknownSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Run(context.Background(), Input{SessionID: "nope", Audio: audio("m.wav")}, nil)
	assert.True(t, apperr.IsSessionNotFound(err))
}
