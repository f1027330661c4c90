package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/meeting-assistant/internal/apperr"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/prompt"
	"github.com/nguyentantai21042004/meeting-assistant/internal/transcriber"
)

const (
	msgValidating   = "入力内容を確認しています..."
	msgTranscribing = "音声を文字起こし中..."
	msgAggregating  = "アジェンダ資料を読み込み中..."
	msgSummarizing  = "要約を依頼中..."
	msgSuggesting   = "提案を依頼中..."
	msgDone         = "分析完了！"
	msgNoAudio      = "音声ファイルをアップロードしてください。"
)

// run carries the per-run state through the stages.
type run struct {
	o        *implOrchestrator
	id       string
	progress domain.ProgressFunc
	stage    domain.Stage
	started  time.Time
}

func (o *implOrchestrator) Run(ctx context.Context, in Input, progress domain.ProgressFunc) (domain.AnalysisResult, error) {
	ctx = logger.WithSessionID(ctx, in.SessionID)

	ok, err := o.store.AcquireRun(ctx, in.SessionID)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("acquire session %s: %w", in.SessionID, err)
	}
	if !ok {
		o.logger.Warn(ctx, "Analysis already running, ignoring trigger")
		o.metrics.RecordRun("rejected")
		return domain.AnalysisResult{}, fmt.Errorf("session %s: %w", in.SessionID, apperr.ErrRunInProgress)
	}
	defer func() {
		if err := o.store.ReleaseRun(context.WithoutCancel(ctx), in.SessionID); err != nil {
			o.logger.Error(ctx, "Failed to release session: %v", err)
		}
	}()

	o.metrics.RunStarted()
	defer o.metrics.RunFinished()

	r := &run{o: o, id: in.SessionID, progress: progress, stage: domain.StageIdle}
	startTime := o.now()

	result, err := r.execute(ctx, in)
	if err != nil {
		r.fail(ctx, err)
		o.metrics.RecordRun("error")
		o.logger.Error(ctx, "Analysis failed at %s: %v", r.stage, err)
		return domain.AnalysisResult{}, err
	}

	o.metrics.RecordRun("done")
	o.logger.Info(ctx, "Analysis completed in %s", o.now().Sub(startTime))
	return result, nil
}

func (r *run) execute(ctx context.Context, in Input) (domain.AnalysisResult, error) {
	o := r.o

	if err := r.enter(ctx, domain.StageValidating, msgValidating); err != nil {
		return domain.AnalysisResult{}, err
	}
	if in.Audio == nil || len(in.Audio.Bytes) == 0 {
		return domain.AnalysisResult{}, apperr.Validation(msgNoAudio)
	}
	if !transcriber.IsSupportedAudio(*in.Audio) {
		return domain.AnalysisResult{}, apperr.UnsupportedAudio(in.Audio.Ext())
	}

	if err := r.enter(ctx, domain.StageTranscribing, msgTranscribing); err != nil {
		return domain.AnalysisResult{}, err
	}
	transcript, err := o.transcriber.Transcribe(ctx, *in.Audio, o.languageHint)
	if err != nil {
		if !apperr.IsTranscription(err) {
			err = apperr.Transcription(err)
		}
		return domain.AnalysisResult{}, err
	}
	o.logger.Info(ctx, "Transcript ready (%d chars)", len([]rune(transcript)))

	if err := r.enter(ctx, domain.StageAggregating, msgAggregating); err != nil {
		return domain.AnalysisResult{}, err
	}
	bundle := o.aggregator.Aggregate(ctx, in.Agenda, o.languageHint, r.progress)

	prompts := prompt.Build(domain.AnalysisRequest{
		Transcript: transcript,
		AgendaText: bundle.CombinedText(),
		Persona:    in.Persona,
	})

	if err := r.enter(ctx, domain.StageSummarizing, msgSummarizing); err != nil {
		return domain.AnalysisResult{}, err
	}
	summary, err := o.completer.Complete(ctx, prompts.Summary, "")
	if err != nil {
		return domain.AnalysisResult{}, apperr.Completion(string(domain.StageSummarizing), err)
	}

	if err := r.enter(ctx, domain.StageSuggesting, msgSuggesting); err != nil {
		return domain.AnalysisResult{}, err
	}
	suggestion, err := o.completer.Complete(ctx, prompts.Suggestion, prompts.SystemPersona)
	if err != nil {
		return domain.AnalysisResult{}, apperr.Completion(string(domain.StageSuggesting), err)
	}

	result := domain.AnalysisResult{
		Summary:    summary,
		Suggestion: suggestion,
		Transcript: transcript,
		AgendaText: bundle.CombinedText(),
		FinishedAt: o.now(),
	}
	if err := r.publish(ctx, result); err != nil {
		return domain.AnalysisResult{}, err
	}
	return result, nil
}

// enter records the previous stage's duration, persists the new stage and notifies.
func (r *run) enter(ctx context.Context, stage domain.Stage, msg string) error {
	r.finishStage()
	r.stage = stage
	r.started = r.o.now()

	if err := r.update(ctx, func(s *domain.Session) {
		s.Stage = stage
		s.LastError = ""
	}); err != nil {
		return err
	}

	r.o.logger.Debug(ctx, "Stage %s", stage)
	r.notify(domain.ProgressEvent{Stage: stage, Message: msg})
	return nil
}

// publish is the only place the session result is written.
func (r *run) publish(ctx context.Context, result domain.AnalysisResult) error {
	r.finishStage()
	r.stage = domain.StageDone

	if err := r.update(ctx, func(s *domain.Session) {
		s.Stage = domain.StageDone
		s.LastError = ""
		s.Result = &result
	}); err != nil {
		return err
	}

	r.notify(domain.ProgressEvent{Stage: domain.StageDone, Message: msgDone})
	return nil
}

// fail moves the session to the error stage. The stored result is left as it was.
func (r *run) fail(ctx context.Context, cause error) {
	r.finishStage()
	msg := apperr.UserMessage(cause)

	if err := r.update(context.WithoutCancel(ctx), func(s *domain.Session) {
		s.Stage = domain.StageError
		s.LastError = msg
	}); err != nil && !apperr.IsSessionNotFound(err) {
		r.o.logger.Error(ctx, "Failed to record error state: %v", err)
	}

	r.notify(domain.ProgressEvent{Stage: domain.StageError, Message: msg})
}

func (r *run) update(ctx context.Context, mutate func(*domain.Session)) error {
	s, err := r.o.store.Get(ctx, r.id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	mutate(&s)
	if err := r.o.store.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *run) finishStage() {
	if r.stage == domain.StageIdle || r.started.IsZero() {
		return
	}
	r.o.metrics.RecordStage(string(r.stage), r.o.now().Sub(r.started))
}

func (r *run) notify(ev domain.ProgressEvent) {
	if r.progress != nil {
		r.progress(ev)
	}
}
