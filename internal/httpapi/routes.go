package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nguyentantai21042004/meeting-assistant/internal/apperr"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/orchestrator"
	"github.com/nguyentantai21042004/meeting-assistant/internal/report"
	"github.com/nguyentantai21042004/meeting-assistant/internal/session"
)

const msgNoResult = "まだ分析結果がありません。"

type API struct {
	store  session.Store
	orch   orchestrator.Orchestrator
	logger logger.Logger
}

func NewAPI(store session.Store, orch orchestrator.Orchestrator, log logger.Logger) *API {
	return &API{store: store, orch: orch, logger: log}
}

func registerRoutes(r *gin.Engine, api *API, gatherer prometheus.Gatherer) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.handleHealth)

		apiGroup.POST("/sessions", api.handleCreateSession)
		apiGroup.GET("/sessions/:id", api.handleGetSession)
		apiGroup.DELETE("/sessions/:id", api.handleDeleteSession)

		apiGroup.POST("/sessions/:id/analyze", api.handleAnalyze)
		apiGroup.GET("/sessions/:id/result", api.handleGetResult)
		apiGroup.GET("/sessions/:id/summary.txt", api.handleDownloadSummary)
		apiGroup.GET("/sessions/:id/suggestion.txt", api.handleDownloadSuggestion)
		apiGroup.GET("/sessions/:id/report.docx", api.handleDownloadReport)
	}

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleCreateSession(c *gin.Context) {
	s, err := a.store.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (a *API) handleGetSession(c *gin.Context) {
	s, err := a.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (a *API) handleDeleteSession(c *gin.Context) {
	if err := a.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleAnalyze runs one analysis synchronously. Multipart fields: audio (one
// file), agenda (any number, only the first ten are read) and persona (text).
func (a *API) handleAnalyze(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("id")

	if _, err := a.store.Get(ctx, sessionID); err != nil {
		respondError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			respondMessage(c, http.StatusRequestEntityTooLarge, "アップロードサイズが上限を超えています。")
			return
		}
		respondMessage(c, http.StatusBadRequest, "アップロードを読み込めませんでした。")
		return
	}

	in := orchestrator.Input{SessionID: sessionID}
	if vals := form.Value["persona"]; len(vals) > 0 {
		in.Persona = vals[0]
	}
	if files := form.File["audio"]; len(files) > 0 {
		audio, err := readUpload(files[0])
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "音声ファイルを読み込めませんでした。")
			return
		}
		in.Audio = &audio
	}
	for _, fh := range form.File["agenda"] {
		f, err := readUpload(fh)
		if err != nil {
			a.logger.Warn(ctx, "Failed to read agenda upload %s: %v", fh.Filename, err)
			f = domain.UploadedFile{Name: fh.Filename, DeclaredType: fh.Header.Get("Content-Type")}
		}
		in.Agenda = append(in.Agenda, f)
	}

	var events []domain.ProgressEvent
	result, err := a.orch.Run(ctx, in, func(ev domain.ProgressEvent) {
		events = append(events, ev)
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": apperr.UserMessage(err), "events": events})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "events": events})
}

func (a *API) handleGetResult(c *gin.Context) {
	result, ok := a.loadResult(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) handleDownloadSummary(c *gin.Context) {
	result, ok := a.loadResult(c)
	if !ok {
		return
	}
	attachText(c, report.SummaryFile, result.Summary)
}

func (a *API) handleDownloadSuggestion(c *gin.Context) {
	result, ok := a.loadResult(c)
	if !ok {
		return
	}
	attachText(c, report.SuggestionFile, result.Suggestion)
}

func (a *API) handleDownloadReport(c *gin.Context) {
	result, ok := a.loadResult(c)
	if !ok {
		return
	}

	dir, err := os.MkdirTemp("", "report-*")
	if err != nil {
		respondError(c, err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, report.DocxFile)
	if err := report.WriteDocx(path, "会議分析レポート", result); err != nil {
		a.logger.Error(c.Request.Context(), "Failed to render report: %v", err)
		respondError(c, err)
		return
	}
	c.FileAttachment(path, report.DocxFile)
}

// loadResult writes the error response itself when no result is available.
func (a *API) loadResult(c *gin.Context) (domain.AnalysisResult, bool) {
	s, err := a.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return domain.AnalysisResult{}, false
	}
	if s.Result == nil {
		respondMessage(c, http.StatusNotFound, msgNoResult)
		return domain.AnalysisResult{}, false
	}
	return *s.Result, true
}

func readUpload(fh *multipart.FileHeader) (domain.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("read upload: %w", err)
	}

	return domain.UploadedFile{
		Name:         fh.Filename,
		DeclaredType: fh.Header.Get("Content-Type"),
		Bytes:        data,
	}, nil
}

func attachText(c *gin.Context, name, body string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func statusFor(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsSessionNotFound(err):
		return http.StatusNotFound
	case apperr.IsRunInProgress(err):
		return http.StatusConflict
	case apperr.IsTranscription(err), apperr.IsCompletion(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	respondMessage(c, statusFor(err), apperr.UserMessage(err))
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
