package handlers

import (
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
)

type textPromptRequest struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt" validate:"required"`
}

type categoryRequest struct {
	Title      string `json:"title"`
	CategoryID string `json:"category_id" validate:"required"`
}

type timeRangeRequest struct {
	Title  string                `json:"title"`
	Ranges []domain.PercentRange `json:"ranges" validate:"required,min=1"`
}

type sceneResponse struct {
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Duration     float64 `json:"duration"`
	Confidence   float64 `json:"confidence"`
	MatchedLabel string  `json:"matched_label,omitempty"`
}

type summaryResponse struct {
	ID              string          `json:"id"`
	VideoID         string          `json:"video_id"`
	Title           string          `json:"title,omitempty"`
	Mode            string          `json:"mode"`
	Status          string          `json:"status"`
	ProgressPercent int             `json:"progress_percent"`
	Scenes          []sceneResponse `json:"scenes,omitempty"`
	FileSizeBytes   int64           `json:"file_size_bytes,omitempty"`
	DurationSeconds float64         `json:"duration_seconds,omitempty"`
	ErrorKind       string          `json:"error_kind,omitempty"`
	ErrorMessage    string          `json:"error_message,omitempty"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

func toSummaryResponse(s *domain.Summary) summaryResponse {
	scenes := make([]sceneResponse, 0, len(s.Scenes))
	for _, sc := range s.Scenes {
		scenes = append(scenes, sceneResponse{
			Start:        sc.Start,
			End:          sc.End,
			Duration:     sc.Duration(),
			Confidence:   sc.Confidence,
			MatchedLabel: sc.MatchedLabel,
		})
	}
	return summaryResponse{
		ID:              s.ID,
		VideoID:         s.VideoID,
		Title:           s.Title,
		Mode:            string(s.Mode),
		Status:          string(s.Status),
		ProgressPercent: s.ProgressPercent,
		Scenes:          scenes,
		FileSizeBytes:   s.FileSizeBytes,
		DurationSeconds: s.DurationSeconds,
		ErrorKind:       string(s.ErrorKind),
		ErrorMessage:    s.ErrorMessage,
		CreatedAt:       s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (a *App) CreateTextPromptSummary(w http.ResponseWriter, r *http.Request) {
	var req textPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt required")
		return
	}
	a.createSummary(w, r, req.Title, domain.SelectionRequest{
		Mode:   domain.ModeTextPrompt,
		Prompt: strings.TrimSpace(req.Prompt),
	})
}

func (a *App) CreateCategorySummary(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "category_id required")
		return
	}
	a.createSummary(w, r, req.Title, domain.SelectionRequest{
		Mode:       domain.ModeCategory,
		CategoryID: req.CategoryID,
	})
}

func (a *App) CreateTimeRangeSummary(w http.ResponseWriter, r *http.Request) {
	var req timeRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "at least one range required")
		return
	}
	a.createSummary(w, r, req.Title, domain.SelectionRequest{
		Mode:   domain.ModeTimeRange,
		Ranges: req.Ranges,
	})
}

// createSummary validates the request synchronously and enqueues the job.
// Workers pick it up through the store; nothing here touches the pipeline.
func (a *App) createSummary(w http.ResponseWriter, r *http.Request, title string, sel domain.SelectionRequest) {
	videoID := chi.URLParam(r, "video_id")
	if videoID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "video_id required")
		return
	}
	if err := sel.Validate(); err != nil {
		a.domainError(w, err)
		return
	}
	if _, err := a.Files.ResolveSource(r.Context(), videoID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "video not found")
		return
	}
	payload, err := json.Marshal(sel)
	if err != nil {
		a.domainError(w, err)
		return
	}
	summary := &domain.Summary{
		ID:          uuid.NewString(),
		VideoID:     videoID,
		Title:       strings.TrimSpace(title),
		Mode:        sel.Mode,
		RequestJSON: payload,
		Status:      domain.StatusQueued,
	}
	if err := a.Store.Create(r.Context(), summary); err != nil {
		a.domainError(w, err)
		return
	}
	created, err := a.Store.Get(r.Context(), summary.ID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, toSummaryResponse(created))
}

func (a *App) ListSummaries(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	if videoID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "video_id required")
		return
	}
	summaries, err := a.Store.ListByVideo(r.Context(), videoID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	out := make([]summaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toSummaryResponse(s))
	}
	a.json(w, http.StatusOK, map[string]any{"summaries": out})
}

func (a *App) GetSummary(w http.ResponseWriter, r *http.Request) {
	s, ok := a.loadSummary(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, toSummaryResponse(s))
}

func (a *App) SummaryProgress(w http.ResponseWriter, r *http.Request) {
	s, ok := a.loadSummary(w, r)
	if !ok {
		return
	}
	out := map[string]any{
		"id":               s.ID,
		"status":           string(s.Status),
		"progress_percent": s.ProgressPercent,
	}
	if s.ErrorMessage != "" {
		out["error_kind"] = string(s.ErrorKind)
		out["error_message"] = s.ErrorMessage
	}
	a.json(w, http.StatusOK, out)
}

func (a *App) DownloadSummary(w http.ResponseWriter, r *http.Request) {
	s, ok := a.loadSummary(w, r)
	if !ok {
		return
	}
	if s.Status != domain.StatusCompleted || s.StorageKey == "" {
		a.error(w, http.StatusConflict, "not_ready", "summary is not completed")
		return
	}
	abs, err := a.Files.AbsolutePath(s.StorageKey)
	if err != nil {
		a.domainError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename="+path.Base(s.StorageKey))
	http.ServeFile(w, r, abs)
}

func (a *App) CancelSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "summary_id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "summary_id required")
		return
	}
	if err := a.Store.RequestCancel(r.Context(), id); err != nil {
		a.domainError(w, err)
		return
	}
	s, err := a.Store.Get(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{
		"id":     s.ID,
		"status": string(s.Status),
	})
}

func (a *App) DeleteSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "summary_id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "summary_id required")
		return
	}
	s, err := a.Store.Get(r.Context(), id)
	if err != nil && err != domain.ErrNotFound {
		a.domainError(w, err)
		return
	}
	if s != nil && s.StorageKey != "" {
		if err := a.Files.Remove(r.Context(), s.StorageKey); err != nil {
			a.Logger.Warn().Err(err).Str("summary_id", id).Msg("artifact removal failed")
		}
	}
	if err := a.Store.Delete(r.Context(), id); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *App) loadSummary(w http.ResponseWriter, r *http.Request) (*domain.Summary, bool) {
	id := chi.URLParam(r, "summary_id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "summary_id required")
		return nil, false
	}
	s, err := a.Store.Get(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return nil, false
	}
	return s, true
}
