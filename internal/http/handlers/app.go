package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
	"github.com/karanamabhishek1402/VDSM/internal/infra"
	"github.com/karanamabhishek1402/VDSM/internal/storage"
)

// App carries the shared dependencies of every HTTP handler.
type App struct {
	Store    domain.SummaryStore
	Files    *storage.FileStore
	Validate *validator.Validate
	Logger   infra.Logger
}

func NewApp(store domain.SummaryStore, files *storage.FileStore, logger infra.Logger) *App {
	return &App{
		Store:    store,
		Files:    files,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
		Logger:   infra.ComponentLogger(logger, "http"),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.Logger.Error().Err(err).Msg("write response")
	}
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// domainError maps pipeline and store errors onto HTTP responses.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		return
	case domain.IsKind(err, domain.ErrKindValidation):
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case err == domain.ErrNotFound:
		a.error(w, http.StatusNotFound, "not_found", "summary not found")
	case err == domain.ErrJobNotCancellable:
		a.error(w, http.StatusConflict, "not_cancellable", "summary already reached a terminal state")
	case err == domain.ErrDuplicateOperation:
		a.error(w, http.StatusConflict, "duplicate", "operation already exists")
	default:
		a.Logger.Error().Err(err).Msg("handler failure")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
