package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
)

func TestDomainErrorMapping(t *testing.T) {
	app := NewApp(nil, nil, zerolog.Nop())

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"validation", domain.NewValidationError("prompt must not be empty"), 422, "validation_failed"},
		{"not found", domain.ErrNotFound, 404, "not_found"},
		{"not cancellable", domain.ErrJobNotCancellable, 409, "not_cancellable"},
		{"duplicate", domain.ErrDuplicateOperation, 409, "duplicate"},
		{"unclassified", errors.New("boom"), 500, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.domainError(rec, tt.err)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body %q: %v", rec.Body.String(), err)
			}
			if body.Error.Code != tt.wantErr {
				t.Fatalf("error code = %q, want %q", body.Error.Code, tt.wantErr)
			}
		})
	}
}
