package handlers

import (
	"net/http"

	"github.com/karanamabhishek1402/VDSM/internal/domain"
)

type categoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *App) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := domain.Categories()
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	a.json(w, http.StatusOK, map[string]any{"categories": out})
}
