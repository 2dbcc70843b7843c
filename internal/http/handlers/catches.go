package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"samakicash/internal/advisory"
	"samakicash/internal/domain"
	"samakicash/internal/middleware"
)

func (a *App) AnalyzeCatch(w http.ResponseWriter, r *http.Request) {
	var report domain.CatchReport
	if err := decodeJSON(r, &report); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	result, err := a.Pipeline.Process(r.Context(), report)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReport) {
			a.error(w, http.StatusBadRequest, "invalid_report", err.Error())
			return
		}
		a.logger().Error().Err(err).Msg("analyze catch failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to analyze catch")
		return
	}
	a.json(w, http.StatusOK, advisory.NewView(result, middleware.LocaleFromContext(r.Context())))
}

type catchesResponse struct {
	UserID  string               `json:"user_id"`
	Catches []domain.CatchRecord `json:"catches"`
}

func (a *App) UserCatches(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user id required")
		return
	}
	records, err := a.Store.ListCatchesByUser(r.Context(), userID)
	if err != nil {
		a.logger().Error().Err(err).Str("user_id", userID).Msg("list catches failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load catches")
		return
	}
	a.json(w, http.StatusOK, catchesResponse{UserID: userID, Catches: records})
}
