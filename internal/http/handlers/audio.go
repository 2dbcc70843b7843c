package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"samakicash/internal/domain"
	"samakicash/internal/providers/speech"
)

// Audio streams a generated voice message. Failure sentinels and any name
// that is not a generated ref are 404.
func (a *App) Audio(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if !speech.ValidAssetRef(ref) {
		a.error(w, http.StatusNotFound, "not_found", "Audio file not found")
		return
	}
	f, err := a.AudioStore.Open(r.Context(), ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "Audio file not found")
			return
		}
		a.logger().Error().Err(err).Str("ref", ref).Msg("open audio failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read audio")
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeContent(w, r, ref, time.Time{}, f)
}
