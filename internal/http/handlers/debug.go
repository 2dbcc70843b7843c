package handlers

import "net/http"

func (a *App) DebugSpeech(w http.ResponseWriter, r *http.Request) {
	if a.Voices == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "speech provider not configured")
		return
	}
	a.json(w, http.StatusOK, a.Voices.Probe(r.Context()))
}

func (a *App) DebugUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.Store.ListUsers(r.Context())
	if err != nil {
		a.logger().Error().Err(err).Msg("debug: list users failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load users")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"users": users})
}

func (a *App) DebugCatches(w http.ResponseWriter, r *http.Request) {
	catches, err := a.Store.ListCatches(r.Context())
	if err != nil {
		a.logger().Error().Err(err).Msg("debug: list catches failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load catches")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"catches": catches})
}
