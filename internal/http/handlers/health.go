package handlers

import (
	"net/http"
	"time"
)

func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"message": "SamakiCash API is running!", "status": "healthy"})
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"status": "healthy", "timestamp": time.Now().UTC()})
}
