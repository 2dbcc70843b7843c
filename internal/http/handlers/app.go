package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"samakicash/internal/auth"
	"samakicash/internal/domain"
	"samakicash/internal/infra"
	"samakicash/internal/providers/speech"
)

// CatchProcessor runs the advisory pipeline for one report.
type CatchProcessor interface {
	Process(ctx context.Context, report domain.CatchReport) (domain.CompositeResult, error)
}

// AudioOpener reads stored voice messages by ref.
type AudioOpener interface {
	Open(ctx context.Context, key string) (io.ReadSeekCloser, error)
}

// VoiceProber reports speech provider health for the debug endpoint.
type VoiceProber interface {
	Probe(ctx context.Context) speech.ProbeResult
}

type App struct {
	Store      domain.RecordStore
	Pipeline   CatchProcessor
	AudioStore AudioOpener
	Voices     VoiceProber
	Hasher     *auth.Hasher
	Logger     *infra.Logger
}

type errorBody struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		a.logger().Error().Err(err).Int("status", code).Msg("encode response failed")
		code = http.StatusInternalServerError
		body = []byte(`{"status":"error","code":"internal","message":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		a.logger().Debug().Err(err).Msg("write response failed")
	}
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Status: "error", Code: errCode, Message: message})
}

func (a *App) logger() *infra.Logger {
	if a.Logger == nil {
		return infra.NopLogger()
	}
	return a.Logger
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 16<<20))
	return dec.Decode(v)
}
