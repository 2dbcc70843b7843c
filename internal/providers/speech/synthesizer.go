// Package speech turns a price advisory into a Swahili voice message.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"samakicash/internal/domain"
	"samakicash/internal/infra"
	"samakicash/internal/providers"
)

const (
	providerName   = "elevenlabs"
	defaultTimeout = 45 * time.Second
	defaultModel   = "eleven_multilingual_v2"
	maxAudioBytes  = 16 << 20
)

// AssetWriter stores generated audio and returns its key.
type AssetWriter interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Store      AssetWriter
	Logger     *infra.Logger
}

// Request carries the advisory pieces spoken in the message.
type Request struct {
	FishType string
	Price    domain.PriceAnalysis
	Market   domain.MarketInsight
}

// Synthesizer selects a voice, renders the message and stores the audio.
type Synthesizer struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	store      AssetWriter
	logger     *infra.Logger
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

func New(opts Options) *Synthesizer {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	return &Synthesizer{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		model:      model,
		timeout:    timeout,
		httpClient: httpClient,
		store:      opts.Store,
		logger:     logger,
	}
}

// Synthesize never fails. A missing or malformed credential skips generation
// without touching the network.
func (s *Synthesizer) Synthesize(ctx context.Context, req Request) domain.VoiceOutcome {
	switch providers.CheckCredential(s.apiKey) {
	case providers.CredentialMissing:
		s.logger.Info().Str("provider", providerName).Msg("speech: no credential, skipping voice generation")
		return domain.Skipped(domain.VoiceReasonNoKey)
	case providers.CredentialMalformed:
		s.logger.Warn().Str("provider", providerName).Msg("speech: malformed credential, skipping voice generation")
		return domain.Skipped(domain.VoiceReasonInvalidKeyFormat)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	voices, err := s.ListVoices(ctx)
	if err != nil {
		return s.failed(err)
	}
	voice, err := SelectVoice(voices)
	if err != nil {
		return s.failed(err)
	}
	s.logger.Info().Str("voice_id", voice.ID).Str("voice_name", voice.Name).Msg("speech: voice selected")

	audio, err := s.textToSpeech(ctx, voice.ID, BuildMessage(req.FishType, req.Price, req.Market))
	if err != nil {
		return s.failed(err)
	}
	if s.store == nil {
		return s.failed(errors.New("speech: no asset store configured"))
	}
	ref, err := s.store.Write(ctx, NewAssetRef(), audio)
	if err != nil {
		return s.failed(fmt.Errorf("speech: store audio: %w", err))
	}
	s.logger.Info().Str("asset_ref", ref).Int("bytes", len(audio)).Msg("speech: voice message saved")
	return domain.Generated(ref)
}

// ListVoices fetches the voice catalogue for the configured credential.
func (s *Synthesizer) ListVoices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/voices", nil)
	if err != nil {
		return nil, providers.Unavailable(providerName, "build_request", err)
	}
	s.authorize(req)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, providers.Transport(providerName, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, providers.Status(providerName, resp.StatusCode)
	}
	var out voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if providers.IsTimeout(err) {
			return nil, providers.Transport(providerName, err)
		}
		return nil, providers.Malformed(providerName, "decode_voices", err)
	}
	return out.Voices, nil
}

// ProbeResult reports credential and catalogue health for diagnostics.
type ProbeResult struct {
	KeyConfigured   bool   `json:"api_key_configured"`
	KeyFormatValid  bool   `json:"api_key_format_valid"`
	StatusCode      int    `json:"status_code,omitempty"`
	VoicesAvailable int    `json:"voices_available"`
	SelectedVoice   string `json:"selected_voice,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Probe checks the credential and voice catalogue without synthesizing audio.
func (s *Synthesizer) Probe(ctx context.Context) ProbeResult {
	state := providers.CheckCredential(s.apiKey)
	out := ProbeResult{
		KeyConfigured:  state != providers.CredentialMissing,
		KeyFormatValid: state == providers.CredentialValid,
	}
	if state == providers.CredentialMissing {
		out.Error = "credential not configured"
		return out
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	voices, err := s.ListVoices(ctx)
	if err != nil {
		out.StatusCode = providers.StatusCode(err)
		out.Error = err.Error()
		return out
	}
	out.StatusCode = http.StatusOK
	out.VoicesAvailable = len(voices)
	if v, err := SelectVoice(voices); err == nil {
		out.SelectedVoice = v.Name
	}
	return out
}

func (s *Synthesizer) textToSpeech(ctx context.Context, voiceID, text string) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(ttsRequest{
		Text:          text,
		ModelID:       s.model,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	}); err != nil {
		return nil, providers.Unavailable(providerName, "encode_request", err)
	}
	endpoint := fmt.Sprintf("%s/text-to-speech/%s", s.baseURL, url.PathEscape(voiceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, providers.Unavailable(providerName, "build_request", err)
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, providers.Transport(providerName, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, providers.Status(providerName, resp.StatusCode)
	}
	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, providers.Transport(providerName, err)
	}
	if len(audio) == 0 {
		return nil, providers.Malformed(providerName, "empty_audio", errors.New("empty audio body"))
	}
	return audio, nil
}

func (s *Synthesizer) authorize(req *http.Request) {
	req.Header.Set("xi-api-key", s.apiKey)
}

func (s *Synthesizer) failed(err error) domain.VoiceOutcome {
	reason := failureReason(err)
	s.logger.Warn().Err(err).Str("provider", providerName).Str("voice_reason", string(reason)).Msg("speech: voice generation failed")
	return domain.Failed(reason)
}

func failureReason(err error) domain.VoiceReason {
	switch {
	case errors.Is(err, domain.ErrNoVoicesAvailable):
		return domain.VoiceReasonNoVoicesAvailable
	case providers.IsTimeout(err):
		return domain.VoiceReasonTimeout
	}
	var perr *providers.Error
	if errors.As(err, &perr) && perr.Reason == "http_request" {
		return domain.VoiceReasonConnectionError
	}
	return domain.VoiceReasonHTTPError
}
