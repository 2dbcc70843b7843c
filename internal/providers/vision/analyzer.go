// Package vision grades the quality and freshness of a catch photo.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"samakicash/internal/domain"
	"samakicash/internal/infra"
	"samakicash/internal/providers"
	"samakicash/internal/providers/chat"
)

const (
	providerName   = "nebius"
	defaultTimeout = 30 * time.Second
)

// FallbackAnalysis is returned when a photo was supplied but the provider failed.
var FallbackAnalysis = domain.ImageAnalysis{
	QualityAssessment: "good",
	Freshness:         "fresh",
	Confidence:        0.7,
}

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Analyzer posts base64 photos to the vision analyze endpoint.
type Analyzer struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *infra.Logger
}

type analyzeRequest struct {
	Model    string   `json:"model"`
	Image    string   `json:"image"`
	Encoding string   `json:"encoding"`
	Tasks    []string `json:"tasks"`
}

type analyzeResponse struct {
	QualityAssessment string      `json:"quality_assessment"`
	Freshness         string      `json:"freshness"`
	Confidence        chat.Number `json:"confidence"`
}

func New(opts Options) *Analyzer {
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
	return &Analyzer{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		model:      strings.TrimSpace(opts.Model),
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Analyze returns the absent-input analysis without any network call when
// imageData is empty. Otherwise it never fails: provider errors yield
// FallbackAnalysis.
func (a *Analyzer) Analyze(ctx context.Context, imageData string) domain.Result[domain.ImageAnalysis] {
	providers.WarnCredential(a.logger, providerName, a.apiKey)

	image := stripDataURL(imageData)
	if image == "" {
		a.logger.Debug().AnErr("state", domain.ErrInputAbsent).Msg("vision: no image supplied")
		return domain.Absent(domain.NoImage())
	}
	out, err := a.call(ctx, image)
	if err != nil {
		reason := providers.Reason(err)
		a.logger.Warn().Err(err).Str("provider", providerName).Str("fallback_reason", reason).Msg("vision: using fallback analysis")
		return domain.Fallback(FallbackAnalysis, reason)
	}
	return domain.Genuine(out)
}

func (a *Analyzer) call(ctx context.Context, image string) (domain.ImageAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(analyzeRequest{
		Model:    a.model,
		Image:    image,
		Encoding: "base64",
		Tasks:    []string{"quality_assessment"},
	}); err != nil {
		return domain.ImageAnalysis{}, providers.Unavailable(providerName, "encode_request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/vision/analyze", a.baseURL), &buf)
	if err != nil {
		return domain.ImageAnalysis{}, providers.Unavailable(providerName, "build_request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return domain.ImageAnalysis{}, providers.Transport(providerName, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return domain.ImageAnalysis{}, providers.Status(providerName, resp.StatusCode)
	}
	var body analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if providers.IsTimeout(err) {
			return domain.ImageAnalysis{}, providers.Transport(providerName, err)
		}
		return domain.ImageAnalysis{}, providers.Malformed(providerName, "decode_response", err)
	}
	quality := strings.TrimSpace(body.QualityAssessment)
	if quality == "" {
		return domain.ImageAnalysis{}, providers.Malformed(providerName, "missing_quality", errors.New("quality_assessment missing"))
	}
	confidence := float64(body.Confidence)
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}
	return domain.ImageAnalysis{
		QualityAssessment: quality,
		Freshness:         strings.TrimSpace(body.Freshness),
		Confidence:        confidence,
	}, nil
}

// stripDataURL drops a "data:image/...;base64," prefix if present.
func stripDataURL(data string) string {
	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, "data:") {
		return data
	}
	if idx := strings.Index(data, ","); idx >= 0 {
		return strings.TrimSpace(data[idx+1:])
	}
	return ""
}
