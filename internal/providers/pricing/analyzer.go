// Package pricing estimates a fair per-kilogram price for a catch.
package pricing

import (
	"context"
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

const providerName = "mistral"

// FallbackAnalysis is returned whenever the provider cannot be used.
var FallbackAnalysis = domain.PriceAnalysis{
	FairPrice:       5200,
	Currency:        "TZS",
	Reasoning:       "High demand in Mwanza market",
	ConfidenceScore: 0.8,
}

// Request is the subset of a catch report the pricing model sees.
type Request struct {
	FishType   string
	QuantityKg float64
	Location   string
}

// Options configures the pricing analyzer.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Analyzer asks the pricing model for a fair price and substitutes
// FallbackAnalysis on any failure.
type Analyzer struct {
	client *chat.Client
	logger *infra.Logger
}

type modelPayload struct {
	FairPrice       chat.Number `json:"fair_price"`
	Currency        string      `json:"currency"`
	Reasoning       string      `json:"reasoning"`
	ConfidenceScore chat.Number `json:"confidence_score"`
}

func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Analyzer{
		client: chat.NewClient(chat.Options{
			Provider:     providerName,
			APIKey:       opts.APIKey,
			BaseURL:      opts.BaseURL,
			Model:        opts.Model,
			Temperature:  0.1,
			JSONResponse: true,
			Timeout:      opts.Timeout,
			HTTPClient:   opts.HTTPClient,
			Logger:       logger,
		}),
		logger: logger,
	}
}

// Analyze never fails; a provider error yields FallbackAnalysis tagged with the reason.
func (a *Analyzer) Analyze(ctx context.Context, req Request) domain.Result[domain.PriceAnalysis] {
	providers.WarnCredential(a.logger, providerName, a.client.APIKey())

	text, err := a.client.Complete(ctx, buildPrompt(req))
	if err != nil {
		return a.fallback(err)
	}
	parsed, err := chat.ParsePayload[modelPayload](text)
	if err != nil {
		return a.fallback(providers.Malformed(providerName, "parse_payload", err))
	}
	analysis, err := normalize(parsed)
	if err != nil {
		return a.fallback(err)
	}
	return domain.Genuine(analysis)
}

func (a *Analyzer) fallback(err error) domain.Result[domain.PriceAnalysis] {
	reason := providers.Reason(err)
	a.logger.Warn().Err(err).Str("provider", providerName).Str("fallback_reason", reason).Msg("pricing: using fallback analysis")
	return domain.Fallback(FallbackAnalysis, reason)
}

func normalize(p modelPayload) (domain.PriceAnalysis, error) {
	if p.FairPrice <= 0 {
		return domain.PriceAnalysis{}, providers.Malformed(providerName, "invalid_price", errors.New("fair_price must be positive"))
	}
	currency := strings.ToUpper(strings.TrimSpace(p.Currency))
	if currency == "" {
		currency = "TZS"
	}
	confidence := float64(p.ConfidenceScore)
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return domain.PriceAnalysis{
		FairPrice:       float64(p.FairPrice),
		Currency:        currency,
		Reasoning:       strings.TrimSpace(p.Reasoning),
		ConfidenceScore: confidence,
	}, nil
}

func buildPrompt(req Request) string {
	fish := strings.TrimSpace(req.FishType)
	if fish == "" {
		fish = "unknown"
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = "unknown"
	}
	sb := &strings.Builder{}
	sb.WriteString("As an expert fish market analyst in Tanzania, analyze this fishing catch:\n")
	fmt.Fprintf(sb, "Fish Type: %s\n", fish)
	fmt.Fprintf(sb, "Quantity: %g kg\n", req.QuantityKg)
	fmt.Fprintf(sb, "Location: %s\n\n", location)
	sb.WriteString("Provide a fair market price per kg in TZS with detailed reasoning.\n")
	sb.WriteString("Return JSON with: fair_price, currency, reasoning, confidence_score")
	return sb.String()
}
