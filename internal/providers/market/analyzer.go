// Package market produces demand and competitor insight for a species at a landing site.
package market

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

const providerName = "aiml"

// FallbackInsight is returned whenever the provider cannot be used.
var FallbackInsight = domain.MarketInsight{
	MarketTrend:        "Growing demand",
	CompetitorAnalysis: "Average price: 4000-6000 TZS/kg",
	Recommendation:     "Sell in morning for best prices",
}

// Request carries the fields the market model needs.
type Request struct {
	FishType string
	Location string
}

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *infra.Logger
}

type Analyzer struct {
	client *chat.Client
	logger *infra.Logger
}

type modelPayload struct {
	MarketTrend        string `json:"market_trend"`
	CompetitorAnalysis string `json:"competitor_analysis"`
	Recommendation     string `json:"recommendation"`
}

func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Analyzer{
		client: chat.NewClient(chat.Options{
			Provider:    providerName,
			APIKey:      opts.APIKey,
			BaseURL:     opts.BaseURL,
			Model:       opts.Model,
			Temperature: 0.3,
			Timeout:     opts.Timeout,
			HTTPClient:  opts.HTTPClient,
			Logger:      logger,
		}),
		logger: logger,
	}
}

// Analyze never fails; on error it returns FallbackInsight. Fields the model
// leaves blank are filled from FallbackInsight, but a reply with no usable
// field at all counts as malformed.
func (a *Analyzer) Analyze(ctx context.Context, req Request) domain.Result[domain.MarketInsight] {
	providers.WarnCredential(a.logger, providerName, a.client.APIKey())

	text, err := a.client.Complete(ctx, buildPrompt(req))
	if err != nil {
		return a.fallback(err)
	}
	parsed, err := chat.ParsePayload[modelPayload](text)
	if err != nil {
		return a.fallback(providers.Malformed(providerName, "parse_payload", err))
	}
	insight := domain.MarketInsight{
		MarketTrend:        strings.TrimSpace(parsed.MarketTrend),
		CompetitorAnalysis: strings.TrimSpace(parsed.CompetitorAnalysis),
		Recommendation:     strings.TrimSpace(parsed.Recommendation),
	}
	if insight == (domain.MarketInsight{}) {
		return a.fallback(providers.Malformed(providerName, "empty_insight", errors.New("no insight fields")))
	}
	if insight.MarketTrend == "" {
		insight.MarketTrend = FallbackInsight.MarketTrend
	}
	if insight.CompetitorAnalysis == "" {
		insight.CompetitorAnalysis = FallbackInsight.CompetitorAnalysis
	}
	if insight.Recommendation == "" {
		insight.Recommendation = FallbackInsight.Recommendation
	}
	return domain.Genuine(insight)
}

func (a *Analyzer) fallback(err error) domain.Result[domain.MarketInsight] {
	reason := providers.Reason(err)
	a.logger.Warn().Err(err).Str("provider", providerName).Str("fallback_reason", reason).Msg("market: using fallback insight")
	return domain.Fallback(FallbackInsight, reason)
}

func buildPrompt(req Request) string {
	sb := &strings.Builder{}
	sb.WriteString("Provide market insights for fish trading in Tanzania:\n")
	fmt.Fprintf(sb, "Fish: %s\n", strings.TrimSpace(req.FishType))
	fmt.Fprintf(sb, "Location: %s\n\n", strings.TrimSpace(req.Location))
	sb.WriteString("Include: demand trends, competitor prices, recommendations.\n")
	sb.WriteString("Format as JSON with: market_trend, competitor_analysis, recommendation")
	return sb.String()
}
