// Package advisory sequences the provider adapters for one catch report and
// hands the composite result to deferred persistence.
package advisory

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"samakicash/internal/domain"
	"samakicash/internal/infra"
	"samakicash/internal/providers/market"
	"samakicash/internal/providers/pricing"
	"samakicash/internal/providers/speech"
)

type PriceAnalyzer interface {
	Analyze(ctx context.Context, req pricing.Request) domain.Result[domain.PriceAnalysis]
}

type MarketAnalyzer interface {
	Analyze(ctx context.Context, req market.Request) domain.Result[domain.MarketInsight]
}

type ImageAnalyzer interface {
	Analyze(ctx context.Context, imageData string) domain.Result[domain.ImageAnalysis]
}

type VoiceSynthesizer interface {
	Synthesize(ctx context.Context, req speech.Request) domain.VoiceOutcome
}

// Scheduler accepts results for persistence without blocking the caller.
type Scheduler interface {
	Enqueue(result domain.CompositeResult) error
}

// Pipeline is safe for concurrent use; it holds no per-request state.
type Pipeline struct {
	pricing   PriceAnalyzer
	market    MarketAnalyzer
	vision    ImageAnalyzer
	speech    VoiceSynthesizer
	scheduler Scheduler
	logger    *infra.Logger
}

type Options struct {
	Pricing   PriceAnalyzer
	Market    MarketAnalyzer
	Vision    ImageAnalyzer
	Speech    VoiceSynthesizer
	Scheduler Scheduler
	Logger    *infra.Logger
}

func NewPipeline(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Pipeline{
		pricing:   opts.Pricing,
		market:    opts.Market,
		vision:    opts.Vision,
		speech:    opts.Speech,
		scheduler: opts.Scheduler,
		logger:    logger,
	}
}

// Process runs pricing, market and image analysis concurrently, then speech
// synthesis from the first two. The result is scheduled for persistence and
// returned without waiting for the write. Only an invalid report is an error.
func (p *Pipeline) Process(ctx context.Context, report domain.CatchReport) (domain.CompositeResult, error) {
	if err := report.Validate(); err != nil {
		return domain.CompositeResult{}, err
	}
	start := time.Now()
	result := domain.CompositeResult{Report: report}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Price = p.pricing.Analyze(gctx, pricing.Request{
			FishType:   report.FishType,
			QuantityKg: report.QuantityKg,
			Location:   report.Location,
		})
		return nil
	})
	g.Go(func() error {
		result.Market = p.market.Analyze(gctx, market.Request{
			FishType: report.FishType,
			Location: report.Location,
		})
		return nil
	})
	g.Go(func() error {
		result.Image = p.vision.Analyze(gctx, report.ImageData)
		return nil
	})
	// Adapters absorb their own failures, so Wait only synchronizes.
	_ = g.Wait()

	result.Voice = p.speech.Synthesize(ctx, speech.Request{
		FishType: report.FishType,
		Price:    result.Price.Value,
		Market:   result.Market.Value,
	})

	if p.scheduler != nil {
		if err := p.scheduler.Enqueue(result); err != nil {
			p.logger.Error().Err(err).Str("user_id", report.UserID).Msg("advisory: persistence not scheduled")
		}
	}

	p.logger.Info().
		Str("user_id", report.UserID).
		Str("fish_type", report.FishType).
		Str("price_source", string(result.Price.Source)).
		Str("market_source", string(result.Market.Source)).
		Str("image_source", string(result.Image.Source)).
		Str("voice_status", string(result.Voice.Status)).
		Dur("took", time.Since(start)).
		Msg("advisory: catch processed")
	return result, nil
}
