package domain

import "encoding/json"

// Source tells where a provider-backed value came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
	SourceAbsent   Source = "absent"
)

// Result wraps an adapter value with its provenance so callers can tell real
// provider data apart from substituted defaults.
type Result[T any] struct {
	Value  T
	Source Source
	Reason string
}

// Genuine wraps a value returned by the provider.
func Genuine[T any](v T) Result[T] {
	return Result[T]{Value: v, Source: SourceProvider}
}

// Fallback wraps a substituted value together with the reason the provider was bypassed.
func Fallback[T any](v T, reason string) Result[T] {
	return Result[T]{Value: v, Source: SourceFallback, Reason: reason}
}

// Absent wraps the value used when the adapter had no input to work on.
func Absent[T any](v T) Result[T] {
	return Result[T]{Value: v, Source: SourceAbsent, Reason: "input_absent"}
}

// IsFallback reports whether the value is a substituted default.
func (r Result[T]) IsFallback() bool {
	return r.Source == SourceFallback
}

// PriceAnalysis is the fair-price estimate for a catch.
type PriceAnalysis struct {
	FairPrice       float64 `json:"fair_price"`
	Currency        string  `json:"currency"`
	Reasoning       string  `json:"reasoning"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// MarketInsight summarizes demand and competitor pricing.
type MarketInsight struct {
	MarketTrend        string `json:"market_trend"`
	CompetitorAnalysis string `json:"competitor_analysis"`
	Recommendation     string `json:"recommendation"`
}

// NoImageAnalysis is the analysis text used when a report carries no photo.
const NoImageAnalysis = "no image provided"

// ImageAnalysis is either a quality assessment or, when no photo was sent,
// just the Analysis note.
type ImageAnalysis struct {
	QualityAssessment string
	Freshness         string
	Confidence        float64
	Analysis          string
}

// NoImage returns the absent-input image analysis.
func NoImage() ImageAnalysis {
	return ImageAnalysis{Analysis: NoImageAnalysis}
}

// MarshalJSON emits only the analysis note for the absent-input state.
func (a ImageAnalysis) MarshalJSON() ([]byte, error) {
	if a.QualityAssessment == "" && a.Analysis != "" {
		return json.Marshal(struct {
			Analysis string `json:"analysis"`
		}{a.Analysis})
	}
	return json.Marshal(struct {
		QualityAssessment string  `json:"quality_assessment"`
		Freshness         string  `json:"freshness"`
		Confidence        float64 `json:"confidence"`
	}{a.QualityAssessment, a.Freshness, a.Confidence})
}

// VoiceStatus is the tag of a VoiceOutcome.
type VoiceStatus string

const (
	VoiceGenerated VoiceStatus = "generated"
	VoiceSkipped   VoiceStatus = "skipped"
	VoiceFailed    VoiceStatus = "failed"
)

// VoiceReason explains a skipped or failed voice outcome.
type VoiceReason string

const (
	VoiceReasonNoKey             VoiceReason = "no_key"
	VoiceReasonInvalidKeyFormat  VoiceReason = "invalid_key_format"
	VoiceReasonNoVoicesAvailable VoiceReason = "no_voices_available"
	VoiceReasonHTTPError         VoiceReason = "http_error"
	VoiceReasonTimeout           VoiceReason = "timeout"
	VoiceReasonConnectionError   VoiceReason = "connection_error"
)

// Sentinels returned in place of an audio locator.
const (
	VoiceSentinelSkipped         = "voice_generation_skipped"
	VoiceSentinelFailed          = "voice_generation_failed"
	VoiceSentinelTimeout         = "voice_generation_timeout"
	VoiceSentinelConnectionError = "voice_connection_error"
)

// VoiceOutcome is Generated(AssetRef), Skipped(Reason) or Failed(Reason).
type VoiceOutcome struct {
	Status   VoiceStatus
	AssetRef string
	Reason   VoiceReason
}

func Generated(ref string) VoiceOutcome {
	return VoiceOutcome{Status: VoiceGenerated, AssetRef: ref}
}

func Skipped(reason VoiceReason) VoiceOutcome {
	return VoiceOutcome{Status: VoiceSkipped, Reason: reason}
}

func Failed(reason VoiceReason) VoiceOutcome {
	return VoiceOutcome{Status: VoiceFailed, Reason: reason}
}

// Sentinel returns the failure marker for non-generated outcomes and "" otherwise.
func (v VoiceOutcome) Sentinel() string {
	switch v.Status {
	case VoiceGenerated:
		return ""
	case VoiceSkipped:
		return VoiceSentinelSkipped
	}
	switch v.Reason {
	case VoiceReasonTimeout:
		return VoiceSentinelTimeout
	case VoiceReasonConnectionError:
		return VoiceSentinelConnectionError
	default:
		return VoiceSentinelFailed
	}
}

// CompositeResult is the full advisory for one report. Every field is populated.
type CompositeResult struct {
	Report CatchReport
	Price  Result[PriceAnalysis]
	Market Result[MarketInsight]
	Image  Result[ImageAnalysis]
	Voice  VoiceOutcome
}
