package advisory

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"

	"samakicash/internal/domain"
)

// StatusSuccess is the only status a processed report carries.
const StatusSuccess = "success"

// AudioPathPrefix prefixes generated asset refs in voice_message_url.
const AudioPathPrefix = "/audio/"

// View is the client-facing shape of a CompositeResult.
type View struct {
	Status          string               `json:"status"`
	PriceAnalysis   domain.PriceAnalysis `json:"price_analysis"`
	MarketInsights  domain.MarketInsight `json:"market_insights"`
	ImageAnalysis   domain.ImageAnalysis `json:"image_analysis"`
	VoiceMessageURL string               `json:"voice_message_url"`
	Recommendation  string               `json:"recommendation"`
}

var recommendationLocales = language.NewMatcher([]language.Tag{language.English, language.Swahili})

// NewView renders result for a client whose preferred locale is locale.
func NewView(result domain.CompositeResult, locale string) View {
	return View{
		Status:          StatusSuccess,
		PriceAnalysis:   result.Price.Value,
		MarketInsights:  result.Market.Value,
		ImageAnalysis:   result.Image.Value,
		VoiceMessageURL: VoiceLocator(result.Voice),
		Recommendation:  Recommendation(locale, result.Price.Value.FairPrice),
	}
}

// VoiceLocator returns the audio path for generated outcomes and the failure
// sentinel otherwise.
func VoiceLocator(v domain.VoiceOutcome) string {
	if v.Status == domain.VoiceGenerated && v.AssetRef != "" {
		return AudioPathPrefix + v.AssetRef
	}
	if s := v.Sentinel(); s != "" {
		return s
	}
	return domain.VoiceSentinelFailed
}

// Recommendation renders the suggested price sentence. Unsupported locales
// get English.
func Recommendation(locale string, price float64) string {
	p := strconv.FormatFloat(price, 'f', -1, 64)
	tag, _, _ := recommendationLocales.Match(language.Make(locale))
	if base, _ := tag.Base(); base.String() == "sw" {
		return fmt.Sprintf("Bei inayopendekezwa: TZS %s kwa kilo", p)
	}
	return fmt.Sprintf("Suggested price: TZS %s per kg", p)
}
