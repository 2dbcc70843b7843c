package speech

import (
	"fmt"
	"strconv"
	"strings"

	"samakicash/internal/domain"
)

const messageTemplate = `
	Habari! SamakiCash hapa.
	Bei ya soko ya %s ni TZS %s kwa kilo.
	Sababu: %s.
	Ushauri: %s.
	Asante na kwa heri!
`

// BuildMessage renders the Swahili price alert, collapsed to single spaces.
func BuildMessage(fishType string, price domain.PriceAnalysis, market domain.MarketInsight) string {
	fish := orDefault(fishType, "samaki")
	reasoning := strings.TrimSuffix(orDefault(price.Reasoning, "mahitaji ya soko"), ".")
	advice := strings.TrimSuffix(orDefault(market.Recommendation, "nunua kwa bei nzuri"), ".")
	text := fmt.Sprintf(messageTemplate, fish, FormatPrice(price.FairPrice), reasoning, advice)
	return strings.Join(strings.Fields(text), " ")
}

// FormatPrice prints a price without trailing zeros.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
