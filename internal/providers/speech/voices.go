package speech

import (
	"strings"

	"golang.org/x/text/cases"

	"samakicash/internal/domain"
)

const (
	// PreferredVoiceName is matched exactly against the voice name.
	PreferredVoiceName = "Bella"
	// MultilingualMarker is matched case-insensitively inside the description.
	MultilingualMarker = "multilingual"
)

// Voice is one entry of the provider's voice catalogue.
type Voice struct {
	ID          string `json:"voice_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SelectVoice returns the first voice named PreferredVoiceName or described as
// multilingual, in listed order. Without a match it returns the first voice.
func SelectVoice(voices []Voice) (Voice, error) {
	if len(voices) == 0 {
		return Voice{}, domain.ErrNoVoicesAvailable
	}
	fold := cases.Fold()
	marker := fold.String(MultilingualMarker)
	for _, v := range voices {
		if v.Name == PreferredVoiceName || strings.Contains(fold.String(v.Description), marker) {
			return v, nil
		}
	}
	return voices[0], nil
}
