package speech

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var assetRefPattern = regexp.MustCompile(`^price_alert_[0-9a-f]{32}\.mp3$`)

// NewAssetRef returns a collision-resistant audio filename.
func NewAssetRef() string {
	return "price_alert_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ".mp3"
}

// ValidAssetRef reports whether ref has the shape NewAssetRef produces.
// Failure sentinels never match.
func ValidAssetRef(ref string) bool {
	return assetRefPattern.MatchString(ref)
}
