package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CatchReport is a fisher's submission. It is not modified after it enters the pipeline.
type CatchReport struct {
	FishType   string  `json:"fish_type"`
	QuantityKg float64 `json:"quantity_kg"`
	Location   string  `json:"location"`
	UserID     string  `json:"user_id"`
	ImageData  string  `json:"image_data,omitempty"`
}

// Validate reports the first missing or malformed required field.
func (r CatchReport) Validate() error {
	switch {
	case strings.TrimSpace(r.FishType) == "":
		return fmt.Errorf("%w: fish_type is required", ErrInvalidReport)
	case strings.TrimSpace(r.Location) == "":
		return fmt.Errorf("%w: location is required", ErrInvalidReport)
	case strings.TrimSpace(r.UserID) == "":
		return fmt.Errorf("%w: user_id is required", ErrInvalidReport)
	case r.QuantityKg <= 0:
		return fmt.Errorf("%w: quantity_kg must be greater than zero", ErrInvalidReport)
	}
	return nil
}

// HasImage reports whether a photo was attached.
func (r CatchReport) HasImage() bool {
	return strings.TrimSpace(r.ImageData) != ""
}

// CatchRecord is the persisted form of a processed report. Records are append-only.
type CatchRecord struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	FishType      string          `json:"fish_type"`
	QuantityKg    float64         `json:"quantity_kg"`
	Location      string          `json:"location"`
	PriceAnalysis json.RawMessage `json:"price_analysis"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DecodePriceAnalysis unmarshals the serialized price analysis.
func (c CatchRecord) DecodePriceAnalysis() (PriceAnalysis, error) {
	var p PriceAnalysis
	if len(c.PriceAnalysis) == 0 {
		return p, fmt.Errorf("catch %s: empty price analysis", c.ID)
	}
	if err := json.Unmarshal(c.PriceAnalysis, &p); err != nil {
		return p, fmt.Errorf("catch %s: decode price analysis: %w", c.ID, err)
	}
	return p, nil
}
