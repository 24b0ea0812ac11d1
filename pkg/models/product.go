package models

import "encoding/json"

// ProductData is one raw catalog record after boundary normalization:
// tags are always a slice, descriptions are plain text and bounded.
type ProductData struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Tags          []string        `json:"tags"`
	PriceValue    float64         `json:"price_value"`
	Currency      string          `json:"currency"`
	QuantityValue float64         `json:"quantity_value"`
	QuantityUnit  string          `json:"quantity_unit"`
	Available     bool            `json:"available"`
	ImageURL      string          `json:"image_url"`
	ProductURL    string          `json:"product_url"`
	Vendor        string          `json:"vendor"`
	Raw           json.RawMessage `json:"raw"` // untouched feed payload
	Terms         ExtractedTerms  `json:"-"`   // smart-parse output, not persisted
}

// ExtractedTerms is the ephemeral per-product output of an adapter's
// smart-parse step. Candidate lists are ordered; the first term that
// normalizes wins, so extraction order is significant.
type ExtractedTerms struct {
	Materials    []string
	Colors       []string
	Patterns     []string
	Confidence   CategoryConfidence
	SourceLocale string // fixed per adapter instance
}

// CategoryConfidence is the static per-category reliability score of the
// extraction method that produced each candidate list. Informational only;
// it never gates normalization.
type CategoryConfidence struct {
	Materials float64
	Colors    float64
	Patterns  float64
}

// CandidatesFor returns the ordered candidate list for a category.
func (e *ExtractedTerms) CandidatesFor(category string) []string {
	switch category {
	case CategoryMaterial:
		return e.Materials
	case CategoryColor:
		return e.Colors
	case CategoryPattern:
		return e.Patterns
	default:
		return nil
	}
}
