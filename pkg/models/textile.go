package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaterialUnknown is the placeholder material for records that never
// resolved against the dictionary.
const MaterialUnknown = "unknown"

// NewTextileInput carries everything needed to construct a Textile.
type NewTextileInput struct {
	Name            string
	Description     string
	MaterialType    *string
	Color           *string
	Pattern         *string
	Composition     map[string]int
	QuantityValue   float64
	QuantityUnit    string
	PriceValue      float64
	PriceCurrency   string
	SourcePlatform  string
	SourceURL       string
	SourceProductID string
	SupplierName    string
	Available       bool
	ImageURL        string
	RawData         json.RawMessage
}

// Textile is the canonical normalized product record. Stored in textiles
// table, deduplicated on SourceURL (re-scraping upserts rather than
// duplicating).
//
// Fields stay mutable to support partial updates before persistence, but
// validation runs only at construction; callers mutating fields afterwards
// are on their own.
type Textile struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	MaterialType    *string         `json:"material_type,omitempty"`
	Color           *string         `json:"color,omitempty"`
	Pattern         *string         `json:"pattern,omitempty"`
	Composition     map[string]int  `json:"composition,omitempty"` // canonical material -> percent, need not sum to 100
	QuantityValue   float64         `json:"quantity_value"`
	QuantityUnit    string          `json:"quantity_unit,omitempty"`
	PriceValue      float64         `json:"price_value"`
	PriceCurrency   string          `json:"price_currency,omitempty"`
	SourcePlatform  string          `json:"source_platform"`
	SourceURL       string          `json:"source_url"`
	SourceProductID string          `json:"source_product_id,omitempty"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	Available       bool            `json:"available"`
	ImageURL        string          `json:"image_url,omitempty"`
	RawData         json.RawMessage `json:"raw_data,omitempty"` // original payload, kept for reprocessing
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewTextile validates the input and returns a constructed Textile.
// Validation failure returns an error immediately - no partially-valid
// Textile is ever produced.
func NewTextile(in NewTextileInput) (*Textile, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("textile name is required")
	}
	if in.PriceValue < 0 {
		return nil, fmt.Errorf("textile price must not be negative, got %v", in.PriceValue)
	}
	if in.QuantityValue <= 0 {
		return nil, fmt.Errorf("textile quantity must be positive, got %v", in.QuantityValue)
	}
	if err := validateSourceURL(in.SourceURL); err != nil {
		return nil, err
	}

	return &Textile{
		ID:              uuid.New(),
		Name:            in.Name,
		Description:     in.Description,
		MaterialType:    in.MaterialType,
		Color:           in.Color,
		Pattern:         in.Pattern,
		Composition:     in.Composition,
		QuantityValue:   in.QuantityValue,
		QuantityUnit:    in.QuantityUnit,
		PriceValue:      in.PriceValue,
		PriceCurrency:   in.PriceCurrency,
		SourcePlatform:  in.SourcePlatform,
		SourceURL:       in.SourceURL,
		SourceProductID: in.SourceProductID,
		SupplierName:    in.SupplierName,
		Available:       in.Available,
		ImageURL:        in.ImageURL,
		RawData:         in.RawData,
	}, nil
}

func validateSourceURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("textile source URL %q is not a valid URL: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("textile source URL %q must be an absolute http(s) URL", raw)
	}
	return nil
}

// IsAvailable reports whether the source listing is purchasable.
func (t *Textile) IsAvailable() bool {
	return t.Available
}

// HasImage reports whether the record carries a product image.
func (t *Textile) HasImage() bool {
	return t.ImageURL != ""
}

// IsNormalized reports whether dictionary normalization produced a real
// material for this record.
func (t *Textile) IsNormalized() bool {
	return t.MaterialType != nil && *t.MaterialType != MaterialUnknown
}
