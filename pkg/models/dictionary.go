package models

import (
	"time"

	"github.com/google/uuid"
)

// Term categories the dictionary partitions on. The set is extensible;
// these three are what the extractors currently produce.
const (
	CategoryMaterial = "material"
	CategoryColor    = "color"
	CategoryPattern  = "pattern"
)

// TargetLocaleEN is the canonical target locale. Every mapping carries at
// least an "en" translation.
const TargetLocaleEN = "en"

// DictionaryMapping is one approved translation rule:
// (category, source_locale, source_term) -> canonical values per target
// locale. Stored in dictionary_mappings table.
//
// Mappings are never deleted, only superseded; usage counts are the only
// field mutated after curation.
type DictionaryMapping struct {
	ID           uuid.UUID         `json:"id"`
	Category     string            `json:"category"`
	SourceLocale string            `json:"source_locale"`
	SourceTerm   string            `json:"source_term"` // lowercased, trimmed
	Translations map[string]string `json:"translations"`
	Confidence   float64           `json:"confidence"`
	UsageCount   int64             `json:"usage_count"`
	ValidatedAt  *time.Time        `json:"validated_at,omitempty"`
	ValidatedBy  *string           `json:"validated_by,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Canonical returns the English translation, the value every normalized
// attribute is stored as.
func (m *DictionaryMapping) Canonical() string {
	return m.Translations[TargetLocaleEN]
}
