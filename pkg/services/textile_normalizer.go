package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/texloop/textile-engine/pkg/models"
)

// NormalizeTextileInput is one product's worth of extracted candidates
// plus the context a curator needs when a candidate misses.
type NormalizeTextileInput struct {
	Terms          models.ExtractedTerms
	ProductText    string // full title + description for unknown-term context
	SourcePlatform string
	ProductID      string
	ImageURL       string
	ProductURL     string
}

// NormalizeTextileOutput holds the per-category canonical values. A nil
// value means no candidate resolved (or none existed) for that category.
type NormalizeTextileOutput struct {
	Material *string
	Color    *string
	Pattern  *string
	Unknowns []string // raw terms that missed, in encounter order
}

// TextileNormalizer resolves a product's candidate term lists to canonical
// attribute values.
type TextileNormalizer interface {
	NormalizeTextile(ctx context.Context, in NormalizeTextileInput) (NormalizeTextileOutput, error)
}

type textileNormalizer struct {
	normalizer Normalizer
	tracker    UnknownTracker
	logger     *zap.Logger
}

// NewTextileNormalizer creates the per-product orchestrator. Categories
// resolve in fixed order (material, color, pattern) and within a category
// the first candidate that resolves wins - later candidates are never
// consulted, favoring precision over recall.
func NewTextileNormalizer(normalizer Normalizer, tracker UnknownTracker, logger *zap.Logger) TextileNormalizer {
	return &textileNormalizer{
		normalizer: normalizer,
		tracker:    tracker,
		logger:     logger,
	}
}

var _ TextileNormalizer = (*textileNormalizer)(nil)

func (t *textileNormalizer) NormalizeTextile(ctx context.Context, in NormalizeTextileInput) (NormalizeTextileOutput, error) {
	var out NormalizeTextileOutput

	categories := []struct {
		name   string
		target **string
	}{
		{models.CategoryMaterial, &out.Material},
		{models.CategoryColor, &out.Color},
		{models.CategoryPattern, &out.Pattern},
	}

	for _, cat := range categories {
		candidates := in.Terms.CandidatesFor(cat.name)
		// Empty candidate list: no attempt, no unknown logged.
		for _, candidate := range candidates {
			result, err := t.normalizer.Normalize(ctx, candidate, cat.name, in.Terms.SourceLocale)
			if err != nil {
				return NormalizeTextileOutput{}, err
			}

			if result.Found {
				value := result.Value
				*cat.target = &value
				break
			}

			if result.Unknown != "" {
				out.Unknowns = append(out.Unknowns, result.Unknown)
				t.tracker.Track(ctx, models.UnknownSighting{
					Term:           result.Unknown,
					Category:       cat.name,
					Context:        in.ProductText,
					SourcePlatform: in.SourcePlatform,
					ProductID:      in.ProductID,
					ImageURL:       in.ImageURL,
					ProductURL:     in.ProductURL,
				})
			}
		}
	}

	return out, nil
}
