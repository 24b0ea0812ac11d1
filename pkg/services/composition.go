package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// compositionPattern matches "<digits>%? <material phrase>" pairs, e.g.
// "80% Coton 20% Polyester" or "80 coton 20 polyester". The phrase runs
// until the next digit or separator.
var compositionPattern = regexp.MustCompile(`(\d{1,3})\s*%?\s*([^\d%,;/]+)`)

// CompositionParser turns free-text fiber compositions into a structured
// mapping from canonical material name to integer percentage.
type CompositionParser struct {
	normalizer Normalizer
}

// NewCompositionParser creates a parser that resolves material phrases
// through the same dictionary lookup the main normalization flow uses.
func NewCompositionParser(normalizer Normalizer) *CompositionParser {
	return &CompositionParser{normalizer: normalizer}
}

// Parse extracts percentage/material pairs from text. Each captured phrase
// is normalized against the material dictionary for the given source
// locale; pairs whose phrase does not resolve are dropped silently - they
// are not routed to the unknown-term queue. Percentages are not validated
// to sum to 100 and are not renormalized.
func (p *CompositionParser) Parse(ctx context.Context, text, sourceLocale string) (map[string]int, error) {
	matches := compositionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	composition := make(map[string]int)
	for _, match := range matches {
		percent, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		phrase := strings.TrimSpace(match[2])
		if phrase == "" {
			continue
		}

		result, err := p.normalizer.NormalizeMaterial(ctx, phrase, sourceLocale)
		if err != nil {
			return nil, err
		}
		if !result.Found {
			continue
		}

		composition[result.Value] = percent
	}

	if len(composition) == 0 {
		return nil, nil
	}
	return composition, nil
}
