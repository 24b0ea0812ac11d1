package feed

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/texloop/textile-engine/pkg/models"
)

// Static confidence scores per extraction method. Tag-based extraction is
// more reliable than fishing a fragment out of the title.
const (
	confidenceTagMatch      = 0.9
	confidenceTitleFragment = 0.6
	confidencePatternMatch  = 0.8
)

// titleFragmentMaxLen bounds the title-fallback color candidate so a
// missing separator never captures a whole sentence.
const titleFragmentMaxLen = 25

// Vocabulary is the per-locale keyword set the smart-parse step matches
// tags against. These are raw catalog-language words; canonicalization
// happens later in the dictionary.
type Vocabulary struct {
	Materials []string
	Colors    []string
	Patterns  []string
}

// Built-in vocabularies for the two catalog languages currently scraped.
var vocabularies = map[string]Vocabulary{
	"fr": {
		Materials: []string{
			"coton", "laine", "soie", "lin", "polyester", "viscose",
			"élasthanne", "acrylique", "cachemire", "velours", "cuir",
			"nylon", "mohair", "chanvre", "jersey", "tweed", "dentelle",
		},
		Colors: []string{
			"noir", "blanc", "rouge", "bleu", "vert", "jaune", "rose",
			"violet", "orange", "gris", "marron", "beige", "écru", "doré",
			"argenté", "bordeaux", "marine", "kaki", "turquoise",
		},
		Patterns: []string{
			"rayé", "rayures", "fleuri", "fleurs", "pois", "carreaux",
			"uni", "imprimé", "jacquard", "chevrons", "tartan", "paisley",
		},
	},
	"en": {
		Materials: []string{
			"cotton", "wool", "silk", "linen", "polyester", "viscose",
			"elastane", "spandex", "acrylic", "cashmere", "velvet",
			"leather", "nylon", "mohair", "hemp", "jersey", "tweed", "lace",
		},
		Colors: []string{
			"black", "white", "red", "blue", "green", "yellow", "pink",
			"purple", "orange", "grey", "gray", "brown", "beige", "cream",
			"gold", "silver", "burgundy", "navy", "khaki", "turquoise",
		},
		Patterns: []string{
			"striped", "stripes", "floral", "flowers", "polka dot", "dots",
			"check", "checked", "plaid", "solid", "print", "printed",
			"jacquard", "herringbone", "tartan", "paisley",
		},
	},
}

// TermExtractor runs the smart-parse step for one source locale.
type TermExtractor struct {
	locale          string
	vocab           Vocabulary
	materialPattern *regexp.Regexp
}

// NewTermExtractor builds an extractor for the given locale, falling back
// to the English vocabulary for locales without one of their own.
func NewTermExtractor(locale string) *TermExtractor {
	vocab, ok := vocabularies[locale]
	if !ok {
		vocab = vocabularies["en"]
	}

	// Optional leading percentage, then a known material word, e.g.
	// "80% coton" or plain "coton".
	pattern := fmt.Sprintf(`(?i)(?:\d{1,3}\s*%%\s*)?(%s)`,
		strings.Join(vocab.Materials, "|"))

	return &TermExtractor{
		locale:          locale,
		vocab:           vocab,
		materialPattern: regexp.MustCompile(pattern),
	}
}

// Extract derives ordered candidate term lists from one product's tags and
// title. Lists are deduplicated; order of first appearance is preserved
// and significant downstream (first successfully normalized term is used).
func (e *TermExtractor) Extract(p models.ProductData) models.ExtractedTerms {
	terms := models.ExtractedTerms{
		SourceLocale: e.locale,
		Confidence: models.CategoryConfidence{
			Materials: confidenceTagMatch,
			Colors:    confidenceTagMatch,
			Patterns:  confidencePatternMatch,
		},
	}

	terms.Materials = e.extractMaterials(p.Tags)
	terms.Patterns = e.extractKeywords(p.Tags, e.vocab.Patterns)

	terms.Colors = e.extractKeywords(p.Tags, e.vocab.Colors)
	if len(terms.Colors) == 0 {
		if fragment := titleColorFragment(p.Title); fragment != "" {
			terms.Colors = []string{fragment}
			terms.Confidence.Colors = confidenceTitleFragment
		}
	}

	return terms
}

// extractMaterials scans tags for known material words, with or without a
// leading percentage.
func (e *TermExtractor) extractMaterials(tags []string) []string {
	var materials []string
	for _, tag := range tags {
		matches := e.materialPattern.FindAllStringSubmatch(tag, -1)
		for _, match := range matches {
			materials = append(materials, strings.ToLower(match[1]))
		}
	}
	return dedupe(materials)
}

// extractKeywords returns the vocabulary words present in any tag, in tag
// order.
func (e *TermExtractor) extractKeywords(tags []string, vocab []string) []string {
	var found []string
	for _, tag := range tags {
		lowered := strings.ToLower(tag)
		for _, word := range vocab {
			if strings.Contains(lowered, word) {
				found = append(found, word)
			}
		}
	}
	return dedupe(found)
}

// titleColorFragment applies the title heuristic: many listings name the
// color after the last comma or dash ("Vintage silk scarf, navy"). The
// fragment is length-bounded to avoid capturing a whole sentence.
func titleColorFragment(title string) string {
	idx := strings.LastIndexAny(title, ",-")
	if idx < 0 || idx == len(title)-1 {
		return ""
	}

	fragment := strings.ToLower(strings.TrimSpace(title[idx+1:]))
	if fragment == "" || len(fragment) > titleFragmentMaxLen {
		return ""
	}
	return fragment
}

func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	var out []string
	for _, term := range terms {
		if !seen[term] {
			seen[term] = true
			out = append(out, term)
		}
	}
	return out
}
