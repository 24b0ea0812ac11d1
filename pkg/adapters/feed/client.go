// Package feed contains per-source catalog adapters. Each adapter fetches
// a Shopify-shaped product feed, normalizes the payload at the boundary
// (tags always a slice, descriptions plain text and bounded) and runs the
// smart-parse step that extracts candidate material/color/pattern terms.
package feed

import (
	"context"

	"github.com/texloop/textile-engine/pkg/models"
)

// FeedClient is the capability set every catalog source implements.
type FeedClient interface {
	// Name identifies the source platform in persisted records and logs.
	Name() string
	// Locale is the fixed language of the source catalog; it selects the
	// dictionary partition during normalization.
	Locale() string
	// FetchProducts pulls up to limit products from the feed. A non-2xx
	// response is fatal for the call: no partial results are returned.
	FetchProducts(ctx context.Context, limit int) ([]models.ProductData, error)
}
