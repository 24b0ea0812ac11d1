package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/texloop/textile-engine/pkg/adapters/feed"
	"github.com/texloop/textile-engine/pkg/models"
	"github.com/texloop/textile-engine/pkg/repositories"
)

// ProductError records one product that failed during a batch run.
type ProductError struct {
	ProductID string
	Message   string
}

// ScrapeSummary is the end-of-run report for one source.
type ScrapeSummary struct {
	Source       string
	TotalFetched int
	TotalSaved   int
	TotalErrors  int
	Errors       []ProductError
}

// ScrapeService runs the full pipeline for one source: fetch, extract,
// normalize, parse composition, persist.
type ScrapeService interface {
	// Run processes one feed page sequentially. A feed-level failure aborts
	// the batch; a per-product failure (validation, normalization,
	// persistence) is recorded and the loop continues - feed failures mean
	// the source is unreachable, product failures mean bad data.
	Run(ctx context.Context, client feed.FeedClient, limit int) (*ScrapeSummary, error)
}

type scrapeService struct {
	textileNormalizer TextileNormalizer
	composition       *CompositionParser
	textileRepo       repositories.TextileRepository
	logger            *zap.Logger
}

// NewScrapeService creates the batch orchestrator.
func NewScrapeService(
	textileNormalizer TextileNormalizer,
	composition *CompositionParser,
	textileRepo repositories.TextileRepository,
	logger *zap.Logger,
) ScrapeService {
	return &scrapeService{
		textileNormalizer: textileNormalizer,
		composition:       composition,
		textileRepo:       textileRepo,
		logger:            logger,
	}
}

var _ ScrapeService = (*scrapeService)(nil)

func (s *scrapeService) Run(ctx context.Context, client feed.FeedClient, limit int) (*ScrapeSummary, error) {
	products, err := client.FetchProducts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("scrape of %s aborted: %w", client.Name(), err)
	}

	summary := &ScrapeSummary{
		Source:       client.Name(),
		TotalFetched: len(products),
	}

	// Products are processed in feed order, one at a time. No fan-out:
	// this bounds load on the catalog API and the dictionary store.
	for _, product := range products {
		if err := s.processProduct(ctx, client, product); err != nil {
			summary.TotalErrors++
			summary.Errors = append(summary.Errors, ProductError{
				ProductID: product.ID,
				Message:   err.Error(),
			})
			s.logger.Warn("Product failed, continuing batch",
				zap.String("source", client.Name()),
				zap.String("product_id", product.ID),
				zap.Error(err))
			continue
		}
		summary.TotalSaved++
	}

	s.logger.Info("Scrape run complete",
		zap.String("source", summary.Source),
		zap.Int("fetched", summary.TotalFetched),
		zap.Int("saved", summary.TotalSaved),
		zap.Int("errors", summary.TotalErrors))

	return summary, nil
}

func (s *scrapeService) processProduct(ctx context.Context, client feed.FeedClient, product models.ProductData) error {
	productText := product.Title
	if product.Description != "" {
		productText += " " + product.Description
	}

	normalized, err := s.textileNormalizer.NormalizeTextile(ctx, NormalizeTextileInput{
		Terms:          product.Terms,
		ProductText:    productText,
		SourcePlatform: client.Name(),
		ProductID:      product.ID,
		ImageURL:       product.ImageURL,
		ProductURL:     product.ProductURL,
	})
	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}

	composition, err := s.composition.Parse(ctx, productText, client.Locale())
	if err != nil {
		return fmt.Errorf("composition parsing failed: %w", err)
	}

	textile, err := models.NewTextile(models.NewTextileInput{
		Name:            product.Title,
		Description:     product.Description,
		MaterialType:    normalized.Material,
		Color:           normalized.Color,
		Pattern:         normalized.Pattern,
		Composition:     composition,
		QuantityValue:   product.QuantityValue,
		QuantityUnit:    product.QuantityUnit,
		PriceValue:      product.PriceValue,
		PriceCurrency:   product.Currency,
		SourcePlatform:  client.Name(),
		SourceURL:       product.ProductURL,
		SourceProductID: product.ID,
		SupplierName:    product.Vendor,
		Available:       product.Available,
		ImageURL:        product.ImageURL,
		RawData:         product.Raw,
	})
	if err != nil {
		return err
	}

	if err := s.textileRepo.Save(ctx, textile); err != nil {
		return fmt.Errorf("failed to persist textile: %w", err)
	}

	return nil
}
