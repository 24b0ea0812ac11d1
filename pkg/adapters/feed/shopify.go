package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/texloop/textile-engine/pkg/jsonutil"
	"github.com/texloop/textile-engine/pkg/models"
)

const defaultUserAgent = "textile-engine/1.0 (catalog sync)"

// ShopifyClient fetches a Shopify-shaped products.json feed for one
// configured source.
type ShopifyClient struct {
	cfg               SourceConfig
	httpClient        *http.Client
	extractor         *TermExtractor
	descriptionMaxLen int
	logger            *zap.Logger
}

// NewShopifyClient creates a client for one source. descriptionMaxLen
// bounds stripped descriptions (0 means unbounded).
func NewShopifyClient(cfg SourceConfig, descriptionMaxLen int, logger *zap.Logger) *ShopifyClient {
	return &ShopifyClient{
		cfg:               cfg,
		httpClient:        &http.Client{Timeout: 30 * time.Second},
		extractor:         NewTermExtractor(cfg.Locale),
		descriptionMaxLen: descriptionMaxLen,
		logger:            logger,
	}
}

var _ FeedClient = (*ShopifyClient)(nil)

func (c *ShopifyClient) Name() string {
	return c.cfg.Name
}

func (c *ShopifyClient) Locale() string {
	return c.cfg.Locale
}

// FetchProducts pulls one page of the feed. Any transport failure or
// non-2xx status aborts the call; retry policy belongs to the caller.
func (c *ShopifyClient) FetchProducts(ctx context.Context, limit int) ([]models.ProductData, error) {
	feedURL := c.feedURL(limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request for %s: %w", c.cfg.Name, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", c.cfg.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed %s returned status %d", c.cfg.Name, resp.StatusCode)
	}

	// Products are decoded to raw messages first so the original payload
	// survives into raw_data for reprocessing.
	var feedResp struct {
		Products []json.RawMessage `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&feedResp); err != nil {
		return nil, fmt.Errorf("failed to decode feed %s: %w", c.cfg.Name, err)
	}

	products := make([]models.ProductData, 0, len(feedResp.Products))
	for _, raw := range feedResp.Products {
		product, err := c.transform(raw)
		if err != nil {
			return nil, fmt.Errorf("malformed product in feed %s: %w", c.cfg.Name, err)
		}
		products = append(products, product)
	}

	c.logger.Debug("Fetched feed page",
		zap.String("source", c.cfg.Name),
		zap.Int("products", len(products)))

	return products, nil
}

func (c *ShopifyClient) feedURL(limit int) string {
	path := "/products.json"
	if c.cfg.Collection != "" {
		path = "/collections/" + c.cfg.Collection + "/products.json"
	}
	return c.cfg.BaseURL + path + "?" + url.Values{
		"limit": []string{strconv.Itoa(limit)},
	}.Encode()
}

type shopifyProduct struct {
	ID        json.Number      `json:"id"`
	Title     string           `json:"title"`
	Handle    string           `json:"handle"`
	BodyHTML  string           `json:"body_html"`
	Vendor    string           `json:"vendor"`
	Tags      json.RawMessage  `json:"tags"` // string or array; normalized at this boundary
	Available *bool            `json:"available"`
	Variants  []shopifyVariant `json:"variants"`
	Images    []shopifyImage   `json:"images"`
}

type shopifyVariant struct {
	Price     string  `json:"price"`
	Available *bool   `json:"available"`
	Grams     float64 `json:"grams"`
}

type shopifyImage struct {
	Src string `json:"src"`
}

// transform is the pure per-product step: normalize the duck-typed payload
// into ProductData and run smart-parse.
func (c *ShopifyClient) transform(raw json.RawMessage) (models.ProductData, error) {
	var sp shopifyProduct
	if err := json.Unmarshal(raw, &sp); err != nil {
		return models.ProductData{}, err
	}

	// Feeds often omit vendor; the registry's supplier fills the gap.
	vendor := sp.Vendor
	if vendor == "" {
		vendor = c.cfg.Supplier
	}

	data := models.ProductData{
		ID:          sp.ID.String(),
		Title:       sp.Title,
		Description: truncate(stripHTML(sp.BodyHTML), c.descriptionMaxLen),
		Tags:        jsonutil.FlexibleStringList(sp.Tags),
		Currency:    c.cfg.Currency,
		Vendor:      vendor,
		ProductURL:  c.cfg.BaseURL + "/products/" + sp.Handle,
		Raw:         raw,
	}

	if len(sp.Variants) > 0 {
		v := sp.Variants[0]
		if price, err := strconv.ParseFloat(v.Price, 64); err == nil {
			data.PriceValue = price
		}
		if v.Grams > 0 {
			data.QuantityValue = v.Grams
			data.QuantityUnit = "g"
		}
	}
	if data.QuantityValue == 0 {
		data.QuantityValue = 1
		data.QuantityUnit = "listing"
	}

	data.Available = resolveAvailability(sp)

	if len(sp.Images) > 0 {
		data.ImageURL = sp.Images[0].Src
	}

	data.Terms = c.extractor.Extract(data)

	return data, nil
}

// resolveAvailability prefers the product-level flag when the feed carries
// one, otherwise any purchasable variant counts.
func resolveAvailability(sp shopifyProduct) bool {
	if sp.Available != nil {
		return *sp.Available
	}
	for _, v := range sp.Variants {
		if v.Available != nil && *v.Available {
			return true
		}
	}
	return false
}
