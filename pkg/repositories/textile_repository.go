package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/texloop/textile-engine/pkg/database"
	"github.com/texloop/textile-engine/pkg/models"
)

// TextileRepository provides data access for normalized product records.
type TextileRepository interface {
	// Save upserts a textile keyed on source_url: re-scraping the same
	// listing updates the existing row rather than inserting a second one.
	Save(ctx context.Context, textile *models.Textile) error
	// GetBySourceURL returns the textile for a source listing, or nil when
	// none exists.
	GetBySourceURL(ctx context.Context, sourceURL string) (*models.Textile, error)
}

type textileRepository struct {
	db *database.DB
}

// NewTextileRepository creates a new TextileRepository.
func NewTextileRepository(db *database.DB) TextileRepository {
	return &textileRepository{db: db}
}

var _ TextileRepository = (*textileRepository)(nil)

func (r *textileRepository) Save(ctx context.Context, textile *models.Textile) error {
	now := time.Now()

	composition, err := jsonbOrNull(textile.Composition)
	if err != nil {
		return fmt.Errorf("failed to marshal composition: %w", err)
	}

	query := `
		INSERT INTO textiles (
			id, name, description, material_type, color, pattern, composition,
			quantity_value, quantity_unit, price_value, price_currency,
			source_platform, source_url, source_product_id, supplier_name,
			available, image_url, raw_data, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19)
		ON CONFLICT (source_url) DO UPDATE
		SET name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    material_type = EXCLUDED.material_type,
		    color = EXCLUDED.color,
		    pattern = EXCLUDED.pattern,
		    composition = EXCLUDED.composition,
		    quantity_value = EXCLUDED.quantity_value,
		    quantity_unit = EXCLUDED.quantity_unit,
		    price_value = EXCLUDED.price_value,
		    price_currency = EXCLUDED.price_currency,
		    source_platform = EXCLUDED.source_platform,
		    source_product_id = EXCLUDED.source_product_id,
		    supplier_name = EXCLUDED.supplier_name,
		    available = EXCLUDED.available,
		    image_url = EXCLUDED.image_url,
		    raw_data = EXCLUDED.raw_data,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		textile.ID,
		textile.Name,
		nullString(textile.Description),
		textile.MaterialType,
		textile.Color,
		textile.Pattern,
		composition,
		textile.QuantityValue,
		nullString(textile.QuantityUnit),
		textile.PriceValue,
		nullString(textile.PriceCurrency),
		textile.SourcePlatform,
		textile.SourceURL,
		nullString(textile.SourceProductID),
		nullString(textile.SupplierName),
		textile.Available,
		nullString(textile.ImageURL),
		rawOrNull(textile.RawData),
		now,
	).Scan(&textile.ID, &textile.CreatedAt, &textile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save textile: %w", err)
	}

	return nil
}

func (r *textileRepository) GetBySourceURL(ctx context.Context, sourceURL string) (*models.Textile, error) {
	query := `
		SELECT id, name, description, material_type, color, pattern, composition,
		       quantity_value, quantity_unit, price_value, price_currency,
		       source_platform, source_url, source_product_id, supplier_name,
		       available, image_url, raw_data, created_at, updated_at
		FROM textiles
		WHERE source_url = $1`

	row := r.db.QueryRow(ctx, query, sourceURL)
	textile, err := scanTextile(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No record for this listing
		}
		return nil, err
	}

	return textile, nil
}

func scanTextile(row pgx.Row) (*models.Textile, error) {
	var t models.Textile
	var description, quantityUnit, priceCurrency, sourceProductID, supplierName, imageURL *string
	var composition, rawData []byte

	err := row.Scan(
		&t.ID,
		&t.Name,
		&description,
		&t.MaterialType,
		&t.Color,
		&t.Pattern,
		&composition,
		&t.QuantityValue,
		&quantityUnit,
		&t.PriceValue,
		&priceCurrency,
		&t.SourcePlatform,
		&t.SourceURL,
		&sourceProductID,
		&supplierName,
		&t.Available,
		&imageURL,
		&rawData,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan textile: %w", err)
	}

	if description != nil {
		t.Description = *description
	}
	if quantityUnit != nil {
		t.QuantityUnit = *quantityUnit
	}
	if priceCurrency != nil {
		t.PriceCurrency = *priceCurrency
	}
	if sourceProductID != nil {
		t.SourceProductID = *sourceProductID
	}
	if supplierName != nil {
		t.SupplierName = *supplierName
	}
	if imageURL != nil {
		t.ImageURL = *imageURL
	}

	if len(composition) > 0 && string(composition) != "null" {
		if err := json.Unmarshal(composition, &t.Composition); err != nil {
			return nil, fmt.Errorf("failed to unmarshal composition: %w", err)
		}
	}
	if len(rawData) > 0 {
		t.RawData = rawData
	}

	return &t, nil
}

// nullString returns nil if the string is empty, otherwise returns the string pointer.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// jsonbOrNull marshals a map for JSONB insertion, storing NULL for empty maps.
func jsonbOrNull(m map[string]int) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// rawOrNull passes raw JSON through, storing NULL when there is none.
func rawOrNull(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
