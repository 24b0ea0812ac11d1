//go:build integration

package repositories

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/texloop/textile-engine/pkg/models"
	"github.com/texloop/textile-engine/pkg/testhelpers"
)

// textileTestContext holds test dependencies for textile repository tests.
type textileTestContext struct {
	t    *testing.T
	db   *testhelpers.TestDB
	repo TextileRepository
}

func setupTextileTest(t *testing.T) *textileTestContext {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	return &textileTestContext{
		t:    t,
		db:   tdb,
		repo: NewTextileRepository(tdb.DB),
	}
}

// countTextiles returns the number of rows currently in the textiles table.
func (tc *textileTestContext) countTextiles(ctx context.Context) int {
	tc.t.Helper()
	var count int
	if err := tc.db.DB.QueryRow(ctx, "SELECT COUNT(*) FROM textiles").Scan(&count); err != nil {
		tc.t.Fatalf("failed to count textiles: %v", err)
	}
	return count
}

func testTextile(t *testing.T, sourceURL string) *models.Textile {
	t.Helper()
	material := "cotton"
	color := "blue"
	textile, err := models.NewTextile(models.NewTextileInput{
		Name:            "Coupon coton épais, bleu",
		Description:     "Beau tissu 80% coton 20% polyester",
		MaterialType:    &material,
		Color:           &color,
		Composition:     map[string]int{"cotton": 80, "polyester": 20},
		QuantityValue:   450,
		QuantityUnit:    "g",
		PriceValue:      12.50,
		PriceCurrency:   "EUR",
		SourcePlatform:  "maison-tissus",
		SourceURL:       sourceURL,
		SourceProductID: "881",
		SupplierName:    "Maison Tissus",
		Available:       true,
		ImageURL:        "https://cdn.example.com/881.jpg",
		RawData:         json.RawMessage(`{"id": 881, "title": "Coupon coton épais, bleu"}`),
	})
	if err != nil {
		t.Fatalf("failed to build textile: %v", err)
	}
	return textile
}

func TestTextileRepository_Save_RoundTrip(t *testing.T) {
	tc := setupTextileTest(t)
	ctx := context.Background()

	sourceURL := "https://maison-tissus.example.com/products/coupon-coton-epais"
	textile := testTextile(t, sourceURL)

	if err := tc.repo.Save(ctx, textile); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if textile.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	retrieved, err := tc.repo.GetBySourceURL(ctx, sourceURL)
	if err != nil {
		t.Fatalf("GetBySourceURL failed: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected textile, got nil")
	}
	if retrieved.Name != "Coupon coton épais, bleu" {
		t.Errorf("expected name, got %q", retrieved.Name)
	}
	if retrieved.MaterialType == nil || *retrieved.MaterialType != "cotton" {
		t.Errorf("expected material 'cotton', got %v", retrieved.MaterialType)
	}
	if retrieved.Color == nil || *retrieved.Color != "blue" {
		t.Errorf("expected color 'blue', got %v", retrieved.Color)
	}
	if retrieved.Pattern != nil {
		t.Errorf("expected nil pattern, got %v", retrieved.Pattern)
	}
	if retrieved.Composition["cotton"] != 80 || retrieved.Composition["polyester"] != 20 {
		t.Errorf("expected composition round-trip, got %v", retrieved.Composition)
	}
	if retrieved.QuantityValue != 450 || retrieved.QuantityUnit != "g" {
		t.Errorf("expected 450 g, got %v %s", retrieved.QuantityValue, retrieved.QuantityUnit)
	}
	if !retrieved.Available {
		t.Error("expected available")
	}
	if len(retrieved.RawData) == 0 {
		t.Error("expected raw payload to be retained")
	}
}

func TestTextileRepository_Save_UpsertsBySourceURL(t *testing.T) {
	tc := setupTextileTest(t)
	ctx := context.Background()

	sourceURL := "https://maison-tissus.example.com/products/coupon-coton-epais"

	first := testTextile(t, sourceURL)
	if err := tc.repo.Save(ctx, first); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	// Re-scrape: new in-memory record, same listing, changed price and
	// availability.
	second := testTextile(t, sourceURL)
	second.PriceValue = 9.90
	second.Available = false

	if err := tc.repo.Save(ctx, second); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	if got := tc.countTextiles(ctx); got != 1 {
		t.Errorf("expected 1 row after re-scrape, got %d", got)
	}
	if second.ID != first.ID {
		t.Errorf("expected upsert to keep the original id %s, got %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("expected CreatedAt preserved across upserts, got %v then %v", first.CreatedAt, second.CreatedAt)
	}

	retrieved, err := tc.repo.GetBySourceURL(ctx, sourceURL)
	if err != nil {
		t.Fatalf("GetBySourceURL failed: %v", err)
	}
	if retrieved.PriceValue != 9.90 {
		t.Errorf("expected updated price 9.90, got %v", retrieved.PriceValue)
	}
	if retrieved.Available {
		t.Error("expected updated availability false")
	}
}

func TestTextileRepository_Save_DistinctSourceURLs(t *testing.T) {
	tc := setupTextileTest(t)
	ctx := context.Background()

	first := testTextile(t, "https://maison-tissus.example.com/products/one")
	second := testTextile(t, "https://maison-tissus.example.com/products/two")

	if err := tc.repo.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := tc.repo.Save(ctx, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if got := tc.countTextiles(ctx); got != 2 {
		t.Errorf("expected 2 rows for distinct listings, got %d", got)
	}
	if first.ID == second.ID {
		t.Error("expected distinct listings to keep distinct ids")
	}
}

func TestTextileRepository_GetBySourceURL_NotFound(t *testing.T) {
	tc := setupTextileTest(t)

	retrieved, err := tc.repo.GetBySourceURL(context.Background(), "https://nowhere.example.com/products/none")
	if err != nil {
		t.Fatalf("GetBySourceURL should not error for not found: %v", err)
	}
	if retrieved != nil {
		t.Errorf("expected nil for unknown listing, got %+v", retrieved)
	}
}
