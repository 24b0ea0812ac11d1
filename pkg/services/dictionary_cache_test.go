package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/texloop/textile-engine/pkg/apperrors"
	"github.com/texloop/textile-engine/pkg/models"
)

// mockDictionaryRepo implements repositories.DictionaryRepository for testing.
type mockDictionaryRepo struct {
	mappings     []*models.DictionaryMapping
	listErr      error
	listCalls    int
	usageByID    map[uuid.UUID]int
	incrementErr error
	createdTerms []*models.DictionaryMapping
	createErr    error
}

func (m *mockDictionaryRepo) ListAll(_ context.Context) ([]*models.DictionaryMapping, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.mappings, nil
}

func (m *mockDictionaryRepo) Create(_ context.Context, mapping *models.DictionaryMapping) error {
	if m.createErr != nil {
		return m.createErr
	}
	mapping.ID = uuid.New()
	m.createdTerms = append(m.createdTerms, mapping)
	m.mappings = append(m.mappings, mapping)
	return nil
}

func (m *mockDictionaryRepo) IncrementUsage(_ context.Context, mappingID uuid.UUID) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	if m.usageByID == nil {
		m.usageByID = make(map[uuid.UUID]int)
	}
	m.usageByID[mappingID]++
	return nil
}

func mapping(category, locale, term, canonical string) *models.DictionaryMapping {
	return &models.DictionaryMapping{
		ID:           uuid.New(),
		Category:     category,
		SourceLocale: locale,
		SourceTerm:   term,
		Translations: map[string]string{models.TargetLocaleEN: canonical},
		Confidence:   0.9,
	}
}

func TestDictionaryCache_LoadsOnce(t *testing.T) {
	repo := &mockDictionaryRepo{mappings: []*models.DictionaryMapping{
		mapping(models.CategoryMaterial, "fr", "coton", "cotton"),
		mapping(models.CategoryColor, "fr", "bleu", "blue"),
	}}
	cache := NewDictionaryCache(repo, zap.NewNop())
	ctx := context.Background()

	materials, err := cache.Get(ctx, models.CategoryMaterial)
	require.NoError(t, err)
	require.Len(t, materials, 1)

	colors, err := cache.Get(ctx, models.CategoryColor)
	require.NoError(t, err)
	require.Len(t, colors, 1)

	assert.Equal(t, 1, repo.listCalls, "full dictionary loads on first access only")
}

func TestDictionaryCache_PreservesStoredOrder(t *testing.T) {
	repo := &mockDictionaryRepo{mappings: []*models.DictionaryMapping{
		mapping(models.CategoryMaterial, "fr", "soie", "silk"),
		mapping(models.CategoryMaterial, "fr", "soie sauvage", "wild silk"),
		mapping(models.CategoryMaterial, "fr", "coton", "cotton"),
	}}
	cache := NewDictionaryCache(repo, zap.NewNop())

	materials, err := cache.Get(context.Background(), models.CategoryMaterial)
	require.NoError(t, err)
	require.Len(t, materials, 3)
	assert.Equal(t, "soie", materials[0].SourceTerm)
	assert.Equal(t, "soie sauvage", materials[1].SourceTerm)
	assert.Equal(t, "coton", materials[2].SourceTerm)
}

func TestDictionaryCache_InvalidateForcesReload(t *testing.T) {
	repo := &mockDictionaryRepo{mappings: []*models.DictionaryMapping{
		mapping(models.CategoryMaterial, "fr", "coton", "cotton"),
	}}
	cache := NewDictionaryCache(repo, zap.NewNop())
	ctx := context.Background()

	_, err := cache.Get(ctx, models.CategoryMaterial)
	require.NoError(t, err)

	repo.mappings = append(repo.mappings, mapping(models.CategoryMaterial, "fr", "lin", "linen"))
	cache.Invalidate()

	materials, err := cache.Get(ctx, models.CategoryMaterial)
	require.NoError(t, err)
	assert.Len(t, materials, 2)
	assert.Equal(t, 2, repo.listCalls)
}

func TestDictionaryCache_LoadFailureIsLoud(t *testing.T) {
	repo := &mockDictionaryRepo{listErr: fmt.Errorf("connection refused")}
	cache := NewDictionaryCache(repo, zap.NewNop())
	ctx := context.Background()

	_, err := cache.Get(ctx, models.CategoryMaterial)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDictionaryUnavailable)

	// No cache was populated: the next call hits the store again.
	repo.listErr = nil
	repo.mappings = []*models.DictionaryMapping{
		mapping(models.CategoryMaterial, "fr", "coton", "cotton"),
	}
	materials, err := cache.Get(ctx, models.CategoryMaterial)
	require.NoError(t, err)
	assert.Len(t, materials, 1)
}

func TestDictionaryCache_UnknownCategoryIsEmpty(t *testing.T) {
	repo := &mockDictionaryRepo{}
	cache := NewDictionaryCache(repo, zap.NewNop())

	mappings, err := cache.Get(context.Background(), "weave")
	require.NoError(t, err)
	assert.Empty(t, mappings)
}
