package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/texloop/textile-engine/pkg/models"
)

func TestCurationService_Promote(t *testing.T) {
	dictRepo := &mockDictionaryRepo{}
	unknownRepo := newMockUnknownRepo()
	cache := NewDictionaryCache(dictRepo, zap.NewNop())
	svc := NewCurationService(dictRepo, unknownRepo, cache, zap.NewNop())
	ctx := context.Background()

	// Warm the cache so we can observe the invalidation.
	_, err := cache.Get(ctx, models.CategoryMaterial)
	require.NoError(t, err)

	tracker := NewUnknownTracker(unknownRepo, 10, zap.NewNop())
	tracker.Track(ctx, models.UnknownSighting{
		Term:           "Ramie",
		Category:       models.CategoryMaterial,
		SourcePlatform: "maison-tissus",
	})

	pending, err := svc.PendingTerms(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	mapping, err := svc.Promote(ctx, PromoteInput{
		TermID:       pending[0].ID,
		SourceLocale: "fr",
		Canonical:    "ramie",
		Confidence:   0.8,
		ValidatedBy:  "curator@texloop",
	})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryMaterial, mapping.Category)
	assert.Equal(t, "ramie", mapping.SourceTerm, "source term is lowercased")
	assert.Equal(t, "ramie", mapping.Canonical())
	assert.NotNil(t, mapping.ValidatedAt)

	// Term left the triage queue.
	pending, err = svc.PendingTerms(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Cache was invalidated: next lookup reloads and sees the new rule.
	mappings, err := cache.Get(ctx, models.CategoryMaterial)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "ramie", mappings[0].SourceTerm)
	assert.Equal(t, 2, dictRepo.listCalls)
}

func TestCurationService_PromoteRequiresCanonical(t *testing.T) {
	svc := NewCurationService(&mockDictionaryRepo{}, newMockUnknownRepo(), NewDictionaryCache(&mockDictionaryRepo{}, zap.NewNop()), zap.NewNop())

	_, err := svc.Promote(context.Background(), PromoteInput{TermID: uuid.New()})
	require.Error(t, err)
}

func TestCurationService_PromoteUnknownTermID(t *testing.T) {
	svc := NewCurationService(&mockDictionaryRepo{}, newMockUnknownRepo(), NewDictionaryCache(&mockDictionaryRepo{}, zap.NewNop()), zap.NewNop())

	_, err := svc.Promote(context.Background(), PromoteInput{
		TermID:       uuid.New(),
		SourceLocale: "fr",
		Canonical:    "ramie",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not pending")
}
