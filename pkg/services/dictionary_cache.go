package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/texloop/textile-engine/pkg/apperrors"
	"github.com/texloop/textile-engine/pkg/models"
	"github.com/texloop/textile-engine/pkg/repositories"
)

// DictionaryCache memoizes the full dictionary in memory, grouped by
// category, for the lifetime of the instance. The first Get loads
// everything from the store; Invalidate forces a reload on next access.
//
// Slice order within a category preserves the repository's stored order.
// Resolution is first-match-wins over that order, so callers must not
// re-sort the returned slice.
type DictionaryCache struct {
	repo   repositories.DictionaryRepository
	logger *zap.Logger

	mu         sync.RWMutex
	byCategory map[string][]*models.DictionaryMapping
	loaded     bool
}

// NewDictionaryCache creates a cache over the given repository. Each cache
// instance owns its own state; tests construct isolated instances instead
// of sharing process-wide memo.
func NewDictionaryCache(repo repositories.DictionaryRepository, logger *zap.Logger) *DictionaryCache {
	return &DictionaryCache{
		repo:   repo,
		logger: logger,
	}
}

// Get returns the mappings for a category, loading the full dictionary on
// first access. If the store is unreachable no cache is populated and the
// error propagates - callers must not proceed with an empty dictionary.
func (c *DictionaryCache) Get(ctx context.Context, category string) ([]*models.DictionaryMapping, error) {
	c.mu.RLock()
	if c.loaded {
		mappings := c.byCategory[category]
		c.mu.RUnlock()
		return mappings, nil
	}
	c.mu.RUnlock()

	if err := c.load(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byCategory[category], nil
}

// Invalidate clears memoized state, forcing a reload on next access.
// Called after dictionary writes so new curation takes effect.
func (c *DictionaryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byCategory = nil
	c.loaded = false
}

func (c *DictionaryCache) load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have loaded while we waited for the lock.
	if c.loaded {
		return nil
	}

	mappings, err := c.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDictionaryUnavailable, err)
	}

	byCategory := make(map[string][]*models.DictionaryMapping)
	for _, m := range mappings {
		byCategory[m.Category] = append(byCategory[m.Category], m)
	}

	c.byCategory = byCategory
	c.loaded = true

	c.logger.Info("Dictionary loaded",
		zap.Int("mappings", len(mappings)),
		zap.Int("categories", len(byCategory)))

	return nil
}
