package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/texloop/textile-engine/pkg/models"
	"github.com/texloop/textile-engine/pkg/repositories"
)

// UnknownTracker accumulates sightings of terms that failed normalization.
// Track returns nothing: a tracker failure is reported on the side channel
// (log) and never reaches the caller's normalization flow.
type UnknownTracker interface {
	Track(ctx context.Context, sighting models.UnknownSighting)
}

type unknownTracker struct {
	repo       repositories.UnknownTermRepository
	contextCap int
	logger     *zap.Logger
}

// NewUnknownTracker creates a tracker that dedups sightings on
// (term, category) in the store, keeping at most contextCap context
// snippets per term.
func NewUnknownTracker(repo repositories.UnknownTermRepository, contextCap int, logger *zap.Logger) UnknownTracker {
	if contextCap <= 0 {
		contextCap = 10
	}
	return &unknownTracker{
		repo:       repo,
		contextCap: contextCap,
		logger:     logger,
	}
}

var _ UnknownTracker = (*unknownTracker)(nil)

func (t *unknownTracker) Track(ctx context.Context, sighting models.UnknownSighting) {
	if sighting.Term == "" {
		return
	}

	if err := t.repo.LogOrIncrement(ctx, sighting, t.contextCap); err != nil {
		t.logger.Warn("Failed to record unknown term",
			zap.String("term", sighting.Term),
			zap.String("category", sighting.Category),
			zap.String("source_platform", sighting.SourcePlatform),
			zap.Error(err))
	}
}
