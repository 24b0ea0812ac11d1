package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/texloop/textile-engine/pkg/models"
	"github.com/texloop/textile-engine/pkg/repositories"
)

// NormalizationResult is the outcome of one dictionary lookup. A miss is
// not an error: Found is false and Unknown echoes the original term for
// the triage queue.
type NormalizationResult struct {
	Found   bool
	Value   string // canonical English value when Found
	Unknown string // original term when not Found
}

// UsageSink receives mapping-resolution events so usage counters can be
// curated against real traffic. Implementations are best-effort: the
// method returns nothing, so a sink failure can never alter the result of
// the normalization that triggered it.
type UsageSink interface {
	RecordUsage(mappingID uuid.UUID)
}

// Normalizer resolves extracted terms to canonical English values against
// the locale-partitioned dictionary.
type Normalizer interface {
	// Normalize lowercases/trims text and resolves it within the given
	// category and source-locale partition: one exact pass over the stored
	// order, then one substring pass. First match wins in both passes.
	Normalize(ctx context.Context, text, category, sourceLocale string) (NormalizationResult, error)
	NormalizeMaterial(ctx context.Context, text, sourceLocale string) (NormalizationResult, error)
	NormalizeColor(ctx context.Context, text, sourceLocale string) (NormalizationResult, error)
	NormalizePattern(ctx context.Context, text, sourceLocale string) (NormalizationResult, error)
}

type normalizer struct {
	cache  *DictionaryCache
	usage  UsageSink
	logger *zap.Logger
}

// NewNormalizer creates a Normalizer over a dictionary cache. The usage
// sink may be nil, in which case resolutions are not counted.
func NewNormalizer(cache *DictionaryCache, usage UsageSink, logger *zap.Logger) Normalizer {
	return &normalizer{
		cache:  cache,
		usage:  usage,
		logger: logger,
	}
}

var _ Normalizer = (*normalizer)(nil)

func (n *normalizer) Normalize(ctx context.Context, text, category, sourceLocale string) (NormalizationResult, error) {
	term := strings.ToLower(strings.TrimSpace(text))
	if term == "" {
		return NormalizationResult{Unknown: term}, nil
	}

	mappings, err := n.cache.Get(ctx, category)
	if err != nil {
		return NormalizationResult{}, err
	}

	// Exact pass first: a short partial entry must never shadow a full
	// multi-word match.
	for _, m := range mappings {
		if m.SourceLocale != sourceLocale {
			continue
		}
		if m.SourceTerm == term {
			return n.hit(m), nil
		}
	}

	// Partial pass: first stored mapping whose term is contained in the
	// input wins.
	for _, m := range mappings {
		if m.SourceLocale != sourceLocale {
			continue
		}
		if m.SourceTerm != "" && strings.Contains(term, m.SourceTerm) {
			return n.hit(m), nil
		}
	}

	return NormalizationResult{Unknown: term}, nil
}

func (n *normalizer) hit(m *models.DictionaryMapping) NormalizationResult {
	if n.usage != nil {
		n.usage.RecordUsage(m.ID)
	}
	return NormalizationResult{Found: true, Value: m.Canonical()}
}

func (n *normalizer) NormalizeMaterial(ctx context.Context, text, sourceLocale string) (NormalizationResult, error) {
	return n.Normalize(ctx, text, models.CategoryMaterial, sourceLocale)
}

func (n *normalizer) NormalizeColor(ctx context.Context, text, sourceLocale string) (NormalizationResult, error) {
	return n.Normalize(ctx, text, models.CategoryColor, sourceLocale)
}

func (n *normalizer) NormalizePattern(ctx context.Context, text, sourceLocale string) (NormalizationResult, error) {
	return n.Normalize(ctx, text, models.CategoryPattern, sourceLocale)
}

// repositoryUsageSink persists usage increments through the dictionary
// repository in a detached goroutine. Failures are logged and dropped.
type repositoryUsageSink struct {
	repo   repositories.DictionaryRepository
	logger *zap.Logger
}

// NewRepositoryUsageSink returns a UsageSink backed by the dictionary
// store. Increments run on a background goroutine with their own context
// so a slow or failing store never blocks normalization.
func NewRepositoryUsageSink(repo repositories.DictionaryRepository, logger *zap.Logger) UsageSink {
	return &repositoryUsageSink{repo: repo, logger: logger}
}

func (s *repositoryUsageSink) RecordUsage(mappingID uuid.UUID) {
	go func() {
		if err := s.repo.IncrementUsage(context.Background(), mappingID); err != nil {
			s.logger.Warn("Failed to persist usage increment",
				zap.String("mapping_id", mappingID.String()),
				zap.Error(err))
		}
	}()
}
