package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/texloop/textile-engine/pkg/models"
	"github.com/texloop/textile-engine/pkg/repositories"
)

// CurationService promotes triaged unknown terms into dictionary mappings.
type CurationService interface {
	// PendingTerms returns the triage queue, most frequent terms first.
	PendingTerms(ctx context.Context) ([]*models.UnknownTerm, error)
	// Promote creates an approved mapping from an unknown term and flips
	// its status to added_to_dict. The dictionary cache is invalidated so
	// the next normalization sees the new rule.
	Promote(ctx context.Context, in PromoteInput) (*models.DictionaryMapping, error)
}

// PromoteInput carries a curator's decision for one unknown term.
type PromoteInput struct {
	TermID       uuid.UUID
	SourceLocale string
	Canonical    string // English value the term maps to
	Confidence   float64
	ValidatedBy  string
}

type curationService struct {
	dictionaryRepo repositories.DictionaryRepository
	unknownRepo    repositories.UnknownTermRepository
	cache          *DictionaryCache
	logger         *zap.Logger
}

// NewCurationService creates a CurationService.
func NewCurationService(
	dictionaryRepo repositories.DictionaryRepository,
	unknownRepo repositories.UnknownTermRepository,
	cache *DictionaryCache,
	logger *zap.Logger,
) CurationService {
	return &curationService{
		dictionaryRepo: dictionaryRepo,
		unknownRepo:    unknownRepo,
		cache:          cache,
		logger:         logger,
	}
}

var _ CurationService = (*curationService)(nil)

func (s *curationService) PendingTerms(ctx context.Context) ([]*models.UnknownTerm, error) {
	return s.unknownRepo.ListPending(ctx)
}

func (s *curationService) Promote(ctx context.Context, in PromoteInput) (*models.DictionaryMapping, error) {
	if strings.TrimSpace(in.Canonical) == "" {
		return nil, fmt.Errorf("canonical value is required")
	}

	pending, err := s.unknownRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load triage queue: %w", err)
	}

	var term *models.UnknownTerm
	for _, t := range pending {
		if t.ID == in.TermID {
			term = t
			break
		}
	}
	if term == nil {
		return nil, fmt.Errorf("unknown term %s is not pending", in.TermID)
	}

	now := time.Now()
	validatedBy := in.ValidatedBy
	mapping := &models.DictionaryMapping{
		Category:     term.Category,
		SourceLocale: in.SourceLocale,
		SourceTerm:   strings.ToLower(strings.TrimSpace(term.Term)),
		Translations: map[string]string{models.TargetLocaleEN: in.Canonical},
		Confidence:   in.Confidence,
		ValidatedAt:  &now,
		ValidatedBy:  &validatedBy,
	}

	if err := s.dictionaryRepo.Create(ctx, mapping); err != nil {
		return nil, fmt.Errorf("failed to create dictionary mapping: %w", err)
	}

	if err := s.unknownRepo.MarkPromoted(ctx, term.ID); err != nil {
		return nil, fmt.Errorf("mapping created but term not marked promoted: %w", err)
	}

	s.cache.Invalidate()

	s.logger.Info("Unknown term promoted to dictionary",
		zap.String("term", term.Term),
		zap.String("category", term.Category),
		zap.String("canonical", in.Canonical))

	return mapping, nil
}
