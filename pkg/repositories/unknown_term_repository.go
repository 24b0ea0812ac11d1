package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/texloop/textile-engine/pkg/apperrors"
	"github.com/texloop/textile-engine/pkg/database"
	"github.com/texloop/textile-engine/pkg/models"
)

// UnknownTermRepository provides data access for the unknown-term triage
// queue.
type UnknownTermRepository interface {
	// LogOrIncrement records one sighting of a term that failed
	// normalization. First sighting creates a pending record with
	// occurrences=1; later sightings increment occurrences and append the
	// context until contextCap snippets are stored.
	LogOrIncrement(ctx context.Context, sighting models.UnknownSighting, contextCap int) error
	// ListPending returns pending terms ordered by occurrence count, most
	// frequent first, for the curation queue.
	ListPending(ctx context.Context) ([]*models.UnknownTerm, error)
	// MarkPromoted flips a term to added_to_dict once a curator has created
	// a DictionaryMapping from it.
	MarkPromoted(ctx context.Context, termID uuid.UUID) error
}

type unknownTermRepository struct {
	db *database.DB
}

// NewUnknownTermRepository creates a new UnknownTermRepository.
func NewUnknownTermRepository(db *database.DB) UnknownTermRepository {
	return &unknownTermRepository{db: db}
}

var _ UnknownTermRepository = (*unknownTermRepository)(nil)

func (r *unknownTermRepository) LogOrIncrement(ctx context.Context, sighting models.UnknownSighting, contextCap int) error {
	now := time.Now()

	contexts, err := json.Marshal([]models.UnknownContext{{
		Text:       sighting.Context,
		ProductID:  sighting.ProductID,
		ImageURL:   sighting.ImageURL,
		ProductURL: sighting.ProductURL,
	}})
	if err != nil {
		return fmt.Errorf("failed to marshal sighting context: %w", err)
	}

	// Dedup key is (term, category). The CASE keeps the first contextCap
	// contexts and stops appending after that; occurrences keep counting.
	query := `
		INSERT INTO unknown_terms (
			term, category, source_platform, occurrences, contexts, status,
			first_seen_at, last_seen_at
		) VALUES ($1, $2, $3, 1, $4, $5, $6, $6)
		ON CONFLICT (term, category) DO UPDATE
		SET occurrences = unknown_terms.occurrences + 1,
		    contexts = CASE
		        WHEN jsonb_array_length(unknown_terms.contexts) < $7
		        THEN unknown_terms.contexts || EXCLUDED.contexts
		        ELSE unknown_terms.contexts
		    END,
		    last_seen_at = $6`

	_, err = r.db.Exec(ctx, query,
		sighting.Term,
		sighting.Category,
		sighting.SourcePlatform,
		contexts,
		models.UnknownStatusPending,
		now,
		contextCap,
	)
	if err != nil {
		return fmt.Errorf("failed to log unknown term: %w", err)
	}

	return nil
}

func (r *unknownTermRepository) ListPending(ctx context.Context) ([]*models.UnknownTerm, error) {
	query := `
		SELECT id, term, category, source_platform, occurrences, contexts,
		       status, first_seen_at, last_seen_at
		FROM unknown_terms
		WHERE status = $1
		ORDER BY occurrences DESC, first_seen_at`

	rows, err := r.db.Query(ctx, query, models.UnknownStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query unknown terms: %w", err)
	}
	defer rows.Close()

	var terms []*models.UnknownTerm
	for rows.Next() {
		term, err := scanUnknownTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unknown terms: %w", err)
	}

	return terms, nil
}

func (r *unknownTermRepository) MarkPromoted(ctx context.Context, termID uuid.UUID) error {
	query := `
		UPDATE unknown_terms
		SET status = $2, last_seen_at = $3
		WHERE id = $1 AND status = $4`

	result, err := r.db.Exec(ctx, query,
		termID, models.UnknownStatusAddedToDict, time.Now(), models.UnknownStatusPending)
	if err != nil {
		return fmt.Errorf("failed to promote unknown term: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanUnknownTerm(row pgx.Row) (*models.UnknownTerm, error) {
	var t models.UnknownTerm
	var contexts []byte

	err := row.Scan(
		&t.ID,
		&t.Term,
		&t.Category,
		&t.SourcePlatform,
		&t.Occurrences,
		&contexts,
		&t.Status,
		&t.FirstSeenAt,
		&t.LastSeenAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan unknown term: %w", err)
	}

	if len(contexts) > 0 && string(contexts) != "null" {
		if err := json.Unmarshal(contexts, &t.Contexts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal contexts: %w", err)
		}
	}

	return &t, nil
}
