package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/texloop/textile-engine/pkg/apperrors"
	"github.com/texloop/textile-engine/pkg/database"
	"github.com/texloop/textile-engine/pkg/models"
)

// DictionaryRepository provides data access for approved translation rules.
type DictionaryRepository interface {
	// ListAll returns every mapping in stored order (category, locale, term,
	// then insertion order). The cache relies on this order being stable:
	// partial-match resolution is first-match-wins over it.
	ListAll(ctx context.Context) ([]*models.DictionaryMapping, error)
	// Create inserts a new mapping. A duplicate
	// (category, source_locale, source_term) returns apperrors.ErrConflict.
	Create(ctx context.Context, mapping *models.DictionaryMapping) error
	// IncrementUsage bumps the usage counter of one mapping. Callers treat
	// this as best-effort; the repository just reports the error.
	IncrementUsage(ctx context.Context, mappingID uuid.UUID) error
}

type dictionaryRepository struct {
	db *database.DB
}

// NewDictionaryRepository creates a new DictionaryRepository.
func NewDictionaryRepository(db *database.DB) DictionaryRepository {
	return &dictionaryRepository{db: db}
}

var _ DictionaryRepository = (*dictionaryRepository)(nil)

func (r *dictionaryRepository) ListAll(ctx context.Context) ([]*models.DictionaryMapping, error) {
	query := `
		SELECT id, category, source_locale, source_term, translations,
		       confidence, usage_count, validated_at, validated_by,
		       created_at, updated_at
		FROM dictionary_mappings
		ORDER BY category, source_locale, source_term, created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dictionary mappings: %w", err)
	}
	defer rows.Close()

	var mappings []*models.DictionaryMapping
	for rows.Next() {
		mapping, err := scanDictionaryMapping(rows)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, mapping)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dictionary mappings: %w", err)
	}

	return mappings, nil
}

func (r *dictionaryRepository) Create(ctx context.Context, mapping *models.DictionaryMapping) error {
	now := time.Now()

	translations, err := json.Marshal(mapping.Translations)
	if err != nil {
		return fmt.Errorf("failed to marshal translations: %w", err)
	}

	query := `
		INSERT INTO dictionary_mappings (
			category, source_locale, source_term, translations, confidence,
			usage_count, validated_at, validated_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		mapping.Category,
		mapping.SourceLocale,
		mapping.SourceTerm,
		translations,
		mapping.Confidence,
		mapping.UsageCount,
		mapping.ValidatedAt,
		mapping.ValidatedBy,
		now,
		now,
	).Scan(&mapping.ID, &mapping.CreatedAt, &mapping.UpdatedAt)
	if err != nil {
		// Unique constraint violation on (category, source_locale, source_term)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create dictionary mapping: %w", err)
	}

	return nil
}

func (r *dictionaryRepository) IncrementUsage(ctx context.Context, mappingID uuid.UUID) error {
	query := `
		UPDATE dictionary_mappings
		SET usage_count = usage_count + 1, updated_at = $2
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, mappingID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to increment mapping usage: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("mapping %s not found for usage increment", mappingID)
	}

	return nil
}

func scanDictionaryMapping(row pgx.Row) (*models.DictionaryMapping, error) {
	var m models.DictionaryMapping
	var translations []byte

	err := row.Scan(
		&m.ID,
		&m.Category,
		&m.SourceLocale,
		&m.SourceTerm,
		&translations,
		&m.Confidence,
		&m.UsageCount,
		&m.ValidatedAt,
		&m.ValidatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan dictionary mapping: %w", err)
	}

	if len(translations) > 0 && string(translations) != "null" {
		if err := json.Unmarshal(translations, &m.Translations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal translations: %w", err)
		}
	}

	return &m, nil
}
