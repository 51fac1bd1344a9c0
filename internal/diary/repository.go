package diary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/mysea-back/internal/models"
)

var ErrEntryNotFound = errors.New("diary entry not found")

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanEntry(row pgx.Row) (*models.DiaryEntry, error) {
	entry := &models.DiaryEntry{}
	var elements []byte

	err := row.Scan(
		&entry.ID,
		&entry.DiveID,
		&entry.UserID,
		&elements,
		&entry.BackgroundType,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(elements, &entry.Elements); err != nil {
		return nil, fmt.Errorf("failed to decode diary elements: %w", err)
	}
	return entry, nil
}

// GetByDive returns the user's diary page for a dive.
func (r *Repository) GetByDive(ctx context.Context, userID, diveID uuid.UUID) (*models.DiaryEntry, error) {
	return scanEntry(r.db.QueryRow(ctx, `
		SELECT id, dive_id, user_id, elements, background_type, created_at, updated_at
		FROM diary_entries WHERE user_id = $1 AND dive_id = $2
	`, userID, diveID))
}

// Save upserts the entry; there is one page per user and dive.
func (r *Repository) Save(ctx context.Context, entry *models.DiaryEntry) (*models.DiaryEntry, error) {
	elements, err := json.Marshal(entry.Elements)
	if err != nil {
		return nil, fmt.Errorf("failed to encode diary elements: %w", err)
	}

	return scanEntry(r.db.QueryRow(ctx, `
		INSERT INTO diary_entries (dive_id, user_id, elements, background_type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (dive_id, user_id) DO UPDATE
		SET elements = EXCLUDED.elements,
			background_type = EXCLUDED.background_type,
			updated_at = NOW()
		RETURNING id, dive_id, user_id, elements, background_type, created_at, updated_at
	`, entry.DiveID, entry.UserID, elements, entry.BackgroundType))
}

func (r *Repository) Delete(ctx context.Context, userID, diveID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM diary_entries WHERE user_id = $1 AND dive_id = $2`, userID, diveID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
