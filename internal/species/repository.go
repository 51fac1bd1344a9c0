package species

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/mysea-back/internal/models"
)

var ErrSpeciesNotFound = errors.New("species not found")

const speciesColumns = `id, name_kr, name_en, scientific_name, category, description, size_range, season, depth_range, habitat, image_url, rarity, is_dangerous`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanSpecies(row pgx.Row) (*models.MarineSpecies, error) {
	s := &models.MarineSpecies{}
	err := row.Scan(
		&s.ID, &s.NameKR, &s.NameEN, &s.ScientificName, &s.Category, &s.Description, &s.SizeRange,
		&s.Season, &s.DepthRange, &s.Habitat, &s.ImageURL, &s.Rarity, &s.IsDangerous,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSpeciesNotFound
	}
	return s, err
}

// ListSpecies returns the whole encyclopedia ordered by Korean name
func (r *Repository) ListSpecies(ctx context.Context) ([]*models.MarineSpecies, error) {
	rows, err := r.db.Query(ctx, `SELECT `+speciesColumns+` FROM marine_species ORDER BY name_kr`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.MarineSpecies{}
	for rows.Next() {
		s, err := scanSpecies(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *Repository) GetSpecies(ctx context.Context, id uuid.UUID) (*models.MarineSpecies, error) {
	return scanSpecies(r.db.QueryRow(ctx, `SELECT `+speciesColumns+` FROM marine_species WHERE id = $1`, id))
}

// UpsertSpecies inserts or refreshes an entry keyed by scientific name.
func (r *Repository) UpsertSpecies(ctx context.Context, s *models.MarineSpecies) (*models.MarineSpecies, error) {
	return scanSpecies(r.db.QueryRow(ctx, `
		INSERT INTO marine_species (name_kr, name_en, scientific_name, category, description, size_range,
			season, depth_range, habitat, image_url, rarity, is_dangerous)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (scientific_name) DO UPDATE SET
			name_kr = EXCLUDED.name_kr,
			name_en = EXCLUDED.name_en,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			size_range = EXCLUDED.size_range,
			season = EXCLUDED.season,
			depth_range = EXCLUDED.depth_range,
			habitat = EXCLUDED.habitat,
			image_url = EXCLUDED.image_url,
			rarity = EXCLUDED.rarity,
			is_dangerous = EXCLUDED.is_dangerous
		RETURNING `+speciesColumns,
		s.NameKR, s.NameEN, s.ScientificName, string(s.Category), s.Description, s.SizeRange,
		s.Season, s.DepthRange, s.Habitat, s.ImageURL, string(s.Rarity), s.IsDangerous,
	))
}
