package dives

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

var (
	ErrDiveNotFound    = errors.New("dive not found")
	ErrDetailsNotFound = errors.New("dive details not found")
)

const diveColumns = `id, user_id, date, site_name, location, depth_max, depth_avg, duration, lat, lng, visibility, notes, created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanDive(row pgx.Row) (*models.Dive, error) {
	d := &models.Dive{}
	var lat, lng *float64
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Date,
		&d.SiteName,
		&d.Location,
		&d.DepthMax,
		&d.DepthAvg,
		&d.Duration,
		&lat,
		&lng,
		&d.Visibility,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDiveNotFound
		}
		return nil, err
	}
	if lat != nil && lng != nil {
		d.Coordinates = &models.Coordinates{Lat: *lat, Lng: *lng}
	}
	return d, nil
}

func coords(c *models.Coordinates) (lat, lng *float64) {
	if c == nil {
		return nil, nil
	}
	return &c.Lat, &c.Lng
}

// ListDives returns the user's dives, newest first
func (r *Repository) ListDives(ctx context.Context, userID uuid.UUID) ([]*models.Dive, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+diveColumns+`
		FROM dives WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dives := []*models.Dive{}
	for rows.Next() {
		d, err := scanDive(rows)
		if err != nil {
			return nil, err
		}
		dives = append(dives, d)
	}
	return dives, rows.Err()
}

func (r *Repository) GetDive(ctx context.Context, userID, id uuid.UUID) (*models.Dive, error) {
	return scanDive(r.db.QueryRow(ctx, `
		SELECT `+diveColumns+` FROM dives WHERE id = $1 AND user_id = $2
	`, id, userID))
}

// CreateDive inserts the dive and, when given, its details.
func (r *Repository) CreateDive(ctx context.Context, d *models.Dive, details *models.DiveDetail) (*models.Dive, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	lat, lng := coords(d.Coordinates)
	created, err := scanDive(tx.QueryRow(ctx, `
		INSERT INTO dives (user_id, date, site_name, location, depth_max, depth_avg, duration, lat, lng, visibility, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+diveColumns,
		d.UserID, d.Date, d.SiteName, d.Location, d.DepthMax, d.DepthAvg, d.Duration, lat, lng, d.Visibility, d.Notes,
	))
	if err != nil {
		return nil, err
	}

	if details != nil {
		profile, err := json.Marshal(details.DiveProfile)
		if err != nil {
			return nil, fmt.Errorf("failed to encode dive profile: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO dive_details (dive_id, tank_start, tank_end, weight, suit_type, temp_surface, temp_bottom,
				weather, wind, current, tide, entry_type, dive_profile)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, created.ID, details.TankStart, details.TankEnd, details.Weight, details.SuitType, details.TempSurface,
			details.TempBottom, details.Weather, details.Wind, details.Current, details.Tide, details.EntryType, profile)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateDive writes every mutable field of d.
func (r *Repository) UpdateDive(ctx context.Context, d *models.Dive) (*models.Dive, error) {
	lat, lng := coords(d.Coordinates)
	return scanDive(r.db.QueryRow(ctx, `
		UPDATE dives SET
			date = $3, site_name = $4, location = $5, depth_max = $6, depth_avg = $7,
			duration = $8, lat = $9, lng = $10, visibility = $11, notes = $12, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+diveColumns,
		d.ID, d.UserID, d.Date, d.SiteName, d.Location, d.DepthMax, d.DepthAvg, d.Duration, lat, lng, d.Visibility, d.Notes,
	))
}

func (r *Repository) DeleteDive(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dives WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDiveNotFound
	}
	return nil
}

func (r *Repository) GetDetails(ctx context.Context, diveID uuid.UUID) (*models.DiveDetail, error) {
	dd := &models.DiveDetail{}
	var profile []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, dive_id, tank_start, tank_end, weight, suit_type, temp_surface, temp_bottom,
			weather, wind, current, tide, entry_type, dive_profile
		FROM dive_details WHERE dive_id = $1
	`, diveID).Scan(
		&dd.ID, &dd.DiveID, &dd.TankStart, &dd.TankEnd, &dd.Weight, &dd.SuitType, &dd.TempSurface, &dd.TempBottom,
		&dd.Weather, &dd.Wind, &dd.Current, &dd.Tide, &dd.EntryType, &profile,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDetailsNotFound
		}
		return nil, err
	}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &dd.DiveProfile); err != nil {
			return nil, fmt.Errorf("failed to decode dive profile: %w", err)
		}
	}
	return dd, nil
}

// ListSightings returns a dive's sightings joined with their species
func (r *Repository) ListSightings(ctx context.Context, diveID uuid.UUID) ([]*models.MarineSighting, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.dive_id, s.species_id, s.count, s.photo_url, s.notes,
			sp.id, sp.name_kr, sp.name_en, sp.scientific_name, sp.category, sp.description, sp.size_range,
			sp.season, sp.depth_range, sp.habitat, sp.image_url, sp.rarity, sp.is_dangerous
		FROM marine_sightings s
		JOIN marine_species sp ON sp.id = s.species_id
		WHERE s.dive_id = $1
		ORDER BY s.created_at
	`, diveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sightings := []*models.MarineSighting{}
	for rows.Next() {
		s := &models.MarineSighting{Species: &models.MarineSpecies{}}
		sp := s.Species
		err := rows.Scan(
			&s.ID, &s.DiveID, &s.SpeciesID, &s.Count, &s.PhotoURL, &s.Notes,
			&sp.ID, &sp.NameKR, &sp.NameEN, &sp.ScientificName, &sp.Category, &sp.Description, &sp.SizeRange,
			&sp.Season, &sp.DepthRange, &sp.Habitat, &sp.ImageURL, &sp.Rarity, &sp.IsDangerous,
		)
		if err != nil {
			return nil, err
		}
		sightings = append(sightings, s)
	}
	return sightings, rows.Err()
}

func (r *Repository) AddSighting(ctx context.Context, s *models.MarineSighting) (*models.MarineSighting, error) {
	created := &models.MarineSighting{}
	err := r.db.QueryRow(ctx, `
		INSERT INTO marine_sightings (dive_id, species_id, count, photo_url, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, dive_id, species_id, count, photo_url, notes
	`, s.DiveID, s.SpeciesID, s.Count, s.PhotoURL, s.Notes).Scan(
		&created.ID, &created.DiveID, &created.SpeciesID, &created.Count, &created.PhotoURL, &created.Notes,
	)
	if err != nil {
		return nil, err
	}
	return created, nil
}
