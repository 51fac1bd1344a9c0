package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/mysea-back/internal/models"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameExists  = errors.New("username already taken")
)

const profileColumns = `id, username, level, exp, buddy_name, buddy_color, theme_color, created_at, updated_at`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Level,
		&p.Exp,
		&p.BuddyName,
		&p.BuddyColor,
		&p.ThemeColor,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUsernameExists
		}
		return nil, err
	}
	return p, nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

// Upsert writes the full profile, creating the row when missing.
func (r *Repository) Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, `
		INSERT INTO profiles (id, username, level, exp, buddy_name, buddy_color, theme_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			level = EXCLUDED.level,
			exp = EXCLUDED.exp,
			buddy_name = EXCLUDED.buddy_name,
			buddy_color = EXCLUDED.buddy_color,
			theme_color = EXCLUDED.theme_color,
			updated_at = NOW()
		RETURNING `+profileColumns,
		p.ID, p.Username, p.Level, p.Exp, p.BuddyName, p.BuddyColor, p.ThemeColor,
	))
}
