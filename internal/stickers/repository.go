package stickers

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
	ErrStickerNotFound = errors.New("sticker not found")
	ErrStickerExists   = errors.New("sticker already in palette")
)

// DefaultPalette is the glyph palette every install starts with.
var DefaultPalette = []models.Sticker{
	{Glyph: "🐠", Label: "tropical fish"},
	{Glyph: "🐢", Label: "turtle"},
	{Glyph: "🐙", Label: "octopus"},
	{Glyph: "🦈", Label: "shark"},
	{Glyph: "🐬", Label: "dolphin"},
	{Glyph: "🦭", Label: "seal"},
	{Glyph: "🪼", Label: "jellyfish"},
	{Glyph: "🦀", Label: "crab"},
	{Glyph: "⭐", Label: "star"},
	{Glyph: "🌊", Label: "wave"},
	{Glyph: "🤿", Label: "mask"},
	{Glyph: "🏝️", Label: "island"},
	{Glyph: "⚓", Label: "anchor"},
	{Glyph: "🐚", Label: "shell"},
	{Glyph: "🪸", Label: "coral"},
	{Glyph: "🐋", Label: "whale"},
	{Glyph: "🐡", Label: "blowfish"},
	{Glyph: "🦑", Label: "squid"},
	{Glyph: "💙", Label: "blue heart"},
	{Glyph: "✨", Label: "sparkles"},
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListStickers returns the palette in display order
func (r *Repository) ListStickers(ctx context.Context) ([]*models.Sticker, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, glyph, label, sort_order, created_at
		FROM stickers ORDER BY sort_order, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stickers := []*models.Sticker{}
	for rows.Next() {
		s := &models.Sticker{}
		if err := rows.Scan(&s.ID, &s.Glyph, &s.Label, &s.SortOrder, &s.CreatedAt); err != nil {
			return nil, err
		}
		stickers = append(stickers, s)
	}
	return stickers, rows.Err()
}

// AddSticker appends a glyph at the end of the palette
func (r *Repository) AddSticker(ctx context.Context, glyph, label string) (*models.Sticker, error) {
	s := &models.Sticker{}
	err := r.db.QueryRow(ctx, `
		INSERT INTO stickers (glyph, label, sort_order)
		VALUES ($1, $2, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM stickers))
		RETURNING id, glyph, label, sort_order, created_at
	`, glyph, label).Scan(&s.ID, &s.Glyph, &s.Label, &s.SortOrder, &s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrStickerExists
		}
		return nil, err
	}
	return s, nil
}

func (r *Repository) DeleteSticker(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stickers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStickerNotFound
	}
	return nil
}

// SeedDefaults inserts DefaultPalette, leaving existing glyphs alone.
func (r *Repository) SeedDefaults(ctx context.Context) (int, error) {
	batch := &pgx.Batch{}
	for i, s := range DefaultPalette {
		batch.Queue(`
			INSERT INTO stickers (glyph, label, sort_order) VALUES ($1, $2, $3)
			ON CONFLICT (glyph) DO NOTHING
		`, s.Glyph, s.Label, i)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range DefaultPalette {
		tag, err := results.Exec()
		if err != nil {
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
