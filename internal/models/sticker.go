package models

import (
	"time"

	"github.com/google/uuid"
)

// Sticker is one glyph of the diary sticker palette.
type Sticker struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Glyph     string    `json:"glyph" db:"glyph"`
	Label     string    `json:"label" db:"label"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type AddStickerRequest struct {
	Glyph string `json:"glyph" validate:"required,max=32"`
	Label string `json:"label" validate:"max=64"`
}
