package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultBackgroundType = "grid"

// DiaryEntry is the stored form of a decorated diary page.
type DiaryEntry struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	DiveID         uuid.UUID      `json:"dive_id" db:"dive_id"`
	UserID         uuid.UUID      `json:"user_id" db:"user_id"`
	Elements       []DiaryElement `json:"elements" db:"elements"`
	BackgroundType string         `json:"background_type" db:"background_type"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

type DiaryElement struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"` // "text", "sticker" or "photo"
	X        float64            `json:"x"`
	Y        float64            `json:"y"`
	Rotation float64            `json:"rotation"`
	Scale    float64            `json:"scale"`
	ZIndex   int                `json:"zIndex"`
	Content  string             `json:"content"`
	Style    *DiaryElementStyle `json:"style,omitempty"`
}

type DiaryElementStyle struct {
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	Color      string  `json:"color,omitempty"`
	TextAlign  string  `json:"textAlign,omitempty"`
}

// Request DTOs
type OpenDiarySessionRequest struct {
	DiveID         string  `json:"dive_id" validate:"required,uuid"`
	CanvasWidth    float64 `json:"canvas_width" validate:"omitempty,gt=0"`
	CanvasHeight   float64 `json:"canvas_height" validate:"omitempty,gt=0"`
	BackgroundType string  `json:"background_type" validate:"omitempty,max=32"`
}

type AddDiaryElementRequest struct {
	Type       string  `json:"type" validate:"required,oneof=text sticker photo"`
	Content    string  `json:"content" validate:"required,max=2000"`
	Color      string  `json:"color" validate:"omitempty,hexcolor"`
	FontSize   float64 `json:"font_size" validate:"omitempty,gt=0,lte=200"`
	FontWeight string  `json:"font_weight" validate:"omitempty,oneof=normal bold"`
}

type SelectDiaryElementRequest struct {
	// Empty deselects.
	ElementID string `json:"element_id"`
}

type OpenAffordanceRequest struct {
	Affordance string `json:"affordance" validate:"omitempty,oneof=text sticker"`
}
