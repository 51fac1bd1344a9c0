package diary

import (
	"errors"
)

var (
	ErrElementNotFound = errors.New("element not found")
	ErrInvalidKind     = errors.New("invalid element kind")
	ErrEmptyContent    = errors.New("element content is empty")
)

type Kind string

const (
	KindText    Kind = "text"
	KindSticker Kind = "sticker"
	KindPhoto   Kind = "photo"
)

func (k Kind) Valid() bool {
	switch k {
	case KindText, KindSticker, KindPhoto:
		return true
	}
	return false
}

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform is the placement of an element on the canvas.
type Transform struct {
	Position Point   `json:"position"`
	Rotation float64 `json:"rotation"` // degrees
	Scale    float64 `json:"scale"`
}

// TransformPatch carries the subset of transform fields to merge.
type TransformPatch struct {
	Position *Point   `json:"position,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Scale    *float64 `json:"scale,omitempty"`
}

func (p TransformPatch) IsEmpty() bool {
	return p.Position == nil && p.Rotation == nil && p.Scale == nil
}

// Text style defaults
const (
	DefaultTextColor  = "#263238"
	DefaultFontSize   = 24
	DefaultFontWeight = "normal"
)

type Style struct {
	Color      string  `json:"color,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
}

// WithDefaults fills the unset fields of a text style.
func (s *Style) WithDefaults() Style {
	out := Style{}
	if s != nil {
		out = *s
	}
	if out.Color == "" {
		out.Color = DefaultTextColor
	}
	if out.FontSize <= 0 {
		out.FontSize = DefaultFontSize
	}
	if out.FontWeight == "" {
		out.FontWeight = DefaultFontWeight
	}
	return out
}

// Element is a placed unit of the scene. Kind, Content and Style are fixed
// at creation; only the transform changes afterwards.
type Element struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Content string `json:"content"`
	Style   *Style `json:"style,omitempty"`
	Transform
}

func (e *Element) apply(p TransformPatch) {
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Rotation != nil {
		e.Rotation = *p.Rotation
	}
	if p.Scale != nil {
		e.Scale = *p.Scale
	}
}

func (e Element) clone() Element {
	if e.Style != nil {
		s := *e.Style
		e.Style = &s
	}
	return e
}
