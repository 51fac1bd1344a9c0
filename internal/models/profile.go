package models

import (
	"time"

	"github.com/google/uuid"
)

// ExpPerLevel is the experience needed to fill one level bar.
const ExpPerLevel = 500

type Profile struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	Level      int       `json:"level" db:"level"`
	Exp        int       `json:"exp" db:"exp"`
	BuddyName  string    `json:"buddy_name" db:"buddy_name"`
	BuddyColor string    `json:"buddy_color" db:"buddy_color"`
	ThemeColor string    `json:"theme_color" db:"theme_color"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Onboarded reports whether the user has named their buddy.
func (p *Profile) Onboarded() bool {
	return p.BuddyName != ""
}

// LevelProgress is the fraction of the current level bar that is filled.
func (p *Profile) LevelProgress() float64 {
	exp := p.Exp % ExpPerLevel
	if exp < 0 {
		exp = 0
	}
	return float64(exp) / ExpPerLevel
}

type ProfileResponse struct {
	*Profile
	Onboarded     bool    `json:"onboarded"`
	LevelProgress float64 `json:"level_progress"`
}

// UpdateProfileRequest is merged over the stored profile; nil fields keep
// their current value.
type UpdateProfileRequest struct {
	Username   *string `json:"username" validate:"omitempty,min=2,max=32"`
	BuddyName  *string `json:"buddy_name" validate:"omitempty,max=32"`
	BuddyColor *string `json:"buddy_color" validate:"omitempty,hexcolor"`
	ThemeColor *string `json:"theme_color" validate:"omitempty,hexcolor"`
}
