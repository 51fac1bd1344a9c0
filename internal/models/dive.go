package models

import (
	"time"

	"github.com/google/uuid"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Dive struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	UserID      uuid.UUID    `json:"user_id" db:"user_id"`
	Date        time.Time    `json:"date" db:"date"`
	SiteName    string       `json:"site_name" db:"site_name"`
	Location    string       `json:"location" db:"location"`
	DepthMax    float64      `json:"depth_max" db:"depth_max"`
	DepthAvg    float64      `json:"depth_avg" db:"depth_avg"`
	Duration    int          `json:"duration" db:"duration"` // minutes
	Coordinates *Coordinates `json:"coordinates" db:"coordinates"`
	Visibility  float64      `json:"visibility" db:"visibility"`
	Notes       string       `json:"notes" db:"notes"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

type DiveProfilePoint struct {
	Time  int     `json:"time"`  // seconds
	Depth float64 `json:"depth"` // meters
}

type DiveDetail struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	DiveID      uuid.UUID          `json:"dive_id" db:"dive_id"`
	TankStart   int                `json:"tank_start" db:"tank_start"`
	TankEnd     int                `json:"tank_end" db:"tank_end"`
	Weight      float64            `json:"weight" db:"weight"`
	SuitType    string             `json:"suit_type" db:"suit_type"`
	TempSurface float64            `json:"temp_surface" db:"temp_surface"`
	TempBottom  float64            `json:"temp_bottom" db:"temp_bottom"`
	Weather     string             `json:"weather" db:"weather"`
	Wind        string             `json:"wind" db:"wind"`
	Current     string             `json:"current" db:"current"`
	Tide        string             `json:"tide" db:"tide"`
	EntryType   string             `json:"entry_type" db:"entry_type"`
	DiveProfile []DiveProfilePoint `json:"dive_profile" db:"dive_profile"`
}

type MarineSighting struct {
	ID        uuid.UUID `json:"id" db:"id"`
	DiveID    uuid.UUID `json:"dive_id" db:"dive_id"`
	SpeciesID uuid.UUID `json:"species_id" db:"species_id"`
	Count     int       `json:"count" db:"count"`
	PhotoURL  *string   `json:"photo_url" db:"photo_url"`
	Notes     string    `json:"notes" db:"notes"`

	// Joined fields
	Species *MarineSpecies `json:"species,omitempty"`
}

type DiveWithDetails struct {
	*Dive
	Details   *DiveDetail       `json:"details"`
	Sightings []*MarineSighting `json:"sightings"`
}

type DiveStats struct {
	TotalDives   int     `json:"total_dives"`
	TotalMinutes int     `json:"total_minutes"`
	MaxDepth     float64 `json:"max_depth"`
}

// Request DTOs
type CreateDiveRequest struct {
	Date        time.Time    `json:"date" validate:"required"`
	SiteName    string       `json:"site_name" validate:"required,max=100"`
	Location    string       `json:"location" validate:"max=200"`
	DepthMax    float64      `json:"depth_max" validate:"gte=0,lte=350"`
	DepthAvg    float64      `json:"depth_avg" validate:"gte=0,ltefield=DepthMax"`
	Duration    int          `json:"duration" validate:"gte=0,lte=1440"`
	Coordinates *Coordinates `json:"coordinates"`
	Visibility  float64      `json:"visibility" validate:"gte=0"`
	Notes       string       `json:"notes" validate:"max=4000"`
	Details     *DiveDetail  `json:"details"`
}

type UpdateDiveRequest struct {
	Date        *time.Time   `json:"date"`
	SiteName    *string      `json:"site_name" validate:"omitempty,max=100"`
	Location    *string      `json:"location" validate:"omitempty,max=200"`
	DepthMax    *float64     `json:"depth_max" validate:"omitempty,gte=0,lte=350"`
	DepthAvg    *float64     `json:"depth_avg" validate:"omitempty,gte=0"`
	Duration    *int         `json:"duration" validate:"omitempty,gte=0,lte=1440"`
	Coordinates *Coordinates `json:"coordinates"`
	Visibility  *float64     `json:"visibility" validate:"omitempty,gte=0"`
	Notes       *string      `json:"notes" validate:"omitempty,max=4000"`
}

type AddSightingRequest struct {
	SpeciesID string  `json:"species_id" validate:"required,uuid"`
	Count     int     `json:"count" validate:"gte=1"`
	PhotoURL  *string `json:"photo_url" validate:"omitempty,url"`
	Notes     string  `json:"notes" validate:"max=1000"`
}
