package models

import "github.com/google/uuid"

type MarineCategory string

const (
	CategoryFish       MarineCategory = "Fish"
	CategoryMollusk    MarineCategory = "Mollusk"
	CategoryCrustacean MarineCategory = "Crustacean"
	CategoryMammal     MarineCategory = "Mammal"
	CategoryReptile    MarineCategory = "Reptile"
	CategoryCoral      MarineCategory = "Coral"
	CategoryOther      MarineCategory = "Other"

	// CategoryAll is a filter value, never stored.
	CategoryAll MarineCategory = "All"
)

type RarityLevel string

const (
	RarityCommon    RarityLevel = "Common"
	RarityUncommon  RarityLevel = "Uncommon"
	RarityRare      RarityLevel = "Rare"
	RarityEpic      RarityLevel = "Epic"
	RarityLegendary RarityLevel = "Legendary"
)

type MarineSpecies struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	NameKR         string         `json:"name_kr" db:"name_kr"`
	NameEN         string         `json:"name_en" db:"name_en"`
	ScientificName string         `json:"scientific_name" db:"scientific_name"`
	Category       MarineCategory `json:"category" db:"category"`
	Description    string         `json:"description" db:"description"`
	SizeRange      string         `json:"size_range" db:"size_range"`
	Season         string         `json:"season" db:"season"`
	DepthRange     string         `json:"depth_range" db:"depth_range"`
	Habitat        string         `json:"habitat" db:"habitat"`
	ImageURL       string         `json:"image_url" db:"image_url"`
	Rarity         RarityLevel    `json:"rarity" db:"rarity"`
	IsDangerous    bool           `json:"is_dangerous" db:"is_dangerous"`
}
