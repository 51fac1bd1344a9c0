package profiles

import (
	"github.com/google/uuid"
	"github.com/user/mysea-back/internal/models"
)

// Defaults for a profile that has never been onboarded.
const (
	DefaultBuddyColor = "#0288D1"
	DefaultThemeColor = "#E0F7FA"
)

// Merge applies the set fields of req over current. current may be nil for a
// profile that does not exist yet.
func Merge(id uuid.UUID, current *models.Profile, req models.UpdateProfileRequest) *models.Profile {
	p := &models.Profile{ID: id, Level: 1, BuddyColor: DefaultBuddyColor, ThemeColor: DefaultThemeColor}
	if current != nil {
		cp := *current
		p = &cp
	}

	if req.Username != nil {
		p.Username = *req.Username
	}
	if req.BuddyName != nil {
		p.BuddyName = *req.BuddyName
	}
	if req.BuddyColor != nil {
		p.BuddyColor = *req.BuddyColor
	}
	if req.ThemeColor != nil {
		p.ThemeColor = *req.ThemeColor
	}
	if p.Level < 1 {
		p.Level = 1
	}
	return p
}
