package species

import (
	"strings"

	"github.com/user/mysea-back/internal/models"
)

func ValidCategory(c models.MarineCategory) bool {
	switch c {
	case models.CategoryAll, models.CategoryFish, models.CategoryMollusk, models.CategoryCrustacean,
		models.CategoryMammal, models.CategoryReptile, models.CategoryCoral, models.CategoryOther:
		return true
	}
	return false
}

// Filter keeps species of the category (or all, for "All" or empty) whose
// Korean, English or scientific name contains query, ignoring case.
func Filter(list []*models.MarineSpecies, category models.MarineCategory, query string) []*models.MarineSpecies {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]*models.MarineSpecies, 0, len(list))
	for _, s := range list {
		if category != "" && category != models.CategoryAll && s.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(s.NameKR), query) &&
			!strings.Contains(strings.ToLower(s.NameEN), query) &&
			!strings.Contains(strings.ToLower(s.ScientificName), query) {
			continue
		}
		out = append(out, s)
	}
	return out
}
