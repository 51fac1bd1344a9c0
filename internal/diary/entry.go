package diary

import (
	"sort"

	"github.com/user/mysea-back/internal/models"
)

// ToDiaryElements converts the scene to its stored shape. ZIndex is the
// element's position in insertion order.
func ToDiaryElements(elements []Element) []models.DiaryElement {
	out := make([]models.DiaryElement, 0, len(elements))
	for i, el := range elements {
		de := models.DiaryElement{
			ID:       el.ID,
			Type:     string(el.Kind),
			X:        el.Position.X,
			Y:        el.Position.Y,
			Rotation: el.Rotation,
			Scale:    el.Scale,
			ZIndex:   i,
			Content:  el.Content,
		}
		if el.Style != nil {
			de.Style = &models.DiaryElementStyle{
				FontSize:   el.Style.FontSize,
				FontWeight: el.Style.FontWeight,
				Color:      el.Style.Color,
			}
		}
		out = append(out, de)
	}
	return out
}

// FromDiaryElements restores scene elements ordered by ZIndex. Ties keep
// their stored order.
func FromDiaryElements(stored []models.DiaryElement) []Element {
	sorted := make([]models.DiaryElement, len(stored))
	copy(sorted, stored)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ZIndex < sorted[j].ZIndex
	})

	out := make([]Element, 0, len(sorted))
	for _, de := range sorted {
		el := Element{
			ID:      de.ID,
			Kind:    Kind(de.Type),
			Content: de.Content,
			Transform: Transform{
				Position: Point{X: de.X, Y: de.Y},
				Rotation: de.Rotation,
				Scale:    de.Scale,
			},
		}
		if de.Style != nil {
			el.Style = &Style{
				Color:      de.Style.Color,
				FontSize:   de.Style.FontSize,
				FontWeight: de.Style.FontWeight,
			}
		}
		out = append(out, el)
	}
	return out
}
