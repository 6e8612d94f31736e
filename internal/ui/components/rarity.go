package components

import (
	"image/color"

	"github.com/abhisek/patterndrill/internal/catalog"
	"github.com/abhisek/patterndrill/internal/ui/theme"
)

// RarityColor returns the display color of a card tier.
func RarityColor(r catalog.Rarity) color.Color {
	switch r {
	case catalog.RarityRare:
		return theme.RarityRare
	case catalog.RaritySuperRare:
		return theme.RaritySuperRare
	default:
		return theme.RarityNormal
	}
}
