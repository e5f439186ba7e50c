package engine

import (
	"math"

	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
)

const minSalePrice = 50

// salePrice values an artifact at the moment of sale: quality sets the base,
// seasonal demand for the element scales it, and the market trend applies on
// top. Never below the floor price.
func salePrice(quality float64, element catalog.Element, season catalog.Season, trend float64, cat *catalog.Catalog) int {
	base := 100 + quality*2
	seasonMod := cat.SeasonModifier(season, element)
	price := int(math.Round(base * seasonMod * (1 + trend)))
	if price < minSalePrice {
		return minSalePrice
	}
	return price
}

// artifactName decorates the tier name for exceptional quality.
func artifactName(tierName string, quality float64) string {
	switch {
	case quality >= 95:
		return "Transcendent " + tierName
	case quality >= 90:
		return "Supreme " + tierName
	case quality >= 85:
		return "Arcane " + tierName
	default:
		return tierName
	}
}
