package engine

import "github.com/mkageyama/grimoire-merchant/pkg/catalog"

// elementAlignment biases each element toward one faction: values above 1
// lean human, below 1 lean monster, exactly 1 is neutral.
var elementAlignment = map[catalog.Element]float64{
	catalog.ElementFire:      1.2,
	catalog.ElementIce:       0.8,
	catalog.ElementWind:      1.0,
	catalog.ElementEarth:     1.0,
	catalog.ElementLightning: 1.3,
}

// Impact is the outcome of selling one artifact to one faction.
type Impact struct {
	HumanPowerDelta float64
	Reputation      Reputation
}

// ComputeImpact calculates how a sale shifts the world balance. Pure.
//
// The balance multiplier favors the weaker side, so sales to an underdog
// faction move the needle further. The power delta is capped so human power
// stays within [0,100] after application. Reputation shifts are flat:
// +1 for the buyer's faction, -0.5 for the other.
func ComputeImpact(level int, quality float64, element catalog.Element, buyer catalog.Faction, humanPower float64) Impact {
	baseImpact := (quality / 100) * (float64(level) * 0.5)

	alignment, ok := elementAlignment[element]
	if !ok {
		alignment = 1.0
	}

	var multiplier float64
	if buyer == catalog.FactionHuman {
		multiplier = 1 + 0.5*(1-humanPower/100)
	} else {
		multiplier = 1 + 0.5*(humanPower/100)
	}

	impact := baseImpact * alignment * multiplier

	out := Impact{}
	if buyer == catalog.FactionHuman {
		out.HumanPowerDelta = min(impact, 100-humanPower)
		out.Reputation = Reputation{Human: 1, Monster: -0.5}
	} else {
		out.HumanPowerDelta = -min(impact, humanPower)
		out.Reputation = Reputation{Human: -0.5, Monster: 1}
	}
	return out
}

// IsGameOver reports the terminal balance condition: one side has been
// wiped off the map.
func IsGameOver(humanPower float64) bool {
	return humanPower <= 0 || humanPower >= 100
}
