package engine

import "github.com/mkageyama/grimoire-merchant/pkg/catalog"

// applyEffect evaluates a data-form state patch from the event catalog.
// Scale factors apply before deltas; every touched field is re-clamped to
// its legal range. Gold has a hard floor of zero here: events may ruin the
// merchant but never put them in debt.
func (e *Engine) applyEffect(spec *catalog.EffectSpec) {
	if spec.IsZero() {
		return
	}
	gs := e.gs

	if spec.TrendScale != nil {
		gs.MarketTrend *= *spec.TrendScale
	}
	gs.MarketTrend = clamp(gs.MarketTrend+spec.TrendDelta, trendMin, trendMax)

	if spec.VolatilityScale != nil {
		gs.Volatility *= *spec.VolatilityScale
	}
	gs.Volatility = clamp(gs.Volatility+spec.VolatilityDelta, volatilityMin, volatilityMax)

	if spec.GoldDelta != 0 {
		gs.Gold += spec.GoldDelta
		if gs.Gold < 0 {
			gs.Gold = 0
		}
	}

	if spec.HumanPowerDelta != 0 {
		e.setHumanPower(gs.HumanPower + spec.HumanPowerDelta)
	}

	if spec.Reputation != nil {
		e.applyReputation(*spec.Reputation)
	}
}

// setHumanPower writes the balance, clamped to [0,100], and flips the game
// into its terminal state when either side is wiped out.
func (e *Engine) setHumanPower(v float64) {
	e.gs.HumanPower = clamp(v, 0, 100)
	if IsGameOver(e.gs.HumanPower) {
		e.gs.GameOver = true
		e.log.Info("game over", "human_power", e.gs.HumanPower)
	}
}

// applyReputation shifts both standings, each clamped to [0,100].
func (e *Engine) applyReputation(d catalog.ReputationDelta) {
	e.gs.Reputation.Human = clamp(e.gs.Reputation.Human+d.Human, 0, 100)
	e.gs.Reputation.Monster = clamp(e.gs.Reputation.Monster+d.Monster, 0, 100)
}
