package engine

// Market random-walk bounds.
const (
	trendMin      = -0.5
	trendMax      = 0.5
	volatilityMin = 0.1
	volatilityMax = 0.4
)

// Rand is the injectable randomness source. *math/rand.Rand satisfies it;
// tests substitute fixed sequences for reproducibility.
type Rand interface {
	Float64() float64
}

// updateMarket applies one step of the bounded random walk:
// trend moves by a uniform draw from [-0.2, 0.2], volatility is scaled by
// a uniform factor from [0.95, 1.05], and both are clamped to their bounds.
// Returns the new values and whether anything actually changed.
func updateMarket(trend, volatility float64, rng Rand) (float64, float64, bool) {
	newTrend := clamp(trend+(rng.Float64()-0.5)*0.4, trendMin, trendMax)
	newVolatility := clamp(volatility*(1+(rng.Float64()-0.5)*0.1), volatilityMin, volatilityMax)
	return newTrend, newVolatility, newTrend != trend || newVolatility != volatility
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
