package engine

import "testing"

func TestUpdateMarket_MidDrawIsNoOp(t *testing.T) {
	// A draw of exactly 0.5 is a zero step for both trend and volatility.
	trend, vol, changed := updateMarket(0.1, 0.2, midRand())
	if changed {
		t.Error("mid-range draws should leave the market unchanged")
	}
	if trend != 0.1 || vol != 0.2 {
		t.Errorf("expected (0.1, 0.2), got (%v, %v)", trend, vol)
	}
}

func TestUpdateMarket_TrendClampsHigh(t *testing.T) {
	rng := &fixedRand{vals: []float64{1.0}}
	trend := 0.49
	vol := 0.2
	for i := 0; i < 10; i++ {
		trend, vol, _ = updateMarket(trend, vol, rng)
		if trend > trendMax {
			t.Fatalf("trend exceeded clamp: %v", trend)
		}
	}
	if trend != trendMax {
		t.Errorf("expected trend pinned at %v, got %v", trendMax, trend)
	}
	if vol > volatilityMax {
		t.Errorf("volatility exceeded clamp: %v", vol)
	}
}

func TestUpdateMarket_ClampsLow(t *testing.T) {
	rng := &fixedRand{vals: []float64{0.0}}
	trend := -0.45
	vol := 0.12
	for i := 0; i < 50; i++ {
		trend, vol, _ = updateMarket(trend, vol, rng)
	}
	if trend != trendMin {
		t.Errorf("expected trend pinned at %v, got %v", trendMin, trend)
	}
	if vol != volatilityMin {
		t.Errorf("expected volatility pinned at %v, got %v", volatilityMin, vol)
	}
}

func TestUpdateMarket_DeterministicTrajectory(t *testing.T) {
	// 0.75 draws: trend +0.1 per step, volatility *1.025 per step.
	rng := &fixedRand{vals: []float64{0.75}}
	trend, vol := 0.0, 0.2

	trend, vol, changed := updateMarket(trend, vol, rng)
	if !changed {
		t.Fatal("expected a change")
	}
	if diff := trend - 0.1; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected trend 0.1, got %v", trend)
	}
	if diff := vol - 0.205; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected volatility 0.205, got %v", vol)
	}
}
