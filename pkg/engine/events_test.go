package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
)

func choiceEvent(id string, weight float64) catalog.EventSpec {
	return catalog.EventSpec{
		ID:       id,
		Name:     id,
		Category: catalog.CategoryPolitical,
		Duration: catalog.DurationPermanent,
		Weight:   weight,
		Choices: []catalog.ChoiceSpec{
			{ID: "YES", Text: "Accept", Effect: &catalog.EffectSpec{GoldDelta: 100}},
			{ID: "NO", Text: "Decline"},
		},
	}
}

func TestCheckEventConditions_SoleEligibleAlwaysFires(t *testing.T) {
	for _, draw := range []float64{0, 0.001, 0.5, 0.999} {
		e := newStartedEngine(&fixedRand{vals: []float64{draw}}, choiceEvent("summit", 1))
		e.checkEventConditions()
		require.NotNil(t, e.gs.ActiveEvent, "draw %v must select the only eligible event", draw)
		assert.Equal(t, "summit", e.gs.ActiveEvent.EventID)
		assert.True(t, e.gs.ActiveEvent.AwaitingChoice)
	}
}

func TestCheckEventConditions_WeightedSelection(t *testing.T) {
	events := []catalog.EventSpec{choiceEvent("light", 1), choiceEvent("heavy", 3)}

	// Total weight 4: draws below 0.25 land in the first bucket.
	e := newStartedEngine(&fixedRand{vals: []float64{0.2}}, events...)
	e.checkEventConditions()
	require.NotNil(t, e.gs.ActiveEvent)
	assert.Equal(t, "light", e.gs.ActiveEvent.EventID)

	e = newStartedEngine(&fixedRand{vals: []float64{0.9}}, events...)
	e.checkEventConditions()
	require.NotNil(t, e.gs.ActiveEvent)
	assert.Equal(t, "heavy", e.gs.ActiveEvent.EventID)
}

func TestCheckEventConditions_MutualExclusion(t *testing.T) {
	e := newStartedEngine(midRand(), choiceEvent("first", 1), choiceEvent("second", 100))
	e.checkEventConditions()
	require.NotNil(t, e.gs.ActiveEvent)
	first := e.gs.ActiveEvent.EventID

	// Further checks are no-ops while the slot is occupied.
	for i := 0; i < 5; i++ {
		e.checkEventConditions()
		assert.Equal(t, first, e.gs.ActiveEvent.EventID)
	}
}

func TestCheckEventConditions_NoEligibleEvents(t *testing.T) {
	gated := choiceEvent("pact", 1)
	minGold := 999999
	gated.Condition = &catalog.ConditionSpec{MinGold: &minGold}

	e := newStartedEngine(midRand(), gated)
	e.checkEventConditions()
	assert.Nil(t, e.gs.ActiveEvent)
}

func TestConditionHolds(t *testing.T) {
	e := newStartedEngine(midRand())
	e.gs.Gold = 2000
	e.gs.HumanPower = 55
	e.gs.Reputation = Reputation{Human: 70, Monster: 40}
	season := catalog.SeasonSpring

	within5 := 5.0
	within10 := 10.0
	lowGold := 1000
	highGold := 5000
	rep50 := 50.0
	rep30 := 30.0
	winter := catalog.SeasonWinter

	tests := []struct {
		name string
		cond *catalog.ConditionSpec
		want bool
	}{
		{"nil condition", nil, true},
		{"empty condition", &catalog.ConditionSpec{}, true},
		{"balance within, holds", &catalog.ConditionSpec{PowerBalanceWithin: &within10}, true},
		{"balance within, fails at boundary", &catalog.ConditionSpec{PowerBalanceWithin: &within5}, false},
		{"min gold holds", &catalog.ConditionSpec{MinGold: &lowGold}, true},
		{"min gold fails", &catalog.ConditionSpec{MinGold: &highGold}, false},
		{"max gold holds", &catalog.ConditionSpec{MaxGold: &highGold}, true},
		{"max gold fails", &catalog.ConditionSpec{MaxGold: &lowGold}, false},
		{"season matches", &catalog.ConditionSpec{Season: &season}, true},
		{"season mismatch", &catalog.ConditionSpec{Season: &winter}, false},
		{"min reputation needs both", &catalog.ConditionSpec{MinReputation: &rep50}, false},
		{"min reputation holds", &catalog.ConditionSpec{MinReputation: &rep30}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.conditionHolds(tt.cond))
		})
	}
}

func TestResolveEventChoice_FullFlow(t *testing.T) {
	e := newStartedEngine(midRand(), choiceEvent("summit", 1))
	e.checkEventConditions()
	require.NotNil(t, e.gs.ActiveEvent)

	require.NoError(t, e.ResolveEventChoice("YES"))

	snap := e.Snapshot()
	assert.Equal(t, 1600, snap.Gold)
	require.NotNil(t, snap.ActiveEvent)
	assert.False(t, snap.ActiveEvent.AwaitingChoice)
	assert.True(t, snap.ActiveEvent.Resolved)
	assert.Equal(t, "YES", snap.ActiveEvent.ResolvedChoiceID)

	// Grace period: the slot frees only after the configured number of ticks.
	e.Tick()
	assert.NotNil(t, e.Snapshot().ActiveEvent)
	e.Tick()
	assert.Nil(t, e.Snapshot().ActiveEvent)
}

func TestResolveEventChoice_Errors(t *testing.T) {
	e := newStartedEngine(midRand(), choiceEvent("summit", 1))

	assert.ErrorIs(t, e.ResolveEventChoice("YES"), ErrNoActiveEvent)

	e.checkEventConditions()
	require.NotNil(t, e.gs.ActiveEvent)

	assert.ErrorIs(t, e.ResolveEventChoice("MAYBE"), ErrInvalidChoice)

	require.NoError(t, e.ResolveEventChoice("NO"))
	assert.ErrorIs(t, e.ResolveEventChoice("YES"), ErrEventNotAwaitingChoice)
}

func TestResolveEventChoice_GatedChoice(t *testing.T) {
	ev := choiceEvent("summit", 1)
	minGold := 999999
	ev.Choices[0].Condition = &catalog.ConditionSpec{MinGold: &minGold}

	e := newStartedEngine(midRand(), ev)
	e.checkEventConditions()
	require.NotNil(t, e.gs.ActiveEvent)

	assert.ErrorIs(t, e.ResolveEventChoice("YES"), ErrInvalidChoice)
	assert.True(t, e.gs.ActiveEvent.AwaitingChoice, "failed choice leaves the event open")
	require.NoError(t, e.ResolveEventChoice("NO"))
}

func TestTemporaryEvent_CountdownAndEndEffect(t *testing.T) {
	ev := catalog.EventSpec{
		ID:              "festival",
		Name:            "Festival",
		Category:        catalog.CategorySocial,
		Duration:        catalog.DurationTemporary,
		DurationSeconds: 3,
		Weight:          1,
		Effects: catalog.EffectGroup{
			Immediate: &catalog.EffectSpec{TrendDelta: 0.2},
			End:       &catalog.EffectSpec{TrendDelta: -0.2},
		},
	}

	e := newStartedEngine(midRand(), ev)
	e.checkEventConditions()
	require.NotNil(t, e.gs.ActiveEvent)
	assert.Equal(t, 3, e.gs.ActiveEvent.RemainingSeconds)
	assert.InDelta(t, 0.2, e.gs.MarketTrend, 1e-9)

	e.Tick()
	e.Tick()
	require.NotNil(t, e.gs.ActiveEvent)
	assert.Equal(t, 1, e.gs.ActiveEvent.RemainingSeconds)

	e.Tick()
	assert.Nil(t, e.gs.ActiveEvent, "event expires when the countdown hits zero")
	assert.InDelta(t, 0.0, e.gs.MarketTrend, 1e-9, "end effect reverses the immediate one")
}

func TestTemporaryEvent_OngoingAppliesOnceAtActivation(t *testing.T) {
	ev := catalog.EventSpec{
		ID:              "conference",
		Name:            "Conference",
		Category:        catalog.CategoryPolitical,
		Duration:        catalog.DurationTemporary,
		DurationSeconds: 10,
		Weight:          1,
		Effects: catalog.EffectGroup{
			Ongoing: &catalog.EffectSpec{VolatilityScale: f64(0.5)},
		},
	}

	e := newStartedEngine(midRand(), ev)
	e.checkEventConditions()
	require.NotNil(t, e.gs.ActiveEvent)
	assert.InDelta(t, 0.1, e.gs.Volatility, 1e-9)

	e.Tick()
	e.Tick()
	assert.InDelta(t, 0.1, e.gs.Volatility, 1e-9, "ongoing patch does not compound per tick")
}

func TestInstantEvent_NoticeAndDismiss(t *testing.T) {
	ev := catalog.EventSpec{
		ID:       "caravan",
		Name:     "Caravan",
		Category: catalog.CategoryEconomic,
		Duration: catalog.DurationInstant,
		Weight:   1,
		Effects: catalog.EffectGroup{
			Immediate: &catalog.EffectSpec{GoldDelta: 400},
		},
	}

	e := newStartedEngine(midRand(), ev)
	e.checkEventConditions()

	snap := e.Snapshot()
	assert.Nil(t, snap.ActiveEvent, "instant events never occupy the active slot")
	require.NotNil(t, snap.Notice)
	assert.Equal(t, "caravan", snap.Notice.EventID)
	assert.Equal(t, 1900, snap.Gold)

	require.NoError(t, e.DismissEvent())
	assert.Nil(t, e.Snapshot().Notice)
	assert.ErrorIs(t, e.DismissEvent(), ErrNoActiveEvent)
}

func TestPermanentEvent_NoChoicesResolvesAfterGrace(t *testing.T) {
	ev := catalog.EventSpec{
		ID:       "pact",
		Name:     "Pact",
		Category: catalog.CategoryMagical,
		Duration: catalog.DurationPermanent,
		Weight:   1,
		Effects: catalog.EffectGroup{
			Immediate: &catalog.EffectSpec{HumanPowerDelta: 5},
		},
	}

	e := newStartedEngine(midRand(), ev)
	e.checkEventConditions()
	require.NotNil(t, e.gs.ActiveEvent)
	assert.True(t, e.gs.ActiveEvent.Resolved)
	assert.InDelta(t, 55.0, e.gs.HumanPower, 1e-9)

	e.Tick()
	e.Tick()
	assert.Nil(t, e.gs.ActiveEvent)
}
