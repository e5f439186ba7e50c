package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
)

func TestStartProduction_InsufficientMaterials(t *testing.T) {
	e := newStartedEngine(midRand())

	err := e.StartProduction(1)
	assert.ErrorIs(t, err, ErrInsufficientMaterials)

	snap := e.Snapshot()
	assert.False(t, snap.Slots[0].Active)
	assert.Equal(t, 1500, snap.Gold)
	assert.Empty(t, snap.Inventory)
}

func TestStartProduction_PartialRecipeConsumesNothing(t *testing.T) {
	e := newStartedEngine(midRand())

	// One crystal out of the two required; the dust is also missing.
	require.NoError(t, e.PurchaseMaterial(string(catalog.ElementFire)+"-crystal"))

	err := e.StartProduction(1)
	assert.ErrorIs(t, err, ErrInsufficientMaterials)

	snap := e.Snapshot()
	assert.Len(t, snap.Inventory, 1, "failed start must not consume inventory")
	assert.False(t, snap.Slots[0].Active)
}

func TestStartProduction_WrongElementMaterials(t *testing.T) {
	e := newStartedEngine(midRand())

	// A full ice recipe cannot feed the fire slot.
	require.NoError(t, buyTierOneMaterials(e, catalog.ElementIce))

	err := e.StartProduction(1)
	assert.ErrorIs(t, err, ErrInsufficientMaterials)
	assert.Len(t, e.Snapshot().Inventory, 3)
}

func TestStartProduction_UnknownSlot(t *testing.T) {
	e := newStartedEngine(midRand())
	assert.ErrorIs(t, e.StartProduction(99), ErrNotFound)
}

func TestStartProduction_SlotBusy(t *testing.T) {
	e := newStartedEngine(midRand())
	require.NoError(t, buyTierOneMaterials(e, catalog.ElementFire))
	require.NoError(t, e.StartProduction(1))

	require.NoError(t, buyTierOneMaterials(e, catalog.ElementFire))
	assert.ErrorIs(t, e.StartProduction(1), ErrSlotBusy)
}

func TestProduction_FullCraftCycle(t *testing.T) {
	e := newStartedEngine(midRand())

	require.NoError(t, buyTierOneMaterials(e, catalog.ElementFire))
	require.NoError(t, e.StartProduction(1))

	snap := e.Snapshot()
	assert.Equal(t, 1250, snap.Gold, "two crystals and one dust cost 250")
	assert.Empty(t, snap.Inventory, "materials consumed on start")
	require.True(t, snap.Slots[0].Active)
	assert.Equal(t, 60, snap.Slots[0].TimeRemaining)
	assert.Equal(t, 3, snap.Slots[0].MaterialsUsed)

	for i := 0; i < 30; i++ {
		e.Tick()
	}
	snap = e.Snapshot()
	assert.Equal(t, 30, snap.Slots[0].TimeRemaining)
	assert.InDelta(t, 50.0, snap.Slots[0].Progress, 1e-9)

	for i := 0; i < 30; i++ {
		e.Tick()
	}
	snap = e.Snapshot()
	assert.False(t, snap.Slots[0].Active, "slot idles after completion")
	assert.Zero(t, snap.Slots[0].TimeRemaining)

	require.Len(t, snap.Inventory, 1)
	artifact := snap.Inventory[0]
	assert.Equal(t, ItemArtifact, artifact.Kind)
	assert.Equal(t, catalog.ElementFire, artifact.Element)
	assert.Equal(t, 1, artifact.Level)
	// Level-1 floor is 50; a mid draw over flat season modifiers lands at 75.
	assert.InDelta(t, 75.0, artifact.Quality, 1e-9)
	assert.Equal(t, "Flame Tome I", artifact.Name)
}

func TestCraftSeconds_SpeedUpgradeFloor(t *testing.T) {
	e := newStartedEngine(midRand())

	assert.Equal(t, 60, e.craftSeconds())

	e.gs.Upgrades.Speed = 5
	assert.Equal(t, 40, e.craftSeconds())

	// 60 - 5*(speed-1) bottoms out at the minimum craft time.
	e.gs.Upgrades.Speed = 20
	assert.Equal(t, minCraftSeconds, e.craftSeconds())
}

func TestRollQuality_FloorRisesWithLevelAndUpgrade(t *testing.T) {
	e := newStartedEngine(&fixedRand{vals: []float64{0, 0.5}})

	// A zero draw lands exactly on the floor: 40 + 10*level.
	q := e.rollQuality(catalog.ElementFire, 3)
	assert.InDelta(t, 70.0, q, 1e-9)

	e.gs.Upgrades.Quality = 6
	q = e.rollQuality(catalog.ElementFire, 3)
	assert.InDelta(t, 80.0, q, 1e-9)

	// The floor caps at 80 no matter how far the upgrade goes.
	e.gs.Upgrades.Quality = 50
	q = e.rollQuality(catalog.ElementFire, 3)
	assert.InDelta(t, 80.0, q, 1e-9)
}

func TestRollQuality_NeverExceedsBounds(t *testing.T) {
	e := newStartedEngine(&fixedRand{vals: []float64{1, 1}})
	e.gs.Volatility = 0.4

	q := e.rollQuality(catalog.ElementFire, 3)
	assert.LessOrEqual(t, q, 100.0)
	assert.GreaterOrEqual(t, q, 0.0)
}

func TestCanStart(t *testing.T) {
	e := newStartedEngine(midRand())
	assert.False(t, e.CanStart(1))
	assert.False(t, e.CanStart(99))

	var err error
	if err = buyTierOneMaterials(e, catalog.ElementFire); err != nil {
		t.Fatal(err)
	}
	assert.True(t, e.CanStart(1))
	assert.False(t, e.CanStart(2), "ice slot cannot use fire materials")

	if err = e.StartProduction(1); err != nil {
		t.Fatal(err)
	}
	assert.False(t, e.CanStart(1), "active slot cannot restart")
}

func TestStartProduction_RequiresStartedGame(t *testing.T) {
	e := New(testCatalog(), DefaultTuning(), midRand(), testLogger())
	assert.True(t, errors.Is(e.StartProduction(1), ErrNotStarted))
}
