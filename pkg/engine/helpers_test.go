package engine

import (
	"log/slog"
	"os"

	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
)

// fixedRand replays a fixed sequence of draws, wrapping around.
type fixedRand struct {
	vals []float64
	i    int
}

func (f *fixedRand) Float64() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func midRand() *fixedRand { return &fixedRand{vals: []float64{0.5}} }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func flatSeasons() []catalog.SeasonSpec {
	mods := func() map[catalog.Element]float64 {
		m := make(map[catalog.Element]float64)
		for _, el := range catalog.Elements {
			m[el] = 1.0
		}
		return m
	}
	return []catalog.SeasonSpec{
		{ID: catalog.SeasonSpring, Name: "Spring", ElementModifiers: mods()},
		{ID: catalog.SeasonSummer, Name: "Summer", ElementModifiers: mods()},
		{ID: catalog.SeasonAutumn, Name: "Autumn", ElementModifiers: mods()},
		{ID: catalog.SeasonWinter, Name: "Winter", ElementModifiers: mods()},
	}
}

func elementSpec(id catalog.Element, prefix string) catalog.ElementSpec {
	return catalog.ElementSpec{
		ID:   id,
		Name: prefix,
		Tiers: []catalog.TierSpec{
			{
				Level: 1,
				Name:  prefix + " Tome I",
				Required: []catalog.MaterialReq{
					{Type: catalog.MaterialCrystal, Grade: catalog.GradeCommon, Amount: 2},
					{Type: catalog.MaterialDust, Grade: catalog.GradeCommon, Amount: 1},
				},
			},
			{
				Level: 2,
				Name:  prefix + " Tome II",
				Required: []catalog.MaterialReq{
					{Type: catalog.MaterialCrystal, Grade: catalog.GradeUncommon, Amount: 2},
					{Type: catalog.MaterialEssence, Grade: catalog.GradeCommon, Amount: 1},
				},
			},
			{
				Level: 3,
				Name:  prefix + " Tome III",
				Required: []catalog.MaterialReq{
					{Type: catalog.MaterialCore, Grade: catalog.GradeRare, Amount: 1},
					{Type: catalog.MaterialEssence, Grade: catalog.GradeUncommon, Amount: 2},
				},
			},
		},
		Materials: []catalog.MaterialSpec{
			{ID: string(id) + "-dust", Name: prefix + " Dust", Price: 50,
				Grade: catalog.GradeCommon, Type: catalog.MaterialDust, Element: id},
			{ID: string(id) + "-crystal", Name: prefix + " Crystal", Price: 100,
				Grade: catalog.GradeCommon, Type: catalog.MaterialCrystal, Element: id},
			{ID: string(id) + "-essence", Name: prefix + " Essence", Price: 250,
				Grade: catalog.GradeUncommon, Type: catalog.MaterialEssence, Element: id},
			{ID: string(id) + "-core", Name: prefix + " Core", Price: 500,
				Grade: catalog.GradeRare, Type: catalog.MaterialCore, Element: id},
		},
	}
}

// testCatalog is a minimal two-element catalog with flat seasonal modifiers
// so quality and price math is exact under a fixed random source.
func testCatalog(events ...catalog.EventSpec) *catalog.Catalog {
	return &catalog.Catalog{
		Elements: []catalog.ElementSpec{
			elementSpec(catalog.ElementFire, "Flame"),
			elementSpec(catalog.ElementIce, "Frost"),
		},
		Seasons: flatSeasons(),
		Events:  events,
	}
}

// newStartedEngine builds an engine on the test catalog and starts the game.
func newStartedEngine(rng Rand, events ...catalog.EventSpec) *Engine {
	e := New(testCatalog(events...), DefaultTuning(), rng, testLogger())
	_ = e.StartGame()
	return e
}

// buyTierOneMaterials purchases exactly the level-1 recipe for an element.
func buyTierOneMaterials(e *Engine, element catalog.Element) error {
	prefix := string(element)
	for _, id := range []string{prefix + "-crystal", prefix + "-crystal", prefix + "-dust"} {
		if err := e.PurchaseMaterial(id); err != nil {
			return err
		}
	}
	return nil
}
