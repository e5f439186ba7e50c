package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ShippedCatalog(t *testing.T) {
	c, err := Load("../../data")
	require.NoError(t, err)

	assert.Len(t, c.Elements, 5)
	assert.Len(t, c.Seasons, 4)
	assert.Len(t, c.Events, 7)

	fire := c.Element(ElementFire)
	require.NotNil(t, fire)
	assert.Equal(t, "Flame", fire.Name)
	assert.Len(t, fire.Tiers, 3)
	assert.Len(t, fire.Materials, 4)

	tier := c.Tier(ElementFire, 1)
	require.NotNil(t, tier)
	total := 0
	for _, req := range tier.Required {
		total += req.Amount
	}
	assert.Equal(t, 3, total, "tier-1 recipes consume three materials")

	assert.Nil(t, c.Tier(ElementFire, 4))
	assert.Nil(t, c.Element("VOID"))
}

func TestLoad_SeasonModifiers(t *testing.T) {
	c, err := Load("../../data")
	require.NoError(t, err)

	assert.Equal(t, 1.5, c.SeasonModifier(SeasonWinter, ElementIce))
	assert.Equal(t, 1.5, c.SeasonModifier(SeasonSpring, ElementWind))
	assert.Equal(t, 1.0, c.SeasonModifier("MONSOON", ElementFire), "unknown season falls back to neutral")
}

func TestLoad_EventCatalog(t *testing.T) {
	c, err := Load("../../data")
	require.NoError(t, err)

	conf := c.Event("PEACE_CONFERENCE")
	require.NotNil(t, conf)
	assert.Equal(t, DurationTemporary, conf.Duration)
	assert.Positive(t, conf.DurationSeconds)
	require.NotNil(t, conf.Condition)
	require.NotNil(t, conf.Condition.PowerBalanceWithin)
	assert.Equal(t, 10.0, *conf.Condition.PowerBalanceWithin)
	assert.NotNil(t, conf.Choice("SUPPORT"))
	assert.Nil(t, conf.Choice("FLEE"))

	caravan := c.Event("TREASURE_CARAVAN")
	require.NotNil(t, caravan)
	assert.Equal(t, DurationInstant, caravan.Duration)
	assert.Empty(t, caravan.Choices)
	require.NotNil(t, caravan.Effects.Immediate)
	assert.Equal(t, 400, caravan.Effects.Immediate.GoldDelta)

	assert.Nil(t, c.Event("DRAGON_ATTACK"))
}

func TestCatalog_MaterialLookups(t *testing.T) {
	c, err := Load("../../data")
	require.NoError(t, err)

	mat := c.Material("fire-crystal")
	require.NotNil(t, mat)
	assert.Equal(t, ElementFire, mat.Element)
	assert.Equal(t, MaterialCrystal, mat.Type)
	assert.Equal(t, 100, mat.Price)

	assert.Nil(t, c.Material("philosopher-stone"))
	assert.Len(t, c.Materials(), 20, "four shop materials per element")
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"LIGHTNING":        "Lightning",
		"PEACE_CONFERENCE": "Peace Conference",
		"MANA_STORM":       "Mana Storm",
		"fire":             "Fire",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, DisplayName(in))
	}
}

func TestGradeRank_Ordering(t *testing.T) {
	assert.Less(t, gradeRank(GradeCommon), gradeRank(GradeUncommon))
	assert.Less(t, gradeRank(GradeRare), gradeRank(GradeLegendary))
	assert.Equal(t, -1, gradeRank(MaterialGrade("MYTHIC")))
}
