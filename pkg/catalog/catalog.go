package catalog

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Element is one of the five magical elements artifacts and materials belong to.
type Element string

const (
	ElementFire      Element = "FIRE"
	ElementIce       Element = "ICE"
	ElementWind      Element = "WIND"
	ElementEarth     Element = "EARTH"
	ElementLightning Element = "LIGHTNING"
)

// Elements lists all elements in canonical order.
var Elements = []Element{ElementFire, ElementIce, ElementWind, ElementEarth, ElementLightning}

// Faction is one of the two sides of the world balance.
type Faction string

const (
	FactionHuman   Faction = "HUMAN"
	FactionMonster Faction = "MONSTER"
)

// Season is one quarter of the game year.
type Season string

const (
	SeasonSpring Season = "SPRING"
	SeasonSummer Season = "SUMMER"
	SeasonAutumn Season = "AUTUMN"
	SeasonWinter Season = "WINTER"
)

// SeasonCycle is the fixed season order, starting at SPRING.
var SeasonCycle = []Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}

type MaterialType string

const (
	MaterialCrystal MaterialType = "CRYSTAL"
	MaterialEssence MaterialType = "ESSENCE"
	MaterialCore    MaterialType = "CORE"
	MaterialShard   MaterialType = "SHARD"
	MaterialDust    MaterialType = "DUST"
)

type MaterialGrade string

const (
	GradeCommon    MaterialGrade = "COMMON"
	GradeUncommon  MaterialGrade = "UNCOMMON"
	GradeRare      MaterialGrade = "RARE"
	GradeEpic      MaterialGrade = "EPIC"
	GradeLegendary MaterialGrade = "LEGENDARY"
)

// MaterialSpec describes a purchasable crafting material.
type MaterialSpec struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Price       int           `json:"price"`
	Grade       MaterialGrade `json:"grade"`
	Type        MaterialType  `json:"type"`
	Element     Element       `json:"element"`
}

// MaterialReq is one line of a recipe: a type+grade+amount of the slot's element.
type MaterialReq struct {
	Type   MaterialType  `json:"type"`
	Grade  MaterialGrade `json:"grade"`
	Amount int           `json:"amount"`
}

// TierSpec is a crafting recipe rank (level 1..3) for one element.
type TierSpec struct {
	Level    int           `json:"level"`
	Name     string        `json:"name"`
	Required []MaterialReq `json:"required_materials"`
}

// ElementSpec groups an element's recipes and its shop materials.
type ElementSpec struct {
	ID          Element        `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Tiers       []TierSpec     `json:"tiers"`
	Materials   []MaterialSpec `json:"materials"`
}

// SeasonSpec holds per-season demand modifiers for each element.
type SeasonSpec struct {
	ID               Season              `json:"id"`
	Name             string              `json:"name"`
	Description      string              `json:"description,omitempty"`
	ElementModifiers map[Element]float64 `json:"element_modifiers"`
}

// Catalog is the full static game data set, loaded once at startup and
// treated as immutable for the run.
type Catalog struct {
	Elements []ElementSpec `json:"elements"`
	Seasons  []SeasonSpec  `json:"seasons"`
	Events   []EventSpec   `json:"events"`
}

// Element returns the spec for the given element id, or nil.
func (c *Catalog) Element(id Element) *ElementSpec {
	for i := range c.Elements {
		if c.Elements[i].ID == id {
			return &c.Elements[i]
		}
	}
	return nil
}

// Tier returns the recipe for an element at the given level, or nil.
func (c *Catalog) Tier(id Element, level int) *TierSpec {
	el := c.Element(id)
	if el == nil {
		return nil
	}
	for i := range el.Tiers {
		if el.Tiers[i].Level == level {
			return &el.Tiers[i]
		}
	}
	return nil
}

// Material returns the material spec with the given id across all elements, or nil.
func (c *Catalog) Material(id string) *MaterialSpec {
	for i := range c.Elements {
		for j := range c.Elements[i].Materials {
			if c.Elements[i].Materials[j].ID == id {
				return &c.Elements[i].Materials[j]
			}
		}
	}
	return nil
}

// Materials returns every purchasable material in catalog order.
func (c *Catalog) Materials() []MaterialSpec {
	var out []MaterialSpec
	for i := range c.Elements {
		out = append(out, c.Elements[i].Materials...)
	}
	return out
}

// Season returns the spec for the given season id, or nil.
func (c *Catalog) Season(id Season) *SeasonSpec {
	for i := range c.Seasons {
		if c.Seasons[i].ID == id {
			return &c.Seasons[i]
		}
	}
	return nil
}

// SeasonModifier returns the demand modifier for an element in a season.
// Unknown season/element pairs fall back to 1.0.
func (c *Catalog) SeasonModifier(s Season, e Element) float64 {
	spec := c.Season(s)
	if spec == nil {
		return 1.0
	}
	if m, ok := spec.ElementModifiers[e]; ok {
		return m
	}
	return 1.0
}

// Event returns the event spec with the given id, or nil.
func (c *Catalog) Event(id string) *EventSpec {
	for i := range c.Events {
		if c.Events[i].ID == id {
			return &c.Events[i]
		}
	}
	return nil
}

var titleCaser = cases.Title(language.English)

// DisplayName renders an enum value like "LIGHTNING" or "PEACE_CONFERENCE"
// as human-readable text ("Lightning", "Peace Conference").
func DisplayName(v string) string {
	out := make([]byte, len(v))
	for i := 0; i < len(v); i++ {
		if v[i] == '_' {
			out[i] = ' '
		} else {
			out[i] = v[i]
		}
	}
	return titleCaser.String(string(out))
}

func gradeRank(g MaterialGrade) int {
	switch g {
	case GradeCommon:
		return 0
	case GradeUncommon:
		return 1
	case GradeRare:
		return 2
	case GradeEpic:
		return 3
	case GradeLegendary:
		return 4
	default:
		return -1
	}
}

func validElement(e Element) bool {
	for _, known := range Elements {
		if e == known {
			return true
		}
	}
	return false
}

func validSeason(s Season) bool {
	for _, known := range SeasonCycle {
		if s == known {
			return true
		}
	}
	return false
}

func validFaction(f Faction) bool {
	return f == FactionHuman || f == FactionMonster
}

// errInvalid builds a uniform semantic validation error.
func errInvalid(section, id, msg string) error {
	return fmt.Errorf("catalog %s %q: %s", section, id, msg)
}
