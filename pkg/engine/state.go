package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
)

// Time constants of the game calendar. One tick is one real-time second.
const (
	TicksPerDay    = 24
	DaysPerSeason  = 30
	SeasonsPerYear = 4
)

// ItemKind tags the two variants of an inventory item.
type ItemKind string

const (
	ItemMaterial ItemKind = "material"
	ItemArtifact ItemKind = "artifact"
)

// Item is an inventory entry: either a purchased crafting material or a
// crafted artifact. The Kind tag decides which field set is meaningful.
type Item struct {
	ID          string          `json:"id"`
	Kind        ItemKind        `json:"kind"`
	Name        string          `json:"name"`
	Element     catalog.Element `json:"element"`
	Description string          `json:"description,omitempty"`

	// Material fields
	Type  catalog.MaterialType  `json:"type,omitempty"`
	Grade catalog.MaterialGrade `json:"grade,omitempty"`
	Price int                   `json:"price,omitempty"`

	// Artifact fields
	Level     int     `json:"level,omitempty"`
	Quality   float64 `json:"quality,omitempty"`
	BasePrice int     `json:"base_price,omitempty"`
}

// ProductionSlot is one crafting station bound to an element.
type ProductionSlot struct {
	ID            int             `json:"id"`
	Element       catalog.Element `json:"element"`
	Level         int             `json:"level"`
	Active        bool            `json:"active"`
	Progress      float64         `json:"progress"`       // 0..100
	TimeRemaining int             `json:"time_remaining"` // seconds
	CraftSeconds  int             `json:"craft_seconds"`  // total for the running craft
	MaterialsUsed int             `json:"materials_used"` // lifetime consumption count
}

// Reputation is the merchant's standing with each faction, clamped [0,100].
type Reputation struct {
	Human   float64 `json:"human"`
	Monster float64 `json:"monster"`
}

// Calendar is the derived game date. Day and season follow from ElapsedTicks.
type Calendar struct {
	ElapsedTicks int            `json:"elapsed_ticks"`
	Day          int            `json:"day"` // 0..29 within the season
	Season       catalog.Season `json:"season"`
	Year         int            `json:"year"`
}

// ActiveEvent is the single in-progress world event, if any.
type ActiveEvent struct {
	EventID          string                `json:"event_id"`
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	Category         catalog.EventCategory `json:"category"`
	Duration         catalog.EventDuration `json:"duration"`
	RemainingSeconds int                   `json:"remaining_seconds,omitempty"`
	AwaitingChoice   bool                  `json:"awaiting_choice"`
	Resolved         bool                  `json:"resolved"`
	ResolvedChoiceID string                `json:"resolved_choice_id,omitempty"`
	ClearIn          int                   `json:"clear_in,omitempty"` // grace ticks until the slot frees
}

// EventNotice is a dismissible record of an instant event that already
// applied its effect. It does not occupy the active-event slot.
type EventNotice struct {
	EventID     string `json:"event_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Upgrades tracks the workshop upgrade levels.
type Upgrades struct {
	Speed   int `json:"speed"`
	Quality int `json:"quality"`
	Slots   int `json:"slots"`
}

// GameState is the single authoritative aggregate of one game session.
// All mutation goes through the Engine command surface; monster power is
// derived from human power and never stored.
type GameState struct {
	ID       uuid.UUID `json:"id"`
	Started  bool      `json:"started"`
	GameOver bool      `json:"game_over"`

	Gold       int     `json:"gold"`
	HumanPower float64 `json:"human_power"` // 0..100; monster power is 100 minus this

	MarketTrend float64 `json:"market_trend"` // -0.5..0.5
	Volatility  float64 `json:"volatility"`   // 0.1..0.4

	Reputation Reputation `json:"reputation"`
	Calendar   Calendar   `json:"calendar"`

	Inventory []Item           `json:"inventory"`
	Slots     []ProductionSlot `json:"production_slots"`

	ActiveEvent *ActiveEvent `json:"active_event,omitempty"`
	Notice      *EventNotice `json:"notice,omitempty"`
	Upgrades    Upgrades     `json:"upgrades"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGameState builds the pre-start state: a fresh merchant with two
// level-1 slots and a calm, balanced world.
func NewGameState(tun Tuning) *GameState {
	now := time.Now().UTC()
	return &GameState{
		ID:          uuid.New(),
		Gold:        tun.InitialGold,
		HumanPower:  50,
		MarketTrend: 0,
		Volatility:  0.2,
		Reputation:  Reputation{Human: 50, Monster: 50},
		Calendar:    Calendar{Day: 0, Season: catalog.SeasonSpring, Year: 1},
		Inventory:   make([]Item, 0),
		Slots: []ProductionSlot{
			{ID: 1, Element: catalog.ElementFire, Level: 1},
			{ID: 2, Element: catalog.ElementIce, Level: 1},
		},
		Upgrades:  Upgrades{Speed: 1, Quality: 1, Slots: 2},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MonsterPower is the derived complement of human power.
func (gs *GameState) MonsterPower() float64 {
	return 100 - gs.HumanPower
}

// Slot returns the production slot with the given id, or nil.
func (gs *GameState) Slot(id int) *ProductionSlot {
	for i := range gs.Slots {
		if gs.Slots[i].ID == id {
			return &gs.Slots[i]
		}
	}
	return nil
}

// Item returns the inventory item with the given id, or nil.
func (gs *GameState) Item(id string) *Item {
	for i := range gs.Inventory {
		if gs.Inventory[i].ID == id {
			return &gs.Inventory[i]
		}
	}
	return nil
}

// removeItem deletes an item by id, preserving inventory order.
// Returns false if the id is not present.
func (gs *GameState) removeItem(id string) bool {
	for i := range gs.Inventory {
		if gs.Inventory[i].ID == id {
			gs.Inventory = append(gs.Inventory[:i], gs.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot is a deep, read-only copy of the game state handed to the
// presentation layer, with derived values filled in.
type Snapshot struct {
	GameState
	MonsterPower float64 `json:"monster_power"`
}

// snapshot deep-copies the aggregate. Slices and pointers are cloned so the
// caller can never alias live state.
func (gs *GameState) snapshot() Snapshot {
	cp := *gs
	cp.Inventory = make([]Item, len(gs.Inventory))
	copy(cp.Inventory, gs.Inventory)
	cp.Slots = make([]ProductionSlot, len(gs.Slots))
	copy(cp.Slots, gs.Slots)
	if gs.ActiveEvent != nil {
		ev := *gs.ActiveEvent
		cp.ActiveEvent = &ev
	}
	if gs.Notice != nil {
		n := *gs.Notice
		cp.Notice = &n
	}
	return Snapshot{GameState: cp, MonsterPower: gs.MonsterPower()}
}
