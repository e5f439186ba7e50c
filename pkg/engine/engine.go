package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
)

// Engine owns one game session's state and is its only mutator. It is not
// safe for concurrent use: all calls must come from a single goroutine,
// normally the Runner loop.
type Engine struct {
	cat *catalog.Catalog
	tun Tuning
	rng Rand
	log *slog.Logger
	gs  *GameState
}

// New creates an engine with a fresh pre-start game state.
func New(cat *catalog.Catalog, tun Tuning, rng Rand, log *slog.Logger) *Engine {
	return &Engine{
		cat: cat,
		tun: tun,
		rng: rng,
		log: log,
		gs:  NewGameState(tun),
	}
}

// ID is the stable session identity; it survives resets.
func (e *Engine) ID() uuid.UUID {
	return e.gs.ID
}

// Snapshot returns a deep read-only copy for the presentation layer.
func (e *Engine) Snapshot() Snapshot {
	return e.gs.snapshot()
}

// guardMutable rejects commands outside the live-game window.
func (e *Engine) guardMutable() error {
	if e.gs.GameOver {
		return ErrGameOver
	}
	if !e.gs.Started {
		return ErrNotStarted
	}
	return nil
}

// StartGame begins the run. Starting an already-started game is a no-op;
// a finished game must be reset first.
func (e *Engine) StartGame() error {
	if e.gs.GameOver {
		return ErrGameOver
	}
	if e.gs.Started {
		return nil
	}
	e.gs.Started = true
	e.touch()
	e.log.Info("game started", "session", e.gs.ID)
	return nil
}

// ResetGame returns to the pre-start state, keeping the session identity.
// Valid in any state, including after game over.
func (e *Engine) ResetGame() {
	id := e.gs.ID
	created := e.gs.CreatedAt
	e.gs = NewGameState(e.tun)
	e.gs.ID = id
	e.gs.CreatedAt = created
	e.log.Info("game reset", "session", id)
}

// PurchaseMaterial buys one unit of a shop material into inventory.
func (e *Engine) PurchaseMaterial(materialID string) error {
	if err := e.guardMutable(); err != nil {
		return err
	}
	spec := e.cat.Material(materialID)
	if spec == nil {
		return fmt.Errorf("material %q: %w", materialID, ErrNotFound)
	}
	if e.gs.Gold < spec.Price {
		return ErrInsufficientFunds
	}

	e.gs.Gold -= spec.Price
	e.gs.Inventory = append(e.gs.Inventory, Item{
		ID:          fmt.Sprintf("%s-%s", spec.ID, uuid.New().String()[:8]),
		Kind:        ItemMaterial,
		Name:        spec.Name,
		Element:     spec.Element,
		Description: spec.Description,
		Type:        spec.Type,
		Grade:       spec.Grade,
		Price:       spec.Price,
	})
	e.touch()
	e.log.Debug("material purchased", "material", spec.ID, "price", spec.Price, "gold", e.gs.Gold)
	return nil
}

// StartProduction begins a craft on the given slot.
func (e *Engine) StartProduction(slotID int) error {
	if err := e.guardMutable(); err != nil {
		return err
	}
	if err := e.startProduction(slotID); err != nil {
		return err
	}
	e.touch()
	return nil
}

// SellArtifact sells a crafted artifact to a faction, returning the sale
// price. The sale moves the world balance and both reputations, and may end
// the game if one side is wiped out.
func (e *Engine) SellArtifact(itemID string, buyer catalog.Faction) (int, error) {
	if err := e.guardMutable(); err != nil {
		return 0, err
	}
	if buyer != catalog.FactionHuman && buyer != catalog.FactionMonster {
		return 0, fmt.Errorf("unknown buyer faction %q", buyer)
	}
	item := e.gs.Item(itemID)
	if item == nil || item.Kind != ItemArtifact {
		return 0, fmt.Errorf("artifact %q: %w", itemID, ErrNotFound)
	}

	price := salePrice(item.Quality, item.Element, e.gs.Calendar.Season, e.gs.MarketTrend, e.cat)
	impact := ComputeImpact(item.Level, item.Quality, item.Element, buyer, e.gs.HumanPower)

	e.gs.Gold += price
	e.gs.removeItem(itemID)
	e.applyReputation(catalog.ReputationDelta{Human: impact.Reputation.Human, Monster: impact.Reputation.Monster})
	e.setHumanPower(e.gs.HumanPower + impact.HumanPowerDelta)
	e.touch()

	e.log.Info("artifact sold",
		"item", itemID, "buyer", buyer, "price", price,
		"power_delta", impact.HumanPowerDelta, "human_power", e.gs.HumanPower)
	return price, nil
}

// ResolveEventChoice answers the active event's player choice.
func (e *Engine) ResolveEventChoice(choiceID string) error {
	if err := e.guardMutable(); err != nil {
		return err
	}
	if err := e.resolveChoice(choiceID); err != nil {
		return err
	}
	e.touch()
	return nil
}

// DismissEvent clears the notice left by an instant event.
func (e *Engine) DismissEvent() error {
	if err := e.guardMutable(); err != nil {
		return err
	}
	if err := e.dismissNotice(); err != nil {
		return err
	}
	e.touch()
	return nil
}

// UpgradeTrack selects which workshop upgrade to buy.
type UpgradeTrack string

const (
	UpgradeSpeed   UpgradeTrack = "speed"
	UpgradeQuality UpgradeTrack = "quality"
	UpgradeSlots   UpgradeTrack = "slots"
)

// UpgradeProduction buys one level of a workshop upgrade. The slots track
// adds a new level-1 production slot bound to the next element without one.
func (e *Engine) UpgradeProduction(track UpgradeTrack) error {
	if err := e.guardMutable(); err != nil {
		return err
	}

	var cost int
	switch track {
	case UpgradeSpeed:
		cost = e.tun.UpgradeSpeedCost * e.gs.Upgrades.Speed
	case UpgradeQuality:
		cost = e.tun.UpgradeQualityCost * e.gs.Upgrades.Quality
	case UpgradeSlots:
		if len(e.gs.Slots) >= e.tun.MaxSlots {
			return fmt.Errorf("all %d production slots built: %w", e.tun.MaxSlots, ErrNotFound)
		}
		cost = e.tun.UpgradeSlotCost * e.gs.Upgrades.Slots
	default:
		return fmt.Errorf("unknown upgrade track %q", track)
	}
	if e.gs.Gold < cost {
		return ErrInsufficientFunds
	}

	e.gs.Gold -= cost
	switch track {
	case UpgradeSpeed:
		e.gs.Upgrades.Speed++
	case UpgradeQuality:
		e.gs.Upgrades.Quality++
	case UpgradeSlots:
		e.gs.Upgrades.Slots++
		e.gs.Slots = append(e.gs.Slots, ProductionSlot{
			ID:      len(e.gs.Slots) + 1,
			Element: e.nextSlotElement(),
			Level:   1,
		})
	}
	e.touch()
	e.log.Info("production upgraded", "track", track, "cost", cost)
	return nil
}

// nextSlotElement picks the first element without a slot, in canonical order.
func (e *Engine) nextSlotElement() catalog.Element {
	used := make(map[catalog.Element]bool)
	for _, s := range e.gs.Slots {
		used[s.Element] = true
	}
	for _, el := range catalog.Elements {
		if !used[el] {
			return el
		}
	}
	return catalog.Elements[0]
}

// Tick is the fast (1-second) driver entry point. Within one tick the
// calendar advances first, then production, then the event countdown, so
// completions and expiries on the same tick observe the same date.
func (e *Engine) Tick() {
	if !e.gs.Started || e.gs.GameOver {
		return
	}
	before := e.gs.Calendar
	e.gs.Calendar = advanceClock(before)
	if calendarChanged(before, e.gs.Calendar) {
		e.log.Debug("calendar advanced",
			"day", e.gs.Calendar.Day, "season", e.gs.Calendar.Season, "year", e.gs.Calendar.Year)
	}
	e.tickProduction()
	e.tickEventCountdown()
	e.touch()
}

// SlowTick is the slow driver entry point: one market step, then one event
// condition check.
func (e *Engine) SlowTick() {
	if !e.gs.Started || e.gs.GameOver {
		return
	}
	trend, vol, changed := updateMarket(e.gs.MarketTrend, e.gs.Volatility, e.rng)
	if changed {
		e.gs.MarketTrend = trend
		e.gs.Volatility = vol
		e.log.Debug("market updated", "trend", trend, "volatility", vol)
	}
	e.checkEventConditions()
	e.touch()
}

func (e *Engine) touch() {
	e.gs.UpdatedAt = time.Now().UTC()
}
