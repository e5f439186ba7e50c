package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
)

const minCraftSeconds = 15

// craftSeconds is the full craft duration for the current speed upgrade.
func (e *Engine) craftSeconds() int {
	secs := e.tun.BaseCraftSeconds - 5*(e.gs.Upgrades.Speed-1)
	if secs < minCraftSeconds {
		return minCraftSeconds
	}
	return secs
}

// CanStart reports whether the slot's recipe is fully covered by inventory.
func (e *Engine) CanStart(slotID int) bool {
	slot := e.gs.Slot(slotID)
	if slot == nil || slot.Active {
		return false
	}
	_, ok := e.requiredItemIDs(slot)
	return ok
}

// requiredItemIDs resolves the slot's recipe against inventory and returns
// the exact item ids to consume, in inventory order. The bool result is
// false when any requirement is short; in that case nothing may be consumed.
func (e *Engine) requiredItemIDs(slot *ProductionSlot) ([]string, bool) {
	tier := e.cat.Tier(slot.Element, slot.Level)
	if tier == nil {
		return nil, false
	}

	var ids []string
	taken := make(map[string]bool)
	for _, req := range tier.Required {
		found := 0
		for i := range e.gs.Inventory {
			item := &e.gs.Inventory[i]
			if item.Kind != ItemMaterial || taken[item.ID] {
				continue
			}
			if item.Type == req.Type && item.Grade == req.Grade && item.Element == slot.Element {
				taken[item.ID] = true
				ids = append(ids, item.ID)
				found++
				if found == req.Amount {
					break
				}
			}
		}
		if found < req.Amount {
			return nil, false
		}
	}
	return ids, true
}

// startProduction validates the full recipe, then atomically consumes the
// materials and activates the slot. Inventory is never left partially
// consumed: the id list is resolved completely before the first removal.
func (e *Engine) startProduction(slotID int) error {
	slot := e.gs.Slot(slotID)
	if slot == nil {
		return fmt.Errorf("production slot %d: %w", slotID, ErrNotFound)
	}
	if slot.Active {
		return ErrSlotBusy
	}

	ids, ok := e.requiredItemIDs(slot)
	if !ok {
		return ErrInsufficientMaterials
	}
	for _, id := range ids {
		e.gs.removeItem(id)
	}

	secs := e.craftSeconds()
	slot.Active = true
	slot.Progress = 0
	slot.TimeRemaining = secs
	slot.CraftSeconds = secs
	slot.MaterialsUsed += len(ids)

	e.log.Debug("production started",
		"slot", slot.ID, "element", slot.Element, "level", slot.Level,
		"materials", len(ids), "craft_seconds", secs)
	return nil
}

// tickProduction advances every active slot by one second and completes
// crafts whose timers reach zero.
func (e *Engine) tickProduction() {
	for i := range e.gs.Slots {
		slot := &e.gs.Slots[i]
		if !slot.Active {
			continue
		}
		slot.TimeRemaining--
		slot.Progress = 100 * (1 - float64(slot.TimeRemaining)/float64(slot.CraftSeconds))
		if slot.TimeRemaining <= 0 {
			e.completeCraft(slot)
		}
	}
}

// completeCraft rolls artifact quality, appends the result to inventory and
// resets the slot to idle.
func (e *Engine) completeCraft(slot *ProductionSlot) {
	quality := e.rollQuality(slot.Element, slot.Level)
	tier := e.cat.Tier(slot.Element, slot.Level)
	name := fmt.Sprintf("%s Tome", slot.Element)
	if tier != nil {
		name = artifactName(tier.Name, quality)
	}

	artifact := Item{
		ID:      fmt.Sprintf("artifact-%s", uuid.New().String()[:8]),
		Kind:    ItemArtifact,
		Name:    name,
		Element: slot.Element,
		Level:   slot.Level,
		Quality: quality,
	}
	e.gs.Inventory = append(e.gs.Inventory, artifact)

	slot.Active = false
	slot.Progress = 0
	slot.TimeRemaining = 0
	slot.CraftSeconds = 0

	e.log.Info("craft completed",
		"slot", slot.ID, "element", slot.Element, "level", slot.Level,
		"quality", quality, "item_id", artifact.ID)
}

// rollQuality draws artifact quality: the floor rises with recipe level and
// the quality upgrade, seasonal demand scales the roll, and volatility
// widens the spread. Clamped to [0,100].
func (e *Engine) rollQuality(element catalog.Element, level int) float64 {
	floor := float64(40 + 10*level + 2*(e.gs.Upgrades.Quality-1))
	if floor > 80 {
		floor = 80
	}
	base := floor + e.rng.Float64()*(100-floor)
	seasonMod := e.cat.SeasonModifier(e.gs.Calendar.Season, element)
	volMod := 1 + (e.rng.Float64()-0.5)*e.gs.Volatility
	return clamp(base*seasonMod*volMod, 0, 100)
}
