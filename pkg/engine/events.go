package engine

import (
	"fmt"

	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
)

// checkEventConditions is the slow-driver entry point of the event system.
// It is a strict no-op while an event occupies the active slot, which is
// what guarantees at most one active event system-wide.
func (e *Engine) checkEventConditions() {
	if e.gs.ActiveEvent != nil {
		return
	}

	var eligible []*catalog.EventSpec
	totalWeight := 0.0
	for i := range e.cat.Events {
		ev := &e.cat.Events[i]
		if e.conditionHolds(ev.Condition) {
			eligible = append(eligible, ev)
			totalWeight += ev.Weight
		}
	}
	if len(eligible) == 0 {
		return
	}

	// Cumulative-weight walk: the draw lands in exactly one bucket, with
	// catalog order breaking boundary ties.
	r := e.rng.Float64() * totalWeight
	for _, ev := range eligible {
		r -= ev.Weight
		if r <= 0 {
			e.activateEvent(ev)
			return
		}
	}
	// Floating point can leave a sliver of r; the last bucket owns it.
	e.activateEvent(eligible[len(eligible)-1])
}

// conditionHolds evaluates a data-form eligibility predicate against the
// current state. A nil or empty condition always holds.
func (e *Engine) conditionHolds(cond *catalog.ConditionSpec) bool {
	if cond == nil {
		return true
	}
	gs := e.gs
	if cond.PowerBalanceWithin != nil {
		diff := gs.HumanPower - 50
		if diff < 0 {
			diff = -diff
		}
		if diff >= *cond.PowerBalanceWithin {
			return false
		}
	}
	if cond.MinGold != nil && gs.Gold < *cond.MinGold {
		return false
	}
	if cond.MaxGold != nil && gs.Gold > *cond.MaxGold {
		return false
	}
	if cond.Season != nil && gs.Calendar.Season != *cond.Season {
		return false
	}
	if cond.MinReputation != nil &&
		(gs.Reputation.Human < *cond.MinReputation || gs.Reputation.Monster < *cond.MinReputation) {
		return false
	}
	return true
}

// activateEvent runs the activation leg of the event state machine.
//
// Instant events without choices apply their patch and only leave a
// dismissible notice; they never occupy the active slot. Everything else
// claims the slot: temporary events start their countdown and apply their
// ongoing patch once, choice-less events apply their immediate patch at
// once, and permanent choice-less events then move straight to the
// resolved grace period (a permanent effect does not blockade the event
// system forever).
func (e *Engine) activateEvent(ev *catalog.EventSpec) {
	e.log.Info("event triggered", "event", ev.ID, "category", ev.Category, "duration", ev.Duration)

	hasChoices := len(ev.Choices) > 0

	if ev.Duration == catalog.DurationInstant && !hasChoices {
		if ev.Effects.Immediate != nil {
			e.applyEffect(ev.Effects.Immediate)
		}
		e.gs.Notice = &EventNotice{EventID: ev.ID, Name: ev.Name, Description: ev.Description}
		return
	}

	active := &ActiveEvent{
		EventID:        ev.ID,
		Name:           ev.Name,
		Description:    ev.Description,
		Category:       ev.Category,
		Duration:       ev.Duration,
		AwaitingChoice: hasChoices,
	}
	if ev.Duration == catalog.DurationTemporary {
		active.RemainingSeconds = ev.DurationSeconds
		if ev.Effects.Ongoing != nil {
			e.applyEffect(ev.Effects.Ongoing)
		}
	}
	e.gs.ActiveEvent = active

	if !hasChoices {
		if ev.Effects.Immediate != nil {
			e.applyEffect(ev.Effects.Immediate)
		}
		if ev.Duration != catalog.DurationTemporary {
			active.Resolved = true
			active.ClearIn = e.tun.GraceTicks
		}
	}
}

// resolveChoice applies a player decision to the awaiting event and starts
// the grace period. The event is not cleared instantly so a condition check
// landing on the same tick still sees the slot occupied.
func (e *Engine) resolveChoice(choiceID string) error {
	active := e.gs.ActiveEvent
	if active == nil {
		return ErrNoActiveEvent
	}
	if !active.AwaitingChoice {
		return ErrEventNotAwaitingChoice
	}

	ev := e.cat.Event(active.EventID)
	if ev == nil {
		return fmt.Errorf("active event %q missing from catalog: %w", active.EventID, ErrNotFound)
	}
	choice := ev.Choice(choiceID)
	if choice == nil || !e.conditionHolds(choice.Condition) {
		return ErrInvalidChoice
	}

	if choice.Effect != nil {
		e.applyEffect(choice.Effect)
	}
	if choice.Reputation != nil {
		e.applyReputation(*choice.Reputation)
	}

	active.AwaitingChoice = false
	active.Resolved = true
	active.ResolvedChoiceID = choice.ID
	active.ClearIn = e.tun.GraceTicks

	e.log.Info("event choice resolved", "event", ev.ID, "choice", choice.ID)
	return nil
}

// dismissNotice clears the instant-event notice.
func (e *Engine) dismissNotice() error {
	if e.gs.Notice == nil {
		return ErrNoActiveEvent
	}
	e.gs.Notice = nil
	return nil
}

// tickEventCountdown advances the active event by one second: resolved
// events burn down their grace period, temporary events burn down their
// duration and fire their end effect on expiry.
func (e *Engine) tickEventCountdown() {
	active := e.gs.ActiveEvent
	if active == nil {
		return
	}

	if active.Resolved {
		active.ClearIn--
		if active.ClearIn <= 0 {
			e.gs.ActiveEvent = nil
		}
		return
	}

	if active.Duration != catalog.DurationTemporary {
		return
	}
	active.RemainingSeconds--
	if active.RemainingSeconds > 0 {
		return
	}

	if ev := e.cat.Event(active.EventID); ev != nil && ev.Effects.End != nil {
		e.applyEffect(ev.Effects.End)
	}
	e.log.Info("event expired", "event", active.EventID)
	e.gs.ActiveEvent = nil
}
