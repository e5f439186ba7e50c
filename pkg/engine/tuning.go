package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning holds the numeric knobs of the simulation. Values are loaded once
// at startup; the engine never mutates them.
type Tuning struct {
	TickMs     int `yaml:"tick_ms"`      // fast driver period (clock, production, countdown)
	SlowTickMs int `yaml:"slow_tick_ms"` // slow driver period (market, event checks)

	InitialGold      int `yaml:"initial_gold"`
	BaseCraftSeconds int `yaml:"base_craft_seconds"`
	GraceTicks       int `yaml:"grace_ticks"` // ticks a resolved event lingers before clearing

	UpgradeSpeedCost   int `yaml:"upgrade_speed_cost"`
	UpgradeQualityCost int `yaml:"upgrade_quality_cost"`
	UpgradeSlotCost    int `yaml:"upgrade_slot_cost"`
	MaxSlots           int `yaml:"max_slots"`
}

// DefaultTuning returns the values the game ships with.
func DefaultTuning() Tuning {
	return Tuning{
		TickMs:             1000,
		SlowTickMs:         15000,
		InitialGold:        1500,
		BaseCraftSeconds:   60,
		GraceTicks:         2,
		UpgradeSpeedCost:   800,
		UpgradeQualityCost: 1000,
		UpgradeSlotCost:    1500,
		MaxSlots:           5,
	}
}

// LoadTuning reads a YAML tuning file. Unset fields keep their defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning file %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning file %s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.TickMs < 1 || t.SlowTickMs < 1 {
		return fmt.Errorf("tick periods must be positive")
	}
	if t.BaseCraftSeconds < 1 {
		return fmt.Errorf("base_craft_seconds must be positive")
	}
	if t.GraceTicks < 0 {
		return fmt.Errorf("grace_ticks must not be negative")
	}
	if t.MaxSlots < 1 {
		return fmt.Errorf("max_slots must be positive")
	}
	return nil
}

func (t Tuning) TickInterval() time.Duration {
	return time.Duration(t.TickMs) * time.Millisecond
}

func (t Tuning) SlowTickInterval() time.Duration {
	return time.Duration(t.SlowTickMs) * time.Millisecond
}
