package catalog

// EventCategory groups world events for display and tuning.
type EventCategory string

const (
	CategoryPolitical EventCategory = "POLITICAL"
	CategoryNatural   EventCategory = "NATURAL"
	CategoryEconomic  EventCategory = "ECONOMIC"
	CategorySocial    EventCategory = "SOCIAL"
	CategoryMagical   EventCategory = "MAGICAL"
)

// EventDuration is the lifecycle kind of an event.
type EventDuration string

const (
	DurationInstant   EventDuration = "INSTANT"
	DurationTemporary EventDuration = "TEMPORARY"
	DurationPermanent EventDuration = "PERMANENT"
)

// ConditionSpec is the data form of an event eligibility predicate.
// All set fields must hold for the condition to pass; an empty spec
// (or a nil pointer where one is optional) always passes.
type ConditionSpec struct {
	// PowerBalanceWithin passes when |humanPower - 50| < the given value.
	PowerBalanceWithin *float64 `json:"power_balance_within,omitempty"`
	MinGold            *int     `json:"min_gold,omitempty"`
	MaxGold            *int     `json:"max_gold,omitempty"`
	Season             *Season  `json:"season,omitempty"`
	MinReputation      *float64 `json:"min_reputation,omitempty"` // both factions
}

// ReputationDelta is a paired adjustment to both faction standings.
type ReputationDelta struct {
	Human   float64 `json:"human"`
	Monster float64 `json:"monster"`
}

// EffectSpec is the data form of a state patch. Scale factors are applied
// before deltas; every touched field is re-clamped to its legal range by
// the evaluator. A zero-value spec is a no-op.
type EffectSpec struct {
	GoldDelta       int              `json:"gold_delta,omitempty"`
	TrendDelta      float64          `json:"trend_delta,omitempty"`
	TrendScale      *float64         `json:"trend_scale,omitempty"`
	VolatilityDelta float64          `json:"volatility_delta,omitempty"`
	VolatilityScale *float64         `json:"volatility_scale,omitempty"`
	HumanPowerDelta float64          `json:"human_power_delta,omitempty"`
	Reputation      *ReputationDelta `json:"reputation,omitempty"`
}

// IsZero reports whether applying the effect would change nothing.
func (e *EffectSpec) IsZero() bool {
	return e == nil || (e.GoldDelta == 0 &&
		e.TrendDelta == 0 && e.TrendScale == nil &&
		e.VolatilityDelta == 0 && e.VolatilityScale == nil &&
		e.HumanPowerDelta == 0 && e.Reputation == nil)
}

// EffectGroup holds the lifecycle effects of an event.
type EffectGroup struct {
	// Immediate applies once when the event activates (choice-less events)
	// or is skipped until a choice resolves (events with choices).
	Immediate *EffectSpec `json:"immediate,omitempty"`
	// Ongoing applies once at activation of a TEMPORARY event.
	Ongoing *EffectSpec `json:"ongoing,omitempty"`
	// End applies when a TEMPORARY event's countdown expires.
	End *EffectSpec `json:"end,omitempty"`
}

// ChoiceSpec is one player option on an event awaiting a choice.
type ChoiceSpec struct {
	ID         string           `json:"id"`
	Text       string           `json:"text"`
	Condition  *ConditionSpec   `json:"condition,omitempty"`
	Effect     *EffectSpec      `json:"effect,omitempty"`
	Reputation *ReputationDelta `json:"reputation,omitempty"`
}

// EventSpec is one entry of the static world event catalog.
type EventSpec struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Category        EventCategory  `json:"category"`
	Duration        EventDuration  `json:"duration"`
	DurationSeconds int            `json:"duration_seconds,omitempty"`
	Condition       *ConditionSpec `json:"condition,omitempty"`
	Weight          float64        `json:"weight"`
	Effects         EffectGroup    `json:"effects"`
	Choices         []ChoiceSpec   `json:"choices,omitempty"`
}

// Choice returns the choice with the given id, or nil.
func (e *EventSpec) Choice(id string) *ChoiceSpec {
	for i := range e.Choices {
		if e.Choices[i].ID == id {
			return &e.Choices[i]
		}
	}
	return nil
}

func validCategory(c EventCategory) bool {
	switch c {
	case CategoryPolitical, CategoryNatural, CategoryEconomic, CategorySocial, CategoryMagical:
		return true
	}
	return false
}

func validDuration(d EventDuration) bool {
	switch d {
	case DurationInstant, DurationTemporary, DurationPermanent:
		return true
	}
	return false
}
