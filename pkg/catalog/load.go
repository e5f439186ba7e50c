package catalog

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Load reads the three catalog files (elements.json, seasons.json,
// events.json) from dataDir, validates each against its embedded JSON
// Schema, then runs semantic validation across the whole catalog.
func Load(dataDir string) (*Catalog, error) {
	var c Catalog

	if err := loadFile(dataDir, "elements.json", &struct {
		Elements *[]ElementSpec `json:"elements"`
	}{&c.Elements}); err != nil {
		return nil, err
	}
	if err := loadFile(dataDir, "seasons.json", &struct {
		Seasons *[]SeasonSpec `json:"seasons"`
	}{&c.Seasons}); err != nil {
		return nil, err
	}
	if err := loadFile(dataDir, "events.json", &struct {
		Events *[]EventSpec `json:"events"`
	}{&c.Events}); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadFile(dataDir, name string, dst any) error {
	path := filepath.Join(dataDir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	if err := validateSchema(name, raw); err != nil {
		return fmt.Errorf("catalog file %s: %w", name, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("failed to unmarshal catalog file %s: %w", name, err)
	}
	return nil
}

func validateSchema(name string, raw []byte) error {
	schemaName := "schemas/" + name[:len(name)-len(".json")] + ".schema.json"
	schemaRaw, err := schemaFS.ReadFile(schemaName)
	if err != nil {
		return fmt.Errorf("missing embedded schema %s: %w", schemaName, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName, bytes.NewReader(schemaRaw)); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaName)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Validate checks cross-entry constraints the schemas cannot express.
func (c *Catalog) Validate() error {
	if len(c.Elements) == 0 {
		return fmt.Errorf("catalog has no elements")
	}
	if len(c.Seasons) != len(SeasonCycle) {
		return fmt.Errorf("catalog must define exactly %d seasons, has %d", len(SeasonCycle), len(c.Seasons))
	}

	materialIDs := make(map[string]bool)
	for i := range c.Elements {
		el := &c.Elements[i]
		if !validElement(el.ID) {
			return errInvalid("element", string(el.ID), "unknown element id")
		}
		for j := range el.Tiers {
			tier := &el.Tiers[j]
			if tier.Level < 1 || tier.Level > 3 {
				return errInvalid("element", string(el.ID), fmt.Sprintf("tier level %d out of range 1..3", tier.Level))
			}
			if len(tier.Required) == 0 {
				return errInvalid("element", string(el.ID), fmt.Sprintf("tier %d has no required materials", tier.Level))
			}
			for _, req := range tier.Required {
				if gradeRank(req.Grade) < 0 {
					return errInvalid("element", string(el.ID), fmt.Sprintf("tier %d: unknown grade %q", tier.Level, req.Grade))
				}
				if req.Amount < 1 {
					return errInvalid("element", string(el.ID), fmt.Sprintf("tier %d: amount must be positive", tier.Level))
				}
			}
		}
		for j := range el.Materials {
			mat := &el.Materials[j]
			if materialIDs[mat.ID] {
				return errInvalid("material", mat.ID, "duplicate id")
			}
			materialIDs[mat.ID] = true
			if mat.Element != el.ID {
				return errInvalid("material", mat.ID, fmt.Sprintf("element %q does not match parent %q", mat.Element, el.ID))
			}
			if mat.Price < 1 {
				return errInvalid("material", mat.ID, "price must be positive")
			}
			if gradeRank(mat.Grade) < 0 {
				return errInvalid("material", mat.ID, fmt.Sprintf("unknown grade %q", mat.Grade))
			}
		}
	}

	for i := range c.Seasons {
		s := &c.Seasons[i]
		if !validSeason(s.ID) {
			return errInvalid("season", string(s.ID), "unknown season id")
		}
		for _, el := range Elements {
			if _, ok := s.ElementModifiers[el]; !ok {
				return errInvalid("season", string(s.ID), fmt.Sprintf("missing modifier for element %s", el))
			}
		}
	}

	eventIDs := make(map[string]bool)
	for i := range c.Events {
		ev := &c.Events[i]
		if eventIDs[ev.ID] {
			return errInvalid("event", ev.ID, "duplicate id")
		}
		eventIDs[ev.ID] = true
		if !validCategory(ev.Category) {
			return errInvalid("event", ev.ID, fmt.Sprintf("unknown category %q", ev.Category))
		}
		if !validDuration(ev.Duration) {
			return errInvalid("event", ev.ID, fmt.Sprintf("unknown duration %q", ev.Duration))
		}
		if ev.Weight <= 0 {
			return errInvalid("event", ev.ID, "weight must be positive")
		}
		if ev.Duration == DurationTemporary && ev.DurationSeconds < 1 {
			return errInvalid("event", ev.ID, "temporary event needs positive duration_seconds")
		}
		if ev.Duration != DurationTemporary && ev.DurationSeconds != 0 {
			return errInvalid("event", ev.ID, "duration_seconds only valid for temporary events")
		}
		if ev.Condition != nil {
			if err := validateCondition(ev.Condition); err != nil {
				return errInvalid("event", ev.ID, err.Error())
			}
		}
		choiceIDs := make(map[string]bool)
		for j := range ev.Choices {
			ch := &ev.Choices[j]
			if choiceIDs[ch.ID] {
				return errInvalid("event", ev.ID, fmt.Sprintf("duplicate choice id %q", ch.ID))
			}
			choiceIDs[ch.ID] = true
			if ch.Condition != nil {
				if err := validateCondition(ch.Condition); err != nil {
					return errInvalid("event", ev.ID, fmt.Sprintf("choice %q: %v", ch.ID, err))
				}
			}
		}
	}
	return nil
}

func validateCondition(cond *ConditionSpec) error {
	if cond.Season != nil && !validSeason(*cond.Season) {
		return fmt.Errorf("condition: unknown season %q", *cond.Season)
	}
	if cond.PowerBalanceWithin != nil && *cond.PowerBalanceWithin <= 0 {
		return fmt.Errorf("condition: power_balance_within must be positive")
	}
	if cond.MinGold != nil && cond.MaxGold != nil && *cond.MinGold > *cond.MaxGold {
		return fmt.Errorf("condition: min_gold exceeds max_gold")
	}
	return nil
}
