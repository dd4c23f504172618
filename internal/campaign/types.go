// Package campaign provides the persistent campaign state the agents draw
// their context from: campaign metadata, the append-only campaign journal,
// and the set of characters with their sheets and private journals.
//
// Campaigns are loaded once at session start from a file-backed store
// ([FSStore]) and merely referenced by agents; the store owns persistence.
package campaign

import (
	"fmt"
	"sort"
	"strings"
)

// State is the campaign's game-flow phase.
type State string

const (
	// StateStarting is the pre-adventure setup phase.
	StateStarting State = "starting"

	// StateExploration is free-form play between encounters.
	StateExploration State = "exploration"

	// StateEncounter is structured combat or challenge play.
	StateEncounter State = "encounter"

	// StateFinished marks a concluded campaign.
	StateFinished State = "finished"
)

// IsValid reports whether s is a recognised campaign state.
func (s State) IsValid() bool {
	switch s {
	case StateStarting, StateExploration, StateEncounter, StateFinished:
		return true
	}
	return false
}

// Character is a named participant's persistent sheet. Created when first
// referenced within a campaign; never deleted by the core.
type Character struct {
	// Name is the character's display name, unique within a campaign.
	Name string `yaml:"name"`

	// Backstory is free-text background for the character.
	Backstory string `yaml:"backstory"`

	// Attributes maps stat names to integer values (e.g. "strength" -> 16).
	Attributes map[string]int `yaml:"attributes"`

	// Equipped lists currently equipped items.
	Equipped []string `yaml:"equipped,omitempty"`

	// Inventory lists carried but unequipped items.
	Inventory []string `yaml:"inventory,omitempty"`

	// Journal is the character's private append-only history. Mutated only
	// through [FSStore.AppendCharacterJournal].
	Journal string `yaml:"-"`
}

// StatBlock serializes the sheet as readable text for prompt injection.
// Attribute order is alphabetical so the output is deterministic.
func (c *Character) StatBlock() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", c.Name)

	if len(c.Attributes) > 0 {
		sb.WriteString("Attributes:\n")
		names := make([]string, 0, len(c.Attributes))
		for name := range c.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "  %s: %d\n", name, c.Attributes[name])
		}
	}
	if c.Backstory != "" {
		fmt.Fprintf(&sb, "Backstory: %s\n", c.Backstory)
	}
	if len(c.Equipped) > 0 {
		fmt.Fprintf(&sb, "Equipped: %s\n", strings.Join(c.Equipped, ", "))
	}
	if len(c.Inventory) > 0 {
		fmt.Fprintf(&sb, "Inventory: %s\n", strings.Join(c.Inventory, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Campaign is the aggregate root binding a rule set, an adventure module,
// the campaign journal, and the character set.
type Campaign struct {
	// Name is the campaign's display name.
	Name string `yaml:"name"`

	// Description is a free-text summary of the campaign.
	Description string `yaml:"description"`

	// System is the game system identifier (e.g. "dnd5e", "pf2e").
	System string `yaml:"system"`

	// RuleSet names the rule-set directory the rules agent retrieves from.
	RuleSet string `yaml:"rule_set"`

	// Module names the adventure module being played.
	Module string `yaml:"module"`

	// State is the current game-flow phase.
	State State `yaml:"state"`

	// Journal is the campaign's append-only history. Mutated only through
	// [FSStore.AppendJournal].
	Journal string `yaml:"-"`

	// Characters maps character names to their sheets.
	Characters map[string]*Character `yaml:"-"`
}

// Character returns the named character's sheet, or nil when the campaign has
// no character with that name.
func (c *Campaign) Character(name string) *Character {
	return c.Characters[name]
}

// CharacterNames returns all character names in alphabetical order.
func (c *Campaign) CharacterNames() []string {
	names := make([]string, 0, len(c.Characters))
	for name := range c.Characters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
