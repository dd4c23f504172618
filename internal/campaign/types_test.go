package campaign_test

import (
	"testing"

	"github.com/MrWong99/loreweave/internal/campaign"
)

func TestStatBlock(t *testing.T) {
	t.Parallel()

	char := &campaign.Character{
		Name:      "Thorgrim",
		Backstory: "A dwarf smith turned adventurer.",
		Attributes: map[string]int{
			"wisdom":   10,
			"strength": 16,
		},
		Equipped:  []string{"warhammer", "shield"},
		Inventory: []string{"rope"},
	}

	want := "Name: Thorgrim\n" +
		"Attributes:\n" +
		"  strength: 16\n" +
		"  wisdom: 10\n" +
		"Backstory: A dwarf smith turned adventurer.\n" +
		"Equipped: warhammer, shield\n" +
		"Inventory: rope"
	if got := char.StatBlock(); got != want {
		t.Errorf("StatBlock() = %q, want %q", got, want)
	}

	// Determinism: attribute order must not vary between calls.
	if char.StatBlock() != char.StatBlock() {
		t.Error("StatBlock() is not deterministic")
	}
}

func TestStatBlock_Minimal(t *testing.T) {
	t.Parallel()

	char := &campaign.Character{Name: "Nameless One"}
	if got := char.StatBlock(); got != "Name: Nameless One" {
		t.Errorf("StatBlock() = %q", got)
	}
}

func TestStateIsValid(t *testing.T) {
	t.Parallel()

	valid := []campaign.State{
		campaign.StateStarting,
		campaign.StateExploration,
		campaign.StateEncounter,
		campaign.StateFinished,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if campaign.State("limbo").IsValid() {
		t.Error(`"limbo" should not be valid`)
	}
}
