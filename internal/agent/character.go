package agent

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/loreweave/internal/campaign"
	"github.com/MrWong99/loreweave/internal/chat"
)

// defaultCharacterInstructions renders a character agent's fixed role
// instruction text.
func defaultCharacterInstructions(char *campaign.Character) string {
	return fmt.Sprintf(
		"You are %s, a character in a tabletop role-playing campaign. Speak "+
			"and act only as %s would, in first person, drawing on the character "+
			"sheet and journals below. Never break character and never speak for "+
			"other characters or the game master.", char.Name, char.Name)
}

// Character is a per-character roleplay agent. Its per-turn context stacks
// the campaign journal, the character's stat block, and the character's own
// journal, each in a distinct section so the model can tell campaign-level
// history apart from character-private history.
//
// The agent references the character's persisted state; it does not own it.
// The same character can back fresh agent instances across sessions.
type Character struct {
	instructions string
	campaign     *campaign.Campaign
	character    *campaign.Character
	deps         Deps
}

var _ Agent = (*Character)(nil)

// NewCharacter builds a roleplay agent bound to one of the campaign's
// characters. Empty instructions select the built-in role text.
func NewCharacter(instructions string, c *campaign.Campaign, char *campaign.Character, deps Deps) *Character {
	if instructions == "" {
		instructions = defaultCharacterInstructions(char)
	}
	return &Character{instructions: instructions, campaign: c, character: char, deps: deps}
}

// Type implements Agent.
func (a *Character) Type() Type {
	return TypeCharacter
}

// Name implements Agent.
func (a *Character) Name() string {
	return a.character.Name
}

// CharacterStats returns the character's current sheet, re-read from the
// store so external sheet edits are reflected.
func (a *Character) CharacterStats() (*campaign.Character, error) {
	char, err := a.deps.Source.ReadCharacter(a.character.Name)
	if err != nil {
		return nil, fmt.Errorf("agent: read character %q: %w", a.character.Name, err)
	}
	return char, nil
}

// ProcessMessage implements Agent.
func (a *Character) ProcessMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	contextStr, err := a.assembleContext(ctx)
	if err != nil {
		return chat.Message{}, err
	}
	return respond(ctx, a.deps, TypeCharacter, a.Name(), a.instructions, contextStr, m)
}

// assembleContext fetches the three context sections concurrently and joins
// them in fixed order: campaign journal, character sheet, personal journal.
func (a *Character) assembleContext(ctx context.Context) (string, error) {
	var (
		campaignJournal string
		statBlock       string
		ownJournal      string
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		campaignJournal, err = a.deps.Source.CampaignJournal()
		if err != nil {
			return fmt.Errorf("campaign journal: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		char, err := a.deps.Source.ReadCharacter(a.character.Name)
		if err != nil {
			return fmt.Errorf("character sheet: %w", err)
		}
		statBlock = char.StatBlock()
		return nil
	})
	g.Go(func() error {
		var err error
		ownJournal, err = a.deps.Source.CharacterJournal(a.character.Name)
		if err != nil {
			return fmt.Errorf("character journal: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("agent: %s context: %w", a.character.Name, err)
	}

	return joinSections(
		section("Campaign Journal", campaignJournal),
		section("Character Sheet", statBlock),
		section("Personal Journal", ownJournal),
	), nil
}

// UpdateJournal appends an entry to the character's private journal and
// persists it before returning.
func (a *Character) UpdateJournal(entry string) error {
	return a.deps.Journals.AppendCharacterJournal(a.campaign, a.character.Name, entry)
}
