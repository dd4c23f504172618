package agent

import (
	"context"
	"fmt"

	"github.com/MrWong99/loreweave/internal/campaign"
	"github.com/MrWong99/loreweave/internal/chat"
)

// MasterName is the game-master agent's display name.
const MasterName = "Game Master"

// defaultMasterInstructions renders the game master's fixed role instruction
// text for a campaign.
func defaultMasterInstructions(c *campaign.Campaign) string {
	return fmt.Sprintf(
		"You are the game master of the campaign %q. Narrate the world, "+
			"adjudicate the players' actions, and keep the story moving. Stay "+
			"consistent with the campaign journal and never reveal information "+
			"the party has not yet uncovered.", c.Name)
}

// Master is the game-master agent. Its per-turn context is the campaign
// journal, wrapped so the model can tell history apart from instructions.
type Master struct {
	instructions string
	campaign     *campaign.Campaign
	deps         Deps
}

var _ Agent = (*Master)(nil)

// NewMaster builds the game-master agent for a loaded campaign. Empty
// instructions select the built-in role text.
func NewMaster(instructions string, c *campaign.Campaign, deps Deps) *Master {
	if instructions == "" {
		instructions = defaultMasterInstructions(c)
	}
	return &Master{instructions: instructions, campaign: c, deps: deps}
}

// Type implements Agent.
func (a *Master) Type() Type {
	return TypeMaster
}

// Name implements Agent.
func (a *Master) Name() string {
	return MasterName
}

// ProcessMessage implements Agent.
func (a *Master) ProcessMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	journal, err := a.deps.Source.CampaignJournal()
	if err != nil {
		return chat.Message{}, fmt.Errorf("agent: master context: %w", err)
	}
	contextStr := section("Campaign Journal", journal)
	return respond(ctx, a.deps, TypeMaster, a.Name(), a.instructions, contextStr, m)
}

// UpdateJournal appends an entry to the campaign journal and persists it
// before returning.
func (a *Master) UpdateJournal(entry string) error {
	return a.deps.Journals.AppendJournal(a.campaign, entry)
}
