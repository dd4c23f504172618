package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/antzucaro/matchr"

	"github.com/MrWong99/loreweave/internal/campaign"
	"github.com/MrWong99/loreweave/internal/chat"
	"github.com/MrWong99/loreweave/internal/rules"
)

// suggestThreshold is the minimum Jaro-Winkler score for a character name to
// be offered as a "did you mean" suggestion on a failed lookup.
const suggestThreshold = 0.84

// Directory hands out the campaign's agents. The master and rule agents are
// singletons built up front; character agents are built lazily on first
// lookup and cached for the lifetime of the directory, so repeated lookups of
// the same character always return the same instance.
type Directory struct {
	campaign *campaign.Campaign
	deps     Deps

	master *Master
	rule   *Rule

	mu         sync.Mutex
	characters map[string]*Character
	order      []string
}

// NewDirectory builds a directory for the given campaign. retriever may be
// nil when no rule source is configured; the rule agent then answers from its
// instructions alone. topK <= 0 selects the rule agent's default excerpt
// count.
func NewDirectory(c *campaign.Campaign, retriever rules.Retriever, topK int, deps Deps) *Directory {
	return &Directory{
		campaign:   c,
		deps:       deps,
		master:     NewMaster("", c, deps),
		rule:       NewRule("", c, retriever, topK, deps),
		characters: make(map[string]*Character),
	}
}

// Master returns the campaign's game master agent.
func (d *Directory) Master() *Master {
	return d.master
}

// Rule returns the campaign's rule agent.
func (d *Directory) Rule() *Rule {
	return d.rule
}

// GetAgent resolves an agent by type. name is only consulted for
// [TypeCharacter]; the master and rule agents are campaign singletons.
func (d *Directory) GetAgent(t Type, name string) (Agent, error) {
	switch t {
	case TypeMaster:
		return d.master, nil
	case TypeRule:
		return d.rule, nil
	case TypeCharacter:
		if name == "" {
			return nil, ErrMissingName
		}
		return d.CharacterAgent(name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
}

// CharacterAgent returns the agent for the named character, building and
// caching it on first lookup. Unknown names fail without touching the cache;
// when a cached or campaign character name is close to the requested one, the
// error names it as a suggestion.
func (d *Directory) CharacterAgent(name string) (*Character, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Double lookup under one lock: a concurrent first request for the same
	// character must not build a second instance.
	if a, ok := d.characters[name]; ok {
		return a, nil
	}

	char := d.campaign.Character(name)
	if char == nil {
		if s := d.closestName(name); s != "" {
			return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownCharacter, name, s)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharacter, name)
	}

	a := NewCharacter("", d.campaign, char, d.deps)
	d.characters[name] = a
	d.order = append(d.order, name)
	if d.deps.Metrics != nil {
		d.deps.Metrics.AddActiveCharacterAgents(1)
	}
	d.deps.logger().Debug("character agent created", "character", name)
	return a, nil
}

// AllCharacterAgents returns every character agent built so far, in the order
// they were first looked up.
func (d *Directory) AllCharacterAgents() []*Character {
	d.mu.Lock()
	defer d.mu.Unlock()
	agents := make([]*Character, 0, len(d.order))
	for _, name := range d.order {
		agents = append(agents, d.characters[name])
	}
	return agents
}

// RouteMessage resolves the target agent and lets it process the message.
func (d *Directory) RouteMessage(ctx context.Context, t Type, name string, m chat.Message) (chat.Message, error) {
	a, err := d.GetAgent(t, name)
	if err != nil {
		return chat.Message{}, err
	}
	return a.ProcessMessage(ctx, m)
}

// closestName returns the campaign character name closest to missing, or ""
// when nothing scores above the suggestion threshold.
func (d *Directory) closestName(missing string) string {
	best := ""
	bestScore := suggestThreshold
	for _, candidate := range d.campaign.CharacterNames() {
		s := matchr.JaroWinkler(strings.ToLower(missing), strings.ToLower(candidate), false)
		if s > bestScore {
			best = candidate
			bestScore = s
		}
	}
	return best
}
