package agent

import (
	"context"
	"fmt"

	"github.com/MrWong99/loreweave/internal/campaign"
	"github.com/MrWong99/loreweave/internal/chat"
	"github.com/MrWong99/loreweave/internal/rules"
)

// RuleName is the rules agent's display name.
const RuleName = "Rules Lawyer"

// defaultRuleTopK is the number of excerpts fetched per rule lookup.
const defaultRuleTopK = 5

// defaultRuleInstructions renders the rules agent's fixed role instruction
// text for a campaign.
func defaultRuleInstructions(c *campaign.Campaign) string {
	return fmt.Sprintf(
		"You are the rules expert for the game system %q. Answer rules "+
			"questions precisely, citing the source page when you quote a rule. "+
			"When the rules are silent, say so instead of inventing one.", c.System)
}

// Rule is the rules-lookup agent. Its per-turn context lists the rule-source
// files of the campaign's rule set; full excerpts are fetched by the separate
// [Rule.LookupRule] query path.
type Rule struct {
	instructions string
	campaign     *campaign.Campaign
	retriever    rules.Retriever
	topK         int
	deps         Deps
}

var _ Agent = (*Rule)(nil)

// NewRule builds the rules agent for a loaded campaign. Empty instructions
// select the built-in role text; topK <= 0 selects the default excerpt count.
// retriever may be nil when no rule store is configured; lookups then fail
// and the manifest context is empty.
func NewRule(instructions string, c *campaign.Campaign, retriever rules.Retriever, topK int, deps Deps) *Rule {
	if instructions == "" {
		instructions = defaultRuleInstructions(c)
	}
	if topK <= 0 {
		topK = defaultRuleTopK
	}
	return &Rule{instructions: instructions, campaign: c, retriever: retriever, topK: topK, deps: deps}
}

// Type implements Agent.
func (a *Rule) Type() Type {
	return TypeRule
}

// Name implements Agent.
func (a *Rule) Name() string {
	return RuleName
}

// ProcessMessage implements Agent.
func (a *Rule) ProcessMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	contextStr, err := a.manifestContext(ctx)
	if err != nil {
		return chat.Message{}, err
	}
	return respond(ctx, a.deps, TypeRule, a.Name(), a.instructions, contextStr, m)
}

// manifestContext renders the rule-source manifest section, or "" when no
// retriever is configured or the rule set is empty.
func (a *Rule) manifestContext(ctx context.Context) (string, error) {
	if a.retriever == nil {
		return "", nil
	}
	files, err := a.retriever.Manifest(ctx, a.campaign.RuleSet)
	if err != nil {
		return "", fmt.Errorf("agent: rule manifest: %w", err)
	}
	return section("Rule Sources", rules.FormatManifest(files)), nil
}

// LookupRule retrieves the excerpts most relevant to query and returns them
// as formatted context lines. This is the dedicated rule-interpretation path;
// ProcessMessage deliberately sends only the manifest.
func (a *Rule) LookupRule(ctx context.Context, query string) (string, error) {
	if a.retriever == nil {
		return "", fmt.Errorf("agent: no rule retriever configured")
	}

	excerpts, err := a.retriever.Retrieve(ctx, a.campaign.RuleSet, query, a.topK)
	if err != nil {
		if a.deps.Metrics != nil {
			a.deps.Metrics.RecordRuleRetrieval(ctx, a.campaign.RuleSet, "error")
		}
		return "", fmt.Errorf("agent: rule lookup: %w", err)
	}
	if a.deps.Metrics != nil {
		a.deps.Metrics.RecordRuleRetrieval(ctx, a.campaign.RuleSet, "ok")
	}
	return rules.FormatExcerpts(excerpts), nil
}

// InterpretRule answers a rule question with full excerpt context: the
// retrieved excerpts are appended to the manifest context for this one turn.
func (a *Rule) InterpretRule(ctx context.Context, m chat.Message) (chat.Message, error) {
	manifest, err := a.manifestContext(ctx)
	if err != nil {
		return chat.Message{}, err
	}
	excerpts, err := a.LookupRule(ctx, m.Content)
	if err != nil {
		return chat.Message{}, err
	}

	contextStr := joinSections(manifest, section("Relevant Rules", excerpts))
	return respond(ctx, a.deps, TypeRule, a.Name(), a.instructions, contextStr, m)
}
