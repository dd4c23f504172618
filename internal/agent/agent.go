// Package agent implements the named roles that turn one chat message into
// one LLM-backed reply: the game-master agent, the rules-lookup agent, and
// per-character roleplay agents.
//
// Every agent owns its fixed role instruction text and pulls a role-specific
// context string from the campaign state before each request. The two are
// concatenated by [ComposeSystemPrompt]; the composition rule is a contract
// shared with the prompt tests and must not change shape.
//
// Agents never mutate campaign state from ProcessMessage — journal updates
// are separate explicit operations.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/MrWong99/loreweave/internal/campaign"
	"github.com/MrWong99/loreweave/internal/chat"
	"github.com/MrWong99/loreweave/internal/observe"
	"github.com/MrWong99/loreweave/pkg/provider/llm"
)

// Type is an agent's fixed role tag.
type Type string

const (
	// TypeMaster is the game-master role.
	TypeMaster Type = "master"

	// TypeRule is the rules-lookup role.
	TypeRule Type = "rule"

	// TypeCharacter is a per-character roleplay role.
	TypeCharacter Type = "character"
)

// IsValid reports whether t is a recognised agent type.
func (t Type) IsValid() bool {
	switch t {
	case TypeMaster, TypeRule, TypeCharacter:
		return true
	}
	return false
}

var (
	// ErrMissingName is returned when a character-agent lookup omits the
	// character name.
	ErrMissingName = errors.New("agent: character name required")

	// ErrUnknownCharacter is returned when a character-agent lookup names a
	// character the campaign does not have.
	ErrUnknownCharacter = errors.New("agent: unknown character")

	// ErrUnknownType is returned for lookups with an unrecognised agent type.
	ErrUnknownType = errors.New("agent: unknown agent type")
)

// Agent is a named role that turns one inbound chat message into one reply.
//
// Implementations must be safe for concurrent use. They propagate provider
// errors unchanged and never retry.
type Agent interface {
	// Type returns the fixed role tag. Never changes after construction.
	Type() Type

	// Name returns the display name; for character agents this is the
	// character's name.
	Name() string

	// ProcessMessage sends the inbound turn through the active provider with
	// this agent's composed system prompt and wraps the reply as a new chat
	// message carrying the inbound message's visibility unchanged.
	ProcessMessage(ctx context.Context, m chat.Message) (chat.Message, error)
}

// MessageSender routes composed turns to the active LLM provider. Satisfied
// by the provider selector.
type MessageSender interface {
	Send(ctx context.Context, messages []llm.Message, systemPrompt string) (*llm.Response, error)
}

// ContextSource is the read-only boundary agents pull campaign context
// through. Reads are fresh so edits made by other tools show up on the next
// turn. Satisfied by the campaign file store.
type ContextSource interface {
	// CampaignJournal returns the campaign's journal text.
	CampaignJournal() (string, error)

	// CharacterJournal returns the named character's journal text.
	CharacterJournal(name string) (string, error)

	// ReadCharacter returns the named character's sheet.
	ReadCharacter(name string) (*campaign.Character, error)
}

// JournalWriter appends journal entries on behalf of agents. Satisfied by the
// campaign file store.
type JournalWriter interface {
	AppendJournal(c *campaign.Campaign, entry string) error
	AppendCharacterJournal(c *campaign.Campaign, name, entry string) error
}

// Deps bundles the collaborators every agent needs.
type Deps struct {
	// Sender routes composed turns to the LLM provider.
	Sender MessageSender

	// Source provides campaign context reads.
	Source ContextSource

	// Journals persists journal updates.
	Journals JournalWriter

	// Metrics instruments agent replies. May be nil to disable.
	Metrics *observe.Metrics

	// Log is the agent logger. Nil uses slog.Default.
	Log *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

// ComposeSystemPrompt concatenates an agent's fixed instruction text with its
// computed context string, separated by a blank line. An empty context yields
// the instructions unmodified, with no trailing separator.
func ComposeSystemPrompt(instructions, context string) string {
	if context == "" {
		return instructions
	}
	return instructions + "\n\n" + context
}

// section renders one titled context section, or "" when the body is empty.
func section(title, body string) string {
	if body == "" {
		return ""
	}
	return "## " + title + "\n" + body
}

// joinSections joins non-empty sections with blank lines.
func joinSections(sections ...string) string {
	var kept []string
	for _, s := range sections {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n\n")
}

// toLLMMessage converts one chat turn into the provider-agnostic form:
// player senders map to the user role, agent senders to the assistant role,
// content copied verbatim. Attached images become ordered content parts after
// the text.
func toLLMMessage(m chat.Message) llm.Message {
	role := llm.RoleAssistant
	if m.Sender.Kind == chat.SenderPlayer {
		role = llm.RoleUser
	}

	if len(m.ImageRefs) == 0 {
		return llm.TextMessage(role, m.Content)
	}

	parts := make([]llm.ContentPart, 0, len(m.ImageRefs)+1)
	parts = append(parts, llm.TextPart(m.Content))
	for _, ref := range m.ImageRefs {
		parts = append(parts, llm.ImagePart(ref))
	}
	return llm.Message{Role: role, Parts: parts}
}

// respond is the shared turn path: convert the inbound message, compose the
// system prompt from instructions and context, send, and wrap the reply.
// Provider errors propagate unchanged.
func respond(ctx context.Context, deps Deps, agentType Type, agentName, instructions, contextStr string, m chat.Message) (chat.Message, error) {
	prompt := ComposeSystemPrompt(instructions, contextStr)
	messages := []llm.Message{toLLMMessage(m)}

	deps.logger().Debug("sending turn to provider",
		"agent_type", agentType, "agent", agentName, "message_id", m.ID)

	resp, err := deps.Sender.Send(ctx, messages, prompt)
	if err != nil {
		return chat.Message{}, err
	}

	if deps.Metrics != nil {
		deps.Metrics.RecordAgentReply(ctx, string(agentType), agentName)
	}
	return chat.Reply(m, agentName, resp.Content), nil
}
