// Package chat defines the transport-agnostic chat message model.
//
// A chat turn enters the system from some front-end (Discord, CLI, web), gets
// routed to an agent, and leaves again as a reply. The types here deliberately
// know nothing about providers or prompt composition.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// SenderKind distinguishes human players from in-world agents.
type SenderKind string

const (
	// SenderPlayer marks a message authored by a human at the table.
	SenderPlayer SenderKind = "player"

	// SenderAgent marks a message authored by one of the assistant's agents.
	SenderAgent SenderKind = "agent"
)

// Sender identifies the author of a chat message.
type Sender struct {
	// Name is the display name: the player's handle or the agent's name.
	Name string

	// Kind tells players and agents apart. The provider role mapping depends
	// on it: player turns become "user" messages, agent turns "assistant".
	Kind SenderKind
}

// Visibility declares which roles, characters, and players may see a message.
// The core treats it as opaque data to be preserved: routing copies it
// verbatim onto replies so a whispered question gets a whispered answer.
// Enforcement (deciding which connected clients render the message) is the
// transport front-end's concern.
type Visibility struct {
	// Master grants visibility to the game-master role.
	Master bool

	// Rule grants visibility to the rules-lookup role.
	Rule bool

	// Characters lists character names permitted to see the message.
	Characters []string

	// Players lists player names permitted to see the message.
	Players []string
}

// Clone returns a deep copy of v so the reply's visibility cannot be mutated
// through the inbound message's slices.
func (v Visibility) Clone() Visibility {
	return Visibility{
		Master:     v.Master,
		Rule:       v.Rule,
		Characters: append([]string(nil), v.Characters...),
		Players:    append([]string(nil), v.Players...),
	}
}

// Message is one chat turn.
type Message struct {
	// ID uniquely identifies the message.
	ID uuid.UUID

	// Sender is the message author.
	Sender Sender

	// Content is the message text.
	Content string

	// ImageRefs carries attached images as self-describing data URIs, in
	// attachment order. Empty for text-only turns.
	ImageRefs []string

	// Visibility declares the message's audience.
	Visibility Visibility

	// CreatedAt is when the message entered the system.
	CreatedAt time.Time
}

// NewMessage builds a message with a fresh ID and timestamp.
func NewMessage(sender Sender, content string) Message {
	return Message{
		ID:        uuid.New(),
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// Reply builds an agent reply to m: a fresh message from the given agent whose
// Visibility is copied unchanged from the inbound turn.
func Reply(m Message, agentName, content string) Message {
	reply := NewMessage(Sender{Name: agentName, Kind: SenderAgent}, content)
	reply.Visibility = m.Visibility.Clone()
	return reply
}
