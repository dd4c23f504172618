// Package console is the interactive table front-end: a line-based chat loop
// that routes typed turns to the campaign's agents.
//
// Lines starting with a slash address a specific agent or action; anything
// else goes to the game master:
//
//	/rule <question>        ask the rules agent (manifest context)
//	/lookup <question>      ask the rules agent with retrieved excerpts
//	/as <name> <message>    speak to the named character's agent
//	/journal <entry>        append to the campaign journal
//	/quit                   leave the session
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrWong99/loreweave/internal/agent"
	"github.com/MrWong99/loreweave/internal/chat"
)

// command is one parsed console line.
type command struct {
	kind string // "master", "rule", "lookup", "character", "journal", "quit", "empty", "unknown"
	name string // character name for "character"
	text string
}

// Console runs the interactive loop against one agent directory.
type Console struct {
	directory *agent.Directory
	player    string
	in        io.Reader
	out       io.Writer
}

// New builds a console for the given player name reading from in and writing
// replies to out.
func New(directory *agent.Directory, player string, in io.Reader, out io.Writer) *Console {
	return &Console{directory: directory, player: player, in: in, out: out}
}

// Run processes lines until in is exhausted, /quit is entered, or ctx is
// cancelled. Agent errors are printed, not fatal.
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	c.prompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		cmd := parseLine(scanner.Text())
		switch cmd.kind {
		case "empty":
		case "quit":
			return nil
		case "unknown":
			fmt.Fprintln(c.out, "unknown command — try /rule, /lookup, /as <name>, /journal or /quit")
		case "journal":
			if err := c.directory.Master().UpdateJournal(cmd.text); err != nil {
				fmt.Fprintf(c.out, "journal error: %v\n", err)
			} else {
				fmt.Fprintln(c.out, "journal updated")
			}
		case "lookup":
			c.interpretRule(ctx, cmd.text)
		default:
			c.route(ctx, cmd)
		}
		c.prompt()
	}
	return scanner.Err()
}

func (c *Console) prompt() {
	fmt.Fprintf(c.out, "%s> ", c.player)
}

// route sends one chat turn to the addressed agent and prints the reply.
func (c *Console) route(ctx context.Context, cmd command) {
	var (
		t    agent.Type
		name string
	)
	switch cmd.kind {
	case "rule":
		t = agent.TypeRule
	case "character":
		t, name = agent.TypeCharacter, cmd.name
	default:
		t = agent.TypeMaster
	}

	m := chat.NewMessage(chat.Sender{Name: c.player, Kind: chat.SenderPlayer}, cmd.text)
	reply, err := c.directory.RouteMessage(ctx, t, name, m)
	if err != nil {
		if errors.Is(err, agent.ErrUnknownCharacter) {
			fmt.Fprintf(c.out, "%v\n", err)
			return
		}
		fmt.Fprintf(c.out, "agent error: %v\n", err)
		return
	}
	c.printReply(reply)
}

// interpretRule answers a rules question with full excerpt context.
func (c *Console) interpretRule(ctx context.Context, question string) {
	m := chat.NewMessage(chat.Sender{Name: c.player, Kind: chat.SenderPlayer}, question)
	reply, err := c.directory.Rule().InterpretRule(ctx, m)
	if err != nil {
		fmt.Fprintf(c.out, "agent error: %v\n", err)
		return
	}
	c.printReply(reply)
}

func (c *Console) printReply(m chat.Message) {
	fmt.Fprintf(c.out, "[%s] %s\n", m.Sender.Name, m.Content)
}

// parseLine classifies one input line.
func parseLine(line string) command {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return command{kind: "empty"}
	case line == "/quit" || line == "/exit":
		return command{kind: "quit"}
	case !strings.HasPrefix(line, "/"):
		return command{kind: "master", text: line}
	}

	verb, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)
	switch verb {
	case "rule":
		if rest == "" {
			return command{kind: "unknown"}
		}
		return command{kind: "rule", text: rest}
	case "lookup":
		if rest == "" {
			return command{kind: "unknown"}
		}
		return command{kind: "lookup", text: rest}
	case "journal":
		if rest == "" {
			return command{kind: "unknown"}
		}
		return command{kind: "journal", text: rest}
	case "as":
		name, text, _ := strings.Cut(rest, " ")
		text = strings.TrimSpace(text)
		if name == "" || text == "" {
			return command{kind: "unknown"}
		}
		return command{kind: "character", name: name, text: text}
	default:
		return command{kind: "unknown"}
	}
}
