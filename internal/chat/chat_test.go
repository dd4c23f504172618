package chat_test

import (
	"reflect"
	"testing"

	"github.com/MrWong99/loreweave/internal/chat"
)

func TestReply_CopiesVisibilityVerbatim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		visibility chat.Visibility
	}{
		{
			name:       "table-wide message",
			visibility: chat.Visibility{Master: true, Rule: true},
		},
		{
			name: "whisper to one character",
			visibility: chat.Visibility{
				Master:     true,
				Characters: []string{"Thorgrim"},
				Players:    []string{"alice"},
			},
		},
		{
			name:       "zero visibility",
			visibility: chat.Visibility{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := chat.NewMessage(chat.Sender{Name: "alice", Kind: chat.SenderPlayer}, "Who goes there?")
			in.Visibility = tc.visibility

			reply := chat.Reply(in, "Thorgrim", "Only the wind answers.")

			if !reflect.DeepEqual(reply.Visibility, tc.visibility.Clone()) {
				t.Errorf("Visibility = %+v, want %+v", reply.Visibility, tc.visibility)
			}
			if reply.Sender.Kind != chat.SenderAgent {
				t.Errorf("Sender.Kind = %q, want %q", reply.Sender.Kind, chat.SenderAgent)
			}
			if reply.Sender.Name != "Thorgrim" {
				t.Errorf("Sender.Name = %q, want %q", reply.Sender.Name, "Thorgrim")
			}
			if reply.ID == in.ID {
				t.Error("reply must carry a fresh ID")
			}
		})
	}
}

func TestReply_VisibilityIsCopiedNotShared(t *testing.T) {
	t.Parallel()

	in := chat.NewMessage(chat.Sender{Name: "bob", Kind: chat.SenderPlayer}, "psst")
	in.Visibility = chat.Visibility{Players: []string{"gm"}}

	reply := chat.Reply(in, "Narrator", "...")
	in.Visibility.Players[0] = "everyone"

	if reply.Visibility.Players[0] != "gm" {
		t.Errorf("reply visibility mutated through the inbound slice: %q", reply.Visibility.Players[0])
	}
}
