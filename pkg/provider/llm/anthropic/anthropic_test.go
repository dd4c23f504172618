package anthropic

import (
	"errors"
	"testing"

	"github.com/MrWong99/loreweave/pkg/provider/llm"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New("sk-ant-test", "claude-sonnet-4-5")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestBuildParams_SystemPromptOutOfBand(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	params, err := p.buildParams([]llm.Message{
		llm.TextMessage(llm.RoleUser, "Roll for initiative."),
	}, "You are the dungeon master.")
	if err != nil {
		t.Fatalf("buildParams: %v", err)
	}

	if len(params.System) != 1 {
		t.Fatalf("System blocks = %d, want 1", len(params.System))
	}
	if got := params.System[0].Text; got != "You are the dungeon master." {
		t.Errorf("System text = %q", got)
	}
	if len(params.Messages) != 1 {
		t.Fatalf("Messages = %d, want 1", len(params.Messages))
	}
}

func TestBuildParams_SystemRoleMessagesExtracted(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	params, err := p.buildParams([]llm.Message{
		llm.TextMessage(llm.RoleSystem, "Stay in character."),
		llm.TextMessage(llm.RoleUser, "Hello."),
		llm.TextMessage(llm.RoleAssistant, "Well met."),
	}, "You are Thorgrim.")
	if err != nil {
		t.Fatalf("buildParams: %v", err)
	}

	// System-role history joins the explicit prompt in the out-of-band field.
	if len(params.System) != 1 {
		t.Fatalf("System blocks = %d, want 1", len(params.System))
	}
	want := "You are Thorgrim.\n\nStay in character."
	if got := params.System[0].Text; got != want {
		t.Errorf("System text = %q, want %q", got, want)
	}

	// Only the user and assistant turns remain in the conversation.
	if len(params.Messages) != 2 {
		t.Fatalf("Messages = %d, want 2", len(params.Messages))
	}
}

func TestBuildParams_NoSystemContent(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	params, err := p.buildParams([]llm.Message{
		llm.TextMessage(llm.RoleUser, "Hello."),
	}, "")
	if err != nil {
		t.Fatalf("buildParams: %v", err)
	}
	if len(params.System) != 0 {
		t.Errorf("System blocks = %d, want 0", len(params.System))
	}
}

func TestBuildParams_MalformedImageRef(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	_, err := p.buildParams([]llm.Message{
		{
			Role: llm.RoleUser,
			Parts: []llm.ContentPart{
				llm.TextPart("What is on this map?"),
				llm.ImagePart("https://example.com/map.png"),
			},
		},
	}, "")
	if !errors.Is(err, llm.ErrMalformedImageRef) {
		t.Fatalf("buildParams error = %v, want ErrMalformedImageRef", err)
	}
}

func TestBuildParams_ImageSplit(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	params, err := p.buildParams([]llm.Message{
		{
			Role: llm.RoleUser,
			Parts: []llm.ContentPart{
				llm.ImagePart("data:image/png;base64,iVBORw0KGgo="),
			},
		},
	}, "")
	if err != nil {
		t.Fatalf("buildParams: %v", err)
	}
	if len(params.Messages) != 1 {
		t.Fatalf("Messages = %d, want 1", len(params.Messages))
	}
	blocks := params.Messages[0].Content
	if len(blocks) != 1 {
		t.Fatalf("content blocks = %d, want 1", len(blocks))
	}
	img := blocks[0].OfImage
	if img == nil {
		t.Fatal("content block is not an image")
	}
	src := img.Source.OfBase64
	if src == nil {
		t.Fatal("image source is not base64")
	}
	if got := string(src.MediaType); got != "image/png" {
		t.Errorf("media type = %q, want %q", got, "image/png")
	}
	if src.Data != "iVBORw0KGgo=" {
		t.Errorf("payload = %q", src.Data)
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	if _, err := New("", "claude-sonnet-4-5"); err == nil {
		t.Error("New with empty apiKey should fail")
	}
	if _, err := New("sk-ant-test", ""); err == nil {
		t.Error("New with empty model should fail")
	}
}
