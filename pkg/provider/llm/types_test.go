package llm_test

import (
	"errors"
	"testing"

	"github.com/MrWong99/loreweave/pkg/provider/llm"
)

func TestParseDataURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		uri           string
		wantMediaType string
		wantPayload   string
		wantErr       bool
	}{
		{
			name:          "png data uri",
			uri:           "data:image/png;base64,iVBORw0KGgo=",
			wantMediaType: "image/png",
			wantPayload:   "iVBORw0KGgo=",
		},
		{
			name:          "jpeg data uri",
			uri:           "data:image/jpeg;base64,/9j/4AAQ",
			wantMediaType: "image/jpeg",
			wantPayload:   "/9j/4AAQ",
		},
		{
			name:          "empty payload is allowed",
			uri:           "data:image/webp;base64,",
			wantMediaType: "image/webp",
			wantPayload:   "",
		},
		{
			name:    "plain https url",
			uri:     "https://example.com/map.png",
			wantErr: true,
		},
		{
			name:    "missing payload separator",
			uri:     "data:image/png;base64",
			wantErr: true,
		},
		{
			name:    "not base64 encoded",
			uri:     "data:image/png,rawbytes",
			wantErr: true,
		},
		{
			name:    "missing media type",
			uri:     "data:;base64,iVBORw0KGgo=",
			wantErr: true,
		},
		{
			name:    "empty string",
			uri:     "",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mediaType, payload, err := llm.ParseDataURI(tc.uri)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseDataURI(%q) expected error, got none", tc.uri)
				}
				if !errors.Is(err, llm.ErrMalformedImageRef) {
					t.Errorf("ParseDataURI(%q) error = %v, want ErrMalformedImageRef", tc.uri, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDataURI(%q) unexpected error: %v", tc.uri, err)
			}
			if mediaType != tc.wantMediaType {
				t.Errorf("mediaType = %q, want %q", mediaType, tc.wantMediaType)
			}
			if payload != tc.wantPayload {
				t.Errorf("payload = %q, want %q", payload, tc.wantPayload)
			}
		})
	}
}

func TestMessageText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  llm.Message
		want string
	}{
		{
			name: "plain content",
			msg:  llm.TextMessage(llm.RoleUser, "I search the room."),
			want: "I search the room.",
		},
		{
			name: "parts take precedence over content",
			msg: llm.Message{
				Role:    llm.RoleUser,
				Content: "ignored",
				Parts: []llm.ContentPart{
					llm.TextPart("What is "),
					llm.TextPart("this rune?"),
				},
			},
			want: "What is this rune?",
		},
		{
			name: "image parts are skipped",
			msg: llm.Message{
				Role: llm.RoleUser,
				Parts: []llm.ContentPart{
					llm.TextPart("Look at this map."),
					llm.ImagePart("data:image/png;base64,iVBOR"),
				},
			},
			want: "Look at this map.",
		},
		{
			name: "empty message",
			msg:  llm.Message{Role: llm.RoleAssistant},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.msg.Text(); got != tc.want {
				t.Errorf("Text() = %q, want %q", got, tc.want)
			}
		})
	}
}
