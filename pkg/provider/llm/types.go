package llm

import (
	"errors"
	"fmt"
	"strings"
)

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks a message authored by a human player.
	RoleUser Role = "user"

	// RoleAssistant marks a message authored by a model or agent.
	RoleAssistant Role = "assistant"

	// RoleSystem marks high-priority instruction content. Some vendors accept
	// system messages inline; others require them out-of-band — see the
	// per-adapter documentation.
	RoleSystem Role = "system"
)

// PartKind discriminates the content-part variants of a multi-modal message.
type PartKind string

const (
	// PartText is a plain text fragment.
	PartText PartKind = "text"

	// PartImage is an image reference carried as a self-describing data URI.
	PartImage PartKind = "image"
)

// ErrMalformedImageRef is returned when an image content part does not carry
// a self-describing data URI (media type + base64 payload). Adapters that
// need the split media-type/payload representation wrap this sentinel.
var ErrMalformedImageRef = errors.New("llm: malformed image reference")

// ContentPart is one typed fragment of a multi-modal message.
type ContentPart struct {
	// Kind selects which of the remaining fields is meaningful.
	Kind PartKind

	// Text is the fragment text when Kind is PartText.
	Text string

	// ImageURL is a fully self-describing resource locator when Kind is
	// PartImage, e.g. "data:image/png;base64,iVBOR…". Adapters that accept
	// URLs pass it through verbatim; adapters that need a split media-type +
	// payload representation derive both via [ParseDataURI].
	ImageURL string
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Kind: PartText, Text: text}
}

// ImagePart builds an image content part from a data URI.
func ImagePart(dataURI string) ContentPart {
	return ContentPart{Kind: PartImage, ImageURL: dataURI}
}

// Message is one provider-agnostic conversation turn.
//
// Content carries the common plain-text case. Parts, when non-empty, takes
// precedence and carries an ordered multi-modal sequence; Content is then
// ignored by adapters.
type Message struct {
	// Role is the message author.
	Role Role

	// Content is the plain-text utterance.
	Content string

	// Parts is the ordered multi-modal content sequence. Nil for text-only turns.
	Parts []ContentPart
}

// TextMessage builds a plain-text message.
func TextMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// Text returns the textual content of the message: Content for plain-text
// turns, or the concatenation of all text parts for multi-modal turns.
func (m Message) Text() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	var sb strings.Builder
	for _, p := range m.Parts {
		if p.Kind == PartText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// Usage holds token accounting returned by the LLM backend. Counts are in the
// model's native token unit; vendors that omit usage report zeros.
type Usage struct {
	// InputTokens is the number of tokens consumed by the request.
	InputTokens int

	// OutputTokens is the number of tokens generated in the reply.
	OutputTokens int
}

// Response is the normalized reply to a [Provider.SendMessage] call: exactly
// one assistant turn's text plus token accounting.
type Response struct {
	// Content is the text of the first text-typed content block of the vendor
	// reply. Trailing blocks are not concatenated.
	Content string

	// Usage contains token accounting for this request/response pair.
	Usage Usage
}

// ParseDataURI splits a data URI of the form "data:<mediatype>;base64,<payload>"
// into its media type and base64 payload.
//
// Returns an error wrapping [ErrMalformedImageRef] when the locator is not a
// data URI, does not declare base64 encoding, or omits the media type.
func ParseDataURI(uri string) (mediaType, payload string, err error) {
	const scheme = "data:"
	if !strings.HasPrefix(uri, scheme) {
		return "", "", fmt.Errorf("%w: missing %q scheme", ErrMalformedImageRef, scheme)
	}
	rest := uri[len(scheme):]

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("%w: missing payload separator", ErrMalformedImageRef)
	}

	mediaType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", "", fmt.Errorf("%w: payload encoding is not base64", ErrMalformedImageRef)
	}
	if mediaType == "" {
		return "", "", fmt.Errorf("%w: media type is empty", ErrMalformedImageRef)
	}

	return mediaType, payload, nil
}
