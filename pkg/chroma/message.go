package chroma

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/reflow/wrap"
)

// DefaultStyle is used when no style is configured.
const DefaultStyle = "monokai"

// NewMessageLexer creates a Chroma lexer for Internet messages (RFC 5322): header
// fields up to the first blank line, then the body.
func NewMessageLexer() chroma.Lexer {
	return chroma.MustNewLexer(
		&chroma.Config{
			Name:      "Internet Message",
			Aliases:   []string{"eml", "rfc5322", "mbox"},
			Filenames: []string{"*.eml", "*.mbox"},
			MimeTypes: []string{"message/rfc822"},
		},
		func() chroma.Rules {
			return chroma.Rules{
				"root": {
					// mbox separator line
					{Pattern: `^From [^\n]*\n`, Type: chroma.CommentPreproc, Mutator: nil},
					// End of header block
					{Pattern: `^\r?\n`, Type: chroma.Text, Mutator: chroma.Push("body")},
					{Pattern: `^([!-9;-~]+)(:)`, Type: chroma.ByGroups(chroma.NameTag, chroma.Punctuation), Mutator: chroma.Push("value")},
					{Pattern: `[^\n]*\n`, Type: chroma.Error, Mutator: nil},
					{Pattern: `[^\n]+`, Type: chroma.Error, Mutator: nil},
				},
				"value": {
					// Folded continuation line
					{Pattern: `\r?\n(?=[ \t])`, Type: chroma.Text, Mutator: nil},
					{Pattern: `\r?\n`, Type: chroma.Text, Mutator: chroma.Pop(1)},
					{Pattern: `=\?[^?\s]+\?[QqBb]\?[^?\s]*\?=`, Type: chroma.LiteralStringEscape, Mutator: nil},
					{Pattern: `<[^<>\s]+@[^<>\s]+>`, Type: chroma.NameVariable, Mutator: nil},
					{Pattern: `[^\r\n<=]+`, Type: chroma.LiteralString, Mutator: nil},
					{Pattern: `[<=\r]`, Type: chroma.LiteralString, Mutator: nil},
				},
				"body": {
					// MIME boundaries
					{Pattern: `^--[^\r\n]*`, Type: chroma.KeywordNamespace, Mutator: nil},
					// Quoted text
					{Pattern: `^>[^\r\n]*`, Type: chroma.CommentSingle, Mutator: nil},
					{Pattern: `[^\n]*\n`, Type: chroma.Text, Mutator: nil},
					{Pattern: `[^\n]+`, Type: chroma.Text, Mutator: nil},
				},
			}
		},
	)
}

// HighlightMessage returns a raw message with ANSI syntax highlighting.
// Returns the original text if highlighting fails.
func HighlightMessage(raw string) string {
	return HighlightMessageWithStyleAndWidth(raw, DefaultStyle, 0)
}

// HighlightMessageWithStyleAndWidth highlights a message with optional ANSI-aware width wrapping AFTER highlighting.
// Available styles: "monokai", "solarized-dark", "solarized-light", "github", "vim", etc.
// maxWidth: maximum line width in visible characters (0 = no wrapping).
// Returns the original text if highlighting fails.
func HighlightMessageWithStyleAndWidth(raw, styleName string, maxWidth int) string {
	// Terminals render the CR of CRLF lines badly
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := NewMessageLexer().Tokenise(nil, raw)
	if err != nil {
		return raw
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return raw
	}

	highlighted := buf.String()
	if maxWidth > 0 {
		highlighted = wrap.String(highlighted, maxWidth)
	}
	return highlighted
}
