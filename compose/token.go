package compose

import "strings"

// TokenKind classifies a formatted text token.
type TokenKind int

const (
	TokenPlain TokenKind = iota
	TokenMention
	TokenHashtag
	TokenURL
	TokenEmoji
)

// Token is one span of formatted text. Text is the literal source slice;
// Payload is the semantic value (acct for mentions, tag for hashtags, the
// URL itself, shortcode for emoji). Start and End are byte offsets into
// the raw string.
type Token struct {
	Kind    TokenKind
	Start   int
	End     int
	Text    string
	Payload string
}

// Serialize joins tokens back into their canonical textual form. Tokens
// are presentation-only, so this round-trips to the raw input; emoji
// tokens serialize to their :shortcode: literal.
func Serialize(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}
