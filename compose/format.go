package compose

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bcgodev/tootdeck/domain"
)

// WeightTable configures how recognized tokens contribute to the character
// count. Weights are platform policy, not algorithm.
type WeightTable struct {
	// URLWeight is the fixed count charged per URL regardless of its
	// literal length.
	URLWeight int

	// CountMentionDomain charges the @domain part of remote mentions.
	// Mastodon counts only the local @user part.
	CountMentionDomain bool
}

// DefaultWeights returns Mastodon's counting rules.
func DefaultWeights() WeightTable {
	return WeightTable{URLWeight: 23}
}

var (
	urlRe       = regexp.MustCompile(`https?://[^\s<>"']+`)
	mentionRe   = regexp.MustCompile(`(?:^|[^\w@/])(@[A-Za-z0-9_]+(?:@[A-Za-z0-9_.\-]+)?)`)
	hashtagRe   = regexp.MustCompile(`(?:^|[^\w&/#])(#[\pL\pN_]+)`)
	shortcodeRe = regexp.MustCompile(`:([A-Za-z0-9_]+):`)
)

type span struct {
	start, end int
	kind       TokenKind
	payload    string
}

// Format tokenizes raw text left to right and returns the tokens plus the
// counted length under the weight table. Shortcodes are only tokenized as
// emoji when present in the catalog; unmatched ones stay literal text.
// Deterministic: identical input always yields identical output.
func Format(raw string, catalog map[string]domain.Emoji, weights WeightTable) ([]Token, int) {
	if raw == "" {
		return nil, 0
	}

	var spans []span
	add := func(start, end int, kind TokenKind, payload string) {
		for _, s := range spans {
			if start < s.end && s.start < end {
				return // Earlier (higher-priority) span wins
			}
		}
		spans = append(spans, span{start: start, end: end, kind: kind, payload: payload})
	}

	for _, m := range urlRe.FindAllStringIndex(raw, -1) {
		add(m[0], m[1], TokenURL, raw[m[0]:m[1]])
	}
	for _, m := range mentionRe.FindAllStringSubmatchIndex(raw, -1) {
		// Group 1 excludes the boundary character.
		add(m[2], m[3], TokenMention, strings.TrimPrefix(raw[m[2]:m[3]], "@"))
	}
	for _, m := range hashtagRe.FindAllStringSubmatchIndex(raw, -1) {
		add(m[2], m[3], TokenHashtag, strings.TrimPrefix(raw[m[2]:m[3]], "#"))
	}
	for _, m := range shortcodeRe.FindAllStringSubmatchIndex(raw, -1) {
		shortcode := raw[m[2]:m[3]]
		if _, ok := catalog[shortcode]; ok {
			add(m[0], m[1], TokenEmoji, shortcode)
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	tokens := make([]Token, 0, len(spans)*2+1)
	pos := 0
	for _, s := range spans {
		if s.start > pos {
			tokens = append(tokens, Token{
				Kind:  TokenPlain,
				Start: pos,
				End:   s.start,
				Text:  raw[pos:s.start],
			})
		}
		tokens = append(tokens, Token{
			Kind:    s.kind,
			Start:   s.start,
			End:     s.end,
			Text:    raw[s.start:s.end],
			Payload: s.payload,
		})
		pos = s.end
	}
	if pos < len(raw) {
		tokens = append(tokens, Token{
			Kind:  TokenPlain,
			Start: pos,
			End:   len(raw),
			Text:  raw[pos:],
		})
	}

	return tokens, countTokens(tokens, weights)
}

func countTokens(tokens []Token, weights WeightTable) int {
	total := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenURL:
			total += weights.URLWeight
		case TokenMention:
			text := tok.Text
			if !weights.CountMentionDomain {
				if i := strings.Index(text[1:], "@"); i >= 0 {
					text = text[:i+1]
				}
			}
			total += utf8.RuneCountInString(text)
		default:
			// Hashtags, matched emoji shortcodes and plain text count
			// at literal rune length.
			total += utf8.RuneCountInString(tok.Text)
		}
	}
	return total
}

// Splice inserts text at the given byte offset, clamping out-of-range
// offsets; a negative offset appends at the end. Used by emoji insertion,
// which patches the raw text instead of re-deriving it from scratch.
func Splice(raw string, at int, insert string) string {
	if at < 0 || at > len(raw) {
		at = len(raw)
	}
	// Avoid splitting a multi-byte rune.
	for at > 0 && at < len(raw) && !utf8.RuneStart(raw[at]) {
		at--
	}
	return raw[:at] + insert + raw[at:]
}
