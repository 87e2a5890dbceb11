package compose

import (
	"reflect"
	"testing"

	"github.com/bcgodev/tootdeck/domain"
)

func testCatalog() map[string]domain.Emoji {
	return map[string]domain.Emoji{
		"blobcat": {Shortcode: "blobcat", URL: "https://example/blobcat.png"},
	}
}

func TestFormat_TokenizesKinds(t *testing.T) {
	raw := "hi @bob@remote.social check https://example.com #golang :blobcat:"
	tokens, _ := Format(raw, testCatalog(), DefaultWeights())

	kinds := make([]TokenKind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	want := []TokenKind{
		TokenPlain, TokenMention, TokenPlain, TokenURL,
		TokenPlain, TokenHashtag, TokenPlain, TokenEmoji,
	}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("unexpected token kinds: %v\ntokens: %#v", kinds, tokens)
	}
	if got := Serialize(tokens); got != raw {
		t.Fatalf("tokens must round-trip to raw text: %q != %q", got, raw)
	}
}

func TestFormat_URLCountsAtFixedWeight(t *testing.T) {
	longURL := "https://example.com/a/very/long/path/that/keeps/going/and/going"
	_, count := Format(longURL, nil, DefaultWeights())
	if count != 23 {
		t.Fatalf("URL must count at fixed weight 23, got %d", count)
	}

	_, count = Format("x "+longURL, nil, DefaultWeights())
	if count != 25 {
		t.Fatalf("expected plain prefix + weighted URL = 25, got %d", count)
	}
}

func TestFormat_MentionDomainNotCounted(t *testing.T) {
	_, count := Format("@bob@remote.social", nil, DefaultWeights())
	if count != 4 { // "@bob"
		t.Fatalf("mention must count without domain part, got %d", count)
	}

	w := DefaultWeights()
	w.CountMentionDomain = true
	_, count = Format("@bob@remote.social", nil, w)
	if count != 18 {
		t.Fatalf("mention with domain counting must be literal length, got %d", count)
	}
}

func TestFormat_UnmatchedShortcodeStaysLiteral(t *testing.T) {
	tokens, count := Format(":nosuch:", testCatalog(), DefaultWeights())
	if len(tokens) != 1 || tokens[0].Kind != TokenPlain {
		t.Fatalf("unmatched shortcode must stay plain text: %#v", tokens)
	}
	if count != 8 {
		t.Fatalf("unexpected count for literal shortcode: %d", count)
	}
}

func TestFormat_MatchedShortcodeBecomesEmojiToken(t *testing.T) {
	tokens, count := Format(":blobcat:", testCatalog(), DefaultWeights())
	if len(tokens) != 1 || tokens[0].Kind != TokenEmoji || tokens[0].Payload != "blobcat" {
		t.Fatalf("expected emoji token, got %#v", tokens)
	}
	if count != 9 {
		t.Fatalf("emoji shortcode must count at literal length, got %d", count)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	raw := "@alice #tag https://example.com :blobcat: plain"
	t1, c1 := Format(raw, testCatalog(), DefaultWeights())
	t2, c2 := Format(raw, testCatalog(), DefaultWeights())
	if c1 != c2 || !reflect.DeepEqual(t1, t2) {
		t.Fatalf("formatting must be deterministic for identical input")
	}
}

func TestFormat_EmailIsNotAMention(t *testing.T) {
	tokens, _ := Format("mail me at bob@example.com", nil, DefaultWeights())
	for _, tok := range tokens {
		if tok.Kind == TokenMention {
			t.Fatalf("email address must not tokenize as mention: %#v", tok)
		}
	}
}

func TestFormat_HashtagInsideURLNotTokenized(t *testing.T) {
	tokens, _ := Format("https://example.com/page#section", nil, DefaultWeights())
	if len(tokens) != 1 || tokens[0].Kind != TokenURL {
		t.Fatalf("URL fragment must stay part of the URL token: %#v", tokens)
	}
}

func TestSplice_InsertsAtOffsetAndClampsEnd(t *testing.T) {
	if got := Splice("hello world", 5, " :blobcat:"); got != "hello :blobcat: world" {
		t.Fatalf("unexpected splice: %q", got)
	}
	if got := Splice("hi", -1, " :blobcat:"); got != "hi :blobcat:" {
		t.Fatalf("negative offset must append: %q", got)
	}
	if got := Splice("hi", 99, "!"); got != "hi!" {
		t.Fatalf("out-of-range offset must clamp: %q", got)
	}
}

func TestSplice_DoesNotSplitRunes(t *testing.T) {
	raw := "héllo"
	// Offset 2 lands inside the two-byte é.
	got := Splice(raw, 2, "X")
	if got != "hXéllo" {
		t.Fatalf("splice must back up to a rune boundary: %q", got)
	}
}

func TestCount_DeterministicForMixedContent(t *testing.T) {
	raw := "warning: #spoilers ahead @friend https://example.com/x"
	_, a := Format(raw, testCatalog(), DefaultWeights())
	_, b := Format(raw, testCatalog(), DefaultWeights())
	if a != b {
		t.Fatalf("same input must produce same count: %d != %d", a, b)
	}
}
