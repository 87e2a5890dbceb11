package compose

import (
	"reflect"
	"testing"

	"github.com/bcgodev/tootdeck/domain"
)

func testReducer() Reducer {
	return NewReducer(testCatalog())
}

func apply(t *testing.T, r Reducer, d Draft, actions ...Action) Draft {
	t.Helper()
	for _, a := range actions {
		d, _ = r.Apply(d, a)
	}
	return d
}

func TestApply_SetTextImmediateFormats(t *testing.T) {
	r := testReducer()
	d, ok := r.Apply(NewDraft(""), SetText{Raw: "hello #world", Immediate: true})
	if !ok {
		t.Fatalf("set text must apply")
	}
	if d.Text.Count != 12 || len(d.Text.Tokens) != 2 {
		t.Fatalf("immediate set must format: count=%d tokens=%#v", d.Text.Count, d.Text.Tokens)
	}
}

func TestApply_SetTextDeferredThenFormat(t *testing.T) {
	r := testReducer()
	d, _ := r.Apply(NewDraft(""), SetText{Raw: "hello"})
	if d.Text.Count != 0 {
		t.Fatalf("deferred set must not count yet, got %d", d.Text.Count)
	}
	d, _ = r.Apply(d, FormatText{})
	if d.Text.Count != 5 {
		t.Fatalf("format pass must recount, got %d", d.Text.Count)
	}
}

func TestApply_ToggleSpoilerKeepsText(t *testing.T) {
	r := testReducer()
	d := apply(t, r, NewDraft(""),
		SetSpoiler{Raw: "cw", Immediate: true},
		ToggleSpoiler{},
	)
	if !d.Spoiler.Active || d.Spoiler.Raw != "cw" {
		t.Fatalf("toggle must keep spoiler text: %#v", d.Spoiler)
	}
	d = apply(t, r, d, ToggleSpoiler{})
	if d.Spoiler.Active || d.Spoiler.Raw != "cw" {
		t.Fatalf("toggle off must keep spoiler text: %#v", d.Spoiler)
	}
}

func TestApply_SetVisibilityRespectsLock(t *testing.T) {
	r := testReducer()
	d := NewDraft("")
	d.Visibility = domain.VisibilityDirect
	d.VisibilityLocked = true

	got, ok := r.Apply(d, SetVisibility{Visibility: domain.VisibilityPublic})
	if ok {
		t.Fatalf("locked visibility change must report rejected")
	}
	if got.Visibility != domain.VisibilityDirect {
		t.Fatalf("locked visibility must stay direct, got %q", got.Visibility)
	}

	d.VisibilityLocked = false
	got, ok = r.Apply(d, SetVisibility{Visibility: domain.VisibilityPrivate})
	if !ok || got.Visibility != domain.VisibilityPrivate {
		t.Fatalf("unlocked visibility change must apply: %#v", got)
	}
}

func TestApply_RejectsUnknownVisibility(t *testing.T) {
	r := testReducer()
	d, ok := r.Apply(NewDraft(""), SetVisibility{Visibility: "friends-of-friends"})
	if ok || d.Visibility != domain.VisibilityPublic {
		t.Fatalf("unknown visibility must be rejected: %#v", d)
	}
}

func TestApply_AttachmentPollMutualExclusion(t *testing.T) {
	r := testReducer()

	// Poll first blocks attachments.
	d := apply(t, r, NewDraft(""), TogglePoll{})
	got, ok := r.Apply(d, AddAttachment{Item: AttachmentDraft{LocalID: "a"}})
	if ok || len(got.Attachments.Items) != 0 {
		t.Fatalf("add attachment must be rejected while poll active")
	}

	// Attachment first blocks the poll.
	d = apply(t, r, NewDraft(""), AddAttachment{Item: AttachmentDraft{LocalID: "a"}})
	got, ok = r.Apply(d, TogglePoll{})
	if ok || got.Poll.Active {
		t.Fatalf("toggle poll must be rejected while attachments exist")
	}

	// Removing the attachment unblocks the poll again.
	d = apply(t, r, d, RemoveAttachment{ID: "a"}, TogglePoll{})
	if !d.Poll.Active {
		t.Fatalf("poll must toggle once attachments are gone")
	}
}

func TestApply_ExclusionHoldsForAllSequences(t *testing.T) {
	r := testReducer()
	sequences := [][]Action{
		{TogglePoll{}, AddAttachment{Item: AttachmentDraft{LocalID: "a"}}, TogglePoll{}, AddAttachment{Item: AttachmentDraft{LocalID: "b"}}},
		{AddAttachment{Item: AttachmentDraft{LocalID: "a"}}, TogglePoll{}, RemoveAttachment{ID: "a"}, TogglePoll{}, AddAttachment{Item: AttachmentDraft{LocalID: "b"}}},
		{TogglePoll{}, TogglePoll{}, AddAttachment{Item: AttachmentDraft{LocalID: "a"}}, TogglePoll{}},
	}

	for i, seq := range sequences {
		d := NewDraft("")
		for _, a := range seq {
			d, _ = r.Apply(d, a)
			if d.Poll.Active && len(d.Attachments.Items) > 0 {
				t.Fatalf("sequence %d violated poll/attachment exclusion: %#v", i, d)
			}
		}
	}
}

func TestApply_AttachmentBound(t *testing.T) {
	r := testReducer()
	d := NewDraft("")
	for i := 0; i < MaxAttachments; i++ {
		var ok bool
		d, ok = r.Apply(d, AddAttachment{Item: AttachmentDraft{LocalID: string(rune('a' + i))}})
		if !ok {
			t.Fatalf("add %d must apply", i)
		}
	}
	got, ok := r.Apply(d, AddAttachment{Item: AttachmentDraft{LocalID: "overflow"}})
	if ok || len(got.Attachments.Items) != MaxAttachments {
		t.Fatalf("add beyond bound must be rejected: %d items", len(got.Attachments.Items))
	}
}

func TestApply_PollOptionsAndTotal(t *testing.T) {
	r := testReducer()
	d := apply(t, r, NewDraft(""),
		TogglePoll{},
		SetPollOption{Slot: 0, Text: "tea"},
		SetPollOption{Slot: 1, Text: "coffee"},
		SetPollOption{Slot: 3, Text: "orphan"},
	)
	// Slot 2 is undefined, so the contiguous total stops at 2.
	if d.Poll.Total() != 2 {
		t.Fatalf("expected contiguous total 2, got %d", d.Poll.Total())
	}
	if !reflect.DeepEqual(d.Poll.OptionTexts(), []string{"tea", "coffee"}) {
		t.Fatalf("unexpected options: %#v", d.Poll.OptionTexts())
	}

	if _, ok := r.Apply(d, SetPollOption{Slot: 4, Text: "nope"}); ok {
		t.Fatalf("out-of-range slot must be rejected")
	}
	if _, ok := r.Apply(d, SetPollExpire{Seconds: 0}); ok {
		t.Fatalf("non-positive expiry must be rejected")
	}
}

func TestApply_PollOptionDoesNotMutatePreviousDraft(t *testing.T) {
	r := testReducer()
	before := apply(t, r, NewDraft(""), TogglePoll{}, SetPollOption{Slot: 0, Text: "tea"})
	after, _ := r.Apply(before, SetPollOption{Slot: 0, Text: "coffee"})

	if *before.Poll.Options[0] != "tea" {
		t.Fatalf("previous draft version was mutated: %q", *before.Poll.Options[0])
	}
	if *after.Poll.Options[0] != "coffee" {
		t.Fatalf("new draft version missing update: %q", *after.Poll.Options[0])
	}
}

func TestApply_InsertEmojiImmediate(t *testing.T) {
	r := testReducer()
	d := apply(t, r, NewDraft(""), SetText{Raw: "look ", Immediate: true})
	d, ok := r.Apply(d, InsertEmoji{Shortcode: "blobcat", At: -1})
	if !ok {
		t.Fatalf("emoji insert must apply")
	}
	if d.Text.Raw != "look :blobcat:" {
		t.Fatalf("unexpected raw after insert: %q", d.Text.Raw)
	}
	last := d.Text.Tokens[len(d.Text.Tokens)-1]
	if last.Kind != TokenEmoji || last.Payload != "blobcat" {
		t.Fatalf("insert must produce an emoji token without waiting: %#v", last)
	}
}

func TestApply_MarkUploaded(t *testing.T) {
	r := testReducer()
	d := apply(t, r, NewDraft(""), AddAttachment{Item: AttachmentDraft{LocalID: "a", Uploading: true}})
	if d.Attachments.Items[0].Ready() {
		t.Fatalf("uploading item must not be ready")
	}
	d, ok := r.Apply(d, MarkUploaded{LocalID: "a", UploadID: "srv-1"})
	if !ok || !d.Attachments.Items[0].Ready() || d.Attachments.Items[0].MediaID() != "srv-1" {
		t.Fatalf("mark uploaded must finish the item: %#v", d.Attachments.Items[0])
	}

	if _, ok := r.Apply(d, MarkUploaded{LocalID: "nope", UploadID: "x"}); ok {
		t.Fatalf("unknown local id must be rejected")
	}
}

func TestApply_InvalidActionsLeaveDraftUnchanged(t *testing.T) {
	r := testReducer()
	d := apply(t, r, NewDraft(""),
		SetText{Raw: "hello", Immediate: true},
		TogglePoll{},
		SetPollOption{Slot: 0, Text: "a"},
		SetPollOption{Slot: 1, Text: "b"},
	)

	rejected := []Action{
		AddAttachment{Item: AttachmentDraft{LocalID: "x"}},
		SetPollOption{Slot: 9, Text: "x"},
		RemoveAttachment{ID: "ghost"},
	}
	for _, a := range rejected {
		got, ok := r.Apply(d, a)
		if ok {
			t.Fatalf("action %T must be rejected", a)
		}
		if !reflect.DeepEqual(got, d) {
			t.Fatalf("rejected %T must not change the draft", a)
		}
	}
}
