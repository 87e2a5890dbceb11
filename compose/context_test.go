package compose

import (
	"testing"

	"github.com/bcgodev/tootdeck/domain"
)

func TestParseContext_NewUsesDefaultVisibility(t *testing.T) {
	d := ParseContext(EntryContext{Kind: ContextNew, DefaultVisibility: domain.VisibilityUnlisted})
	if d.Visibility != domain.VisibilityUnlisted {
		t.Fatalf("expected default visibility, got %q", d.Visibility)
	}
	if d.VisibilityLocked || d.Text.Raw != "" || d.ReplyTo != nil {
		t.Fatalf("expected blank draft, got %#v", d)
	}
}

func TestParseContext_NewFallsBackToPublic(t *testing.T) {
	d := ParseContext(EntryContext{Kind: ContextNew})
	if d.Visibility != domain.VisibilityPublic {
		t.Fatalf("expected public fallback, got %q", d.Visibility)
	}
}

func TestParseContext_ReplyUnwrapsBoost(t *testing.T) {
	original := &domain.Status{
		ID:         "orig",
		Account:    domain.Account{Acct: "alice"},
		Visibility: domain.VisibilityUnlisted,
	}
	boost := &domain.Status{
		ID:         "boost",
		Account:    domain.Account{Acct: "booster"},
		Visibility: domain.VisibilityPublic,
		Reblog:     original,
	}

	d := ParseContext(EntryContext{Kind: ContextReply, Status: boost, SelfAcct: "me"})
	if d.ReplyTo == nil || d.ReplyTo.ID != "orig" {
		t.Fatalf("expected reply target to resolve to the boosted status, got %#v", d.ReplyTo)
	}
	if d.Visibility != domain.VisibilityUnlisted {
		t.Fatalf("expected inherited visibility from the original, got %q", d.Visibility)
	}
	if d.VisibilityLocked {
		t.Fatalf("non-direct reply must not lock visibility")
	}
	if d.Text.Raw != "@alice " {
		t.Fatalf("expected author fallback seed, got %q", d.Text.Raw)
	}
}

func TestParseContext_ReplySeedsMentionsExcludingSelf(t *testing.T) {
	status := &domain.Status{
		ID:         "1",
		Account:    domain.Account{Acct: "alice"},
		Visibility: domain.VisibilityPublic,
		Mentions: []domain.Mention{
			{Acct: "bob"},
			{Acct: "me"},
			{Acct: "carol@remote.social"},
		},
	}

	d := ParseContext(EntryContext{Kind: ContextReply, Status: status, SelfAcct: "me"})
	if d.Text.Raw != "@bob @carol@remote.social " {
		t.Fatalf("unexpected mention seed: %q", d.Text.Raw)
	}
}

func TestParseContext_ReplyToDirectLocksVisibility(t *testing.T) {
	status := &domain.Status{
		ID:         "1",
		Account:    domain.Account{Acct: "alice"},
		Visibility: domain.VisibilityDirect,
	}

	d := ParseContext(EntryContext{Kind: ContextReply, Status: status, SelfAcct: "me"})
	if d.Visibility != domain.VisibilityDirect || !d.VisibilityLocked {
		t.Fatalf("direct reply must inherit and lock direct visibility: %#v", d)
	}
}

func TestParseContext_ConversationForcesDirect(t *testing.T) {
	status := &domain.Status{
		ID:      "1",
		Account: domain.Account{Acct: "alice"},
	}

	d := ParseContext(EntryContext{
		Kind:              ContextConversation,
		Status:            status,
		DefaultVisibility: domain.VisibilityPublic,
	})
	if d.Visibility != domain.VisibilityDirect || !d.VisibilityLocked {
		t.Fatalf("conversation must force locked direct visibility: %#v", d)
	}
	if d.Text.Raw != "@alice " {
		t.Fatalf("expected author seed, got %q", d.Text.Raw)
	}
}

func TestParseContext_EditRehydratesPollSlots(t *testing.T) {
	status := &domain.Status{
		ID:   "1",
		Text: "pick one",
		Poll: &domain.Poll{
			Options:  []domain.PollOption{{Title: "tea"}, {Title: "coffee"}},
			Multiple: true,
		},
	}

	d := ParseContext(EntryContext{Kind: ContextEdit, Status: status})
	if !d.Poll.Active || !d.Poll.Multiple {
		t.Fatalf("expected active multiple poll, got %#v", d.Poll)
	}
	if d.Poll.Options[0] == nil || *d.Poll.Options[0] != "tea" {
		t.Fatalf("slot 0 not populated: %#v", d.Poll.Options)
	}
	if d.Poll.Options[1] == nil || *d.Poll.Options[1] != "coffee" {
		t.Fatalf("slot 1 not populated: %#v", d.Poll.Options)
	}
	if d.Poll.Options[2] != nil || d.Poll.Options[3] != nil {
		t.Fatalf("slots 2 and 3 must stay undefined: %#v", d.Poll.Options)
	}
	if d.Poll.Total() != 2 {
		t.Fatalf("expected total 2, got %d", d.Poll.Total())
	}
	if d.Poll.Expire != defaultPollExpiry {
		t.Fatalf("edit must apply the fixed default expiry, got %d", d.Poll.Expire)
	}
}

func TestParseContext_EditRehydratesSpoilerAndAttachments(t *testing.T) {
	status := &domain.Status{
		ID:          "1",
		Text:        "body",
		SpoilerText: "cw",
		Sensitive:   true,
		Attachments: []domain.Attachment{
			{ID: "m1", Description: "a cat"},
			{ID: "m2"},
		},
	}

	d := ParseContext(EntryContext{Kind: ContextEdit, Status: status})
	if !d.Spoiler.Active || d.Spoiler.Raw != "cw" {
		t.Fatalf("expected active spoiler, got %#v", d.Spoiler)
	}
	if d.Text.Raw != "body" {
		t.Fatalf("expected source text, got %q", d.Text.Raw)
	}
	if !d.Attachments.Sensitive || len(d.Attachments.Items) != 2 {
		t.Fatalf("unexpected attachments: %#v", d.Attachments)
	}
	if d.Attachments.Items[0].RemoteID != "m1" || !d.Attachments.Items[0].Ready() {
		t.Fatalf("attachments must be remote references, got %#v", d.Attachments.Items[0])
	}
}

func TestParseContext_EditVisibilityFallbackAndLock(t *testing.T) {
	noVis := &domain.Status{ID: "1", Text: "x"}
	d := ParseContext(EntryContext{Kind: ContextEdit, Status: noVis, DefaultVisibility: domain.VisibilityPrivate})
	if d.Visibility != domain.VisibilityPrivate {
		t.Fatalf("expected identity default fallback, got %q", d.Visibility)
	}
	if d.VisibilityLocked {
		t.Fatalf("fallback visibility must not lock")
	}

	direct := &domain.Status{ID: "2", Text: "x", Visibility: domain.VisibilityDirect}
	d = ParseContext(EntryContext{Kind: ContextEdit, Status: direct})
	if d.Visibility != domain.VisibilityDirect || !d.VisibilityLocked {
		t.Fatalf("direct edit must lock visibility: %#v", d)
	}
}
