package compose

import (
	"github.com/bcgodev/tootdeck/domain"
)

// ContextKind selects how a compose session is entered.
type ContextKind int

const (
	ContextNew ContextKind = iota
	ContextReply
	ContextConversation
	ContextEdit
)

// EntryContext carries everything the parser needs to derive an initial
// draft. Status must be resolved and non-nil for every kind except New;
// aborting on deleted or unavailable statuses is the caller's job.
type EntryContext struct {
	Kind              ContextKind
	Status            *domain.Status
	SelfAcct          string
	DefaultVisibility domain.Visibility
}

// IsEdit reports whether submission should update rather than create.
func (ec EntryContext) IsEdit() bool { return ec.Kind == ContextEdit }

// ParseContext derives the initial draft for an entry context. Seeded text
// is placed in the raw fields only; the session runs an immediate,
// non-debounced format pass right after (programmatic block injection).
func ParseContext(ec EntryContext) Draft {
	switch ec.Kind {
	case ContextReply:
		return parseReply(ec)
	case ContextConversation:
		return parseConversation(ec)
	case ContextEdit:
		return parseEdit(ec)
	default:
		return NewDraft(ec.DefaultVisibility)
	}
}

func parseReply(ec EntryContext) Draft {
	actual := ec.Status.Effective()

	d := NewDraft(ec.DefaultVisibility)
	d.Visibility = actual.Visibility
	d.VisibilityLocked = actual.Visibility == domain.VisibilityDirect
	d.ReplyTo = actual
	d.Text.Raw = replySeed(actual, ec.SelfAcct)
	return d
}

// replySeed pre-fills the body with @acct handles for every participant
// other than self, falling back to the author when there are none.
func replySeed(status *domain.Status, selfAcct string) string {
	seed := ""
	for _, m := range status.Mentions {
		if m.Acct == selfAcct {
			continue
		}
		if seed != "" {
			seed += " "
		}
		seed += "@" + m.Acct
	}
	if seed == "" {
		return "@" + status.Account.Acct + " "
	}
	return seed + " "
}

func parseConversation(ec EntryContext) Draft {
	d := NewDraft(ec.DefaultVisibility)
	d.Visibility = domain.VisibilityDirect
	d.VisibilityLocked = true
	d.Text.Raw = "@" + ec.Status.Account.Acct + " "
	return d
}

func parseEdit(ec EntryContext) Draft {
	src := ec.Status

	d := NewDraft(ec.DefaultVisibility)
	d.Text.Raw = src.Text

	if src.SpoilerText != "" {
		d.Spoiler.Active = true
		d.Spoiler.Raw = src.SpoilerText
	}

	if src.Poll != nil {
		d.Poll.Active = true
		d.Poll.Multiple = src.Poll.Multiple
		d.Poll.Expire = defaultPollExpiry
		for i := 0; i < PollSlots && i < len(src.Poll.Options); i++ {
			title := src.Poll.Options[i].Title
			d.Poll.Options[i] = &title
		}
	}

	if len(src.Attachments) > 0 {
		d.Attachments.Sensitive = src.Sensitive
		items := make([]AttachmentDraft, 0, len(src.Attachments))
		for _, a := range src.Attachments {
			items = append(items, AttachmentDraft{
				RemoteID:    a.ID,
				Description: a.Description,
			})
		}
		d.Attachments.Items = items
	}

	if src.Visibility != "" {
		d.Visibility = src.Visibility
	}
	if src.Visibility == domain.VisibilityDirect {
		d.VisibilityLocked = true
	}
	return d
}
