package compose

import (
	"github.com/bcgodev/tootdeck/domain"
)

// Action is a typed mutation applied to a draft by the reducer.
type Action interface{ isAction() }

// SetText replaces the raw body text. Immediate forces a synchronous
// format pass; otherwise the caller schedules one through the debouncer
// and later dispatches FormatText.
type SetText struct {
	Raw       string
	Immediate bool
}

// SetSpoiler replaces the raw spoiler text, same contract as SetText.
type SetSpoiler struct {
	Raw       string
	Immediate bool
}

// FormatText runs the deferred format pass for the body.
type FormatText struct{}

// FormatSpoiler runs the deferred format pass for the spoiler.
type FormatSpoiler struct{}

// ToggleSpoiler flips the spoiler field without clearing its text.
type ToggleSpoiler struct{}

// SetVisibility selects a new visibility. Ignored while locked.
type SetVisibility struct{ Visibility domain.Visibility }

// AddAttachment appends a media item. Ignored while a poll is active or
// the item bound is reached.
type AddAttachment struct{ Item AttachmentDraft }

// RemoveAttachment drops the item with the given local or remote id.
type RemoveAttachment struct{ ID string }

// SetSensitive flags the draft's media as sensitive.
type SetSensitive struct{ Sensitive bool }

// TogglePoll flips the poll on or off. Ignored while attachments exist.
type TogglePoll struct{}

// SetPollOption writes one option slot (0..3).
type SetPollOption struct {
	Slot int
	Text string
}

// SetPollMultiple flips multiple-choice.
type SetPollMultiple struct{ Multiple bool }

// SetPollExpire sets the poll duration in seconds.
type SetPollExpire struct{ Seconds int }

// InsertEmoji splices a :shortcode: literal at the given byte offset
// (negative appends at the end) and reformats immediately, bypassing the
// debounce schedule.
type InsertEmoji struct {
	Shortcode string
	At        int
}

// MarkUploaded records that a pending attachment finished uploading.
type MarkUploaded struct {
	LocalID  string
	UploadID string
}

func (SetText) isAction()          {}
func (SetSpoiler) isAction()       {}
func (FormatText) isAction()       {}
func (FormatSpoiler) isAction()    {}
func (ToggleSpoiler) isAction()    {}
func (SetVisibility) isAction()    {}
func (AddAttachment) isAction()    {}
func (RemoveAttachment) isAction() {}
func (SetSensitive) isAction()     {}
func (TogglePoll) isAction()       {}
func (SetPollOption) isAction()    {}
func (SetPollMultiple) isAction()  {}
func (SetPollExpire) isAction()    {}
func (InsertEmoji) isAction()      {}
func (MarkUploaded) isAction()     {}

// Reducer is the single mutation point for a draft. Apply is pure and
// synchronous: it returns a new draft and reports whether the action took
// effect. Invalid actions return the draft unchanged with applied=false —
// they never error, so the UI layer carries no handling for impossible
// transitions, but callers that care can still surface the rejection.
type Reducer struct {
	Catalog map[string]domain.Emoji
	Weights WeightTable
}

// NewReducer creates a reducer over the given emoji catalog with Mastodon
// counting rules.
func NewReducer(catalog map[string]domain.Emoji) Reducer {
	return Reducer{Catalog: catalog, Weights: DefaultWeights()}
}

// Apply executes one action against the draft.
func (r Reducer) Apply(d Draft, action Action) (Draft, bool) {
	switch a := action.(type) {
	case SetText:
		d.Text.Raw = a.Raw
		if a.Immediate {
			d = r.formatBody(d)
		}
		return d, true

	case SetSpoiler:
		d.Spoiler.Raw = a.Raw
		if a.Immediate {
			d = r.formatSpoiler(d)
		}
		return d, true

	case FormatText:
		return r.formatBody(d), true

	case FormatSpoiler:
		return r.formatSpoiler(d), true

	case ToggleSpoiler:
		d.Spoiler.Active = !d.Spoiler.Active
		return d, true

	case SetVisibility:
		if d.VisibilityLocked {
			return d, false
		}
		if _, ok := domain.ParseVisibility(string(a.Visibility)); !ok {
			return d, false
		}
		d.Visibility = a.Visibility
		return d, true

	case AddAttachment:
		if d.Poll.Active {
			return d, false
		}
		if len(d.Attachments.Items) >= MaxAttachments {
			return d, false
		}
		items := make([]AttachmentDraft, len(d.Attachments.Items), len(d.Attachments.Items)+1)
		copy(items, d.Attachments.Items)
		d.Attachments.Items = append(items, a.Item)
		return d, true

	case RemoveAttachment:
		for i, item := range d.Attachments.Items {
			if item.LocalID == a.ID || item.RemoteID == a.ID {
				items := make([]AttachmentDraft, 0, len(d.Attachments.Items)-1)
				items = append(items, d.Attachments.Items[:i]...)
				items = append(items, d.Attachments.Items[i+1:]...)
				d.Attachments.Items = items
				return d, true
			}
		}
		return d, false

	case SetSensitive:
		d.Attachments.Sensitive = a.Sensitive
		return d, true

	case TogglePoll:
		if !d.Poll.Active && len(d.Attachments.Items) > 0 {
			return d, false
		}
		d.Poll.Active = !d.Poll.Active
		return d, true

	case SetPollOption:
		if a.Slot < 0 || a.Slot >= PollSlots {
			return d, false
		}
		text := a.Text
		opts := d.Poll.Options
		opts[a.Slot] = &text
		d.Poll.Options = opts
		return d, true

	case SetPollMultiple:
		d.Poll.Multiple = a.Multiple
		return d, true

	case SetPollExpire:
		if a.Seconds <= 0 {
			return d, false
		}
		d.Poll.Expire = a.Seconds
		return d, true

	case InsertEmoji:
		d.Text.Raw = Splice(d.Text.Raw, a.At, ":"+a.Shortcode+":")
		return r.formatBody(d), true

	case MarkUploaded:
		for i, item := range d.Attachments.Items {
			if item.LocalID == a.LocalID {
				items := make([]AttachmentDraft, len(d.Attachments.Items))
				copy(items, d.Attachments.Items)
				items[i].UploadID = a.UploadID
				items[i].Uploading = false
				d.Attachments.Items = items
				return d, true
			}
		}
		return d, false
	}

	return d, false
}

func (r Reducer) formatBody(d Draft) Draft {
	d.Text.Tokens, d.Text.Count = Format(d.Text.Raw, r.Catalog, r.Weights)
	return d
}

func (r Reducer) formatSpoiler(d Draft) Draft {
	d.Spoiler.Tokens, d.Spoiler.Count = Format(d.Spoiler.Raw, r.Catalog, r.Weights)
	return d
}
