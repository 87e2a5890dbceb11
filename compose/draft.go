package compose

import (
	"github.com/bcgodev/tootdeck/domain"
)

const (
	// MaxChars is the combined spoiler+body character budget.
	MaxChars = 500

	// MaxAttachments bounds the number of media items per status.
	MaxAttachments = 4

	// PollSlots is the number of editable poll option slots.
	PollSlots = 4

	// MinPollOptions is the minimum number of populated options for an
	// active poll to be submittable.
	MinPollOptions = 2

	// defaultPollExpiry is one day. Also applied when rehydrating a poll
	// from an existing status: the API does not expose the original
	// expiry on edit, so the default is assumed.
	defaultPollExpiry = 86400
)

// TextState is one formatted text field (body or spoiler).
type TextState struct {
	Raw    string
	Tokens []Token
	Count  int
}

// SpoilerState is the optional content-warning field.
type SpoilerState struct {
	Active bool
	Raw    string
	Tokens []Token
	Count  int
}

// AttachmentDraft is one media item in the draft. Either a fresh upload
// (LocalID/LocalURI, UploadID once the server accepted it) or a reference
// to a remote attachment that already exists (edit mode).
type AttachmentDraft struct {
	LocalID     string // Client-side id for list operations
	LocalURI    string // Source file for fresh uploads
	UploadID    string // Server media id once the upload was accepted
	RemoteID    string // Pre-existing attachment id (edit mode)
	Description string
	Uploading   bool // True while the upload is still processing
}

// Ready reports whether the item can be referenced in a submission.
func (a AttachmentDraft) Ready() bool {
	if a.RemoteID != "" {
		return true
	}
	return a.UploadID != "" && !a.Uploading
}

// MediaID returns the server-side id used in the wire payload.
func (a AttachmentDraft) MediaID() string {
	if a.RemoteID != "" {
		return a.RemoteID
	}
	return a.UploadID
}

// AttachmentState holds the draft's media items and the sensitive flag.
type AttachmentState struct {
	Sensitive bool
	Items     []AttachmentDraft
}

// PollState holds the draft's poll. A nil slot is undefined, distinct from
// a set-but-empty option.
type PollState struct {
	Active   bool
	Options  [PollSlots]*string
	Multiple bool
	Expire   int // seconds
}

// Total returns the option count: the highest contiguous non-empty slot
// from index 0, plus one.
func (p PollState) Total() int {
	n := 0
	for _, opt := range p.Options {
		if opt == nil || *opt == "" {
			break
		}
		n++
	}
	return n
}

// OptionTexts returns the contiguous populated options from slot 0.
func (p PollState) OptionTexts() []string {
	total := p.Total()
	out := make([]string, 0, total)
	for i := 0; i < total; i++ {
		out = append(out, *p.Options[i])
	}
	return out
}

// Draft is the canonical in-memory representation of one status under
// construction. It is a value: the reducer returns a new Draft per action
// and never mutates shared sub-state in place.
type Draft struct {
	Text             TextState
	Spoiler          SpoilerState
	Attachments      AttachmentState
	Poll             PollState
	Visibility       domain.Visibility
	VisibilityLocked bool
	ReplyTo          *domain.Status // Lookup only; not owned by the draft
}

// NewDraft returns a blank draft with the given default posting visibility.
func NewDraft(defaultVisibility domain.Visibility) Draft {
	if defaultVisibility == "" {
		defaultVisibility = domain.VisibilityPublic
	}
	return Draft{
		Visibility: defaultVisibility,
		Poll:       PollState{Expire: defaultPollExpiry},
	}
}

// TotalCount is the counted length used against MaxChars: the spoiler
// contributes only while active.
func (d Draft) TotalCount() int {
	total := d.Text.Count
	if d.Spoiler.Active {
		total += d.Spoiler.Count
	}
	return total
}
