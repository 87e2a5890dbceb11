package domain

import "time"

// Visibility controls who can see a published status.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private" // followers-only
	VisibilityDirect   Visibility = "direct"
)

// ParseVisibility maps a wire value to a Visibility. The second return is
// false for unknown values.
func ParseVisibility(s string) (Visibility, bool) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityUnlisted, VisibilityPrivate, VisibilityDirect:
		return Visibility(s), true
	}
	return "", false
}

// Account is the author of a status.
type Account struct {
	ID          string
	Acct        string // user or user@domain
	DisplayName string
}

// Mention is a participant referenced in a status body.
type Mention struct {
	ID   string
	Acct string
}

// Emoji is one custom emoji from the instance catalog.
type Emoji struct {
	Shortcode string
	URL       string
	StaticURL string
	Category  string
}

// PollOption is a single answer in a published poll.
type PollOption struct {
	Title      string
	VotesCount int
}

// Poll is a published status poll.
type Poll struct {
	ID       string
	Options  []PollOption
	Multiple bool
	Expired  bool
}

// Attachment is a published media attachment.
type Attachment struct {
	ID          string
	Type        string // image, video, gifv, audio
	URL         string
	PreviewURL  string
	Description string
}

// Status represents a single published post.
type Status struct {
	ID          string
	Account     Account
	Content     string // Plain text, HTML stripped
	Text        string // Original source text, present when editing own posts
	SpoilerText string
	CreatedAt   time.Time
	URL         string
	Visibility  Visibility
	Sensitive   bool
	Mentions    []Mention
	Poll        *Poll
	Attachments []Attachment
	Reblog      *Status // Set when this status is a boost of another
	InReplyToID string
	IsOwn       bool // True if this status belongs to the authenticated user
}

// Effective unwraps one level of boost indirection: replying to a boost
// targets the boosted status, not the wrapper.
func (s *Status) Effective() *Status {
	if s != nil && s.Reblog != nil {
		return s.Reblog
	}
	return s
}
