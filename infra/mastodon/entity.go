package mastodon

import (
	"time"

	"github.com/bcgodev/tootdeck/domain"
)

// mastodonStatus is the subset of Mastodon's Status entity we care about.
type mastodonStatus struct {
	ID               string                    `json:"id"`
	Content          string                    `json:"content"` // HTML
	Text             string                    `json:"text"`    // Source text, present on own statuses
	SpoilerText      string                    `json:"spoiler_text"`
	CreatedAt        string                    `json:"created_at"`
	URL              string                    `json:"url"`
	Visibility       string                    `json:"visibility"`
	Sensitive        bool                      `json:"sensitive"`
	InReplyToID      *string                   `json:"in_reply_to_id"`
	Account          mastodonAccount           `json:"account"`
	Mentions         []mastodonMention         `json:"mentions"`
	Poll             *mastodonPoll             `json:"poll"`
	MediaAttachments []mastodonMediaAttachment `json:"media_attachments"`
	Reblog           *mastodonStatus           `json:"reblog"`
}

type mastodonAccount struct {
	ID          string `json:"id"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
}

type mastodonMention struct {
	ID   string `json:"id"`
	Acct string `json:"acct"`
}

type mastodonPoll struct {
	ID       string `json:"id"`
	Expired  bool   `json:"expired"`
	Multiple bool   `json:"multiple"`
	Options  []struct {
		Title      string `json:"title"`
		VotesCount int    `json:"votes_count"`
	} `json:"options"`
}

type mastodonMediaAttachment struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	PreviewURL  string `json:"preview_url"`
	Description string `json:"description"`
}

// mapStatus converts a wire status into the domain entity, stripping HTML
// from the display content. ownID marks the user's own statuses.
func mapStatus(st mastodonStatus, ownID string) domain.Status {
	createdAt, _ := time.Parse(time.RFC3339, st.CreatedAt)

	visibility, _ := domain.ParseVisibility(st.Visibility)

	out := domain.Status{
		ID:          st.ID,
		Content:     plainText(st.Content),
		Text:        st.Text,
		SpoilerText: st.SpoilerText,
		CreatedAt:   createdAt,
		URL:         st.URL,
		Visibility:  visibility,
		Sensitive:   st.Sensitive,
		Account: domain.Account{
			ID:          st.Account.ID,
			Acct:        st.Account.Acct,
			DisplayName: st.Account.DisplayName,
		},
		IsOwn: ownID != "" && st.Account.ID == ownID,
	}

	if st.InReplyToID != nil {
		out.InReplyToID = *st.InReplyToID
	}

	for _, m := range st.Mentions {
		out.Mentions = append(out.Mentions, domain.Mention{ID: m.ID, Acct: m.Acct})
	}

	if st.Poll != nil {
		poll := &domain.Poll{
			ID:       st.Poll.ID,
			Expired:  st.Poll.Expired,
			Multiple: st.Poll.Multiple,
		}
		for _, opt := range st.Poll.Options {
			poll.Options = append(poll.Options, domain.PollOption{
				Title:      opt.Title,
				VotesCount: opt.VotesCount,
			})
		}
		out.Poll = poll
	}

	for _, media := range st.MediaAttachments {
		out.Attachments = append(out.Attachments, domain.Attachment{
			ID:          media.ID,
			Type:        media.Type,
			URL:         media.URL,
			PreviewURL:  media.PreviewURL,
			Description: media.Description,
		})
	}

	if st.Reblog != nil {
		reblog := mapStatus(*st.Reblog, ownID)
		out.Reblog = &reblog
	}

	return out
}
