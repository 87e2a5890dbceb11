package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bcgodev/tootdeck/app"
	"github.com/bcgodev/tootdeck/domain"
)

// Pipeline validates a finished draft, builds the wire payload, performs
// the single create/update call and invalidates affected feed pages on
// success. One submission per compose session may be in flight; the UI
// upholds that by disabling its submit control, not the pipeline.
type Pipeline struct {
	Statuses app.StatusService
	Cache    app.FeedCache
	Limit    int // 0 means MaxChars
}

// Submit performs the at-most-once submission for the draft. Validation
// failures surface before any network call. On service failure the draft is
// untouched and the error wraps a *domain.SubmitError; there is no retry.
func (p Pipeline) Submit(ctx context.Context, ec EntryContext, d Draft) (domain.Status, error) {
	if err := Validate(d, p.limit()); err != nil {
		return domain.Status{}, err
	}

	req := BuildRequest(ec, d)

	var (
		status domain.Status
		err    error
	)
	if ec.IsEdit() {
		status, err = p.Statuses.Update(ctx, ec.Status.ID, req)
	} else {
		status, err = p.Statuses.Create(ctx, req)
	}
	if err != nil {
		return domain.Status{}, classifySubmitError(err)
	}

	if p.Cache != nil {
		p.Cache.Invalidate(invalidationKeys(ec, status)...)
	}
	return status, nil
}

func (p Pipeline) limit() int {
	if p.Limit > 0 {
		return p.Limit
	}
	return MaxChars
}

// Validate checks the draft against submission invariants. Returns nil when
// the draft is submittable.
func Validate(d Draft, limit int) error {
	if strings.TrimSpace(d.Text.Raw) == "" {
		return domain.ErrEmptyStatus
	}
	if d.TotalCount() > limit {
		return fmt.Errorf("%w: %d > %d", domain.ErrOverLimit, d.TotalCount(), limit)
	}
	if d.Poll.Active && d.Poll.Total() < MinPollOptions {
		return domain.ErrPollUnderfilled
	}
	for _, item := range d.Attachments.Items {
		if !item.Ready() {
			return domain.ErrMediaNotReady
		}
	}
	return nil
}

// BuildRequest serializes the draft into the wire payload. The body is taken
// from the raw text; tokens exist for counting and display, and a current
// token set serializes back to exactly the raw text anyway.
func BuildRequest(ec EntryContext, d Draft) app.StatusRequest {
	req := app.StatusRequest{
		Text:       d.Text.Raw,
		Visibility: d.Visibility,
		Sensitive:  d.Attachments.Sensitive,
	}

	if d.Spoiler.Active {
		req.SpoilerText = d.Spoiler.Raw
	}

	switch ec.Kind {
	case ContextReply:
		if d.ReplyTo != nil {
			req.InReplyToID = d.ReplyTo.ID
		}
	case ContextConversation:
		if ec.Status != nil {
			req.InReplyToID = ec.Status.ID
		}
	}

	if d.Poll.Active {
		req.Poll = &app.PollRequest{
			Options:   d.Poll.OptionTexts(),
			ExpiresIn: d.Poll.Expire,
			Multiple:  d.Poll.Multiple,
		}
	} else if len(d.Attachments.Items) > 0 {
		ids := make([]string, 0, len(d.Attachments.Items))
		for _, item := range d.Attachments.Items {
			ids = append(ids, item.MediaID())
		}
		req.MediaIDs = ids
	}

	return req
}

// invalidationKeys names the cached feed pages a successful submission makes
// stale.
func invalidationKeys(ec EntryContext, status domain.Status) []string {
	keys := []string{"home"}
	if status.InReplyToID != "" {
		keys = append(keys, "status:"+status.InReplyToID)
	}
	if ec.IsEdit() {
		keys = append(keys, "status:"+status.ID)
	}
	return keys
}

func classifySubmitError(err error) error {
	kind := domain.SubmitFailedNetwork
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			kind = domain.SubmitFailedAuth
		case apiErr.StatusCode == 429:
			kind = domain.SubmitFailedRateLimited
		case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
			kind = domain.SubmitFailedRejected
		}
	}
	return &domain.SubmitError{Kind: kind, Err: err}
}
