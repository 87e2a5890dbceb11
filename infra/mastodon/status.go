package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bcgodev/tootdeck/app"
	"github.com/bcgodev/tootdeck/domain"
)

// statusService implements app.StatusService using the Mastodon API.
type statusService struct {
	client *Client
	ownID  string
}

// NewStatusService creates a StatusService backed by Mastodon. Pass the
// authenticated account id so returned statuses are marked as own.
func NewStatusService(client *Client, ownID string) *statusService {
	return &statusService{client: client, ownID: ownID}
}

func (s *statusService) Create(ctx context.Context, req app.StatusRequest) (domain.Status, error) {
	form := encodeStatusForm(req)
	if req.InReplyToID != "" {
		form.Set("in_reply_to_id", req.InReplyToID)
	}

	data, err := s.client.Post(ctx, "/api/v1/statuses", strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Status{}, fmt.Errorf("creating status: %w", err)
	}
	return s.parseStatus(data)
}

func (s *statusService) Update(ctx context.Context, id string, req app.StatusRequest) (domain.Status, error) {
	form := encodeStatusForm(req)

	path := fmt.Sprintf("/api/v1/statuses/%s", id)
	data, err := s.client.Put(ctx, path, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Status{}, fmt.Errorf("updating status: %w", err)
	}
	return s.parseStatus(data)
}

// encodeStatusForm serializes the shared create/update fields. Poll and
// media are mutually exclusive upstream; the form carries whichever the
// request holds.
func encodeStatusForm(req app.StatusRequest) url.Values {
	form := url.Values{}
	form.Set("status", req.Text)
	form.Set("visibility", string(req.Visibility))

	if req.SpoilerText != "" {
		form.Set("spoiler_text", req.SpoilerText)
	}
	if req.Sensitive {
		form.Set("sensitive", "true")
	}
	for _, id := range req.MediaIDs {
		form.Add("media_ids[]", id)
	}
	if req.Poll != nil {
		for _, opt := range req.Poll.Options {
			form.Add("poll[options][]", opt)
		}
		form.Set("poll[expires_in]", strconv.Itoa(req.Poll.ExpiresIn))
		if req.Poll.Multiple {
			form.Set("poll[multiple]", "true")
		}
	}
	return form
}

func (s *statusService) parseStatus(data []byte) (domain.Status, error) {
	var st mastodonStatus
	if err := json.Unmarshal(data, &st); err != nil {
		return domain.Status{}, fmt.Errorf("parsing status response: %w", err)
	}
	return mapStatus(st, s.ownID), nil
}
