package mastodon

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bcgodev/tootdeck/domain"
)

// timelineService implements app.TimelineService using the Mastodon API.
type timelineService struct {
	client *Client
	ownID  string
}

// NewTimelineService creates a TimelineService backed by Mastodon. Pass the
// authenticated account id to mark the user's own statuses in the feed.
func NewTimelineService(client *Client, ownID string) *timelineService {
	return &timelineService{client: client, ownID: ownID}
}

func (s *timelineService) FetchHome(ctx context.Context, limit int) ([]domain.Status, error) {
	path := fmt.Sprintf("/api/v1/timelines/home?limit=%d", limit)

	data, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching home timeline: %w", err)
	}

	var statuses []mastodonStatus
	if err := json.Unmarshal(data, &statuses); err != nil {
		return nil, fmt.Errorf("parsing timeline: %w", err)
	}

	out := make([]domain.Status, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, mapStatus(st, s.ownID))
	}
	return out, nil
}
