package app

import (
	"context"

	"github.com/bcgodev/tootdeck/domain"
)

// TimelineService fetches statuses from a social timeline.
type TimelineService interface {
	// FetchHome returns the home timeline, newest first.
	FetchHome(ctx context.Context, limit int) ([]domain.Status, error)
}
