package app

import (
	"context"

	"github.com/bcgodev/tootdeck/domain"
)

// PollRequest is the poll portion of a status create/update payload.
type PollRequest struct {
	Options   []string
	ExpiresIn int // seconds
	Multiple  bool
}

// StatusRequest is the wire payload for creating or updating a status.
// Tokens are a presentation concern; Text carries their canonical textual
// form (emoji back as :shortcode: literals).
type StatusRequest struct {
	Text        string
	SpoilerText string // Empty unless the spoiler field is active
	Visibility  domain.Visibility
	Sensitive   bool
	InReplyToID string
	MediaIDs    []string
	Poll        *PollRequest
}

// StatusService publishes and edits statuses on a social backend.
type StatusService interface {
	// Create publishes a new status.
	Create(ctx context.Context, req StatusRequest) (domain.Status, error)

	// Update edits an existing status in place.
	Update(ctx context.Context, id string, req StatusRequest) (domain.Status, error)
}
