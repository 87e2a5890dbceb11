package app

import "context"

// MediaService uploads media and reports processing readiness. The
// submission pipeline never drives uploads itself; it only reads
// readiness through the draft's attachment state.
type MediaService interface {
	// Upload sends a local file and returns the server media id. ready is
	// false when the server accepted the upload but is still processing
	// it; callers poll Ready until it flips.
	Upload(ctx context.Context, path string) (id string, ready bool, err error)

	// Ready reports whether the attachment with the given server id has
	// finished processing.
	Ready(ctx context.Context, id string) (bool, error)
}
