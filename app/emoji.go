package app

import (
	"context"

	"github.com/bcgodev/tootdeck/domain"
)

// EmojiCatalog lists the custom emoji available on the active instance.
// Read-only reference data for the compose formatter.
type EmojiCatalog interface {
	Emojis(ctx context.Context) ([]domain.Emoji, error)
}
