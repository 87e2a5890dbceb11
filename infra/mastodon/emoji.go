package mastodon

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bcgodev/tootdeck/domain"
)

// emojiService implements app.EmojiCatalog using the Mastodon API.
type emojiService struct {
	client *Client
}

// NewEmojiService creates an EmojiCatalog backed by the instance's custom
// emoji endpoint.
func NewEmojiService(client *Client) *emojiService {
	return &emojiService{client: client}
}

func (s *emojiService) Emojis(ctx context.Context) ([]domain.Emoji, error) {
	data, err := s.client.Get(ctx, "/api/v1/custom_emojis")
	if err != nil {
		return nil, fmt.Errorf("fetching custom emojis: %w", err)
	}

	var raw []struct {
		Shortcode       string `json:"shortcode"`
		URL             string `json:"url"`
		StaticURL       string `json:"static_url"`
		Category        string `json:"category"`
		VisibleInPicker bool   `json:"visible_in_picker"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing custom emojis: %w", err)
	}

	out := make([]domain.Emoji, 0, len(raw))
	for _, e := range raw {
		if !e.VisibleInPicker {
			continue
		}
		out = append(out, domain.Emoji{
			Shortcode: e.Shortcode,
			URL:       e.URL,
			StaticURL: e.StaticURL,
			Category:  e.Category,
		})
	}
	return out, nil
}

// CatalogMap indexes emojis by shortcode for the compose formatter.
func CatalogMap(emojis []domain.Emoji) map[string]domain.Emoji {
	m := make(map[string]domain.Emoji, len(emojis))
	for _, e := range emojis {
		m[e.Shortcode] = e
	}
	return m
}
