package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bcgodev/tootdeck/domain"
)

// Config holds application-level configuration.
type Config struct {
	InstanceURL       string            // e.g. "https://mastodon.social"
	TokenPath         string            // Path to file containing the access token
	DefaultVisibility domain.Visibility // Fallback when the API preference is unavailable
	Debounce          time.Duration     // Quiet period before a format pass
}

// Load reads configuration from environment variables.
//
//	TOOTDECK_INSTANCE     — Mastodon instance URL (default: https://mastodon.social)
//	TOOTDECK_TOKEN        — Path to token file (default: ~/.config/tootdeck/token)
//	TOOTDECK_VISIBILITY   — Default posting visibility (default: "public")
//	TOOTDECK_DEBOUNCE_MS  — Format debounce in milliseconds (default: 500)
func Load() (Config, error) {
	instance := os.Getenv("TOOTDECK_INSTANCE")
	if instance == "" {
		instance = "https://mastodon.social"
	}
	parsed, err := url.Parse(instance)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("invalid TOOTDECK_INSTANCE: must be an absolute URL")
	}
	if parsed.Scheme != "https" {
		return Config{}, fmt.Errorf("invalid TOOTDECK_INSTANCE: only https is allowed")
	}
	instance = strings.TrimRight(parsed.String(), "/")

	tokenPath := os.Getenv("TOOTDECK_TOKEN")
	if tokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		tokenPath = filepath.Join(home, ".config", "tootdeck", "token")
	}

	visibility := domain.VisibilityPublic
	if raw := os.Getenv("TOOTDECK_VISIBILITY"); raw != "" {
		vis, ok := domain.ParseVisibility(raw)
		if !ok {
			return Config{}, fmt.Errorf("invalid TOOTDECK_VISIBILITY: %q", raw)
		}
		visibility = vis
	}

	debounce := 500 * time.Millisecond
	if raw := os.Getenv("TOOTDECK_DEBOUNCE_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("invalid TOOTDECK_DEBOUNCE_MS: %q", raw)
		}
		debounce = time.Duration(ms) * time.Millisecond
	}

	return Config{
		InstanceURL:       instance,
		TokenPath:         tokenPath,
		DefaultVisibility: visibility,
		Debounce:          debounce,
	}, nil
}
