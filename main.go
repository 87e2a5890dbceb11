package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bcgodev/tootdeck/infra/auth"
	"github.com/bcgodev/tootdeck/infra/config"
	"github.com/bcgodev/tootdeck/infra/editor"
	"github.com/bcgodev/tootdeck/infra/feedcache"
	"github.com/bcgodev/tootdeck/infra/mastodon"
	"github.com/bcgodev/tootdeck/tui"
)

const bootTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tootdeck: %v\n", err)
		os.Exit(1)
	}

	tokenProvider := auth.NewFileTokenProvider(cfg.TokenPath)
	client := mastodon.NewClient(cfg.InstanceURL, tokenProvider)

	ctx, cancel := context.WithTimeout(context.Background(), bootTimeout)
	defer cancel()

	accounts := mastodon.NewAccountService(client)
	self, err := accounts.CurrentAccount(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tootdeck: verifying credentials: %v\n", err)
		os.Exit(1)
	}

	// Server-side posting preference wins; the config value is the fallback.
	defaultVisibility := cfg.DefaultVisibility
	if vis, err := accounts.DefaultVisibility(ctx); err == nil {
		defaultVisibility = vis
	}

	// A missing emoji catalog degrades gracefully: shortcodes just stay
	// plain text.
	emojis, err := mastodon.NewEmojiService(client).Emojis(ctx)
	if err != nil {
		emojis = nil
	}

	cache := feedcache.New()
	timeline := feedcache.NewTimeline(mastodon.NewTimelineService(client, self.ID), cache)

	app := tui.NewApp(tui.Deps{
		Timeline: timeline,
		Statuses: mastodon.NewStatusService(client, self.ID),
		Media:    mastodon.NewMediaService(client),
		Cache:    cache,
		Editor:   editor.NewEnvEditor(),

		Self:              self,
		DefaultVisibility: defaultVisibility,
		Emojis:            emojis,
		Catalog:           mastodon.CatalogMap(emojis),
		Debounce:          cfg.Debounce,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tootdeck: %v\n", err)
		os.Exit(1)
	}
}
