package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/bcgodev/tootdeck/app"
	"github.com/bcgodev/tootdeck/compose"
	"github.com/bcgodev/tootdeck/domain"
	"github.com/bcgodev/tootdeck/infra/editor"
	"github.com/bcgodev/tootdeck/infra/feedcache"
	"github.com/bcgodev/tootdeck/tui/common"
	"github.com/bcgodev/tootdeck/tui/composer"
	"github.com/bcgodev/tootdeck/tui/feed"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Timeline app.TimelineService
	Statuses app.StatusService
	Media    app.MediaService
	Cache    app.FeedCache
	Editor   *editor.EnvEditor

	Self              domain.Account
	DefaultVisibility domain.Visibility
	Emojis            []domain.Emoji
	Catalog           map[string]domain.Emoji
	Debounce          time.Duration
}

type activeView int

const (
	feedView activeView = iota
	composerView
)

// App is the root Bubble Tea model. It routes between the feed and at most
// one live compose session, and it owns the submission pipeline.
type App struct {
	deps     Deps
	pipeline compose.Pipeline
	active   activeView
	feed     feed.Model
	composer composer.Model
	status   string // Transient status message (e.g. "Posted!")

	// Feed entry addressed by the in-flight submission: the provisional
	// entry's local id for creates, the real status id for edits.
	pendingID string
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	return App{
		deps: deps,
		pipeline: compose.Pipeline{
			Statuses: deps.Statuses,
			Cache:    deps.Cache,
		},
		active: feedView,
		feed:   feed.New(deps.Timeline),
	}
}

// Init delegates to the feed.
func (a App) Init() tea.Cmd {
	return a.feed.Init()
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.active == feedView && (msg.String() == "q" || msg.String() == "ctrl+c") {
			return a, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd

	case feed.RefreshMsg:
		// An explicit refresh bypasses the cached home page.
		if a.deps.Cache != nil {
			a.deps.Cache.Invalidate(feedcache.KeyHome)
		}
		return a, a.feed.Refresh()

	case feed.ComposeNewMsg:
		return a.openComposer(compose.EntryContext{
			Kind:              compose.ContextNew,
			DefaultVisibility: a.deps.DefaultVisibility,
		})

	case feed.ReplyMsg:
		st := msg.Status
		return a.openComposer(compose.EntryContext{
			Kind:              compose.ContextReply,
			Status:            &st,
			SelfAcct:          a.deps.Self.Acct,
			DefaultVisibility: a.deps.DefaultVisibility,
		})

	case feed.ConversationMsg:
		st := msg.Status
		return a.openComposer(compose.EntryContext{
			Kind:              compose.ContextConversation,
			Status:            &st,
			SelfAcct:          a.deps.Self.Acct,
			DefaultVisibility: a.deps.DefaultVisibility,
		})

	case feed.EditMsg:
		st := msg.Status
		return a.openComposer(compose.EntryContext{
			Kind:              compose.ContextEdit,
			Status:            &st,
			SelfAcct:          a.deps.Self.Acct,
			DefaultVisibility: a.deps.DefaultVisibility,
		})

	case composer.CancelMsg:
		a.active = feedView
		a.status = "Cancelled."
		return a, nil

	case composer.SubmitMsg:
		return a.startSubmission(msg)

	case composer.ResultMsg:
		return a.finishSubmission(msg)
	}

	// Delegate to the active sub-model.
	switch a.active {
	case feedView:
		updated, cmd := a.feed.Update(msg)
		a.feed = updated
		return a, cmd
	case composerView:
		updated, cmd := a.composer.Update(msg)
		a.composer = updated
		return a, cmd
	}

	return a, nil
}

func (a App) openComposer(entry compose.EntryContext) (tea.Model, tea.Cmd) {
	a.active = composerView
	a.status = ""
	a.composer = composer.New(composer.Config{
		Entry:    entry,
		Catalog:  a.deps.Catalog,
		Emojis:   a.deps.Emojis,
		Media:    a.deps.Media,
		Editor:   a.deps.Editor,
		Debounce: a.deps.Debounce,
	})
	return a, a.composer.Init()
}

// startSubmission puts an optimistic entry into the feed and runs the
// pipeline in the background. The composer stays open until the result
// arrives so a failure keeps the draft editable.
func (a App) startSubmission(msg composer.SubmitMsg) (tea.Model, tea.Cmd) {
	isEdit := msg.Entry.IsEdit()

	if isEdit {
		a.pendingID = msg.Entry.Status.ID
		a.feed, _ = a.feed.Update(feed.UpdateOptimisticMsg{
			ID:      a.pendingID,
			Content: msg.Draft.Text.Raw,
		})
		a.status = "Updating..."
	} else {
		a.pendingID = uuid.NewString()
		a.feed, _ = a.feed.Update(feed.AddOptimisticMsg{
			LocalID: a.pendingID,
			Status:  a.provisionalStatus(msg.Draft),
		})
		a.status = "Posting..."
	}

	pipeline := a.pipeline
	return a, func() tea.Msg {
		status, err := pipeline.Submit(context.Background(), msg.Entry, msg.Draft)
		return composer.ResultMsg{Status: status, Err: err}
	}
}

// provisionalStatus mirrors the draft as a feed entry until the server
// version replaces it.
func (a App) provisionalStatus(d compose.Draft) domain.Status {
	st := domain.Status{
		Account:    a.deps.Self,
		Content:    d.Text.Raw,
		CreatedAt:  time.Now(),
		Visibility: d.Visibility,
		IsOwn:      true,
	}
	if d.Spoiler.Active {
		st.SpoilerText = d.Spoiler.Raw
	}
	if d.ReplyTo != nil {
		st.InReplyToID = d.ReplyTo.ID
	}
	return st
}

func (a App) finishSubmission(msg composer.ResultMsg) (tea.Model, tea.Cmd) {
	isEdit := a.composer.Entry().IsEdit()

	if msg.Err != nil {
		a.feed, _ = a.feed.Update(feed.ResultMsg{
			LocalID: a.pendingID,
			IsEdit:  isEdit,
			Err:     msg.Err,
		})
		a.status = ""
		// The composer unlocks and shows the error; the draft is intact.
		updated, cmd := a.composer.Update(msg)
		a.composer = updated
		return a, cmd
	}

	st := msg.Status
	st.IsOwn = true
	a.feed, _ = a.feed.Update(feed.ResultMsg{
		LocalID: a.pendingID,
		IsEdit:  isEdit,
		Status:  st,
	})

	a.active = feedView
	if isEdit {
		a.status = "Updated!"
	} else {
		a.status = "Posted!"
	}
	return a, nil
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case feedView:
		s = a.feed.View()
	case composerView:
		s = a.composer.View()
	}

	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render("  "+a.status)
	}

	return s
}
