package feed

import (
	"context"
	"net/url"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bcgodev/tootdeck/app"
	"github.com/bcgodev/tootdeck/domain"
	"github.com/bcgodev/tootdeck/tui/common"
)

const defaultLimit = 20

// --- Messages ---

// StatusesLoadedMsg is sent when the timeline fetch completes successfully.
type StatusesLoadedMsg struct {
	Statuses []domain.Status
}

// StatusesErrorMsg is sent when the timeline fetch fails.
type StatusesErrorMsg struct {
	Err error
}

// RefreshMsg asks the root model to drop cached timeline pages before the
// feed re-fetches, so an explicit refresh always reaches the instance.
type RefreshMsg struct{}

// ComposeNewMsg asks the root model to open a blank compose session.
type ComposeNewMsg struct{}

// ReplyMsg asks the root model to open a reply session for a status.
type ReplyMsg struct {
	Status domain.Status
}

// ConversationMsg asks the root model to open a direct-message session
// with the author of a status.
type ConversationMsg struct {
	Status domain.Status
}

// EditMsg asks the root model to open an edit session for an own status.
type EditMsg struct {
	Status domain.Status
}

// --- Optimistic update messages ---

// AddOptimisticMsg prepends a provisional entry while a create is in flight.
type AddOptimisticMsg struct {
	LocalID string
	Status  domain.Status
}

// UpdateOptimisticMsg swaps in new content while an edit is in flight. The
// previous content is retained for rollback.
type UpdateOptimisticMsg struct {
	ID      string
	Content string
}

// ResultMsg reconciles an optimistic entry with the submission outcome.
// LocalID addresses the provisional entry for creates and the real status
// id for edits.
type ResultMsg struct {
	LocalID string
	IsEdit  bool
	Status  domain.Status
	Err     error
}

// --- Item state ---

// SubmitState tracks an entry's optimistic lifecycle.
type SubmitState int

const (
	StateNormal SubmitState = iota
	StatePendingCreate
	StatePendingUpdate
	StateFailed
)

// StatusItem is one feed entry plus its optimistic bookkeeping.
type StatusItem struct {
	Status     domain.Status
	State      SubmitState
	Err        error
	OldContent string // For rollback after a failed edit
}

// --- Model ---

// Model holds the state for the home timeline view.
type Model struct {
	timeline app.TimelineService
	items    []StatusItem
	cursor   int
	loading  bool
	err      error
	keys     common.KeyMap
	spinner  spinner.Model
	width    int
	height   int
}

// New creates a feed model with injected dependencies.
func New(timeline app.TimelineService) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#8AADF4"))

	return Model{
		timeline: timeline,
		loading:  true,
		keys:     common.DefaultKeyMap(),
		spinner:  s,
	}
}

// Init starts the initial feed fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchStatuses(),
		m.spinner.Tick,
	)
}

// Refresh returns a Cmd that re-fetches the timeline.
func (m Model) Refresh() tea.Cmd {
	return m.fetchStatuses()
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StatusesLoadedMsg:
		m.items = mergeLoaded(msg.Statuses, m.items)
		m.loading = false
		m.err = nil
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case StatusesErrorMsg:
		m.err = msg.Err
		m.loading = false
		return m, nil

	case AddOptimisticMsg:
		st := msg.Status
		st.ID = msg.LocalID
		m.items = append([]StatusItem{{Status: st, State: StatePendingCreate}}, m.items...)
		m.cursor = 0
		return m, nil

	case UpdateOptimisticMsg:
		for i, it := range m.items {
			if it.Status.ID == msg.ID {
				it.OldContent = it.Status.Content
				it.Status.Content = msg.Content
				it.State = StatePendingUpdate
				it.Err = nil
				m.items[i] = it
				break
			}
		}
		return m, nil

	case ResultMsg:
		return m.reconcile(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, func() tea.Msg { return RefreshMsg{} }

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return ComposeNewMsg{} }

	case key.Matches(msg, m.keys.Reply):
		if st, ok := m.Selected(); ok && st.State == StateNormal {
			s := st.Status
			return m, func() tea.Msg { return ReplyMsg{Status: s} }
		}

	case key.Matches(msg, m.keys.Message):
		if st, ok := m.Selected(); ok && st.State == StateNormal {
			s := st.Status
			return m, func() tea.Msg { return ConversationMsg{Status: s} }
		}

	case key.Matches(msg, m.keys.Edit):
		if st, ok := m.Selected(); ok && st.State == StateNormal && st.Status.IsOwn && st.Status.Reblog == nil {
			s := st.Status
			return m, func() tea.Msg { return EditMsg{Status: s} }
		}

	case key.Matches(msg, m.keys.Open):
		if st, ok := m.Selected(); ok {
			if u := st.Status.Effective().URL; u != "" {
				return m, openURL(u)
			}
		}
	}

	return m, nil
}

// reconcile applies a submission result to the optimistic entry it targets.
// Failed creates and edits stay in the list marked Failed; a failed edit
// additionally rolls its content back.
func (m Model) reconcile(msg ResultMsg) Model {
	for i, it := range m.items {
		if it.Status.ID != msg.LocalID {
			continue
		}
		if msg.Err != nil {
			it.State = StateFailed
			it.Err = msg.Err
			// Roll back only when a snapshot exists; without one the
			// optimistic content stays rather than blanking the entry.
			if msg.IsEdit && it.OldContent != "" {
				it.Status.Content = it.OldContent
			}
		} else {
			it.Status = msg.Status
			it.State = StateNormal
			it.Err = nil
		}
		m.items[i] = it
		break
	}
	return m
}

// mergeLoaded lays a fresh server page under the optimistic entries.
// Entries not on the page (provisional and failed creates) stay on top;
// entries whose id is on the page keep their optimistic bookkeeping in
// place, so an edit in flight can still roll back after the load.
func mergeLoaded(fresh []domain.Status, old []StatusItem) []StatusItem {
	onPage := make(map[string]bool, len(fresh))
	for _, st := range fresh {
		onPage[st.ID] = true
	}

	carry := make(map[string]StatusItem)
	items := make([]StatusItem, 0, len(fresh))
	for _, it := range old {
		if it.State == StateNormal {
			continue
		}
		if onPage[it.Status.ID] {
			carry[it.Status.ID] = it
			continue
		}
		items = append(items, it)
	}
	for _, st := range fresh {
		if it, ok := carry[st.ID]; ok {
			items = append(items, it)
			continue
		}
		items = append(items, StatusItem{Status: st})
	}
	return items
}

func (m Model) fetchStatuses() tea.Cmd {
	timeline := m.timeline
	return func() tea.Msg {
		statuses, err := timeline.FetchHome(context.Background(), defaultLimit)
		if err != nil {
			return StatusesErrorMsg{Err: err}
		}
		return StatusesLoadedMsg{Statuses: statuses}
	}
}

func openURL(rawURL string) tea.Cmd {
	return func() tea.Msg {
		if !isSafeExternalURL(rawURL) {
			return nil
		}
		_ = exec.Command("open", rawURL).Start()
		return nil
	}
}

func isSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

// Items returns the current feed entries for external access.
func (m Model) Items() []StatusItem {
	return m.items
}

// Loading returns whether the feed is currently loading.
func (m Model) Loading() bool {
	return m.loading
}

// Err returns the current error, if any.
func (m Model) Err() error {
	return m.err
}

// Cursor returns the current cursor position.
func (m Model) Cursor() int {
	return m.cursor
}

// Selected returns the currently highlighted entry, if any.
func (m Model) Selected() (StatusItem, bool) {
	if len(m.items) == 0 || m.cursor >= len(m.items) {
		return StatusItem{}, false
	}
	return m.items[m.cursor], true
}
