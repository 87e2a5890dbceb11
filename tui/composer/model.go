package composer

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/bcgodev/tootdeck/app"
	"github.com/bcgodev/tootdeck/compose"
	"github.com/bcgodev/tootdeck/domain"
	"github.com/bcgodev/tootdeck/infra/editor"
)

const mediaPollInterval = 2 * time.Second

// --- Messages ---

// CancelMsg is sent when the user abandons the compose session. The draft
// is discarded.
type CancelMsg struct{}

// SubmitMsg asks the root model to run the submission pipeline. The
// composer disables its submit control until a ResultMsg arrives, so at
// most one submission is in flight per session.
type SubmitMsg struct {
	Entry compose.EntryContext
	Draft compose.Draft
}

// ResultMsg carries the submission outcome back. On success the root
// closes the session; the composer only ever sees the failure case, which
// re-enables submission with the draft intact.
type ResultMsg struct {
	Status domain.Status
	Err    error
}

type formatField int

const (
	fieldBody formatField = iota
	fieldSpoiler
)

// formatDueMsg fires when a debounce quiet period elapses. The sequence
// number identifies the timer; stale timers are ignored.
type formatDueMsg struct {
	field formatField
	seq   int
}

type uploadDoneMsg struct {
	localID string
	mediaID string
	ready   bool
	err     error
}

type mediaPollMsg struct {
	localID string
}

type mediaReadyMsg struct {
	localID string
	ready   bool
	err     error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Focus ---

type focusArea int

const (
	focusBody focusArea = iota
	focusSpoiler
	focusPoll
)

// --- Model ---

// Config carries the composer's dependencies.
type Config struct {
	Entry    compose.EntryContext
	Catalog  map[string]domain.Emoji
	Emojis   []domain.Emoji
	Media    app.MediaService
	Editor   *editor.EnvEditor
	Debounce time.Duration
}

// Model holds the state for one compose session. The draft is the single
// source of truth; the bubbles inputs mirror its raw fields.
type Model struct {
	entry   compose.EntryContext
	reducer compose.Reducer
	draft   compose.Draft

	bodyDebounce    *compose.Debouncer
	spoilerDebounce *compose.Debouncer

	media  app.MediaService
	editor *editor.EnvEditor
	emojis []domain.Emoji

	textarea    textarea.Model
	spoiler     textinput.Model
	pollInputs  [compose.PollSlots]textinput.Model
	attachInput textinput.Model

	focus     focusArea
	pollFocus int

	showEmoji   bool
	emojiCursor int
	attaching   bool

	// Server media ids for attachments still processing, keyed by local id.
	uploads map[string]string

	submitting bool
	notice     string
	err        error
	width      int
}

// New creates a compose session for the given entry context. Seeded text
// runs through an immediate format pass before the first render.
func New(cfg Config) Model {
	reducer := compose.NewReducer(cfg.Catalog)

	draft := compose.ParseContext(cfg.Entry)
	draft, _ = reducer.Apply(draft, compose.FormatText{})
	if draft.Spoiler.Active {
		draft, _ = reducer.Apply(draft, compose.FormatSpoiler{})
	}

	ta := textarea.New()
	ta.Placeholder = "What's on your mind?"
	ta.SetWidth(72)
	ta.SetHeight(6)
	ta.SetValue(draft.Text.Raw)
	ta.CursorEnd()
	ta.Focus()

	cw := textinput.New()
	cw.Placeholder = "Content warning"
	cw.Prompt = "CW: "
	cw.Width = 60
	cw.SetValue(draft.Spoiler.Raw)

	var polls [compose.PollSlots]textinput.Model
	for i := range polls {
		pi := textinput.New()
		pi.Placeholder = "Option"
		pi.Prompt = "  · "
		pi.Width = 50
		if opt := draft.Poll.Options[i]; opt != nil {
			pi.SetValue(*opt)
		}
		polls[i] = pi
	}

	attach := textinput.New()
	attach.Placeholder = "/path/to/image.png"
	attach.Prompt = "Attach: "
	attach.Width = 60

	return Model{
		entry:           cfg.Entry,
		reducer:         reducer,
		draft:           draft,
		bodyDebounce:    compose.NewDebouncer(cfg.Debounce),
		spoilerDebounce: compose.NewDebouncer(cfg.Debounce),
		media:           cfg.Media,
		editor:          cfg.Editor,
		emojis:          cfg.Emojis,
		textarea:        ta,
		spoiler:         cw,
		pollInputs:      polls,
		attachInput:     attach,
		uploads:         make(map[string]string),
	}
}

// Init starts the textarea cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Draft exposes the current draft, mainly for the root model and tests.
func (m Model) Draft() compose.Draft {
	return m.draft
}

// Entry exposes the session's entry context.
func (m Model) Entry() compose.EntryContext {
	return m.entry
}

// Submitting reports whether a submission is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// Update handles messages for the compose session.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case formatDueMsg:
		return m.handleFormatDue(msg), nil

	case uploadDoneMsg:
		return m.handleUploadDone(msg)

	case mediaPollMsg:
		return m, m.checkMedia(msg.localID)

	case mediaReadyMsg:
		return m.handleMediaReady(msg)

	case editorFinishedMsg:
		return m.handleEditorFinished(msg)

	case ResultMsg:
		if msg.Err != nil {
			m.submitting = false
			m.err = msg.Err
		}
		return m, nil

	case tea.KeyMsg:
		if m.attaching {
			return m.updateAttach(msg)
		}
		if m.showEmoji {
			return m.updateEmojiPicker(msg)
		}
		return m.handleKey(msg)
	}

	return m.updateFocusedInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return CancelMsg{} }

	case "ctrl+d":
		return m.submit()

	case "tab":
		return m.cycleFocus(1), nil

	case "shift+tab":
		return m.cycleFocus(-1), nil

	case "ctrl+w":
		return m.toggleSpoiler(), nil

	case "ctrl+p":
		return m.togglePoll(), nil

	case "ctrl+v":
		return m.cycleVisibility(), nil

	case "ctrl+t":
		m.apply(compose.SetSensitive{Sensitive: !m.draft.Attachments.Sensitive})
		return m, nil

	case "ctrl+e":
		if len(m.emojis) == 0 {
			m.notice = "No custom emoji on this instance."
			return m, nil
		}
		m.showEmoji = true
		m.emojiCursor = 0
		return m, nil

	case "ctrl+x":
		return m.launchEditor()

	case "ctrl+a":
		if m.draft.Poll.Active {
			m.notice = "Remove the poll to attach media."
			return m, nil
		}
		if len(m.draft.Attachments.Items) >= compose.MaxAttachments {
			m.notice = "Attachment limit reached."
			return m, nil
		}
		m.attaching = true
		m.attachInput.SetValue("")
		m.attachInput.Focus()
		return m, textinput.Blink

	case "ctrl+u":
		if n := len(m.draft.Attachments.Items); n > 0 {
			last := m.draft.Attachments.Items[n-1]
			id := last.LocalID
			if id == "" {
				id = last.RemoteID
			}
			m.apply(compose.RemoveAttachment{ID: id})
			delete(m.uploads, last.LocalID)
		}
		return m, nil

	case "ctrl+n":
		if m.draft.Poll.Active {
			m.apply(compose.SetPollMultiple{Multiple: !m.draft.Poll.Multiple})
		}
		return m, nil

	case "ctrl+o":
		if m.draft.Poll.Active {
			m.apply(compose.SetPollExpire{Seconds: nextExpiry(m.draft.Poll.Expire)})
		}
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

// updateFocusedInput forwards a message to whichever input owns the focus
// and routes resulting text changes through the reducer.
func (m Model) updateFocusedInput(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case focusBody:
		before := m.textarea.Value()
		m.textarea, cmd = m.textarea.Update(msg)
		if v := m.textarea.Value(); v != before {
			m.apply(compose.SetText{Raw: v})
			seq := m.bodyDebounce.Touch(time.Now())
			return m, tea.Batch(cmd, m.formatTick(fieldBody, seq))
		}

	case focusSpoiler:
		before := m.spoiler.Value()
		m.spoiler, cmd = m.spoiler.Update(msg)
		if v := m.spoiler.Value(); v != before {
			m.apply(compose.SetSpoiler{Raw: v})
			seq := m.spoilerDebounce.Touch(time.Now())
			return m, tea.Batch(cmd, m.formatTick(fieldSpoiler, seq))
		}

	case focusPoll:
		slot := m.pollFocus
		before := m.pollInputs[slot].Value()
		m.pollInputs[slot], cmd = m.pollInputs[slot].Update(msg)
		if v := m.pollInputs[slot].Value(); v != before {
			m.apply(compose.SetPollOption{Slot: slot, Text: v})
		}
	}

	return m, cmd
}

func (m Model) formatTick(field formatField, seq int) tea.Cmd {
	return tea.Tick(m.debouncerFor(field).Delay(), func(time.Time) tea.Msg {
		return formatDueMsg{field: field, seq: seq}
	})
}

func (m Model) debouncerFor(field formatField) *compose.Debouncer {
	if field == fieldSpoiler {
		return m.spoilerDebounce
	}
	return m.bodyDebounce
}

func (m Model) handleFormatDue(msg formatDueMsg) Model {
	if !m.debouncerFor(msg.field).Fire(msg.seq) {
		return m
	}
	if msg.field == fieldSpoiler {
		m.apply(compose.FormatSpoiler{})
	} else {
		m.apply(compose.FormatText{})
	}
	return m
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	// A debounce pass may still be pending; validation and the payload must
	// see the text as typed, not as of the last fire.
	m.bodyDebounce.Cancel()
	m.spoilerDebounce.Cancel()
	m.apply(compose.FormatText{})
	if m.draft.Spoiler.Active {
		m.apply(compose.FormatSpoiler{})
	}

	if err := compose.Validate(m.draft, compose.MaxChars); err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.submitting = true
	entry, draft := m.entry, m.draft
	return m, func() tea.Msg {
		return SubmitMsg{Entry: entry, Draft: draft}
	}
}

func (m Model) cycleFocus(dir int) Model {
	order := m.focusOrder()
	cur := 0
	for i, f := range order {
		if f.area == m.focus && (f.area != focusPoll || f.slot == m.pollFocus) {
			cur = i
			break
		}
	}
	next := order[(cur+dir+len(order))%len(order)]
	return m.setFocus(next.area, next.slot)
}

type focusTarget struct {
	area focusArea
	slot int
}

func (m Model) focusOrder() []focusTarget {
	order := []focusTarget{}
	if m.draft.Spoiler.Active {
		order = append(order, focusTarget{area: focusSpoiler})
	}
	order = append(order, focusTarget{area: focusBody})
	if m.draft.Poll.Active {
		for i := 0; i < compose.PollSlots; i++ {
			order = append(order, focusTarget{area: focusPoll, slot: i})
		}
	}
	return order
}

func (m Model) setFocus(area focusArea, slot int) Model {
	m.textarea.Blur()
	m.spoiler.Blur()
	for i := range m.pollInputs {
		m.pollInputs[i].Blur()
	}

	m.focus = area
	m.pollFocus = slot
	switch area {
	case focusBody:
		m.textarea.Focus()
	case focusSpoiler:
		m.spoiler.Focus()
	case focusPoll:
		m.pollInputs[slot].Focus()
	}
	return m
}

func (m Model) toggleSpoiler() Model {
	m.apply(compose.ToggleSpoiler{})
	if m.draft.Spoiler.Active {
		return m.setFocus(focusSpoiler, 0)
	}
	return m.setFocus(focusBody, 0)
}

func (m Model) togglePoll() Model {
	wasActive := m.draft.Poll.Active
	if !m.apply(compose.TogglePoll{}) {
		m.notice = "Remove attachments to add a poll."
		return m
	}
	if !wasActive {
		return m.setFocus(focusPoll, 0)
	}
	if m.focus == focusPoll {
		return m.setFocus(focusBody, 0)
	}
	return m
}

var visibilityCycle = []domain.Visibility{
	domain.VisibilityPublic,
	domain.VisibilityUnlisted,
	domain.VisibilityPrivate,
	domain.VisibilityDirect,
}

func (m Model) cycleVisibility() Model {
	cur := 0
	for i, v := range visibilityCycle {
		if v == m.draft.Visibility {
			cur = i
			break
		}
	}
	next := visibilityCycle[(cur+1)%len(visibilityCycle)]
	if !m.apply(compose.SetVisibility{Visibility: next}) {
		m.notice = "Visibility is locked for this conversation."
	}
	return m
}

// Poll duration steps offered by ctrl+o, in seconds.
var expiryCycle = []int{300, 1800, 3600, 21600, 86400, 259200, 604800}

func nextExpiry(current int) int {
	for i, v := range expiryCycle {
		if v == current {
			return expiryCycle[(i+1)%len(expiryCycle)]
		}
	}
	return expiryCycle[0]
}

// --- Emoji picker ---

func (m Model) updateEmojiPicker(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+e":
		m.showEmoji = false

	case "up", "k":
		if m.emojiCursor > 0 {
			m.emojiCursor--
		}

	case "down", "j":
		if m.emojiCursor < len(m.emojis)-1 {
			m.emojiCursor++
		}

	case "enter":
		emoji := m.emojis[m.emojiCursor]
		m.apply(compose.InsertEmoji{Shortcode: emoji.Shortcode, At: -1})
		m.bodyDebounce.Cancel()
		m.textarea.SetValue(m.draft.Text.Raw)
		m.textarea.CursorEnd()
		m.showEmoji = false
	}
	return m, nil
}

// --- Attachments ---

func (m Model) updateAttach(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.attaching = false
		m.attachInput.Blur()
		return m, nil

	case "enter":
		path := m.attachInput.Value()
		m.attaching = false
		m.attachInput.Blur()
		if path == "" {
			return m, nil
		}
		localID := uuid.NewString()
		applied := m.apply(compose.AddAttachment{Item: compose.AttachmentDraft{
			LocalID:   localID,
			LocalURI:  path,
			Uploading: true,
		}})
		if !applied {
			m.notice = "Cannot attach more media."
			return m, nil
		}
		return m, m.upload(localID, path)
	}

	var cmd tea.Cmd
	m.attachInput, cmd = m.attachInput.Update(msg)
	return m, cmd
}

func (m Model) upload(localID, path string) tea.Cmd {
	media := m.media
	return func() tea.Msg {
		id, ready, err := media.Upload(context.Background(), path)
		return uploadDoneMsg{localID: localID, mediaID: id, ready: ready, err: err}
	}
}

func (m Model) handleUploadDone(msg uploadDoneMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.apply(compose.RemoveAttachment{ID: msg.localID})
		m.err = msg.err
		return m, nil
	}
	if msg.ready {
		m.apply(compose.MarkUploaded{LocalID: msg.localID, UploadID: msg.mediaID})
		return m, nil
	}

	// Accepted but still processing. Keep the id aside and poll.
	m.uploads[msg.localID] = msg.mediaID
	return m, pollMediaTick(msg.localID)
}

func pollMediaTick(localID string) tea.Cmd {
	return tea.Tick(mediaPollInterval, func(time.Time) tea.Msg {
		return mediaPollMsg{localID: localID}
	})
}

func (m Model) checkMedia(localID string) tea.Cmd {
	mediaID, ok := m.uploads[localID]
	if !ok {
		return nil
	}
	media := m.media
	return func() tea.Msg {
		ready, err := media.Ready(context.Background(), mediaID)
		return mediaReadyMsg{localID: localID, ready: ready, err: err}
	}
}

func (m Model) handleMediaReady(msg mediaReadyMsg) (Model, tea.Cmd) {
	mediaID, ok := m.uploads[msg.localID]
	if !ok {
		return m, nil
	}
	if msg.err != nil {
		delete(m.uploads, msg.localID)
		m.apply(compose.RemoveAttachment{ID: msg.localID})
		m.err = msg.err
		return m, nil
	}
	if !msg.ready {
		return m, pollMediaTick(msg.localID)
	}

	delete(m.uploads, msg.localID)
	m.apply(compose.MarkUploaded{LocalID: msg.localID, UploadID: mediaID})
	return m, nil
}

// --- External editor ---

// launchEditor prepares the editor command and uses tea.ExecProcess to
// suspend raw terminal mode while the editor runs.
func (m Model) launchEditor() (Model, tea.Cmd) {
	cmd, tmpPath, err := m.editor.Cmd(m.draft.Text.Raw)
	if err != nil {
		m.err = err
		return m, nil
	}
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// handleEditorFinished injects the edited block back into the draft. A
// programmatic injection formats immediately instead of waiting out a
// debounce period.
func (m Model) handleEditorFinished(msg editorFinishedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}

	content, err := m.editor.ReadContent(msg.tmpPath)
	if err != nil {
		m.err = err
		return m, nil
	}
	if content == "" || content == m.draft.Text.Raw {
		return m, nil
	}

	m.bodyDebounce.Cancel()
	m.apply(compose.SetText{Raw: content, Immediate: true})
	m.textarea.SetValue(content)
	m.textarea.CursorEnd()
	return m, nil
}

// apply routes an action through the reducer, keeping the draft as the
// single source of truth.
func (m *Model) apply(action compose.Action) bool {
	draft, ok := m.reducer.Apply(m.draft, action)
	if ok {
		m.draft = draft
	}
	return ok
}
