package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bcgodev/tootdeck/domain"
	"github.com/bcgodev/tootdeck/tui/common"
)

const previewWidth = 70

// View renders the home timeline as a string.
func (m Model) View() string {
	var b strings.Builder

	title := common.AppTitleStyle.Padding(1, 0, 0, 1).Render("tootdeck")
	tagline := common.TaglineStyle.Render("<home timeline>")
	b.WriteString(title + tagline + "\n\n")

	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString(fmt.Sprintf("  %s Loading timeline...\n", m.spinner.View()))

	case m.err != nil:
		b.WriteString(common.ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n\n  Press R to retry.\n")

	case len(m.items) == 0:
		b.WriteString("  Nothing here yet. Press p to toot.\n")

	default:
		start, end := m.visibleRange()
		for i := start; i < end; i++ {
			b.WriteString(m.renderItem(i))
			b.WriteString("\n")
		}
	}

	if m.loading && len(m.items) > 0 {
		b.WriteString(fmt.Sprintf("  %s Refreshing...\n", m.spinner.View()))
	}

	b.WriteString(m.helpView())
	return b.String()
}

// visibleRange picks the slice of items that fits the terminal, keeping the
// cursor on screen. Each rendered card is roughly 6 lines tall.
func (m Model) visibleRange() (int, int) {
	const cardHeight = 6
	reserved := 6 // header and help bar

	visible := (m.height - reserved) / cardHeight
	if visible < 1 {
		visible = 3
	}

	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.items) {
		end = len(m.items)
	}
	return start, end
}

func (m Model) renderItem(i int) string {
	item := m.items[i]
	st := item.Status.Effective()

	author := common.AuthorStyle.Render("@" + st.Account.Acct)
	if item.Status.IsOwn {
		author += common.OwnBadgeStyle.Render("(you)")
	}
	timestamp := common.TimestampStyle.Render(st.CreatedAt.Format("Jan 02 15:04"))
	visibility := common.VisibilityStyle.Render("[" + string(st.Visibility) + "]")

	header := fmt.Sprintf("%s%s  %s %s", author, stateBadge(item), timestamp, visibility)

	if item.Status.Reblog != nil {
		boost := lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).
			Render("boosted by @" + item.Status.Account.Acct)
		header += "  " + boost
	}

	content := header + "\n" + renderBody(st)
	if meta := metaLine(st); meta != "" {
		content += "\n" + common.TimestampStyle.Render(meta)
	}
	if item.Err != nil {
		content += "\n" + common.ErrorStyle.Render(common.Truncate("error: "+item.Err.Error(), previewWidth))
	}

	if i == m.cursor {
		return common.SelectedStyle.Render(content)
	}
	return common.UnselectedStyle.Render(content)
}

// renderBody hides spoilered bodies in the list: only the warning shows.
func renderBody(st *domain.Status) string {
	if st.SpoilerText != "" {
		return common.SpoilerStyle.Render("CW: " + st.SpoilerText)
	}
	return common.ContentStyle.Render(common.Preview(st.Content, previewWidth, 2))
}

// metaLine summarizes attachments, polls and reply linkage in one line.
func metaLine(st *domain.Status) string {
	var parts []string
	if n := len(st.Attachments); n > 0 {
		parts = append(parts, fmt.Sprintf("📎 %d", n))
	}
	if st.Poll != nil {
		label := fmt.Sprintf("📊 %d options", len(st.Poll.Options))
		if st.Poll.Expired {
			label += " (closed)"
		}
		parts = append(parts, label)
	}
	if st.InReplyToID != "" {
		parts = append(parts, "↩ reply")
	}
	return strings.Join(parts, "  ")
}

func stateBadge(item StatusItem) string {
	switch item.State {
	case StatePendingCreate:
		return common.PendingStyle.Render(" (posting...)")
	case StatePendingUpdate:
		return common.PendingStyle.Render(" (updating...)")
	case StateFailed:
		return common.ErrorStyle.Render(" (failed)")
	}
	return ""
}

func (m Model) helpView() string {
	items := []string{
		"j/k: focus",
		"p: toot",
		"r: reply",
		"m: message",
		"R: refresh",
	}
	if st, ok := m.Selected(); ok && st.Status.IsOwn && st.Status.Reblog == nil {
		items = append(items, "e: edit")
	}
	items = append(items, "o: open", "q: quit")

	return common.StatusBarStyle.Render("  " + strings.Join(items, " • "))
}
