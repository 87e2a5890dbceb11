package composer

import (
	"fmt"
	"strings"

	"github.com/bcgodev/tootdeck/compose"
	"github.com/bcgodev/tootdeck/tui/common"
)

// View renders the compose session.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(common.AppTitleStyle.Render("tootdeck"))
	b.WriteString("  " + m.titleFor() + "\n\n")

	if m.draft.Spoiler.Active {
		b.WriteString("  " + m.spoiler.View() + "\n\n")
	}

	b.WriteString(m.textarea.View())
	b.WriteString("\n")

	if m.draft.Poll.Active {
		b.WriteString(m.pollView())
	}

	if len(m.draft.Attachments.Items) > 0 {
		b.WriteString(m.attachmentsView())
	}

	if m.attaching {
		b.WriteString("\n  " + m.attachInput.View() + "\n")
	}

	if m.showEmoji {
		b.WriteString(m.emojiPickerView())
	}

	b.WriteString("\n" + m.footerView())
	return b.String()
}

func (m Model) titleFor() string {
	switch m.entry.Kind {
	case compose.ContextReply:
		return "Reply"
	case compose.ContextConversation:
		return "Direct message"
	case compose.ContextEdit:
		return "Edit toot"
	}
	return "New toot"
}

func (m Model) pollView() string {
	var b strings.Builder
	b.WriteString("\n  " + common.FieldLabelStyle.Render("Poll") + "\n")
	for i := range m.pollInputs {
		b.WriteString("  " + m.pollInputs[i].View() + "\n")
	}

	mode := "single choice"
	if m.draft.Poll.Multiple {
		mode = "multiple choice"
	}
	b.WriteString(common.TimestampStyle.Render(
		fmt.Sprintf("    %s • expires in %s • ctrl+n: mode • ctrl+o: expiry\n",
			mode, expiryLabel(m.draft.Poll.Expire))))
	return b.String()
}

func expiryLabel(seconds int) string {
	switch {
	case seconds < 3600:
		return fmt.Sprintf("%dm", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%dh", seconds/3600)
	default:
		return fmt.Sprintf("%dd", seconds/86400)
	}
}

func (m Model) attachmentsView() string {
	var b strings.Builder
	label := common.FieldLabelStyle.Render("Media")
	if m.draft.Attachments.Sensitive {
		label += common.ErrorStyle.Render(" (sensitive)")
	}
	b.WriteString("\n  " + label + "\n")

	for _, item := range m.draft.Attachments.Items {
		name := item.LocalURI
		if name == "" {
			name = item.RemoteID
		}
		line := "  📎 " + common.Truncate(name, 50)
		if item.Uploading {
			line += common.PendingStyle.Render(" (processing...)")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) emojiPickerView() string {
	const window = 8

	start := 0
	if m.emojiCursor >= window {
		start = m.emojiCursor - window + 1
	}
	end := start + window
	if end > len(m.emojis) {
		end = len(m.emojis)
	}

	var b strings.Builder
	b.WriteString("\n  " + common.FieldLabelStyle.Render("Emoji") +
		common.TimestampStyle.Render(" (enter: insert, esc: close)") + "\n")
	for i := start; i < end; i++ {
		line := "    :" + m.emojis[i].Shortcode + ":"
		if i == m.emojiCursor {
			line = common.SuccessStyle.Render("  > :" + m.emojis[i].Shortcode + ":")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) footerView() string {
	if m.submitting {
		return common.StatusBarStyle.Render("  Posting...")
	}

	count := m.draft.TotalCount()
	counter := common.CounterStyle.Render(fmt.Sprintf("%d/%d", count, compose.MaxChars))
	if count > compose.MaxChars {
		counter = common.CounterOverStyle.Render(fmt.Sprintf("%d/%d", count, compose.MaxChars))
	}

	visibility := common.VisibilityStyle.Render("[" + string(m.draft.Visibility) + "]")
	if m.draft.VisibilityLocked {
		visibility += common.TimestampStyle.Render(" (locked)")
	}

	var b strings.Builder
	b.WriteString(common.StatusBarStyle.Render(fmt.Sprintf("  %s  %s", visibility, counter)))

	if m.err != nil {
		b.WriteString("\n" + common.ErrorStyle.Render("  "+m.err.Error()))
	} else if m.notice != "" {
		b.WriteString("\n" + common.StatusBarStyle.Render("  "+m.notice))
	}

	help := []string{
		"ctrl+d: post",
		"esc: cancel",
		"ctrl+w: cw",
		"ctrl+p: poll",
		"ctrl+a: media",
		"ctrl+v: visibility",
		"ctrl+e: emoji",
		"ctrl+x: $EDITOR",
	}
	b.WriteString("\n" + common.StatusBarStyle.Render("  "+strings.Join(help, " • ")))
	return b.String()
}
