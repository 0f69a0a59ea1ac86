package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rivo/tview"

	"lanchat/state"
)

// renderMessages redraws the full log from the store. The redraw is a
// pure function of store content, so replays after a reconnect always
// produce a correct screen.
func (a *App) renderMessages() {
	if a.chatView == nil {
		return
	}

	a.chatView.SetTitle(fmt.Sprintf(" #%s ", a.store.CurrentRoom()))

	messages := a.store.Messages()
	if len(messages) == 0 && a.store.EmptyState() {
		a.chatView.SetText("[gray]No messages here yet. Say hello![-]")
		return
	}

	myName := a.store.MyName()
	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString(a.formatMessage(m, myName))
	}
	a.chatView.SetText(sb.String())
	a.chatView.ScrollToEnd()
}

func (a *App) formatMessage(m state.Message, myName string) string {
	if m.System {
		return fmt.Sprintf("[gray]-- %s --[-]\n", escape(m.Text))
	}
	if m.Deleted {
		return fmt.Sprintf("[gray]%s (message deleted)[-]\n", clockTime(m.TS))
	}

	color := "yellow"
	if m.From == myName {
		color = "white"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[gray]%s[-] [%s]%s[-]", clockTime(m.TS), color, escape(m.From)))
	if m.ID != "" {
		sb.WriteString(fmt.Sprintf(" [gray](%s)[-]", shortID(m.ID)))
	}
	if a.store.IsPinned(m.ID) {
		sb.WriteString(" [red]📌[-]")
	}
	if m.Edited {
		sb.WriteString(" [gray](edited)[-]")
	}
	sb.WriteString(fmt.Sprintf(": %s", highlightMentions(escape(m.Text), myName)))
	if m.ReplyTo != "" {
		sb.WriteString(fmt.Sprintf(" [gray]↩ %s[-]", shortID(m.ReplyTo)))
	}
	sb.WriteString("\n")

	if bar := reactionBar(m); bar != "" {
		sb.WriteString("         " + bar + "\n")
	}
	if m.Preview != nil && m.Preview.Title != "" {
		sb.WriteString(fmt.Sprintf("         [blue]▸ %s[-] [gray]%s[-]\n",
			escape(m.Preview.Title), escape(truncate(m.Preview.URL, 40))))
	}
	return sb.String()
}

// reactionBar renders "👍 2 ❤️ 1" style summaries in a stable order.
func reactionBar(m state.Message) string {
	if len(m.Reactions) == 0 {
		return ""
	}
	emojis := make([]string, 0, len(m.Reactions))
	for emoji := range m.Reactions {
		emojis = append(emojis, emoji)
	}
	sort.Strings(emojis)

	var parts []string
	for _, emoji := range emojis {
		parts = append(parts, fmt.Sprintf("%s %d", emoji, len(m.Reactions[emoji])))
	}
	return "[gray][" + strings.Join(parts, "  ") + "][-]"
}

// highlightMentions colors @name tokens, brightest for the local user.
func highlightMentions(text, myName string) string {
	if !strings.Contains(text, "@") {
		return text
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if len(w) > 1 && strings.HasPrefix(w, "@") {
			name := strings.TrimPrefix(w, "@")
			if strings.EqualFold(name, myName) {
				words[i] = "[red]" + w + "[-]"
			} else {
				words[i] = "[aqua]" + w + "[-]"
			}
		}
	}
	return strings.Join(words, " ")
}

// shortID abbreviates a message id for inline display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// escape neutralizes tview color tags in untrusted text.
func escape(s string) string {
	return tview.Escape(s)
}

// markReadCurrent reports the newest message as read when the input
// has focus.
func (a *App) markReadCurrent() {
	if id := a.store.LastMsgID(); id != "" {
		a.encoder.MarkRead(id)
	}
}
