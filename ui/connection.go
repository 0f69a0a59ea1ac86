package ui

import (
	"fmt"
	"strings"

	"lanchat/state"
)

func (a *App) renderConnection() {
	if a.connView == nil {
		return
	}

	var sb strings.Builder
	switch a.store.ConnState() {
	case state.Connected:
		sb.WriteString("[green]● connected[-]")
	case state.Connecting:
		sb.WriteString("[yellow]◐ connecting...[-]")
	default:
		sb.WriteString("[red]○ disconnected (retrying)[-]")
	}

	sb.WriteString(fmt.Sprintf("  [white]#%s[-]", a.store.CurrentRoom()))

	if name := a.store.MyName(); name != "" {
		confirmed := ""
		if !a.store.Authenticated() {
			confirmed = " [gray](unconfirmed)[-]"
		}
		sb.WriteString(fmt.Sprintf("  [aqua]%s[-]%s", name, confirmed))
	} else {
		sb.WriteString("  [gray]set a name with /name[-]")
	}

	if unread := a.store.Unread(); unread > 0 {
		sb.WriteString(fmt.Sprintf("  [red](%d unread)[-]", unread))
	}

	a.connView.SetText(" " + sb.String())
}

func (a *App) renderTyping() {
	if a.typingView == nil {
		return
	}
	others := a.store.TypingOthers()
	switch {
	case len(others) == 0:
		a.typingView.SetText("")
	case len(others) == 1:
		a.typingView.SetText(fmt.Sprintf(" [gray]%s is typing...[-]", others[0]))
	default:
		a.typingView.SetText(fmt.Sprintf(" [gray]%d people are typing...[-]", len(others)))
	}
}
