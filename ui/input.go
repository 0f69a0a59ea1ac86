package ui

import (
	"strings"

	"lanchat/protocol"
)

// onInputChanged drives the typing debounce and command suggestions.
func (a *App) onInputChanged(text string) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "/") {
		a.encoder.TypingStop()
		a.showSuggestions(trimmed)
		return
	}
	a.suggestView.SetText("")
	if trimmed != "" {
		a.encoder.TypingPulse()
	} else {
		a.encoder.TypingStop()
	}
}

func (a *App) showSuggestions(prefix string) {
	var matches []string
	lower := strings.ToLower(prefix)
	for _, c := range protocol.Commands {
		if strings.HasPrefix(c, lower) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 || (len(matches) == 1 && matches[0] == lower) {
		a.suggestView.SetText("")
		return
	}
	a.suggestView.SetText(" [aqua]" + strings.Join(matches, "  ") + "[-]")
}

// flash shows a transient inline notice on the suggestion line.
func (a *App) flash(msg string) {
	a.suggestView.SetText(" [red]" + escape(msg) + "[-]")
}

func (a *App) submitInput() {
	text := strings.TrimSpace(a.messageInput.GetText())
	if text == "" {
		return
	}
	a.messageInput.SetText("")
	a.suggestView.SetText("")

	if !strings.HasPrefix(text, "/") {
		if err := a.encoder.SendMessage(text); err != nil {
			a.flash(err.Error())
		}
		return
	}

	fields := strings.Fields(text)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "/name":
		if err := a.encoder.SetName(strings.Join(args, " ")); err != nil {
			a.flash(err.Error())
		}

	case "/login":
		if len(args) < 2 {
			a.flash("usage: /login <user> <password>")
			return
		}
		if err := a.encoder.Login(args[0], args[1]); err != nil {
			a.flash(err.Error())
		}

	case "/register":
		if len(args) < 2 {
			a.flash("usage: /register <user> <password>")
			return
		}
		if err := a.encoder.Register(args[0], args[1]); err != nil {
			a.flash(err.Error())
		}

	case "/join":
		if err := a.encoder.JoinRoom(strings.Join(args, " ")); err != nil {
			a.flash(err.Error())
		}

	case "/leave":
		a.encoder.LeaveRoom()

	case "/react":
		if len(args) < 2 {
			a.flash("usage: /react <msg-id> <emoji>")
			return
		}
		if id, ok := a.resolveID(args[0]); ok {
			a.encoder.React(id, args[1])
		} else {
			a.flash("no such message: " + args[0])
		}

	case "/edit":
		if len(args) < 2 {
			a.flash("usage: /edit <msg-id> <new text>")
			return
		}
		id, ok := a.resolveID(args[0])
		if !ok {
			a.flash("no such message: " + args[0])
			return
		}
		if err := a.encoder.Edit(id, strings.Join(args[1:], " ")); err != nil {
			a.flash(err.Error())
		}

	case "/delete", "/del":
		if len(args) < 1 {
			a.flash("usage: /delete <msg-id>")
			return
		}
		if id, ok := a.resolveID(args[0]); ok {
			a.encoder.Delete(id)
		} else {
			a.flash("no such message: " + args[0])
		}

	case "/pin":
		if len(args) < 1 {
			a.flash("usage: /pin <msg-id>")
			return
		}
		if id, ok := a.resolveID(args[0]); ok {
			a.encoder.Pin(id)
		} else {
			a.flash("no such message: " + args[0])
		}

	case "/unpin":
		if len(args) < 1 {
			a.flash("usage: /unpin <msg-id>")
			return
		}
		if id, ok := a.resolveID(args[0]); ok {
			a.encoder.Unpin(id)
		} else {
			a.flash("no such message: " + args[0])
		}

	case "/search":
		a.showSearchResults(strings.Join(args, " "))

	case "/upload":
		if len(args) < 1 {
			a.flash("usage: /upload <path>")
			return
		}
		a.doUpload(strings.Join(args, " "))

	case "/quit":
		a.quit()

	default:
		// Everything else is server business: /list, /rooms, /who,
		// /history, /help, /msg, /room ...
		a.encoder.Command(text)
	}
}

// resolveID expands an abbreviated message id to the full one. Exact
// matches win; otherwise a unique prefix is accepted.
func (a *App) resolveID(prefix string) (string, bool) {
	if _, ok := a.store.Message(prefix); ok {
		return prefix, true
	}
	match := ""
	for _, m := range a.store.Messages() {
		if m.ID != "" && strings.HasPrefix(m.ID, prefix) {
			if match != "" {
				return "", false // ambiguous
			}
			match = m.ID
		}
	}
	return match, match != ""
}
