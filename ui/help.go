package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func (a *App) showHelp() {
	helpText := `
 [yellow]Keys[-]
 ───────────────────────────────────────────────────────────────
   [white]F1[-]       Show this help
   [white]F2[-]       Search messages
   [white]F3[-]       Show pinned messages
   [white]F7[-]       Upload a file
   [white]F10[-]      Quit
   [white]Enter[-]    Send message / run command

 [yellow]Commands[-]
 ───────────────────────────────────────────────────────────────
   [white]/name <name>[-]            Set your display name
   [white]/login <user> <pass>[-]    Log in
   [white]/register <user> <pass>[-] Create an account
   [white]/join <room>[-]            Switch room
   [white]/leave[-]                  Leave the current room
   [white]/rooms  /list  /who[-]     Refresh rooms / users
   [white]/react <id> <emoji>[-]     Toggle a reaction
   [white]/edit <id> <text>[-]       Edit your message
   [white]/delete <id>[-]            Delete your message
   [white]/pin <id>  /unpin <id>[-]  Pin or unpin a message
   [white]/search <text>[-]          Search the room log
   [white]/upload <path>[-]          Upload and share a file
   [white]/history  /help  /msg[-]   Passed through to the server

 [yellow]Status Icons[-]
 ───────────────────────────────────────────────────────────────
   [green]●[-] active   User is active
   [gray]○[-] idle     User is idle
   [red]📌[-]          Pinned message

 Message ids are shown abbreviated next to each author; any unique
 prefix works in commands. The connection reconnects automatically
 after a drop.
`

	helpView := tview.NewTextView()
	helpView.SetText(helpText)
	helpView.SetBackgroundColor(ColorBg)
	helpView.SetTextColor(ColorFg)
	helpView.SetDynamicColors(true)
	helpView.SetBorder(true)
	helpView.SetBorderColor(ColorBorder)
	helpView.SetTitle(" Help ")
	helpView.SetTitleColor(ColorTitle)
	helpView.SetScrollable(true)
	helpView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || event.Key() == tcell.KeyEnter || event.Key() == tcell.KeyF1 {
			a.closeModal("help")
			return nil
		}
		return event
	})

	a.showModal("help", helpView, 70, 40)
}
