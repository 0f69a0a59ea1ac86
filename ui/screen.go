package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func (a *App) createChatScreen() tview.Primitive {
	// Connection line across the top
	a.connView = tview.NewTextView()
	a.connView.SetBackgroundColor(ColorBg)
	a.connView.SetTextColor(ColorFg)
	a.connView.SetDynamicColors(true)

	// Room list
	a.roomList = tview.NewList()
	a.roomList.SetBorder(true)
	a.roomList.SetBorderColor(ColorBorder)
	a.roomList.SetBackgroundColor(ColorBg)
	a.roomList.SetTitle(" Rooms ")
	a.roomList.SetTitleColor(ColorTitle)
	a.roomList.SetMainTextColor(ColorFg)
	a.roomList.SetSelectedTextColor(ColorTitle)
	a.roomList.SetSelectedBackgroundColor(tcell.NewRGBColor(0, 128, 128))
	a.roomList.ShowSecondaryText(false)
	a.roomList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		rooms := a.store.RoomsForDisplay()
		if index < len(rooms) {
			if err := a.encoder.JoinRoom(rooms[index].Name); err == nil {
				a.app.SetFocus(a.messageInput)
			}
		}
	})

	// User roster
	a.userList = tview.NewList()
	a.userList.SetBorder(true)
	a.userList.SetBorderColor(ColorBorder)
	a.userList.SetBackgroundColor(ColorBg)
	a.userList.SetTitle(" Users ")
	a.userList.SetTitleColor(ColorTitle)
	a.userList.SetMainTextColor(ColorFg)
	a.userList.SetSelectedTextColor(ColorTitle)
	a.userList.SetSelectedBackgroundColor(tcell.NewRGBColor(0, 128, 128))
	a.userList.ShowSecondaryText(false)
	a.userList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		users := a.store.Users()
		if index < len(users) {
			a.messageInput.SetText(a.messageInput.GetText() + "@" + users[index] + " ")
			a.app.SetFocus(a.messageInput)
		}
	})

	sidebar := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.roomList, 0, 1, false).
		AddItem(a.userList, 0, 2, false)

	// Message log
	a.chatView = tview.NewTextView()
	a.chatView.SetBorder(true)
	a.chatView.SetBorderColor(ColorBorder)
	a.chatView.SetBackgroundColor(ColorBg)
	a.chatView.SetTitleColor(ColorTitle)
	a.chatView.SetTextColor(ColorFg)
	a.chatView.SetDynamicColors(true)
	a.chatView.SetScrollable(true)
	a.chatView.ScrollToEnd()

	// Typing indicator
	a.typingView = tview.NewTextView()
	a.typingView.SetBackgroundColor(ColorBg)
	a.typingView.SetTextColor(ColorIdle)
	a.typingView.SetDynamicColors(true)

	// Command suggestions
	a.suggestView = tview.NewTextView()
	a.suggestView.SetBackgroundColor(ColorBg)
	a.suggestView.SetTextColor(ColorHighlight)
	a.suggestView.SetDynamicColors(true)

	// Input
	a.messageInput = tview.NewInputField()
	a.messageInput.SetLabel("> ")
	a.messageInput.SetFieldWidth(0)
	a.messageInput.SetBackgroundColor(ColorBg)
	a.messageInput.SetFieldBackgroundColor(tcell.NewRGBColor(0, 0, 64))
	a.messageInput.SetFieldTextColor(ColorFg)
	a.messageInput.SetLabelColor(ColorHighlight)
	a.messageInput.SetBorder(true)
	a.messageInput.SetBorderColor(ColorBorder)
	a.messageInput.SetTitle(" Message ")
	a.messageInput.SetTitleColor(ColorTitle)
	a.messageInput.SetChangedFunc(a.onInputChanged)
	a.messageInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			a.submitInput()
		}
	})
	a.messageInput.SetFocusFunc(func() {
		a.store.SetFocused(true)
		a.markReadCurrent()
	})
	a.messageInput.SetBlurFunc(func() {
		a.store.SetFocused(false)
	})

	// Status bar
	a.statusBar = tview.NewTextView()
	a.statusBar.SetBackgroundColor(tcell.NewRGBColor(0, 128, 128))
	a.statusBar.SetTextColor(ColorTitle)
	a.statusBar.SetTextAlign(tview.AlignCenter)
	a.statusBar.SetText(" F1:Help | F2:Search | F3:Pinned | F7:Upload | F10:Quit ")

	center := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.chatView, 0, 1, false).
		AddItem(a.typingView, 1, 0, false).
		AddItem(a.suggestView, 1, 0, false).
		AddItem(a.messageInput, 3, 0, true)

	body := tview.NewFlex().
		AddItem(sidebar, 24, 0, false).
		AddItem(center, 0, 1, true)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.connView, 1, 0, false).
		AddItem(body, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)
	root.SetBackgroundColor(ColorBg)

	return root
}
