package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"lanchat/command"
	"lanchat/state"
	"lanchat/upload"
)

// App is the terminal projector. It only reads the store and renders;
// every mutation travels through the encoder and back via the server.
type App struct {
	app    *tview.Application
	screen tcell.Screen
	pages  *tview.Pages

	store    *state.Store
	encoder  *command.Encoder
	uploader *upload.Client
	sound    bool

	chatView     *tview.TextView
	messageInput *tview.InputField
	userList     *tview.List
	roomList     *tview.List
	connView     *tview.TextView
	typingView   *tview.TextView
	statusBar    *tview.TextView
	suggestView  *tview.TextView
}

// NewApp creates the projector.
func NewApp(store *state.Store, encoder *command.Encoder, uploader *upload.Client, sound bool) *App {
	return &App{
		store:    store,
		encoder:  encoder,
		uploader: uploader,
		sound:    sound,
	}
}

// Run builds the screen and blocks until the user quits.
func (a *App) Run() error {
	a.app = tview.NewApplication()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	a.screen = screen
	a.app.SetScreen(screen)

	a.pages = tview.NewPages()
	a.pages.AddPage("main", a.createChatScreen(), true, true)

	a.store.Subscribe(a.onChange)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			a.showHelp()
			return nil
		case tcell.KeyF2:
			a.showSearch()
			return nil
		case tcell.KeyF3:
			a.showPinned()
			return nil
		case tcell.KeyF7:
			a.showUploadDialog()
			return nil
		case tcell.KeyF10:
			a.quit()
			return nil
		}
		return event
	})

	a.renderAll()
	return a.app.SetRoot(a.pages, true).EnableMouse(false).Run()
}

// onChange is the store's notification callback. It runs on whatever
// goroutine performed the mutation, so rendering is queued onto the
// tview event loop.
func (a *App) onChange(c state.Change) {
	if a.app == nil {
		return
	}
	a.app.QueueUpdateDraw(func() {
		switch c {
		case state.ChangeMessages, state.ChangePinned:
			a.renderMessages()
		case state.ChangeUsers, state.ChangePresence:
			a.renderUsers()
		case state.ChangeRooms:
			a.renderRooms()
		case state.ChangeTyping:
			a.renderTyping()
		case state.ChangeConn, state.ChangeIdentity:
			a.renderConnection()
			a.renderRooms()
		case state.ChangeUnread:
			a.renderConnection()
		}
	})
}

func (a *App) renderAll() {
	a.renderMessages()
	a.renderUsers()
	a.renderRooms()
	a.renderTyping()
	a.renderConnection()
}

// Beep rings the terminal bell for a notification. Wired to the
// reconciler's notify side effect; focus gating already happened.
func (a *App) Beep() {
	if !a.sound || a.screen == nil {
		return
	}
	a.screen.Beep()
}

func (a *App) quit() {
	a.app.Stop()
}
