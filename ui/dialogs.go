package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"lanchat/upload"
)

// showModal puts a primitive on top of the chat screen; Esc closes it.
func (a *App) showModal(name string, p tview.Primitive, width, height int) {
	grid := tview.NewGrid().
		SetColumns(0, width, 0).
		SetRows(0, height, 0).
		AddItem(p, 1, 1, 1, 1, 0, 0, true)
	a.pages.AddPage(name, grid, true, true)
	a.app.SetFocus(p)
}

func (a *App) closeModal(name string) {
	a.pages.RemovePage(name)
	a.app.SetFocus(a.messageInput)
}

// showSearch opens the message search overlay.
func (a *App) showSearch() {
	input := tview.NewInputField()
	input.SetLabel(" Search: ")
	input.SetFieldWidth(0)
	input.SetBackgroundColor(ColorBg)
	input.SetFieldBackgroundColor(tcell.NewRGBColor(0, 0, 64))
	input.SetFieldTextColor(ColorFg)
	input.SetLabelColor(ColorHighlight)
	input.SetBorder(true)
	input.SetBorderColor(ColorBorder)
	input.SetTitle(" Search Messages ")
	input.SetTitleColor(ColorTitle)
	input.SetDoneFunc(func(key tcell.Key) {
		query := input.GetText()
		a.closeModal("search")
		if key == tcell.KeyEnter && strings.TrimSpace(query) != "" {
			a.showSearchResults(query)
		}
	})
	a.showModal("search", input, 60, 3)
}

// showSearchResults lists matches from the store's search index.
func (a *App) showSearchResults(query string) {
	results := a.store.Search(query)

	view := tview.NewTextView()
	view.SetBorder(true)
	view.SetBorderColor(ColorBorder)
	view.SetBackgroundColor(ColorBg)
	view.SetTitle(fmt.Sprintf(" Results for %q (%d) ", query, len(results)))
	view.SetTitleColor(ColorTitle)
	view.SetTextColor(ColorFg)
	view.SetDynamicColors(true)
	view.SetScrollable(true)

	if len(results) == 0 {
		view.SetText("[gray]No messages found[-]")
	} else {
		var sb strings.Builder
		for _, m := range results {
			sb.WriteString(fmt.Sprintf("[gray]%s[-] [yellow]%s[-] [gray](%s)[-]: %s\n",
				relativeTime(m.TS), escape(m.From), shortID(m.ID), escape(m.Text)))
		}
		view.SetText(sb.String())
	}

	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || event.Key() == tcell.KeyEnter {
			a.closeModal("results")
			return nil
		}
		return event
	})
	a.showModal("results", view, 70, 20)
}

// showPinned lists the active room's pinned messages.
func (a *App) showPinned() {
	pinned := a.store.Pinned()

	view := tview.NewTextView()
	view.SetBorder(true)
	view.SetBorderColor(ColorBorder)
	view.SetBackgroundColor(ColorBg)
	view.SetTitle(fmt.Sprintf(" Pinned in #%s (%d) ", a.store.CurrentRoom(), len(pinned)))
	view.SetTitleColor(ColorTitle)
	view.SetTextColor(ColorFg)
	view.SetDynamicColors(true)
	view.SetScrollable(true)

	if len(pinned) == 0 {
		view.SetText("[gray]Nothing pinned. Use /pin <msg-id>.[-]")
	} else {
		var sb strings.Builder
		for _, m := range pinned {
			sb.WriteString(fmt.Sprintf("[red]📌[-] [yellow]%s[-] [gray](%s)[-]: %s\n",
				escape(m.From), shortID(m.ID), escape(m.Text)))
		}
		view.SetText(sb.String())
	}

	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || event.Key() == tcell.KeyEnter {
			a.closeModal("pinned")
			return nil
		}
		return event
	})
	a.showModal("pinned", view, 70, 16)
}

// showUploadDialog asks for a file path and uploads it.
func (a *App) showUploadDialog() {
	input := tview.NewInputField()
	input.SetLabel(" File: ")
	input.SetFieldWidth(0)
	input.SetBackgroundColor(ColorBg)
	input.SetFieldBackgroundColor(tcell.NewRGBColor(0, 0, 64))
	input.SetFieldTextColor(ColorFg)
	input.SetLabelColor(ColorHighlight)
	input.SetBorder(true)
	input.SetBorderColor(ColorBorder)
	input.SetTitle(" Upload File ")
	input.SetTitleColor(ColorTitle)
	input.SetDoneFunc(func(key tcell.Key) {
		path := strings.TrimSpace(input.GetText())
		a.closeModal("upload")
		if key == tcell.KeyEnter && path != "" {
			a.doUpload(path)
		}
	})
	a.showModal("upload", input, 60, 3)
}

// doUpload runs the upload off the event loop and reports progress
// inline. A failed upload only flashes a notice; chat state and the
// connection are unaffected.
func (a *App) doUpload(path string) {
	a.flash("uploading " + path + "...")
	go func() {
		results, err := a.uploader.Upload(path, func(frac float64) {
			a.app.QueueUpdateDraw(func() {
				a.suggestView.SetText(fmt.Sprintf(" [aqua]uploading %s: %d%%[-]", escape(path), int(frac*100)))
			})
		})
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.flash("upload failed: " + err.Error())
				return
			}
			for _, r := range results {
				if err := a.encoder.SendMessage(upload.Announcement(r)); err != nil {
					a.flash(err.Error())
				}
			}
			a.suggestView.SetText(" [green]upload done[-]")
		})
	}()
}
