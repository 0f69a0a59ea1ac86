package ui

import (
	"fmt"

	"lanchat/state"
)

func (a *App) renderUsers() {
	if a.userList == nil {
		return
	}
	users := a.store.Users()
	a.userList.SetTitle(fmt.Sprintf(" Users (%d) ", len(users)))
	a.userList.Clear()
	for _, u := range users {
		marker := "[green]●[-] "
		if a.store.Presence(u) == state.StatusIdle {
			marker = "[gray]○[-] "
		}
		label := marker + u
		if u == a.store.MyName() {
			label += " [gray](you)[-]"
		}
		a.userList.AddItem(label, "", 0, nil)
	}
}

func (a *App) renderRooms() {
	if a.roomList == nil {
		return
	}
	current := a.store.CurrentRoom()
	a.roomList.Clear()
	for _, r := range a.store.RoomsForDisplay() {
		label := fmt.Sprintf("# %s [gray](%d)[-]", r.Name, r.Members)
		if r.Name == current {
			label = fmt.Sprintf("[white]# %s (%d) ←[-]", r.Name, r.Members)
		}
		a.roomList.AddItem(label, "", 0, nil)
	}
}
