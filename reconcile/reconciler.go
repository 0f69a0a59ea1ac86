package reconcile

import (
	"strings"

	"github.com/rs/zerolog/log"

	"lanchat/protocol"
	"lanchat/state"
)

// Archiver mirrors log mutations into a local cache. Implementations
// must tolerate replay; failures are theirs to log.
type Archiver interface {
	Save(room string, m state.Message)
	MarkEdited(room, id, text string)
	MarkDeleted(room, id string)
}

// Acker resolves a pending optimistic command when the server echoes
// its correlation id.
type Acker interface {
	Resolve(corrID string)
}

// Reconciler applies inbound server events to the store under
// idempotent merge rules. Processing is synchronous per event and
// preserves arrival order; the transport delivers on one goroutine.
type Reconciler struct {
	store   *state.Store
	archive Archiver
	acks    Acker

	// OnNotify fires for messages from other users and for mentions of
	// the local user; the projector decides whether to make a sound.
	OnNotify func()

	// RefreshRoster and RefreshRooms re-request server state after a
	// confirmed join or login.
	RefreshRoster func()
	RefreshRooms  func()
}

// New creates a reconciler bound to a store. archive and acks may be
// nil.
func New(store *state.Store, archive Archiver, acks Acker) *Reconciler {
	return &Reconciler{store: store, archive: archive, acks: acks}
}

// Apply dispatches one decoded event to its merge rule.
func (r *Reconciler) Apply(ev protocol.Event) {
	if ev.CorrID != "" && r.acks != nil {
		r.acks.Resolve(ev.CorrID)
	}

	switch ev.Type {
	case protocol.TypeSystem:
		r.applySystem(ev.Text)

	case protocol.TypeMsg:
		r.applyMessage(state.Message{
			ID:        ev.ID,
			From:      ev.From,
			Text:      ev.Text,
			TS:        ev.TS,
			Edited:    ev.Edited,
			ReplyTo:   ev.ReplyTo,
			Reactions: ev.Reactions,
		}, true)

	case protocol.TypeHistory:
		for _, item := range ev.Items {
			r.applyMessage(state.Message{
				ID:        item.ID,
				From:      item.From,
				Text:      item.Text,
				TS:        item.TS,
				Edited:    item.Edited,
				Deleted:   item.Deleted,
				ReplyTo:   item.ReplyTo,
				Reactions: item.Reactions,
			}, false)
		}
		if len(ev.Items) == 0 {
			r.store.MarkEmpty()
		}

	case protocol.TypeReaction:
		if !r.store.ApplyReaction(ev.MsgID, ev.Emoji, ev.User, ev.Added) {
			log.Debug().Str("msg_id", ev.MsgID).Msg("reaction for unknown message dropped")
		}

	case protocol.TypeEdit:
		if r.store.ApplyEdit(ev.MsgID, ev.NewText) {
			if r.archive != nil {
				r.archive.MarkEdited(r.store.CurrentRoom(), ev.MsgID, ev.NewText)
			}
		} else {
			log.Debug().Str("msg_id", ev.MsgID).Msg("edit for unknown message dropped")
		}

	case protocol.TypeDelete:
		if r.store.ApplyDelete(ev.MsgID) {
			if r.archive != nil {
				r.archive.MarkDeleted(r.store.CurrentRoom(), ev.MsgID)
			}
		} else {
			log.Debug().Str("msg_id", ev.MsgID).Msg("delete for unknown message dropped")
		}

	case protocol.TypeTyping:
		r.store.SetTyping(ev.Users)

	case protocol.TypeList:
		r.store.SetUsers(ev.Users)

	case protocol.TypeRoomList:
		rooms := make([]state.RoomSummary, 0, len(ev.Rooms))
		for _, room := range ev.Rooms {
			rooms = append(rooms, state.RoomSummary{Name: room.Name, Members: room.Members})
		}
		r.store.SetRooms(rooms)

	case protocol.TypeStatus:
		r.store.SetPresence(ev.User, presenceStatus(ev.Status))
		if r.RefreshRoster != nil {
			r.RefreshRoster()
		}

	case protocol.TypeReadReceipt:
		r.store.SetReadReceipt(ev.User, ev.LastMsgID)

	case protocol.TypeMention:
		if strings.EqualFold(ev.Mentioned, r.store.MyName()) {
			r.store.IncrementUnread()
			r.fireNotify()
		}

	case protocol.TypeLinkPreview:
		if !r.store.AttachPreview(ev.MsgID, state.LinkPreview{
			Title:       ev.Title,
			Description: ev.Description,
			Image:       ev.Image,
			URL:         ev.URL,
		}) {
			log.Debug().Str("msg_id", ev.MsgID).Msg("link preview for unknown message dropped")
		}

	case protocol.TypeJoined:
		r.confirmJoin(ev.Room)

	case protocol.TypeAuth:
		if ev.OK {
			r.confirmIdentity(ev.User)
		}

	default:
		log.Debug().Str("type", ev.Type).Msg("unhandled event kind")
		if ev.Text != "" {
			r.store.AppendSystem(ev.Text)
		}
	}
}

// applyMessage appends one message with id-keyed dedup. Live messages
// from other users trigger the notification side effects; history
// replay does not.
func (r *Reconciler) applyMessage(m state.Message, live bool) {
	appended := r.store.AppendMessage(m)
	if r.archive != nil && m.ID != "" {
		if appended {
			r.archive.Save(r.store.CurrentRoom(), m)
		} else if m.Deleted {
			// Tombstone merged into an already-cached entry.
			r.archive.MarkDeleted(r.store.CurrentRoom(), m.ID)
		}
	}
	if appended && live && m.From != r.store.MyName() {
		r.store.IncrementUnread()
		r.fireNotify()
	}
}

// confirmJoin records a confirmed room switch and refreshes roster and
// room summaries.
func (r *Reconciler) confirmJoin(room string) {
	if room == "" {
		return
	}
	r.store.SetRoom(room)
	if r.RefreshRoster != nil {
		r.RefreshRoster()
	}
	if r.RefreshRooms != nil {
		r.RefreshRooms()
	}
}

// confirmIdentity records a confirmed name or login and refreshes
// server state.
func (r *Reconciler) confirmIdentity(name string) {
	if name != "" {
		r.store.SetIdentity(name)
	}
	r.store.SetAuthenticated(true)
	if r.RefreshRoster != nil {
		r.RefreshRoster()
	}
	if r.RefreshRooms != nil {
		r.RefreshRooms()
	}
}

func (r *Reconciler) fireNotify() {
	if r.OnNotify != nil && !r.store.Focused() {
		r.OnNotify()
	}
}

func presenceStatus(s string) state.PresenceStatus {
	if s == string(state.StatusIdle) {
		return state.StatusIdle
	}
	return state.StatusActive
}
