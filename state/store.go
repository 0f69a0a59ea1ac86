package state

import (
	"sort"
	"strings"
	"sync"
)

// DefaultRoom is the room every session starts in before any join.
const DefaultRoom = "lobby"

// roomLog holds the per-room message log. Messages are kept in arrival
// order and indexed by id; the index never contains system notices.
type roomLog struct {
	entries []*Message
	byID    map[string]*Message
	pinned  map[string]bool
	empty   bool // server confirmed there is no prior history
}

func newRoomLog() *roomLog {
	return &roomLog{
		byID:   make(map[string]*Message),
		pinned: make(map[string]bool),
	}
}

// Store is the single source of truth for everything the projector
// renders. All mutation goes through the reconciler or the command
// encoder; the UI only reads.
type Store struct {
	mu sync.RWMutex

	rooms       map[string]*roomLog
	currentRoom string

	users    []string
	roomList []RoomSummary
	presence map[string]PresenceStatus
	typing   []string
	reads    map[string]string // user -> last read message id

	myName        string
	authenticated bool
	conn          ConnState

	focused   bool
	unread    int
	lastMsgID string

	subs []func(Change)
}

// New creates an empty store positioned in the default room.
func New() *Store {
	s := &Store{
		rooms:       map[string]*roomLog{DefaultRoom: newRoomLog()},
		currentRoom: DefaultRoom,
		presence:    make(map[string]PresenceStatus),
		reads:       make(map[string]string),
		conn:        Disconnected,
		focused:     true,
	}
	return s
}

// Subscribe registers a change callback. Callbacks run synchronously on
// the mutating goroutine and must not call back into the store's
// mutators.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	subs := make([]func(Change), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(c)
	}
}

func (s *Store) current() *roomLog {
	rl, ok := s.rooms[s.currentRoom]
	if !ok {
		rl = newRoomLog()
		s.rooms[s.currentRoom] = rl
	}
	return rl
}

// AppendMessage applies a msg or history item to the active room log.
// Duplicate ids are merged idempotently: a tombstoned entry is terminal,
// a re-delivery carrying a tombstone applies it, and otherwise a
// differing re-delivery overwrites in place. Returns true when a new
// entry was appended.
func (s *Store) AppendMessage(m Message) bool {
	s.mu.Lock()
	rl := s.current()
	if existing, ok := rl.byID[m.ID]; ok && m.ID != "" {
		changed := false
		if m.Deleted && !existing.Deleted {
			// A replayed tombstone wins over the live entry.
			existing.Deleted = true
			existing.Text = ""
			existing.Edited = false
			existing.Reactions = make(map[string][]string)
			existing.Preview = nil
			delete(rl.pinned, m.ID)
			changed = true
		} else if !existing.Deleted && (existing.Text != m.Text || existing.Edited != m.Edited) {
			existing.Text = m.Text
			existing.Edited = m.Edited
			if m.Reactions != nil {
				existing.Reactions = m.Reactions
			}
			changed = true
		}
		s.mu.Unlock()
		if changed {
			s.notify(ChangeMessages)
		}
		return false
	}
	entry := m
	if entry.Reactions == nil {
		entry.Reactions = make(map[string][]string)
	}
	rl.entries = append(rl.entries, &entry)
	if entry.ID != "" {
		rl.byID[entry.ID] = &entry
		s.lastMsgID = entry.ID
	}
	rl.empty = false
	s.mu.Unlock()
	s.notify(ChangeMessages)
	return true
}

// AppendSystem appends a system notice to the active room log.
func (s *Store) AppendSystem(text string) {
	s.mu.Lock()
	rl := s.current()
	rl.entries = append(rl.entries, &Message{Text: text, System: true})
	s.mu.Unlock()
	s.notify(ChangeMessages)
}

// MarkEmpty records that the server replayed no history. Only takes
// effect while the log holds no real messages.
func (s *Store) MarkEmpty() {
	s.mu.Lock()
	rl := s.current()
	if len(rl.byID) == 0 {
		rl.empty = true
	}
	s.mu.Unlock()
	s.notify(ChangeMessages)
}

// ApplyReaction toggles user under emoji on a message. Unknown or
// tombstoned messages are left untouched and reported as false.
func (s *Store) ApplyReaction(msgID, emoji, user string, added bool) bool {
	s.mu.Lock()
	rl := s.current()
	m, ok := rl.byID[msgID]
	if !ok || m.Deleted {
		s.mu.Unlock()
		return false
	}
	users := m.Reactions[emoji]
	idx := -1
	for i, u := range users {
		if u == user {
			idx = i
			break
		}
	}
	if added {
		if idx < 0 {
			m.Reactions[emoji] = append(users, user)
		}
	} else if idx >= 0 {
		users = append(users[:idx], users[idx+1:]...)
		if len(users) == 0 {
			delete(m.Reactions, emoji)
		} else {
			m.Reactions[emoji] = users
		}
	}
	s.mu.Unlock()
	s.notify(ChangeMessages)
	return true
}

// ApplyEdit replaces a message's text. No-op on unknown or tombstoned
// messages.
func (s *Store) ApplyEdit(msgID, newText string) bool {
	s.mu.Lock()
	rl := s.current()
	m, ok := rl.byID[msgID]
	if !ok || m.Deleted {
		s.mu.Unlock()
		return false
	}
	m.Text = newText
	m.Edited = true
	s.mu.Unlock()
	s.notify(ChangeMessages)
	return true
}

// ApplyDelete tombstones a message: text and reactions are discarded,
// the id stays so later references do not dangle. Terminal.
func (s *Store) ApplyDelete(msgID string) bool {
	s.mu.Lock()
	rl := s.current()
	m, ok := rl.byID[msgID]
	if !ok || m.Deleted {
		s.mu.Unlock()
		return false
	}
	m.Deleted = true
	m.Text = ""
	m.Edited = false
	m.Reactions = make(map[string][]string)
	m.Preview = nil
	delete(rl.pinned, msgID)
	s.mu.Unlock()
	s.notify(ChangeMessages)
	return true
}

// AttachPreview attaches link metadata to a message.
func (s *Store) AttachPreview(msgID string, p LinkPreview) bool {
	s.mu.Lock()
	rl := s.current()
	m, ok := rl.byID[msgID]
	if !ok || m.Deleted {
		s.mu.Unlock()
		return false
	}
	m.Preview = &p
	s.mu.Unlock()
	s.notify(ChangeMessages)
	return true
}

// SetTyping replaces the active room's typing set.
func (s *Store) SetTyping(users []string) {
	s.mu.Lock()
	s.typing = append([]string(nil), users...)
	s.mu.Unlock()
	s.notify(ChangeTyping)
}

// SetUsers replaces the room roster.
func (s *Store) SetUsers(users []string) {
	s.mu.Lock()
	s.users = append([]string(nil), users...)
	s.mu.Unlock()
	s.notify(ChangeUsers)
}

// SetRooms replaces the known room summaries.
func (s *Store) SetRooms(rooms []RoomSummary) {
	s.mu.Lock()
	s.roomList = append([]RoomSummary(nil), rooms...)
	s.mu.Unlock()
	s.notify(ChangeRooms)
}

// SetPresence upserts one user's status.
func (s *Store) SetPresence(user string, status PresenceStatus) {
	s.mu.Lock()
	s.presence[user] = status
	s.mu.Unlock()
	s.notify(ChangePresence)
}

// SetReadReceipt records another user's last read message.
func (s *Store) SetReadReceipt(user, lastMsgID string) {
	s.mu.Lock()
	s.reads[user] = lastMsgID
	s.mu.Unlock()
	s.notify(ChangeMessages)
}

// SetIdentity records the confirmed (or optimistic) user name.
func (s *Store) SetIdentity(name string) {
	s.mu.Lock()
	s.myName = name
	s.mu.Unlock()
	s.notify(ChangeIdentity)
}

// SetAuthenticated flips the identity-confirmed flag.
func (s *Store) SetAuthenticated(ok bool) {
	s.mu.Lock()
	s.authenticated = ok
	s.mu.Unlock()
	s.notify(ChangeIdentity)
}

// SetRoom switches the active room. The previous room's log is kept in
// memory; the typing set is superseded by the switch.
func (s *Store) SetRoom(room string) {
	s.mu.Lock()
	if room == s.currentRoom {
		s.mu.Unlock()
		return
	}
	s.currentRoom = room
	if _, ok := s.rooms[room]; !ok {
		s.rooms[room] = newRoomLog()
	}
	s.typing = nil
	s.lastMsgID = ""
	for _, m := range s.rooms[room].entries {
		if m.ID != "" {
			s.lastMsgID = m.ID
		}
	}
	s.mu.Unlock()
	s.notify(ChangeIdentity)
	s.notify(ChangeMessages)
	s.notify(ChangeTyping)
}

// SetConnState records the transport state.
func (s *Store) SetConnState(c ConnState) {
	s.mu.Lock()
	changed := s.conn != c
	s.conn = c
	s.mu.Unlock()
	if changed {
		s.notify(ChangeConn)
	}
}

// SetFocused records whether the client surface has focus. Gaining
// focus clears the unread counter.
func (s *Store) SetFocused(focused bool) {
	s.mu.Lock()
	s.focused = focused
	cleared := false
	if focused && s.unread != 0 {
		s.unread = 0
		cleared = true
	}
	s.mu.Unlock()
	if cleared {
		s.notify(ChangeUnread)
	}
}

// IncrementUnread bumps the unread counter unless the surface has
// focus. Returns true when the counter changed.
func (s *Store) IncrementUnread() bool {
	s.mu.Lock()
	if s.focused {
		s.mu.Unlock()
		return false
	}
	s.unread++
	s.mu.Unlock()
	s.notify(ChangeUnread)
	return true
}

// Pin marks a message id as pinned in the active room.
func (s *Store) Pin(msgID string) {
	s.mu.Lock()
	rl := s.current()
	if m, ok := rl.byID[msgID]; ok && !m.Deleted {
		rl.pinned[msgID] = true
	}
	s.mu.Unlock()
	s.notify(ChangePinned)
}

// Unpin removes a message id from the active room's pinned set.
func (s *Store) Unpin(msgID string) {
	s.mu.Lock()
	delete(s.current().pinned, msgID)
	s.mu.Unlock()
	s.notify(ChangePinned)
}

// Read accessors. All return copies; the projector never sees live
// internals.

// Messages returns the active room log in arrival order.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rl := s.current()
	out := make([]Message, 0, len(rl.entries))
	for _, m := range rl.entries {
		out = append(out, copyMessage(m))
	}
	return out
}

// Message returns one message by id from the active room.
func (s *Store) Message(id string) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.current().byID[id]
	if !ok {
		return Message{}, false
	}
	return copyMessage(m), true
}

func copyMessage(m *Message) Message {
	out := *m
	out.Reactions = make(map[string][]string, len(m.Reactions))
	for emoji, users := range m.Reactions {
		out.Reactions[emoji] = append([]string(nil), users...)
	}
	if m.Preview != nil {
		p := *m.Preview
		out.Preview = &p
	}
	return out
}

// Users returns the current roster.
func (s *Store) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.users...)
}

// RoomsForDisplay returns room summaries in display order: the current
// room first, the rest descending by member count.
func (s *Store) RoomsForDisplay() []RoomSummary {
	s.mu.RLock()
	rooms := append([]RoomSummary(nil), s.roomList...)
	current := s.currentRoom
	s.mu.RUnlock()

	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].Name == current {
			return rooms[j].Name != current
		}
		if rooms[j].Name == current {
			return false
		}
		return rooms[i].Members > rooms[j].Members
	})
	return rooms
}

// TypingOthers returns the typing set with the local user excluded.
func (s *Store) TypingOthers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, u := range s.typing {
		if u != s.myName {
			out = append(out, u)
		}
	}
	return out
}

// Presence returns a user's status, defaulting to active.
func (s *Store) Presence(user string) PresenceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.presence[user]; ok {
		return st
	}
	return StatusActive
}

// LastRead returns the last message id a user has read.
func (s *Store) LastRead(user string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads[user]
}

// Pinned returns the pinned messages of the active room in log order.
func (s *Store) Pinned() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rl := s.current()
	var out []Message
	for _, m := range rl.entries {
		if m.ID != "" && rl.pinned[m.ID] {
			out = append(out, copyMessage(m))
		}
	}
	return out
}

// IsPinned reports whether a message id is pinned in the active room.
func (s *Store) IsPinned(msgID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current().pinned[msgID]
}

// Search returns active-room messages whose text or author contains the
// query, case-insensitive. Tombstones and system notices are skipped.
func (s *Store) Search(query string) []Message {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Message
	for _, m := range s.current().entries {
		if m.System || m.Deleted {
			continue
		}
		if strings.Contains(strings.ToLower(m.Text), query) ||
			strings.Contains(strings.ToLower(m.From), query) {
			out = append(out, copyMessage(m))
		}
	}
	return out
}

// MyName returns the local user name, empty until set.
func (s *Store) MyName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.myName
}

// Authenticated reports whether the server confirmed the identity.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// CurrentRoom returns the active room name.
func (s *Store) CurrentRoom() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentRoom
}

// ConnState returns the transport state.
func (s *Store) ConnState() ConnState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

// Focused reports whether the client surface has focus.
func (s *Store) Focused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused
}

// Unread returns the unread message counter.
func (s *Store) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// EmptyState reports whether the active room is confirmed empty.
func (s *Store) EmptyState() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rl := s.current()
	return rl.empty && len(rl.byID) == 0
}

// LastMsgID returns the id of the newest real message in the active
// room, empty when none.
func (s *Store) LastMsgID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMsgID
}
