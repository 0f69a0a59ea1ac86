package command

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lanchat/protocol"
	"lanchat/state"
)

var (
	ErrEmptyName        = errors.New("name must not be empty")
	ErrEmptyCredentials = errors.New("user and password must not be empty")
	ErrEmptyRoom        = errors.New("room must not be empty")
	ErrEmptyMessage     = errors.New("message must not be empty")
)

// TypingIdle is how long after the last keystroke a typing stop is
// auto-emitted.
const TypingIdle = 2 * time.Second

// pendingTTL bounds how long an unacknowledged optimistic command is
// remembered.
const pendingTTL = 30 * time.Second

// Sender is the outbound half of the transport session.
type Sender interface {
	Send(payload []byte)
}

type pendingOp struct {
	kind  string
	msgID string
	sent  time.Time
}

// Encoder translates user intents into protocol frames. It owns the
// typing debounce and attaches client-generated correlation ids to
// edit, delete and react commands so servers that echo them can be
// reconciled precisely.
type Encoder struct {
	sender Sender
	store  *state.Store

	mu          sync.Mutex
	typing      bool
	idleTimer   *time.Timer
	idleTimeout time.Duration
	pending     map[string]pendingOp
}

// New creates an encoder writing to the given sender.
func New(sender Sender, store *state.Store) *Encoder {
	return &Encoder{
		sender:      sender,
		store:       store,
		idleTimeout: TypingIdle,
		pending:     make(map[string]pendingOp),
	}
}

// SetName requests a display name. The identity is applied
// optimistically; the server confirmation flips the authenticated
// flag.
func (e *Encoder) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	e.store.SetIdentity(name)
	e.sender.Send(protocol.EncodeCmd("/name " + name))
	return nil
}

// Login sends a login command. Credentials are validated locally
// before any network traffic.
func (e *Encoder) Login(user, pass string) error {
	if strings.TrimSpace(user) == "" || pass == "" {
		return ErrEmptyCredentials
	}
	e.sender.Send(protocol.EncodeCmd("/login " + user + " " + pass))
	return nil
}

// Register sends a registration command.
func (e *Encoder) Register(user, pass string) error {
	if strings.TrimSpace(user) == "" || pass == "" {
		return ErrEmptyCredentials
	}
	e.sender.Send(protocol.EncodeCmd("/register " + user + " " + pass))
	return nil
}

// JoinRoom requests a room switch. The switch is confirmed by the
// server, not applied optimistically, since the server replays the new
// room's history.
func (e *Encoder) JoinRoom(room string) error {
	room = strings.TrimSpace(room)
	if room == "" {
		return ErrEmptyRoom
	}
	e.sender.Send(protocol.EncodeCmd("/join " + room))
	return nil
}

// LeaveRoom sends a leave command.
func (e *Encoder) LeaveRoom() {
	e.sender.Send(protocol.EncodeCmd("/leave"))
}

// ListUsers requests the current room roster.
func (e *Encoder) ListUsers() {
	e.sender.Send(protocol.EncodeCmd("/list"))
}

// ListRooms requests the room summaries.
func (e *Encoder) ListRooms() {
	e.sender.Send(protocol.EncodeCmd("/rooms"))
}

// Command sends a raw slash command as passthrough.
func (e *Encoder) Command(cmd string) {
	e.sender.Send(protocol.EncodeCmd(cmd))
}

// SendMessage sends a chat message and ends the current typing burst.
func (e *Encoder) SendMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	e.sender.Send(protocol.EncodeMsg(text))
	e.TypingStop()
	return nil
}

// React toggles a reaction on a message.
func (e *Encoder) React(msgID, emoji string) {
	corr := e.track(protocol.TypeReact, msgID)
	e.sender.Send(protocol.EncodeReact(msgID, emoji, corr))
}

// Edit replaces a message's text.
func (e *Encoder) Edit(msgID, newText string) error {
	if strings.TrimSpace(newText) == "" {
		return ErrEmptyMessage
	}
	corr := e.track(protocol.TypeEdit, msgID)
	e.sender.Send(protocol.EncodeEdit(msgID, newText, corr))
	return nil
}

// Delete requests a message tombstone.
func (e *Encoder) Delete(msgID string) {
	corr := e.track(protocol.TypeDelete, msgID)
	e.sender.Send(protocol.EncodeDelete(msgID, corr))
}

// MarkRead reports the last message the user has seen.
func (e *Encoder) MarkRead(lastMsgID string) {
	if lastMsgID == "" {
		return
	}
	e.sender.Send(protocol.EncodeMarkRead(lastMsgID))
}

// Pin pins a message: the local pinned set is updated optimistically
// and the command is passed through to the server.
func (e *Encoder) Pin(msgID string) {
	e.store.Pin(msgID)
	e.sender.Send(protocol.EncodeCmd("/pin " + msgID))
}

// Unpin removes a pin.
func (e *Encoder) Unpin(msgID string) {
	e.store.Unpin(msgID)
	e.sender.Send(protocol.EncodeCmd("/unpin " + msgID))
}

// TypingPulse is called on every keystroke. A burst emits exactly one
// typing start; the idle timer auto-emits the stop. Redundant
// transitions are suppressed locally.
func (e *Encoder) TypingPulse() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.typing {
		e.typing = true
		e.sender.Send(protocol.EncodeTyping(true))
	}
	if e.idleTimer != nil {
		e.idleTimer.Stop()
	}
	e.idleTimer = time.AfterFunc(e.idleTimeout, e.typingIdle)
}

// TypingStop ends the current burst, if any.
func (e *Encoder) TypingStop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTypingLocked()
}

func (e *Encoder) typingIdle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTypingLocked()
}

func (e *Encoder) stopTypingLocked() {
	if e.idleTimer != nil {
		e.idleTimer.Stop()
		e.idleTimer = nil
	}
	if !e.typing {
		return
	}
	e.typing = false
	e.sender.Send(protocol.EncodeTyping(false))
}

// Reset clears per-connection transient state. Called by the transport
// after each reconnect; nothing here touches the store.
func (e *Encoder) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.idleTimer != nil {
		e.idleTimer.Stop()
		e.idleTimer = nil
	}
	e.typing = false
	e.pending = make(map[string]pendingOp)
}

// Resolve drops a pending command once the server echoes its
// correlation id.
func (e *Encoder) Resolve(corrID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if op, ok := e.pending[corrID]; ok {
		log.Debug().Str("kind", op.kind).Str("msg_id", op.msgID).Msg("command acknowledged")
		delete(e.pending, corrID)
	}
}

// PendingCount returns how many optimistic commands await an echo.
func (e *Encoder) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

func (e *Encoder) track(kind, msgID string) string {
	corr := uuid.NewString()
	now := time.Now()
	e.mu.Lock()
	for id, op := range e.pending {
		if now.Sub(op.sent) > pendingTTL {
			delete(e.pending, id)
		}
	}
	e.pending[corr] = pendingOp{kind: kind, msgID: msgID, sent: now}
	e.mu.Unlock()
	return corr
}
