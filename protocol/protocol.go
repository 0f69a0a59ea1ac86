package protocol

import "encoding/json"

// Event types used on the wire. The same "type" discriminator covers both
// directions; inbound-only and outbound-only kinds are noted below.
const (
	// Server to client
	TypeSystem      = "system"
	TypeMsg         = "msg" // also client to server, with different fields
	TypeList        = "list"
	TypeRoomList    = "roomlist"
	TypeHistory     = "history"
	TypeTyping      = "typing" // also client to server
	TypeReaction    = "reaction"
	TypeEdit        = "edit" // also client to server
	TypeDelete      = "delete" // also client to server
	TypeReadReceipt = "readreceipt"
	TypeMention     = "mention"
	TypeStatus      = "status"
	TypeLinkPreview = "linkpreview"

	// Structured acknowledgements. Older servers only announce joins and
	// logins as free-text system notices; newer ones send these as well.
	TypeJoined = "joined"
	TypeAuth   = "auth"

	// Client to server only
	TypeCmd      = "cmd"
	TypeReact    = "react"
	TypeMarkRead = "markread"
)

// Commands recognized by the server as slash-command passthrough.
var Commands = []string{
	"/name", "/msg", "/list", "/history", "/join", "/rooms",
	"/register", "/login", "/help", "/who", "/leave", "/room",
	"/pin", "/unpin",
}

// HistoryItem is one message in a history replay batch.
type HistoryItem struct {
	ID        string              `json:"id"`
	From      string              `json:"from"`
	Text      string              `json:"text"`
	TS        int64               `json:"ts"`
	Reactions map[string][]string `json:"reactions,omitempty"`
	Edited    bool                `json:"edited,omitempty"`
	Deleted   bool                `json:"deleted,omitempty"`
	ReplyTo   string              `json:"reply_to,omitempty"`
}

// RoomInfo is one entry of a roomlist event.
type RoomInfo struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// Event is a decoded server frame. One flat struct covers every inbound
// kind; only the fields relevant to Type are populated.
type Event struct {
	Type string `json:"type"`

	// system, mention
	Text string `json:"text,omitempty"`

	// msg
	ID        string              `json:"id,omitempty"`
	From      string              `json:"from,omitempty"`
	TS        int64               `json:"ts,omitempty"`
	Reactions map[string][]string `json:"reactions,omitempty"`
	Edited    bool                `json:"edited,omitempty"`
	ReplyTo   string              `json:"reply_to,omitempty"`

	// list, typing
	Users []string `json:"users,omitempty"`

	// roomlist
	Rooms []RoomInfo `json:"rooms,omitempty"`

	// history
	Items []HistoryItem `json:"items,omitempty"`

	// reaction, edit, delete, readreceipt, linkpreview
	MsgID     string `json:"msg_id,omitempty"`
	Emoji     string `json:"emoji,omitempty"`
	User      string `json:"user,omitempty"`
	Added     bool   `json:"added,omitempty"`
	NewText   string `json:"new_text,omitempty"`
	LastMsgID string `json:"last_msg_id,omitempty"`

	// mention
	Mentioned string `json:"mentioned,omitempty"`

	// status
	Status string `json:"status,omitempty"`

	// linkpreview
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`

	// joined
	Room string `json:"room,omitempty"`

	// auth
	OK bool `json:"ok,omitempty"`

	// correlation id echoed from an outbound command, when the server
	// supports it
	CorrID string `json:"corr_id,omitempty"`
}

// Decode parses a raw frame. A malformed frame, or one without a type
// field, degrades to a system notice carrying the raw payload instead of
// being discarded.
func Decode(raw []byte) Event {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil || ev.Type == "" {
		return Event{Type: TypeSystem, Text: string(raw)}
	}
	return ev
}

// Outbound frames. Each encoder returns a ready-to-send JSON payload.
// Marshalling plain string/bool structs cannot fail, so errors are not
// surfaced here.

type cmdFrame struct {
	Type string `json:"type"`
	Cmd  string `json:"cmd"`
}

type msgFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type typingFrame struct {
	Type     string `json:"type"`
	IsTyping bool   `json:"is_typing"`
}

type reactFrame struct {
	Type   string `json:"type"`
	MsgID  string `json:"msg_id"`
	Emoji  string `json:"emoji"`
	CorrID string `json:"corr_id,omitempty"`
}

type editFrame struct {
	Type    string `json:"type"`
	MsgID   string `json:"msg_id"`
	NewText string `json:"new_text"`
	CorrID  string `json:"corr_id,omitempty"`
}

type deleteFrame struct {
	Type   string `json:"type"`
	MsgID  string `json:"msg_id"`
	CorrID string `json:"corr_id,omitempty"`
}

type markReadFrame struct {
	Type      string `json:"type"`
	LastMsgID string `json:"last_msg_id"`
}

// EncodeCmd encodes a slash-command passthrough frame.
func EncodeCmd(cmd string) []byte {
	b, _ := json.Marshal(cmdFrame{Type: TypeCmd, Cmd: cmd})
	return b
}

// EncodeMsg encodes a chat message frame.
func EncodeMsg(text string) []byte {
	b, _ := json.Marshal(msgFrame{Type: TypeMsg, Text: text})
	return b
}

// EncodeTyping encodes a typing status frame. The is_typing field is
// always present, including for false.
func EncodeTyping(on bool) []byte {
	b, _ := json.Marshal(typingFrame{Type: TypeTyping, IsTyping: on})
	return b
}

// EncodeReact encodes a reaction toggle frame.
func EncodeReact(msgID, emoji, corrID string) []byte {
	b, _ := json.Marshal(reactFrame{Type: TypeReact, MsgID: msgID, Emoji: emoji, CorrID: corrID})
	return b
}

// EncodeEdit encodes an edit frame.
func EncodeEdit(msgID, newText, corrID string) []byte {
	b, _ := json.Marshal(editFrame{Type: TypeEdit, MsgID: msgID, NewText: newText, CorrID: corrID})
	return b
}

// EncodeDelete encodes a delete frame.
func EncodeDelete(msgID, corrID string) []byte {
	b, _ := json.Marshal(deleteFrame{Type: TypeDelete, MsgID: msgID, CorrID: corrID})
	return b
}

// EncodeMarkRead encodes a read-position frame.
func EncodeMarkRead(lastMsgID string) []byte {
	b, _ := json.Marshal(markReadFrame{Type: TypeMarkRead, LastMsgID: lastMsgID})
	return b
}
