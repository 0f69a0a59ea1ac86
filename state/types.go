package state

// Message is one entry of the room log. System notices share the log so
// the projector renders them inline; they carry no ID and are never
// indexed or mutated.
type Message struct {
	ID        string
	From      string
	Text      string
	TS        int64
	Edited    bool
	Deleted   bool
	ReplyTo   string
	Reactions map[string][]string // emoji -> user names, no duplicates
	Preview   *LinkPreview
	System    bool
}

// LinkPreview is server-resolved metadata for a URL in a message.
type LinkPreview struct {
	Title       string
	Description string
	Image       string
	URL         string
}

// RoomSummary describes one joinable room.
type RoomSummary struct {
	Name    string
	Members int
}

// PresenceStatus is a user's activity status. Users without a known
// status are treated as active.
type PresenceStatus string

const (
	StatusActive PresenceStatus = "active"
	StatusIdle   PresenceStatus = "idle"
)

// ConnState is the transport connection state.
type ConnState int

const (
	Connecting ConnState = iota
	Connected
	Disconnected
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Change identifies which part of the store a notification refers to.
type Change int

const (
	ChangeMessages Change = iota
	ChangeUsers
	ChangeRooms
	ChangeTyping
	ChangePresence
	ChangeConn
	ChangeIdentity
	ChangeUnread
	ChangePinned
)
