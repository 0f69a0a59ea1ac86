package transport

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"lanchat/state"
)

// ReconnectDelay is the fixed pause between a connection dropping and
// the next dial attempt.
const ReconnectDelay = 2 * time.Second

const handshakeTimeout = 10 * time.Second

// Session owns one reconnecting WebSocket connection to the chat
// server. Inbound frames and state transitions are delivered on a
// single goroutine, so downstream consumers never see concurrent
// events.
type Session struct {
	url   string
	delay time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
	live bool

	done     chan struct{}
	stopOnce sync.Once

	// OnEvent receives each raw inbound frame.
	OnEvent func(raw []byte)
	// OnState receives every connection state transition.
	OnState func(s state.ConnState)
	// OnReset fires after each successful (re)connect, before any frame
	// is delivered. Per-connection transient state (typing caches,
	// pending commands) is reset here; the store's log and identity are
	// never touched.
	OnReset func()
}

// New creates a session for the given ws:// or wss:// URL.
func New(url string) *Session {
	return &Session{
		url:   url,
		delay: ReconnectDelay,
		done:  make(chan struct{}),
	}
}

// Start begins connecting. The session keeps reconnecting after every
// drop until Close is called.
func (s *Session) Start() {
	go s.run()
}

// Close tears the session down permanently.
func (s *Session) Close() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.live = false
	s.mu.Unlock()
}

// IsConnected reports whether a connection is currently up.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Send writes one frame. When disconnected the frame is dropped and
// logged; sending never returns an error to the caller. A write
// failure forces the connection closed so the read loop observes the
// drop and schedules exactly one reconnect.
func (s *Session) Send(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live || s.conn == nil {
		log.Debug().Msg("send while disconnected, frame dropped")
		return
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Warn().Err(err).Msg("write failed, forcing close")
		s.conn.Close()
		s.live = false
	}
}

func (s *Session) run() {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	for {
		select {
		case <-s.done:
			return
		default:
		}

		s.setState(state.Connecting)

		conn, _, err := dialer.Dial(s.url, nil)
		if err != nil {
			log.Warn().Err(err).Str("url", s.url).Msg("dial failed")
			s.setState(state.Disconnected)
			if !s.wait() {
				return
			}
			continue
		}

		s.mu.Lock()
		s.conn = conn
		s.live = true
		s.mu.Unlock()

		if s.OnReset != nil {
			s.OnReset()
		}
		s.setState(state.Connected)

		s.readLoop(conn)

		s.mu.Lock()
		if s.conn != nil {
			s.conn.Close()
			s.conn = nil
		}
		s.live = false
		s.mu.Unlock()

		s.setState(state.Disconnected)
		if !s.wait() {
			return
		}
	}
}

// readLoop delivers frames until the connection drops. Returning is the
// only path back to the reconnect logic, so each drop schedules exactly
// one reconnect.
func (s *Session) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				log.Info().Err(err).Msg("connection lost")
			}
			return
		}
		if s.OnEvent != nil {
			s.OnEvent(raw)
		}
	}
}

func (s *Session) setState(st state.ConnState) {
	if s.OnState != nil {
		s.OnState(st)
	}
}

// wait sleeps for the reconnect delay. Returns false when the session
// was closed while waiting.
func (s *Session) wait() bool {
	select {
	case <-s.done:
		return false
	case <-time.After(s.delay):
		return true
	}
}
