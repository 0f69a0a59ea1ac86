package archive

import (
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"lanchat/state"
)

// Archive is a local sqlite cache of the message log, keyed by
// (room, id) so server history replay after a reconnect deduplicates
// naturally. It is a cache only; the server remains authoritative.
type Archive struct {
	conn *sql.DB
}

// Open opens or creates the archive at path.
func Open(path string) (*Archive, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	a := &Archive{conn: conn}
	if err := a.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) Close() error {
	return a.conn.Close()
}

func (a *Archive) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			room TEXT NOT NULL,
			id TEXT NOT NULL,
			sender TEXT NOT NULL,
			text TEXT NOT NULL,
			ts INTEGER NOT NULL,
			edited INTEGER NOT NULL DEFAULT 0,
			deleted INTEGER NOT NULL DEFAULT 0,
			reactions TEXT NOT NULL DEFAULT '{}',
			reply_to TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (room, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room, ts)`,
	}

	for _, query := range queries {
		if _, err := a.conn.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Save stores one message. Re-delivered ids are ignored.
func (a *Archive) Save(room string, m state.Message) {
	if m.ID == "" {
		return
	}
	reactions, _ := json.Marshal(m.Reactions)
	_, err := a.conn.Exec(
		`INSERT OR IGNORE INTO messages (room, id, sender, text, ts, edited, deleted, reactions, reply_to)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		room, m.ID, m.From, m.Text, m.TS, boolInt(m.Edited), boolInt(m.Deleted), string(reactions), m.ReplyTo,
	)
	if err != nil {
		log.Warn().Err(err).Str("msg_id", m.ID).Msg("archive save failed")
	}
}

// MarkEdited mirrors an edit into the cache.
func (a *Archive) MarkEdited(room, id, text string) {
	_, err := a.conn.Exec(
		"UPDATE messages SET text = ?, edited = 1 WHERE room = ? AND id = ? AND deleted = 0",
		text, room, id,
	)
	if err != nil {
		log.Warn().Err(err).Str("msg_id", id).Msg("archive edit failed")
	}
}

// MarkDeleted mirrors a tombstone into the cache.
func (a *Archive) MarkDeleted(room, id string) {
	_, err := a.conn.Exec(
		"UPDATE messages SET deleted = 1, text = '', edited = 0, reactions = '{}' WHERE room = ? AND id = ?",
		room, id,
	)
	if err != nil {
		log.Warn().Err(err).Str("msg_id", id).Msg("archive delete failed")
	}
}

// Load returns up to limit cached messages of a room in arrival order.
func (a *Archive) Load(room string, limit int) ([]state.Message, error) {
	rows, err := a.conn.Query(
		`SELECT id, sender, text, ts, edited, deleted, reactions, reply_to
		 FROM messages WHERE room = ? ORDER BY rowid ASC LIMIT ?`,
		room, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []state.Message
	for rows.Next() {
		var m state.Message
		var edited, deleted int
		var reactions string
		if err := rows.Scan(&m.ID, &m.From, &m.Text, &m.TS, &edited, &deleted, &reactions, &m.ReplyTo); err != nil {
			return nil, err
		}
		m.Edited = edited != 0
		m.Deleted = deleted != 0
		if err := json.Unmarshal([]byte(reactions), &m.Reactions); err != nil {
			m.Reactions = make(map[string][]string)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
