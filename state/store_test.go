package state

import (
	"fmt"
	"testing"
)

func seedMessages(s *Store, n int) {
	for i := 1; i <= n; i++ {
		s.AppendMessage(Message{
			ID:   fmt.Sprintf("m%d", i),
			From: "alice",
			Text: fmt.Sprintf("message %d", i),
			TS:   int64(1000 + i),
		})
	}
}

func TestAppendMessageDeduplicates(t *testing.T) {
	s := New()
	seedMessages(s, 3)

	// Re-deliver the same ids; the log must not grow.
	seedMessages(s, 3)
	if got := len(s.Messages()); got != 3 {
		t.Fatalf("Expected 3 messages after duplicate delivery, got %d", got)
	}
}

func TestAppendMessageLaterWriteWins(t *testing.T) {
	s := New()
	s.AppendMessage(Message{ID: "m1", From: "alice", Text: "first"})

	if appended := s.AppendMessage(Message{ID: "m1", From: "alice", Text: "revised", Edited: true}); appended {
		t.Error("Re-delivery must not append a new entry")
	}
	m, ok := s.Message("m1")
	if !ok {
		t.Fatal("Message m1 disappeared")
	}
	if m.Text != "revised" || !m.Edited {
		t.Errorf("Expected re-delivery to overwrite in place, got %+v", m)
	}
}

func TestReactionToggleRoundTrip(t *testing.T) {
	s := New()
	s.AppendMessage(Message{ID: "m1", From: "alice", Text: "hi"})

	if !s.ApplyReaction("m1", "👍", "bob", true) {
		t.Fatal("Adding a reaction failed")
	}
	m, _ := s.Message("m1")
	if users := m.Reactions["👍"]; len(users) != 1 || users[0] != "bob" {
		t.Fatalf("Expected bob under 👍, got %v", m.Reactions)
	}

	// Adding again is idempotent.
	s.ApplyReaction("m1", "👍", "bob", true)
	m, _ = s.Message("m1")
	if len(m.Reactions["👍"]) != 1 {
		t.Errorf("Expected no duplicate reactor, got %v", m.Reactions["👍"])
	}

	if !s.ApplyReaction("m1", "👍", "bob", false) {
		t.Fatal("Removing a reaction failed")
	}
	m, _ = s.Message("m1")
	if _, ok := m.Reactions["👍"]; ok {
		t.Errorf("Expected emoji key removed when empty, got %v", m.Reactions)
	}
}

func TestReactionOnUnknownMessage(t *testing.T) {
	s := New()
	if s.ApplyReaction("nope", "👍", "bob", true) {
		t.Error("Reaction on unknown id must report false")
	}
}

func TestDeleteIsTerminal(t *testing.T) {
	s := New()
	s.AppendMessage(Message{ID: "m1", From: "alice", Text: "secret"})
	s.ApplyReaction("m1", "👍", "bob", true)
	s.Pin("m1")

	if !s.ApplyDelete("m1") {
		t.Fatal("Delete failed")
	}
	m, ok := s.Message("m1")
	if !ok {
		t.Fatal("Tombstone must keep the id resolvable")
	}
	if !m.Deleted || m.Text != "" || len(m.Reactions) != 0 {
		t.Errorf("Expected cleared tombstone, got %+v", m)
	}
	if s.IsPinned("m1") {
		t.Error("Delete must unpin the message")
	}

	// Later writes must not resurrect it.
	if s.ApplyEdit("m1", "back from the dead") {
		t.Error("Edit after delete must be rejected")
	}
	if s.ApplyReaction("m1", "👍", "bob", true) {
		t.Error("Reaction after delete must be rejected")
	}
	s.AppendMessage(Message{ID: "m1", From: "alice", Text: "replayed"})
	m, _ = s.Message("m1")
	if !m.Deleted || m.Text != "" {
		t.Errorf("History replay must not resurrect a tombstone, got %+v", m)
	}
	if s.ApplyDelete("m1") {
		t.Error("Second delete must be a no-op")
	}
}

func TestRedeliveredTombstoneApplies(t *testing.T) {
	s := New()
	s.AppendMessage(Message{ID: "m1", From: "alice", Text: "cached"})
	s.ApplyReaction("m1", "👍", "bob", true)
	s.Pin("m1")

	// The server replays the id tombstoned, e.g. deleted while we were
	// offline showing the local cache.
	if appended := s.AppendMessage(Message{ID: "m1", From: "alice", Deleted: true}); appended {
		t.Error("Tombstone re-delivery must merge, not append")
	}

	m, ok := s.Message("m1")
	if !ok {
		t.Fatal("Tombstone must keep the id resolvable")
	}
	if !m.Deleted || m.Text != "" || len(m.Reactions) != 0 {
		t.Errorf("Replayed tombstone not applied, got %+v", m)
	}
	if s.IsPinned("m1") {
		t.Error("Tombstone must unpin the message")
	}
	if s.ApplyReaction("m1", "🔥", "carol", true) {
		t.Error("Reaction after replayed tombstone must be rejected")
	}
}

func TestEmptyState(t *testing.T) {
	s := New()
	s.MarkEmpty()
	if !s.EmptyState() {
		t.Fatal("Expected empty state after MarkEmpty on a fresh room")
	}

	s.AppendMessage(Message{ID: "m1", From: "alice", Text: "hello"})
	if s.EmptyState() {
		t.Error("First message must clear the empty state")
	}

	// MarkEmpty after real messages is ignored.
	s.MarkEmpty()
	if s.EmptyState() {
		t.Error("MarkEmpty must not take effect on a non-empty log")
	}
}

func TestRoomsForDisplayOrdering(t *testing.T) {
	s := New()
	s.SetRoom("dev")
	s.SetRooms([]RoomSummary{
		{Name: "lobby", Members: 10},
		{Name: "dev", Members: 2},
		{Name: "random", Members: 5},
		{Name: "quiet", Members: 1},
	})

	got := s.RoomsForDisplay()
	want := []string{"dev", "lobby", "random", "quiet"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("Expected order %v, got %+v", want, got)
		}
	}
}

func TestRoomSwitchKeepsLogs(t *testing.T) {
	s := New()
	s.AppendMessage(Message{ID: "l1", From: "alice", Text: "lobby talk"})
	s.SetTyping([]string{"bob"})

	s.SetRoom("dev")
	if got := len(s.Messages()); got != 0 {
		t.Fatalf("Expected empty log in fresh room, got %d entries", got)
	}
	if len(s.TypingOthers()) != 0 {
		t.Error("Room switch must reset the typing set")
	}
	s.AppendMessage(Message{ID: "d1", From: "bob", Text: "dev talk"})

	s.SetRoom(DefaultRoom)
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].ID != "l1" {
		t.Errorf("Expected previous room log preserved, got %+v", msgs)
	}
	if s.LastMsgID() != "l1" {
		t.Errorf("Expected last message id recomputed on switch, got %q", s.LastMsgID())
	}
}

func TestTypingExcludesSelf(t *testing.T) {
	s := New()
	s.SetIdentity("alice")
	s.SetTyping([]string{"alice", "bob", "carol"})

	got := s.TypingOthers()
	if len(got) != 2 || got[0] != "bob" || got[1] != "carol" {
		t.Errorf("Expected self excluded from typing set, got %v", got)
	}
}

func TestPresenceDefaultsToActive(t *testing.T) {
	s := New()
	if s.Presence("stranger") != StatusActive {
		t.Error("Unknown users must read as active")
	}
	s.SetPresence("bob", StatusIdle)
	if s.Presence("bob") != StatusIdle {
		t.Error("Expected idle after upsert")
	}
}

func TestUnreadGatedOnFocus(t *testing.T) {
	s := New()
	if s.IncrementUnread() {
		t.Error("Unread must not grow while focused")
	}

	s.SetFocused(false)
	s.IncrementUnread()
	s.IncrementUnread()
	if s.Unread() != 2 {
		t.Fatalf("Expected 2 unread, got %d", s.Unread())
	}

	s.SetFocused(true)
	if s.Unread() != 0 {
		t.Errorf("Expected unread cleared on focus, got %d", s.Unread())
	}
}

func TestSearch(t *testing.T) {
	s := New()
	s.AppendMessage(Message{ID: "m1", From: "alice", Text: "Deploy finished"})
	s.AppendMessage(Message{ID: "m2", From: "bob", Text: "lunch?"})
	s.AppendMessage(Message{ID: "m3", From: "carol", Text: "redeploy please"})
	s.AppendSystem("bob joined the room")
	s.ApplyDelete("m3")

	got := s.Search("deploy")
	if len(got) != 1 || got[0].ID != "m1" {
		t.Errorf("Expected only m1 (tombstones skipped), got %+v", got)
	}

	// Author matches count too; system notices never do.
	if got := s.Search("bob"); len(got) != 1 || got[0].ID != "m2" {
		t.Errorf("Expected author match on m2 only, got %+v", got)
	}

	if got := s.Search("  "); got != nil {
		t.Errorf("Blank query must return nothing, got %+v", got)
	}
}

func TestSubscribeNotifies(t *testing.T) {
	s := New()
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	s.AppendMessage(Message{ID: "m1", From: "alice", Text: "hi"})
	if len(changes) != 1 || changes[0] != ChangeMessages {
		t.Fatalf("Expected one ChangeMessages, got %v", changes)
	}

	// Exact duplicate delivery must not renotify.
	changes = nil
	s.AppendMessage(Message{ID: "m1", From: "alice", Text: "hi"})
	if len(changes) != 0 {
		t.Errorf("No-op duplicate must not notify, got %v", changes)
	}
}

func TestMessagesReturnsCopies(t *testing.T) {
	s := New()
	s.AppendMessage(Message{ID: "m1", From: "alice", Text: "hi"})
	s.ApplyReaction("m1", "👍", "bob", true)

	m, _ := s.Message("m1")
	m.Reactions["👍"] = append(m.Reactions["👍"], "mallory")

	fresh, _ := s.Message("m1")
	if len(fresh.Reactions["👍"]) != 1 {
		t.Error("Mutating a returned copy must not affect the store")
	}
}
