package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeMsg(t *testing.T) {
	raw := []byte(`{"type":"msg","id":"m1","from":"alice","text":"hi","ts":1000,"reactions":{"👍":["bob"]},"edited":true}`)
	ev := Decode(raw)

	if ev.Type != TypeMsg {
		t.Fatalf("Expected type %q, got %q", TypeMsg, ev.Type)
	}
	if ev.ID != "m1" || ev.From != "alice" || ev.Text != "hi" || ev.TS != 1000 {
		t.Errorf("Unexpected fields: %+v", ev)
	}
	if !ev.Edited {
		t.Error("Expected edited flag")
	}
	if users := ev.Reactions["👍"]; len(users) != 1 || users[0] != "bob" {
		t.Errorf("Unexpected reactions: %v", ev.Reactions)
	}
}

func TestDecodeMalformedFallsBackToSystem(t *testing.T) {
	raw := []byte("not json at all")
	ev := Decode(raw)

	if ev.Type != TypeSystem {
		t.Fatalf("Expected system fallback, got %q", ev.Type)
	}
	if ev.Text != "not json at all" {
		t.Errorf("Expected raw payload preserved, got %q", ev.Text)
	}
}

func TestDecodeMissingTypeFallsBackToSystem(t *testing.T) {
	raw := []byte(`{"text":"hello"}`)
	ev := Decode(raw)

	if ev.Type != TypeSystem {
		t.Fatalf("Expected system fallback, got %q", ev.Type)
	}
	if ev.Text != `{"text":"hello"}` {
		t.Errorf("Expected raw payload preserved, got %q", ev.Text)
	}
}

func TestDecodeHistory(t *testing.T) {
	raw := []byte(`{"type":"history","items":[{"id":"1","from":"a","text":"x","ts":1},{"id":"2","from":"b","text":"y","ts":2,"deleted":true}]}`)
	ev := Decode(raw)

	if len(ev.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(ev.Items))
	}
	if !ev.Items[1].Deleted {
		t.Error("Expected second item tombstoned")
	}
}

func TestEncodeTypingFalseKeepsField(t *testing.T) {
	payload := string(EncodeTyping(false))
	if !strings.Contains(payload, `"is_typing":false`) {
		t.Errorf("Expected explicit is_typing:false, got %s", payload)
	}
}

func TestEncodeCmd(t *testing.T) {
	var decoded map[string]string
	if err := json.Unmarshal(EncodeCmd("/join dev"), &decoded); err != nil {
		t.Fatalf("Failed to decode frame: %v", err)
	}
	if decoded["type"] != TypeCmd || decoded["cmd"] != "/join dev" {
		t.Errorf("Unexpected frame: %v", decoded)
	}
}

func TestEncodeReactOmitsEmptyCorrID(t *testing.T) {
	payload := string(EncodeReact("m1", "👍", ""))
	if strings.Contains(payload, "corr_id") {
		t.Errorf("Expected corr_id omitted, got %s", payload)
	}

	payload = string(EncodeReact("m1", "👍", "c-1"))
	if !strings.Contains(payload, `"corr_id":"c-1"`) {
		t.Errorf("Expected corr_id present, got %s", payload)
	}
}

func TestEncodeMarkRead(t *testing.T) {
	var decoded map[string]string
	if err := json.Unmarshal(EncodeMarkRead("m9"), &decoded); err != nil {
		t.Fatalf("Failed to decode frame: %v", err)
	}
	if decoded["type"] != TypeMarkRead || decoded["last_msg_id"] != "m9" {
		t.Errorf("Unexpected frame: %v", decoded)
	}
}
