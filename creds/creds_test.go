package creds

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.sealed")

	if err := Save(path, "alice", "s3cret", "passphrase"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %v", info.Mode().Perm())
	}

	name, password, err := Load(path, "passphrase")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if name != "alice" || password != "s3cret" {
		t.Errorf("Round trip mismatch: %q %q", name, password)
	}
}

func TestLoadWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.sealed")
	if err := Save(path, "alice", "s3cret", "right"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, _, err := Load(path, "wrong"); !errors.Is(err, ErrBadPassphrase) {
		t.Errorf("Expected ErrBadPassphrase, got %v", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.sealed")
	if err := os.WriteFile(path, []byte("too short"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, _, err := Load(path, "passphrase"); !errors.Is(err, ErrBadPassphrase) {
		t.Errorf("Expected ErrBadPassphrase, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope"), "passphrase"); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestCiphertextIsSalted(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.sealed")
	p2 := filepath.Join(dir, "b.sealed")
	if err := Save(p1, "alice", "s3cret", "passphrase"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Save(p2, "alice", "s3cret", "passphrase"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	b1, _ := os.ReadFile(p1)
	b2, _ := os.ReadFile(p2)
	if string(b1) == string(b2) {
		t.Error("Identical logins must not produce identical ciphertext")
	}
}
