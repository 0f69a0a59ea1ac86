package creds

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"os"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var ErrBadPassphrase = errors.New("wrong passphrase or corrupt credential file")

const saltSize = 16

type record struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// deriveKey stretches a passphrase with argon2id.
func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, chacha20poly1305.KeySize)
}

// Save seals the login under the passphrase and writes it to path.
// File layout: salt || nonce || ciphertext.
func Save(path, name, password, passphrase string) error {
	plain, err := json.Marshal(record{Name: name, Password: password})
	if err != nil {
		return err
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	blob := append(salt, aead.Seal(nonce, nonce, plain, nil)...)
	return os.WriteFile(path, blob, 0600)
}

// Load opens a saved login.
func Load(path, passphrase string) (name, password string, err error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	if len(blob) < saltSize {
		return "", "", ErrBadPassphrase
	}

	salt, rest := blob[:saltSize], blob[saltSize:]
	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return "", "", err
	}
	if len(rest) < aead.NonceSize() {
		return "", "", ErrBadPassphrase
	}

	nonce, cipher := rest[:aead.NonceSize()], rest[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, cipher, nil)
	if err != nil {
		return "", "", ErrBadPassphrase
	}

	var rec record
	if err := json.Unmarshal(plain, &rec); err != nil {
		return "", "", ErrBadPassphrase
	}
	return rec.Name, rec.Password, nil
}
