package config

import (
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerURL   string // ws:// or wss:// endpoint
	UploadURL   string // http base for /upload; derived from ServerURL when unset
	ArchivePath string // local message cache; empty disables
	CredsPath   string // saved login file; empty disables
	LogPath     string
	LogLevel    string
	Sound       bool
}

// Load reads configuration from the environment, with a .env file as
// an optional lower layer.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerURL:   "ws://localhost:8080/ws",
		ArchivePath: "lanchat.db",
		LogPath:     "lanchat.log",
		LogLevel:    "info",
		Sound:       true,
	}

	if url := os.Getenv("LANCHAT_SERVER_URL"); url != "" {
		cfg.ServerURL = url
	}
	if url := os.Getenv("LANCHAT_UPLOAD_URL"); url != "" {
		cfg.UploadURL = url
	}
	if path, ok := os.LookupEnv("LANCHAT_ARCHIVE_PATH"); ok {
		cfg.ArchivePath = path // empty disables the archive
	}
	if path := os.Getenv("LANCHAT_CREDS_PATH"); path != "" {
		cfg.CredsPath = path
	}
	if path := os.Getenv("LANCHAT_LOG_PATH"); path != "" {
		cfg.LogPath = path
	}
	if level := os.Getenv("LANCHAT_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if sound := os.Getenv("LANCHAT_SOUND"); sound != "" {
		cfg.Sound = sound != "0" && !strings.EqualFold(sound, "false")
	}

	if cfg.UploadURL == "" {
		cfg.UploadURL = httpBase(cfg.ServerURL)
	}

	return cfg
}

// httpBase derives the HTTP origin from the WebSocket URL.
func httpBase(wsURL string) string {
	base := wsURL
	switch {
	case strings.HasPrefix(base, "wss://"):
		base = "https://" + strings.TrimPrefix(base, "wss://")
	case strings.HasPrefix(base, "ws://"):
		base = "http://" + strings.TrimPrefix(base, "ws://")
	}
	if u, err := url.Parse(base); err == nil {
		u.Path = ""
		base = u.String()
	}
	return base
}
