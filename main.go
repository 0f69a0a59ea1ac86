package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lanchat/archive"
	"lanchat/command"
	"lanchat/config"
	"lanchat/creds"
	"lanchat/protocol"
	"lanchat/reconcile"
	"lanchat/state"
	"lanchat/transport"
	"lanchat/ui"
	"lanchat/upload"
)

const roomRefreshInterval = 10 * time.Second

func main() {
	cfg := config.Load()

	// The terminal belongs to the UI; logs go to a file.
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err == nil {
		defer logFile.Close()
		log.Logger = zerolog.New(logFile).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	var arch *archive.Archive
	if cfg.ArchivePath != "" {
		arch, err = archive.Open(cfg.ArchivePath)
		if err != nil {
			log.Warn().Err(err).Msg("archive unavailable, continuing without cache")
			arch = nil
		} else {
			defer arch.Close()
		}
	}

	store := state.New()
	session := transport.New(cfg.ServerURL)
	encoder := command.New(session, store)
	uploader := upload.New(cfg.UploadURL)

	var archiver reconcile.Archiver
	if arch != nil {
		archiver = arch
	}
	reconciler := reconcile.New(store, archiver, encoder)
	reconciler.RefreshRoster = encoder.ListUsers
	reconciler.RefreshRooms = encoder.ListRooms

	app := ui.NewApp(store, encoder, uploader, cfg.Sound)
	reconciler.OnNotify = app.Beep

	// Saved login: seal once from the environment, then auto-login on
	// every connect.
	var savedUser, savedPass string
	if passphrase := os.Getenv("LANCHAT_PASSPHRASE"); cfg.CredsPath != "" && passphrase != "" {
		if user, pass := os.Getenv("LANCHAT_LOGIN_USER"), os.Getenv("LANCHAT_LOGIN_PASS"); user != "" && pass != "" {
			if err := creds.Save(cfg.CredsPath, user, pass, passphrase); err != nil {
				log.Warn().Err(err).Msg("saving login failed")
			}
		}
		if user, pass, err := creds.Load(cfg.CredsPath, passphrase); err == nil {
			savedUser, savedPass = user, pass
		}
	}

	session.OnEvent = func(raw []byte) {
		reconciler.Apply(protocol.Decode(raw))
	}
	session.OnReset = encoder.Reset
	session.OnState = func(s state.ConnState) {
		store.SetConnState(s)
		switch s {
		case state.Connected:
			store.AppendSystem("Connected to server. Set your name to start chatting.")
			encoder.ListRooms()
			if savedUser != "" {
				if err := encoder.Login(savedUser, savedPass); err != nil {
					log.Warn().Err(err).Msg("auto-login failed")
				}
			}
		case state.Disconnected:
			store.AppendSystem("Disconnected. Reconnecting...")
		}
	}

	// Replay the local cache before the first connect; the server's
	// history replay deduplicates against it by id.
	if arch != nil {
		if cached, err := arch.Load(state.DefaultRoom, 500); err == nil && len(cached) > 0 {
			items := make([]protocol.HistoryItem, 0, len(cached))
			for _, m := range cached {
				items = append(items, protocol.HistoryItem{
					ID:        m.ID,
					From:      m.From,
					Text:      m.Text,
					TS:        m.TS,
					Reactions: m.Reactions,
					Edited:    m.Edited,
					Deleted:   m.Deleted,
					ReplyTo:   m.ReplyTo,
				})
			}
			reconciler.Apply(protocol.Event{Type: protocol.TypeHistory, Items: items})
		}
	}

	session.Start()
	defer session.Close()

	// Periodic room summary refresh while connected.
	stopRefresh := make(chan struct{})
	defer close(stopRefresh)
	go func() {
		ticker := time.NewTicker(roomRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopRefresh:
				return
			case <-ticker.C:
				if session.IsConnected() {
					encoder.ListRooms()
				}
			}
		}
	}()

	if err := app.Run(); err != nil {
		log.Fatal().Err(err).Msg("ui failed")
	}
}
