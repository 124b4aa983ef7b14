// Package main is the entry point for the chatprefs settings editor.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/billie-coop/chatprefs/internal/config"
	"github.com/billie-coop/chatprefs/internal/csync"
	applog "github.com/billie-coop/chatprefs/internal/log"
	"github.com/billie-coop/chatprefs/internal/settings"
	"github.com/billie-coop/chatprefs/internal/tui"
	"github.com/billie-coop/chatprefs/internal/tui/events"
	"github.com/billie-coop/chatprefs/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	baseDir, err := config.BaseDir()
	if err != nil {
		return err
	}

	cfgManager := config.NewManager(baseDir)
	if err := cfgManager.Load(); err != nil {
		return err
	}
	cfg := cfgManager.Get()

	logOutput := os.Stderr
	if path := cfgManager.LogPath(); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOutput = f
	}
	applog.Configure(applog.Config{Level: cfg.LogLevel, Output: logOutput})
	logger := applog.WithComponent("main")

	registry := csync.NewSet(settings.Keys(settings.DefaultSchema())...)
	store := settings.New(cfgManager.BaseDir(), registry)
	if err := store.Load(); err != nil {
		// keep going on defaults; the next save rewrites the file
		applog.Log(logger, "load settings", err)
	}

	broker := events.NewBroker(0)
	defer broker.Clear()
	model := tui.New(store, broker, tui.Options{
		Markdown:      cfg.PreviewMarkdown,
		MarkdownStyle: cfg.PreviewStyle,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WatchSettings {
		debounce := time.Duration(cfg.WatchDebounce) * time.Millisecond
		w, err := watcher.New(store.Path(), debounce, func() {
			p.Send(tui.SettingsFileChangedMsg{})
		})
		if err != nil {
			applog.Log(logger, "settings watcher disabled", err)
		} else {
			go w.Run(ctx)
		}
	}

	if _, err := p.Run(); err != nil {
		return err
	}

	if store.Dirty() {
		fmt.Fprintln(os.Stderr, "Unsaved setting changes were discarded.")
	}
	return nil
}
