// Package watcher notices outside edits to a single file.
//
// # Overview
//
// The settings file can be edited by hand or by another copy of the
// plugin while the editor is open. FileWatcher watches the file's
// directory with fsnotify, so atomic replace-by-rename saves are seen
// too, and collapses bursts of writes into one callback after a quiet
// period.
//
// # Threading
//
// The callback runs on the watcher's own goroutine. Callers that own
// single-threaded state (the settings store) should hand the signal to
// their own loop instead of touching that state directly; the TUI does
// this by sending a tea.Msg.
//
// # Usage
//
//	w, err := watcher.New(path, 300*time.Millisecond, func() {
//		program.Send(settingsFileChangedMsg{})
//	})
//	if err != nil {
//		return err
//	}
//	go w.Run(ctx)
package watcher
