package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/genricoloni/marqueed/internal/domain"
	"go.uber.org/zap"
)

func startWatcher(t *testing.T, path string) *SignalWatcher {
	t.Helper()
	m := NewSignalWatcherForPath(zap.NewNop(), path)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	t.Cleanup(func() {
		_ = m.Stop(context.Background())
	})
	return m
}

func waitEvent(t *testing.T, events <-chan domain.SelectionEvent, want domain.SelectionEvent) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("events channel closed")
			}
			// Editors may deliver more than one write per update
			if ev == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %+v", want)
		}
	}
}

func TestSignalWatcher_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ESEvent.arg")
	m := startWatcher(t, path)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("signal file should have been created: %v", err)
	}

	// Creating the file is not an event
	select {
	case ev := <-m.Events():
		t.Errorf("unexpected event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSignalWatcher_EmitsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ESEvent.arg")
	m := startWatcher(t, path)

	if err := os.WriteFile(path, []byte("event=game-selected&param1=snes&param2=mario"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, m.Events(), domain.SelectionEvent{Name: "game-selected", Param1: "snes", Param2: "mario"})

	if err := os.WriteFile(path, []byte("event=system-selected&param1=arcade\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, m.Events(), domain.SelectionEvent{Name: "system-selected", Param1: "arcade"})
}

func TestSignalWatcher_EmitsOnRenameReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ESEvent.arg")
	m := startWatcher(t, path)

	tmp := filepath.Join(dir, "ESEvent.arg.tmp")
	if err := os.WriteFile(tmp, []byte("event=game-selected&param1=nes&param2=zelda"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, m.Events(), domain.SelectionEvent{Name: "game-selected", Param1: "nes", Param2: "zelda"})

	// The watch survives the replacement
	if err := os.WriteFile(path, []byte("event=system-selected&param1=snes"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, m.Events(), domain.SelectionEvent{Name: "system-selected", Param1: "snes"})
}

func TestSignalWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ESEvent.arg")
	m := startWatcher(t, path)

	if err := os.WriteFile(filepath.Join(dir, "other.arg"), []byte("event=system-selected&param1=nes"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-m.Events():
		t.Errorf("unexpected event %+v from a sibling file", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSignalWatcher_KeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ESEvent.arg")
	if err := os.WriteFile(path, []byte("event=system-selected&param1=nes"), 0o644); err != nil {
		t.Fatal(err)
	}

	startWatcher(t, path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "event=system-selected&param1=nes" {
		t.Errorf("existing signal file was modified: %q", data)
	}
}

func TestSignalWatcher_StartFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "ESEvent.arg")
	m := NewSignalWatcherForPath(zap.NewNop(), path)

	if err := m.Start(context.Background()); err == nil {
		t.Fatal("expected error when the signal file cannot be watched")
	}
}

func TestSignalWatcher_StopClosesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ESEvent.arg")
	m := NewSignalWatcherForPath(zap.NewNop(), path)
	if err := m.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}

	select {
	case _, ok := <-m.Events():
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("events channel not closed after stop")
	}

	// Second stop is a no-op
	if err := m.Stop(context.Background()); err != nil {
		t.Errorf("unexpected error on second stop: %v", err)
	}
}
