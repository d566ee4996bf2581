package monitor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/genricoloni/marqueed/internal/config"
	"github.com/genricoloni/marqueed/internal/domain"
	"go.uber.org/zap"
)

// SignalWatcher watches the frontend signal file and emits one
// SelectionEvent per modification
type SignalWatcher struct {
	logger  *zap.Logger
	path    string
	events  chan domain.SelectionEvent
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	watcher *fsnotify.Watcher
	wg      sync.WaitGroup // Tracks the watch goroutine
}

// NewSignalWatcher creates a watcher for the configured signal file
func NewSignalWatcher(logger *zap.Logger, cfg *config.Config) *SignalWatcher {
	return NewSignalWatcherForPath(logger, cfg.Settings.SignalFile)
}

// NewSignalWatcherForPath creates a watcher for an explicit signal file
func NewSignalWatcherForPath(logger *zap.Logger, path string) *SignalWatcher {
	return &SignalWatcher{
		logger: logger,
		path:   filepath.Clean(path),
		events: make(chan domain.SelectionEvent, 10),
	}
}

// Start makes sure the signal file exists and subscribes to its changes.
// The parent directory is watched so a file replaced by rename is still seen.
// It returns once the watch is established; failing to establish it is an error.
func (m *SignalWatcher) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	if err := ensureFile(m.path); err != nil {
		return fmt.Errorf("failed to prepare signal file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		if cerr := watcher.Close(); cerr != nil {
			m.logger.Warn("Failed to close file watcher", zap.Error(cerr))
		}
		return fmt.Errorf("failed to watch %s: %w", m.path, err)
	}

	// The watch outlives the startup context, so it gets its own
	watchCtx, cancel := context.WithCancel(context.Background())
	m.watcher = watcher
	m.cancel = cancel
	m.running = true

	m.wg.Add(1)
	go m.watchLoop(watchCtx, watcher)

	m.logger.Info("Watching signal file", zap.String("path", m.path))
	return nil
}

// Stop gracefully stops the watcher and closes the events channel
func (m *SignalWatcher) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}

	m.cancel()
	m.running = false
	err := m.watcher.Close()
	m.mu.Unlock()

	// Wait for the producer before closing the channel it sends on
	m.wg.Wait()
	close(m.events)

	m.logger.Info("Signal watcher stopped")
	return err
}

// Events returns a read-only channel of decoded selection events
func (m *SignalWatcher) Events() <-chan domain.SelectionEvent {
	return m.events
}

// ensureFile creates an empty signal file if none exists
func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func (m *SignalWatcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != m.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			m.readSignal(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

// readSignal re-reads the whole signal file and emits its record
func (m *SignalWatcher) readSignal(ctx context.Context) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		m.logger.Warn("Failed to read signal file", zap.String("path", m.path), zap.Error(err))
		return
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		// The frontend truncates before writing; the follow-up write carries the record
		return
	}

	event, err := DecodeSignal(content)
	if err != nil {
		m.logger.Warn("Malformed signal record", zap.String("content", content), zap.Error(err))
	}

	m.logger.Debug("Signal received",
		zap.String("event", event.Name),
		zap.String("param1", event.Param1),
		zap.String("param2", event.Param2))

	select {
	case m.events <- event:
	case <-ctx.Done():
	}
}
