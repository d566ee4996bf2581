//go:build windows
// +build windows

package hotkey

import (
	"context"
	"sync"
	"time"

	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/lxn/win"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

// pollInterval is how often the key states are sampled
const pollInterval = 50 * time.Millisecond

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

// Source samples the global state of the function keys
type Source struct {
	logger  *zap.Logger
	keys    chan domain.Key
	running atomic.Bool
	pressed func(vk int32) bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSource creates a key source backed by GetAsyncKeyState
func NewSource(logger *zap.Logger) *Source {
	return &Source{
		logger:  logger,
		keys:    make(chan domain.Key, keyBuffer),
		pressed: asyncKeyDown,
	}
}

// Start begins polling. A missing user32 entry point disables hotkeys
func (s *Source) Start(ctx context.Context) error {
	if s.running.Swap(true) {
		return nil
	}

	if err := procGetAsyncKeyState.Find(); err != nil {
		s.logger.Warn("GetAsyncKeyState unavailable, hotkeys disabled", zap.Error(err))
		s.pressed = func(int32) bool { return false }
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.pollLoop(loopCtx)

	s.logger.Info("Hotkeys enabled", zap.Duration("poll_interval", pollInterval))
	return nil
}

// Stop ends polling and closes the keys channel
func (s *Source) Stop(ctx context.Context) error {
	if !s.running.Swap(false) {
		return nil
	}

	s.cancel()
	s.wg.Wait()
	close(s.keys)

	s.logger.Info("Hotkey source stopped")
	return nil
}

// Keys returns a read-only channel of recognized key presses
func (s *Source) Keys() <-chan domain.Key {
	return s.keys
}

func (s *Source) pollLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var tracker keyTracker
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		for _, key := range tracker.sample(s.pressed) {
			select {
			case s.keys <- key:
			default:
				s.logger.Debug("Hotkey dropped, consumer busy", zap.Stringer("key", key))
			}
		}
	}
}

func asyncKeyDown(vk int32) bool {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return r&0x8000 != 0
}

var virtualKeys = []struct {
	vk  int32
	key domain.Key
}{
	{win.VK_F6, domain.KeyF6},
	{win.VK_F7, domain.KeyF7},
	{win.VK_F8, domain.KeyF8},
	{win.VK_F9, domain.KeyF9},
	{win.VK_F10, domain.KeyF10},
	{win.VK_F11, domain.KeyF11},
	{win.VK_F12, domain.KeyF12},
}

// keyTracker turns sampled key states into presses, one per down edge
type keyTracker struct {
	down [7]bool
}

func (t *keyTracker) sample(pressed func(vk int32) bool) []domain.Key {
	var keys []domain.Key
	for i, v := range virtualKeys {
		isDown := pressed(v.vk)
		if isDown && !t.down[i] {
			keys = append(keys, v.key)
		}
		t.down[i] = isDown
	}
	return keys
}
