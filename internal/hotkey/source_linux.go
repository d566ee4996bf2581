//go:build linux
// +build linux

package hotkey

import (
	"context"
	"sync"
	"time"

	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/holoplot/go-evdev"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var keyCodes = map[evdev.EvCode]domain.Key{
	evdev.KEY_F6:  domain.KeyF6,
	evdev.KEY_F7:  domain.KeyF7,
	evdev.KEY_F8:  domain.KeyF8,
	evdev.KEY_F9:  domain.KeyF9,
	evdev.KEY_F10: domain.KeyF10,
	evdev.KEY_F11: domain.KeyF11,
	evdev.KEY_F12: domain.KeyF12,
}

// readerGrace bounds how long Stop waits for readers blocked in a read
const readerGrace = 500 * time.Millisecond

// eventReader is the part of an input device the reader loop needs
type eventReader interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Source reads key presses from every keyboard exposed under /dev/input
type Source struct {
	logger  *zap.Logger
	keys    chan domain.Key
	running atomic.Bool

	mu      sync.Mutex
	devices []eventReader
	wg      sync.WaitGroup // Tracks one reader per device
}

// NewSource creates an evdev-backed key source
func NewSource(logger *zap.Logger) *Source {
	return &Source{
		logger: logger,
		keys:   make(chan domain.Key, keyBuffer),
	}
}

// Start opens every input device that has function keys and starts reading.
// Having no readable device is logged; hotkeys are then simply unavailable.
func (s *Source) Start(ctx context.Context) error {
	if s.running.Swap(true) {
		return nil
	}

	paths, err := evdev.ListDevicePaths()
	if err != nil {
		s.logger.Warn("Failed to list input devices, hotkeys disabled", zap.Error(err))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			s.logger.Debug("Skipping input device", zap.String("path", p.Path), zap.Error(err))
			continue
		}

		if !hasFunctionKeys(dev) {
			_ = dev.Close()
			continue
		}

		s.track(dev, p.Name)

		s.logger.Debug("Listening for hotkeys", zap.String("device", p.Name), zap.String("path", p.Path))
	}

	if len(s.devices) == 0 {
		s.logger.Warn("No readable keyboard found, hotkeys disabled")
		return nil
	}

	s.logger.Info("Hotkeys enabled", zap.Int("devices", len(s.devices)))
	return nil
}

// track registers a device and starts its reader; s.mu must be held
func (s *Source) track(dev eventReader, name string) {
	s.devices = append(s.devices, dev)
	s.wg.Add(1)
	go s.readLoop(dev, name)
}

// Stop closes the devices and closes the keys channel once the readers exit.
// A reader stuck in a blocking read is abandoned after readerGrace or when
// ctx is done; it exits on its next event without sending.
func (s *Source) Stop(ctx context.Context) error {
	if !s.running.Swap(false) {
		return nil
	}

	s.mu.Lock()
	var err error
	for _, dev := range s.devices {
		err = multierr.Append(err, dev.Close())
	}
	s.devices = nil
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(s.keys)
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Hotkey source stopped")
	case <-time.After(readerGrace):
		s.logger.Warn("Input readers still blocked, abandoning them")
	case <-ctx.Done():
		s.logger.Warn("Hotkey source stop interrupted", zap.Error(ctx.Err()))
		err = multierr.Append(err, ctx.Err())
	}
	return err
}

// Keys returns a read-only channel of recognized key presses
func (s *Source) Keys() <-chan domain.Key {
	return s.keys
}

func hasFunctionKeys(dev *evdev.InputDevice) bool {
	for _, code := range dev.CapableEvents(evdev.EV_KEY) {
		if code == evdev.KEY_F12 {
			return true
		}
	}
	return false
}

// keyFor maps a key-down event to a hotkey
func keyFor(ev *evdev.InputEvent) (domain.Key, bool) {
	if ev.Type != evdev.EV_KEY || ev.Value != 1 {
		return 0, false
	}
	key, ok := keyCodes[ev.Code]
	return key, ok
}

func (s *Source) readLoop(dev eventReader, name string) {
	defer s.wg.Done()

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if s.running.Load() {
				s.logger.Warn("Input device read failed", zap.String("device", name), zap.Error(err))
			}
			return
		}

		if !s.running.Load() {
			return
		}

		key, ok := keyFor(ev)
		if !ok {
			continue
		}

		select {
		case s.keys <- key:
		default:
			s.logger.Debug("Hotkey dropped, consumer busy", zap.Stringer("key", key))
		}
	}
}
