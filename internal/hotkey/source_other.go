//go:build !linux && !windows
// +build !linux,!windows

package hotkey

import (
	"context"
	"runtime"
	"sync"

	"github.com/genricoloni/marqueed/internal/domain"
	"go.uber.org/zap"
)

// Source is a key source that never emits on platforms without a hook
type Source struct {
	logger *zap.Logger
	keys   chan domain.Key
	once   sync.Once
}

// NewSource creates a silent key source
func NewSource(logger *zap.Logger) *Source {
	return &Source{
		logger: logger,
		keys:   make(chan domain.Key, keyBuffer),
	}
}

// Start logs that hotkeys are unavailable
func (s *Source) Start(ctx context.Context) error {
	s.logger.Warn("Global hotkeys are not supported on this platform", zap.String("os", runtime.GOOS))
	return nil
}

// Stop closes the keys channel
func (s *Source) Stop(ctx context.Context) error {
	s.once.Do(func() { close(s.keys) })
	return nil
}

// Keys returns a channel that only closes on Stop
func (s *Source) Keys() <-chan domain.Key {
	return s.keys
}
