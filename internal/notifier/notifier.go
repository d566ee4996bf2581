// Package notifier raises desktop notifications over the session bus.
package notifier

import (
	"fmt"
	"sync"

	"github.com/genricoloni/marqueed/internal/config"
	"go.uber.org/zap"
)

const (
	appName       = "marqueed"
	expireDefault = int32(-1)
)

// Dialer opens a D-Bus client
type Dialer func() (DBusClient, error)

// DesktopNotifier sends notifications when enabled in the configuration.
// The bus connection is opened on first use.
type DesktopNotifier struct {
	logger  *zap.Logger
	enabled bool
	dial    Dialer

	mu     sync.Mutex
	client DBusClient
}

// NewDesktopNotifier creates a notifier backed by the session bus
func NewDesktopNotifier(logger *zap.Logger, cfg *config.Config) *DesktopNotifier {
	return NewDesktopNotifierWithDialer(logger, cfg.Settings.DesktopNotifications, func() (DBusClient, error) {
		return NewStdDBusClient()
	})
}

// NewDesktopNotifierWithDialer creates a notifier with a custom bus dialer
func NewDesktopNotifierWithDialer(logger *zap.Logger, enabled bool, dial Dialer) *DesktopNotifier {
	return &DesktopNotifier{
		logger:  logger,
		enabled: enabled,
		dial:    dial,
	}
}

// Notify shows a notification. It does nothing when notifications are disabled.
func (n *DesktopNotifier) Notify(summary, body string) error {
	if !n.enabled {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.client == nil {
		client, err := n.dial()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		n.client = client
	}

	id, err := n.client.Notify(appName, summary, body, expireDefault)
	if err != nil {
		// Drop the connection so the next notification redials
		n.closeLocked()
		return fmt.Errorf("failed to send notification: %w", err)
	}

	n.logger.Debug("Notification sent", zap.Uint32("id", id), zap.String("summary", summary))
	return nil
}

// Close releases the bus connection if one was opened
func (n *DesktopNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closeLocked()
}

func (n *DesktopNotifier) closeLocked() error {
	if n.client == nil {
		return nil
	}
	err := n.client.Close()
	n.client = nil
	return err
}
