package notifier

import (
	"github.com/godbus/dbus/v5"
)

const (
	notificationsBusName    = "org.freedesktop.Notifications"
	notificationsObjectPath = "/org/freedesktop/Notifications"
	notifyMethod            = notificationsBusName + ".Notify"
)

// DBusClient defines the interface for the D-Bus operations the notifier needs.
// This abstraction allows us to mock D-Bus interactions in tests.
//
//go:generate mockgen -destination=mocks/dbus_client_mock.go -package=mocks github.com/genricoloni/marqueed/internal/notifier DBusClient
type DBusClient interface {
	// Close closes the D-Bus connection
	Close() error

	// Notify sends a desktop notification and returns its server-assigned id.
	// timeout is in milliseconds; -1 lets the server decide.
	Notify(appName, summary, body string, timeout int32) (uint32, error)
}

// StdDBusClient is the real implementation using godbus
type StdDBusClient struct {
	conn *dbus.Conn
}

// NewStdDBusClient creates a real D-Bus client connected to the session bus
func NewStdDBusClient() (*StdDBusClient, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &StdDBusClient{conn: conn}, nil
}

// Close closes the D-Bus connection
func (c *StdDBusClient) Close() error {
	return c.conn.Close()
}

// Notify calls org.freedesktop.Notifications.Notify
func (c *StdDBusClient) Notify(appName, summary, body string, timeout int32) (uint32, error) {
	var id uint32
	obj := c.conn.Object(notificationsBusName, dbus.ObjectPath(notificationsObjectPath))
	err := obj.Call(notifyMethod, 0,
		appName,
		uint32(0), // replaces_id
		"",        // app_icon
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{},
		timeout,
	).Store(&id)
	return id, err
}
