//go:build windows
// +build windows

package config

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// lookupRetroBatPath reads the install location RetroBat records for the current user
func lookupRetroBatPath() (string, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Software\RetroBat`, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("open RetroBat registry key: %w", err)
	}
	defer key.Close()

	path, _, err := key.GetStringValue("LatestKnownInstallPath")
	if err != nil {
		return "", fmt.Errorf("read LatestKnownInstallPath: %w", err)
	}
	return path, nil
}
