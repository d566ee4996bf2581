//go:build !windows
// +build !windows

package config

import "errors"

// lookupRetroBatPath is only meaningful on Windows
func lookupRetroBatPath() (string, error) {
	return "", errors.New("RetroBat registry lookup is only available on Windows")
}
