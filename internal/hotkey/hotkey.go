// Package hotkey captures the global function-key presses that drive the agent.
package hotkey

import "github.com/genricoloni/marqueed/internal/domain"

// keyBuffer bounds the presses queued for a slow consumer; extra presses are dropped
const keyBuffer = 16

// Action describes what a key does, for logs
func Action(key domain.Key) string {
	switch key {
	case domain.KeyF6:
		return "cycle gradient"
	case domain.KeyF7:
		return "generate marquee"
	case domain.KeyF8:
		return "adjust fanart vertical alignment"
	case domain.KeyF9:
		return "cycle fanart vertical alignment"
	case domain.KeyF10:
		return "align logo left"
	case domain.KeyF11:
		return "align logo center"
	case domain.KeyF12:
		return "exit"
	default:
		return "none"
	}
}
