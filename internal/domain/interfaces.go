package domain

import "context"

// SignalSource defines the interface for receiving frontend selection events.
// Implementations watch the signal file written by the frontend.
type SignalSource interface {
	// Start establishes the watch and returns once events can be delivered.
	// A failure to establish the watch is returned as an error.
	Start(ctx context.Context) error

	// Stop gracefully stops the source and closes the events channel
	Stop(ctx context.Context) error

	// Events returns a read-only channel of decoded selection events
	Events() <-chan SelectionEvent
}

// KeySource defines the interface for a global hotkey hook
type KeySource interface {
	// Start begins capturing key presses. Missing input devices are not an error.
	Start(ctx context.Context) error

	// Stop releases the input devices
	Stop(ctx context.Context) error

	// Keys returns a read-only channel of recognized key presses
	Keys() <-chan Key
}

// Resolver turns a marquee request into an image path.
// Resolution never fails: the global default image is the last resort.
type Resolver interface {
	Resolve(req MarqueeRequest) string
}

// Player drives the external marquee display process.
// All operations are best-effort: failures are logged, never returned.
type Player interface {
	// Launch kills any running instance and starts a new one
	Launch(ctx context.Context)

	// Kill stops the player
	Kill(ctx context.Context)

	// UpdateDisplay tells the running player to show imagePath
	UpdateDisplay(ctx context.Context, imagePath string)

	// Ping reports whether the player answers on its control channel
	Ping(ctx context.Context) error
}

// Generator builds a marquee image from the artwork of a game
//
//go:generate mockgen -destination=mocks/generator_mock.go -package=mocks github.com/genricoloni/marqueed/internal/domain Generator
type Generator interface {
	// Generate returns the path of the generated image
	Generate(ctx context.Context, system, game string) (string, error)
}

// Notifier raises desktop notifications
//
//go:generate mockgen -destination=mocks/notifier_mock.go -package=mocks github.com/genricoloni/marqueed/internal/domain Notifier
type Notifier interface {
	Notify(summary, body string) error
}

// Runner executes shell command lines.
//
//go:generate mockgen -destination=mocks/runner_mock.go -package=mocks github.com/genricoloni/marqueed/internal/domain Runner
type Runner interface {
	// Spawn starts the command detached and returns once it is running
	Spawn(ctx context.Context, command string) error

	// Run starts the command and waits for it; a non-zero exit is an error
	Run(ctx context.Context, command string) error
}
