package engine

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/genricoloni/marqueed/internal/config"
	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/genricoloni/marqueed/internal/marquee"
	"github.com/genricoloni/marqueed/internal/systems"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
	"go.uber.org/fx"
)

var (
	defaultImage = filepath.FromSlash("/marquees/default.png")
	systemsDir   = filepath.FromSlash("/marquees/systems")
	gamesDir     = filepath.FromSlash("/marquees/games")
)

const (
	killCommand   = "kill-player"
	launchCommand = "launch-player"
)

func testConfig() *config.Config {
	return &config.Config{
		Settings: config.Settings{
			DefaultImagePath:        defaultImage,
			MarqueeImagePath:        gamesDir,
			MarqueeFilePath:         "{system_name}/{game_name}",
			MarqueeImagePathDefault: gamesDir,
			MarqueeFilePathDefault:  "{system_name}/default",
			SystemMarqueePath:       systemsDir,
			SystemFilePath:          "{system_name}",
			AcceptedFormats:         []string{"png", "jpg"},
			IPCChannel:              "pipe",
			MPVLaunchCommand:        launchCommand,
			MPVKillCommand:          killCommand,
		},
		Commands: config.Commands{
			domain.EventGameSelected: "show {marquee_file} on {IPCChannel}",
		},
	}
}

func showCommand(path string) string {
	return "show " + path + " on pipe"
}

func newResolver(t *testing.T, cfg *config.Config, files ...string) *marquee.Resolver {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range append(files, defaultImage) {
		if err := afero.WriteFile(fs, f, []byte("img"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", f, err)
		}
	}
	reg := systems.NewRegistry(map[string]string{"nes": "Nintendo Entertainment System"})
	return marquee.NewResolver(nopLogger, fs, cfg, reg)
}

// fakeSignalSource feeds events from a test
type fakeSignalSource struct {
	events   chan domain.SelectionEvent
	startErr error
	once     sync.Once
}

func newFakeSignalSource() *fakeSignalSource {
	return &fakeSignalSource{events: make(chan domain.SelectionEvent, 10)}
}

func (f *fakeSignalSource) Start(ctx context.Context) error { return f.startErr }

func (f *fakeSignalSource) Stop(ctx context.Context) error {
	f.once.Do(func() { close(f.events) })
	return nil
}

func (f *fakeSignalSource) Events() <-chan domain.SelectionEvent { return f.events }

// fakeKeySource feeds key presses from a test
type fakeKeySource struct {
	keys    chan domain.Key
	stopped atomic.Bool
	once    sync.Once
}

func newFakeKeySource() *fakeKeySource {
	return &fakeKeySource{keys: make(chan domain.Key, 10)}
}

func (f *fakeKeySource) Start(ctx context.Context) error { return nil }

func (f *fakeKeySource) Stop(ctx context.Context) error {
	f.stopped.Store(true)
	f.once.Do(func() { close(f.keys) })
	return nil
}

func (f *fakeKeySource) Keys() <-chan domain.Key { return f.keys }

// fakeShutdowner counts shutdown requests
type fakeShutdowner struct {
	calls atomic.Int32
	done  chan struct{}
}

func newFakeShutdowner() *fakeShutdowner {
	return &fakeShutdowner{done: make(chan struct{}, 1)}
}

func (f *fakeShutdowner) Shutdown(...fx.ShutdownOption) error {
	f.calls.Inc()
	select {
	case f.done <- struct{}{}:
	default:
	}
	return nil
}
