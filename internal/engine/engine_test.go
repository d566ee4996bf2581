package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/genricoloni/marqueed/internal/domain/mocks"
	"github.com/genricoloni/marqueed/internal/monitor"
	"github.com/genricoloni/marqueed/internal/player"
	"github.com/genricoloni/marqueed/internal/state"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var nopLogger = zap.NewNop()

func TestHandleEvent_GameSelectedUpdatesStateFirst(t *testing.T) {
	cfg := testConfig()
	gameFile := filepath.Join(gamesDir, "snes", "mario.png")

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	selection := state.NewSelection()

	runner.EXPECT().Run(gomock.Any(), showCommand(gameFile)).DoAndReturn(func(context.Context, string) error {
		sel, ok := selection.Current()
		if !ok || sel != (domain.GameSelection{System: "snes", Game: "mario"}) {
			t.Errorf("selection not recorded before display update: %+v, %v", sel, ok)
		}
		return nil
	})

	e := NewEngine(nopLogger, newFakeSignalSource(), newResolver(t, cfg, gameFile),
		player.NewPlayer(nopLogger, cfg, runner), selection)

	e.handleEvent(context.Background(), domain.SelectionEvent{
		Name:   domain.EventGameSelected,
		Param1: "snes",
		Param2: "mario",
	})
}

func TestHandleEvent_GameFallsThroughToMappedSystem(t *testing.T) {
	cfg := testConfig()
	systemFile := filepath.Join(systemsDir, "Nintendo Entertainment System.png")

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), showCommand(systemFile)).Return(nil)

	e := NewEngine(nopLogger, newFakeSignalSource(), newResolver(t, cfg, systemFile),
		player.NewPlayer(nopLogger, cfg, runner), state.NewSelection())

	ev, err := monitor.DecodeSignal("event=game-selected&param1=nes&param2=zelda1")
	if err != nil {
		t.Fatal(err)
	}
	e.handleEvent(context.Background(), ev)
}

func TestHandleEvent_UnknownSystemUsesDefault(t *testing.T) {
	cfg := testConfig()

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), showCommand(defaultImage)).Return(nil)

	selection := state.NewSelection()
	e := NewEngine(nopLogger, newFakeSignalSource(), newResolver(t, cfg),
		player.NewPlayer(nopLogger, cfg, runner), selection)

	ev, err := monitor.DecodeSignal("event=system-selected&param1=arcade")
	if err != nil {
		t.Fatal(err)
	}
	e.handleEvent(context.Background(), ev)

	if _, ok := selection.Current(); ok {
		t.Error("system selection must not change the selected game")
	}
}

func TestHandleEvent_Ignored(t *testing.T) {
	tests := []domain.SelectionEvent{
		{Name: "game-start", Param1: "snes", Param2: "mario"},
		{Name: "collection-selected", Param1: "favorites"},
		{},
	}

	for _, ev := range tests {
		t.Run(ev.Name, func(t *testing.T) {
			cfg := testConfig()
			ctrl := gomock.NewController(t)
			runner := mocks.NewMockRunner(ctrl) // no calls expected

			selection := state.NewSelection()
			e := NewEngine(nopLogger, newFakeSignalSource(), newResolver(t, cfg),
				player.NewPlayer(nopLogger, cfg, runner), selection)
			e.handleEvent(context.Background(), ev)

			if _, ok := selection.Current(); ok {
				t.Error("ignored event changed the selection")
			}
		})
	}
}

func TestHandleEvent_SystemSelectedWithoutUpdateCommand(t *testing.T) {
	cfg := testConfig()
	cfg.Commands = nil

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl) // display updates are disabled

	selection := state.NewSelection()
	e := NewEngine(nopLogger, newFakeSignalSource(), newResolver(t, cfg),
		player.NewPlayer(nopLogger, cfg, runner), selection)

	e.handleEvent(context.Background(), domain.SelectionEvent{Name: domain.EventSystemSelected, Param1: "nes"})
	e.handleEvent(context.Background(), domain.SelectionEvent{Name: domain.EventGameSelected, Param1: "nes", Param2: "zelda1"})

	if sel, ok := selection.Current(); !ok || sel.Game != "zelda1" {
		t.Errorf("game selection should still be recorded, got %+v", sel)
	}
}

func TestEngine_Lifecycle(t *testing.T) {
	cfg := testConfig()
	gameFile := filepath.Join(gamesDir, "snes", "mario.png")

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	updated := make(chan struct{})

	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), killCommand).Return(nil),
		runner.EXPECT().Spawn(gomock.Any(), launchCommand).Return(nil),
		runner.EXPECT().Run(gomock.Any(), showCommand(gameFile)).DoAndReturn(func(context.Context, string) error {
			close(updated)
			return nil
		}),
		runner.EXPECT().Run(gomock.Any(), killCommand).Return(nil),
	)

	source := newFakeSignalSource()
	p := player.NewPlayer(nopLogger, cfg, runner)
	e := NewEngine(nopLogger, source, newResolver(t, cfg, gameFile), p, state.NewSelection())

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	if !p.Running() {
		t.Error("player should be running after start")
	}

	source.events <- domain.SelectionEvent{Name: domain.EventGameSelected, Param1: "snes", Param2: "mario"}

	select {
	case <-updated:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not processed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.Stop(ctx); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}
	if p.Running() {
		t.Error("player should be stopped after engine stop")
	}
}

func TestEngine_StartFailsWithoutWatch(t *testing.T) {
	cfg := testConfig()

	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	gomock.InOrder(
		runner.EXPECT().Run(gomock.Any(), killCommand).Return(nil),
		runner.EXPECT().Spawn(gomock.Any(), launchCommand).Return(nil),
		// The launched player is not left behind
		runner.EXPECT().Run(gomock.Any(), killCommand).Return(nil),
	)

	source := newFakeSignalSource()
	source.startErr = errors.New("inotify limit reached")

	e := NewEngine(nopLogger, source, newResolver(t, cfg), player.NewPlayer(nopLogger, cfg, runner), state.NewSelection())
	if err := e.Start(context.Background()); err == nil {
		t.Fatal("expected start to fail when the signal file cannot be watched")
	}
}
