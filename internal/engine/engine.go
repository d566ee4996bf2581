// Package engine connects frontend selection events and hotkeys to the
// marquee player.
package engine

import (
	"context"
	"fmt"

	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/genricoloni/marqueed/internal/state"
	"go.uber.org/zap"
)

// Engine turns selection events into marquee updates.
// It launches the player, then resolves and displays a marquee per event.
type Engine struct {
	logger    *zap.Logger
	monitor   domain.SignalSource
	resolver  domain.Resolver
	player    domain.Player
	selection *state.Selection

	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	mon domain.SignalSource,
	resolver domain.Resolver,
	player domain.Player,
	selection *state.Selection,
) *Engine {
	return &Engine{
		logger:    logger,
		monitor:   mon,
		resolver:  resolver,
		player:    player,
		selection: selection,
	}
}

// Start launches the player and the event loop. It returns immediately (non-blocking).
// Failing to watch the signal file is fatal.
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting...")

	e.player.Launch(ctx)

	if err := e.monitor.Start(ctx); err != nil {
		e.player.Kill(ctx)
		return fmt.Errorf("failed to start signal watcher: %w", err)
	}

	// The loop lives until Stop, not until the startup context expires
	loopCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})

	go e.runLoop(loopCtx)
	return nil
}

func (e *Engine) runLoop(ctx context.Context) {
	defer close(e.done)
	events := e.monitor.Events()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return

		case ev, ok := <-events:
			if !ok {
				e.logger.Info("Signal events channel closed")
				return
			}
			e.handleEvent(ctx, ev)
		}
	}
}

// handleEvent resolves and displays the marquee for one selection event.
// A game selection is recorded before anything is displayed.
func (e *Engine) handleEvent(ctx context.Context, ev domain.SelectionEvent) {
	var req domain.MarqueeRequest

	switch ev.Name {
	case domain.EventSystemSelected:
		req = domain.SystemMarquee(ev.Param1)

	case domain.EventGameSelected:
		e.selection.Set(ev.Param1, ev.Param2)
		req = domain.GameMarquee(ev.Param1, ev.Param2)

	default:
		e.logger.Debug("Ignoring event", zap.String("event", ev.Name))
		return
	}

	path := e.resolver.Resolve(req)

	e.logger.Info("Updating marquee",
		zap.String("event", ev.Name),
		zap.String("system", req.System),
		zap.String("game", req.Game),
		zap.String("path", path))

	e.player.UpdateDisplay(ctx, path)
}

// Stop stops the signal watcher and the loop, then kills the player
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")

	if e.cancel != nil {
		e.cancel()
	}

	err := e.monitor.Stop(ctx)
	if err != nil {
		e.logger.Error("Failed to stop signal watcher", zap.Error(err))
	}

	if e.done != nil {
		select {
		case <-e.done:
		case <-ctx.Done():
			e.logger.Warn("Engine loop did not stop in time")
		}
	}

	e.player.Kill(ctx)
	return err
}
