package engine

import (
	"context"
	"fmt"

	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/genricoloni/marqueed/internal/hotkey"
	"github.com/genricoloni/marqueed/internal/state"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Dispatcher maps hotkeys to actions: generate a marquee for the current
// game, or shut the agent down
type Dispatcher struct {
	logger     *zap.Logger
	keys       domain.KeySource
	selection  *state.Selection
	generator  domain.Generator
	player     domain.Player
	notifier   domain.Notifier
	shutdowner fx.Shutdowner

	cancel context.CancelFunc
	done   chan struct{}
}

// NewDispatcher creates a hotkey dispatcher
func NewDispatcher(
	logger *zap.Logger,
	keys domain.KeySource,
	selection *state.Selection,
	generator domain.Generator,
	player domain.Player,
	notifier domain.Notifier,
	shutdowner fx.Shutdowner,
) *Dispatcher {
	return &Dispatcher{
		logger:     logger,
		keys:       keys,
		selection:  selection,
		generator:  generator,
		player:     player,
		notifier:   notifier,
		shutdowner: shutdowner,
	}
}

// Start begins listening for hotkeys. It returns immediately (non-blocking).
func (d *Dispatcher) Start(ctx context.Context) error {
	if err := d.keys.Start(ctx); err != nil {
		return fmt.Errorf("failed to start hotkey source: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})

	go d.runLoop(loopCtx)
	return nil
}

func (d *Dispatcher) runLoop(ctx context.Context) {
	defer close(d.done)
	keys := d.keys.Keys()

	for {
		select {
		case <-ctx.Done():
			return

		case key, ok := <-keys:
			if !ok {
				return
			}
			if !d.handleKey(ctx, key) {
				return
			}
		}
	}
}

// handleKey runs the action bound to key and reports whether to keep listening
func (d *Dispatcher) handleKey(ctx context.Context, key domain.Key) bool {
	d.logger.Debug("Hotkey pressed", zap.Stringer("key", key), zap.String("action", hotkey.Action(key)))

	switch key {
	case domain.KeyGenerate:
		d.generate(ctx)

	case domain.KeyExit:
		d.logger.Info("Exit requested")
		if err := d.shutdowner.Shutdown(); err != nil {
			d.logger.Error("Failed to request shutdown", zap.Error(err))
		}
		return false

	default:
		d.logger.Info("Hotkey action not available yet",
			zap.Stringer("key", key),
			zap.String("action", hotkey.Action(key)))
	}
	return true
}

// generate builds a marquee for the current game and shows it
func (d *Dispatcher) generate(ctx context.Context) {
	sel, ok := d.selection.Current()
	if !ok {
		d.logger.Info("No game selected, nothing to generate")
		return
	}

	path, err := d.generator.Generate(ctx, sel.System, sel.Game)
	if err != nil {
		d.logger.Warn("Marquee generation failed",
			zap.String("system", sel.System),
			zap.String("game", sel.Game),
			zap.Error(err))
		d.notify("Marquee generation failed", err.Error())
		return
	}

	d.player.UpdateDisplay(ctx, path)
	d.notify("Marquee generated", sel.System+" / "+sel.Game)
}

func (d *Dispatcher) notify(summary, body string) {
	if err := d.notifier.Notify(summary, body); err != nil {
		d.logger.Debug("Notification not delivered", zap.Error(err))
	}
}

// Stop ends the loop and releases the hotkey source
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	if d.done != nil {
		select {
		case <-d.done:
		case <-ctx.Done():
			d.logger.Warn("Hotkey loop did not stop in time")
		}
	}

	return d.keys.Stop(ctx)
}
